//go:build !noebiten

package smoothink

import (
	"context"

	"github.com/opd-ai/go-smoothink/internal/render"
)

// runWindow presents the canvas in an Ebiten window until the window is
// closed or ctx is cancelled.
func (s *Scene) runWindow(ctx context.Context) error {
	s.mu.Lock()
	game := render.NewGame(renderConfig(s.cfg, s.opts), s.canvas)
	game.SetContext(ctx)
	game.SetStatsFunc(func() []string { return s.canvas.Stats().Lines() })
	game.SetErrorHandler(func(err error) {
		s.notifyError(categorize(err, ErrorCategoryRender, SeverityError))
	})
	s.game = game
	s.mu.Unlock()

	err := game.Run()
	if isTerminated(err) {
		return nil
	}
	return err
}
