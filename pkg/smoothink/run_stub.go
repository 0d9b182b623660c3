//go:build noebiten

package smoothink

import "context"

// runWindow has no window in noebiten builds; it waits for ctx like a
// headless scene.
func (s *Scene) runWindow(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
