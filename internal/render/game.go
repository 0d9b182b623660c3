// Package render submits stroke geometry to Ebiten and hosts the window
// loop. A Compositor pushes each stroke.Frame into an accumulating Surface;
// Game polls pointer input, forwards it to a Drawable and presents the
// accumulated image every frame.
package render

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const statsPadding = 4.0

// statsBackdrop keeps the overlay readable over dark ink.
var statsBackdrop = color.RGBA{R: 255, G: 255, B: 255, A: 192}

// ErrGameTerminated is returned when the game loop is terminated via context cancellation.
var ErrGameTerminated = errors.New("game terminated")

// ErrorHandler receives non-fatal errors raised while drawing.
type ErrorHandler func(err error)

// DefaultErrorHandler writes errors to stderr.
func DefaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "draw error: %v\n", err)
}

// Drawable is the content a Game presents. Init runs once before the first
// frame; Draw runs once per frame and renders into Image.
type Drawable interface {
	PointerHandler
	Init() error
	Draw() error
	Image() *ebiten.Image
}

// StatsFunc returns extra lines for the stats overlay.
type StatsFunc func() []string

// Game implements ebiten.Game around a single Drawable.
type Game struct {
	config       Config
	drawable     Drawable
	text         TextDrawer
	stats        StatsFunc
	metrics      *FrameMetrics
	errorHandler ErrorHandler

	poll        func([]PointerEvent) []PointerEvent
	events      []PointerEvent
	initialized bool
	lastDraw    time.Time

	mu      sync.RWMutex
	running bool
	ctx     context.Context
}

// NewGame creates a Game presenting d.
func NewGame(config Config, d Drawable) *Game {
	return NewGameWithText(config, d, NewOverlay(config.StatsFontSize))
}

// NewGameWithText creates a Game with a custom overlay text drawer.
func NewGameWithText(config Config, d Drawable, td TextDrawer) *Game {
	return &Game{
		config:       config,
		drawable:     d,
		text:         td,
		metrics:      NewFrameMetrics(time.Second),
		errorHandler: DefaultErrorHandler,
		poll:         NewPointerTracker().Poll,
	}
}

// SetErrorHandler sets the handler for draw errors. nil drops them.
func (g *Game) SetErrorHandler(handler ErrorHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorHandler = handler
}

// SetStatsFunc sets the source of extra overlay lines.
func (g *Game) SetStatsFunc(f StatsFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stats = f
}

// SetContext sets a context for the game loop. When the context is cancelled,
// the game loop will terminate gracefully.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// Metrics returns the frame timing metrics.
func (g *Game) Metrics() *FrameMetrics {
	return g.metrics
}

// Update implements ebiten.Game.Update. It initializes the drawable on the
// first tick and forwards the tick's pointer events to it.
func (g *Game) Update() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			return ErrGameTerminated
		default:
		}
	}

	if !g.initialized {
		if err := g.drawable.Init(); err != nil {
			return fmt.Errorf("initialize canvas: %w", err)
		}
		g.initialized = true
	}

	g.events = g.poll(g.events[:0])
	for _, ev := range g.events {
		Dispatch(g.drawable, ev)
	}
	return nil
}

// Draw implements ebiten.Game.Draw. It runs the drawable's frame pass,
// copies the accumulated image to the screen and draws the overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if !g.lastDraw.IsZero() {
		g.metrics.RecordFrame(now.Sub(g.lastDraw))
	}
	g.lastDraw = now

	if !g.initialized {
		screen.Fill(g.config.Background)
		return
	}

	if err := g.drawable.Draw(); err != nil && g.errorHandler != nil {
		g.errorHandler(err)
	}
	screen.DrawImage(g.drawable.Image(), nil)

	if g.config.ShowStats && g.text != nil {
		g.drawStats(screen)
	}
}

func (g *Game) drawStats(screen *ebiten.Image) {
	lines := []string{g.metrics.Summary()}
	if g.stats != nil {
		lines = append(lines, g.stats()...)
	}

	var width float64
	for _, line := range lines {
		if w, _ := g.text.MeasureText(line); w > width {
			width = w
		}
	}
	lh := g.text.LineHeight()
	vector.DrawFilledRect(screen, 0, 0, float32(width+2*statsPadding), float32(lh*float64(len(lines))+2*statsPadding), statsBackdrop, false)

	y := statsPadding
	for _, line := range lines {
		g.text.DrawText(screen, line, statsPadding, y, g.config.StatsColor)
		y += lh
	}
}

// Layout implements ebiten.Game.Layout. The logical screen always matches
// the accumulation surface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.Width, g.config.Height
}

// Config returns the current configuration.
func (g *Game) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig replaces the presentation options. Size changes only apply to
// the window; the accumulation surface keeps its size.
func (g *Game) SetConfig(config Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config = config
}

// Run starts the Ebiten game loop.
// This function blocks until the window is closed.
func (g *Game) Run() error {
	cfg := g.Config()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid window configuration: %w", err)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetTPS(cfg.TPS)

	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	err := ebiten.RunGame(g)

	g.mu.Lock()
	g.running = false
	g.mu.Unlock()

	if errors.Is(err, ErrGameTerminated) {
		return nil
	}
	return err
}

// IsRunning returns whether the game loop is currently running.
func (g *Game) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}
