package smoothink

import (
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-smoothink/internal/geom"
	"github.com/opd-ai/go-smoothink/internal/render"
	"github.com/opd-ai/go-smoothink/internal/stroke"
)

// Brush holds the stroke parameters. Zero sizes fall back to the defaults;
// the color is used as given.
type Brush struct {
	// Width is the full stroke width in pixels.
	Width float64
	// Overdraw is the antialiasing skirt width in pixels.
	Overdraw float64
	// MinSpacing is the distance under which a new sample is dropped.
	MinSpacing float64
	// Color is the ink color.
	Color color.RGBA
}

func (b Brush) toStroke() stroke.Brush {
	return stroke.Brush{
		Width:      b.Width,
		Overdraw:   b.Overdraw,
		MinSpacing: b.MinSpacing,
		Color:      stroke.ColorFromRGBA(b.Color),
	}
}

// CanvasStats is a snapshot of the canvas pipeline counters.
type CanvasStats struct {
	Strokes   int64
	Accepted  int64
	Rejected  int64
	Frames    int64
	Skipped   int64
	Segments  int64
	Caps      int64
	Triangles int64
	// DrawCalls and Vertices count submissions to the Ebiten image; both
	// stay zero for other surfaces.
	DrawCalls int64
	Vertices  int64
}

// Lines renders the stats for the overlay.
func (s CanvasStats) Lines() []string {
	return []string{
		fmt.Sprintf("strokes %d  samples %d (%d dropped)", s.Strokes, s.Accepted, s.Rejected),
		fmt.Sprintf("segments %d  caps %d  triangles %d", s.Segments, s.Caps, s.Triangles),
		fmt.Sprintf("draw calls %d  vertices %d", s.DrawCalls, s.Vertices),
	}
}

// Canvas is a drawing surface fed by pointer events. It implements
// render.Drawable. Pointer events and Draw normally arrive on the window
// loop goroutine; SetBrush may be called from any goroutine.
type Canvas struct {
	mu         sync.Mutex
	pen        *stroke.Pen
	surface    render.Surface
	compositor *render.Compositor
	metrics    *Metrics
}

var _ render.Drawable = (*Canvas)(nil)

// NewCanvas creates a width x height canvas backed by an off-screen Ebiten
// image. The canvas is cleared to background by Init.
func NewCanvas(width, height int, brush Brush, background color.RGBA) *Canvas {
	return newCanvas(render.NewImageSurface(width, height), brush, background)
}

func newCanvas(surface render.Surface, brush Brush, background color.RGBA) *Canvas {
	return &Canvas{
		pen:        stroke.NewPen(brush.toStroke()),
		surface:    surface,
		compositor: render.NewCompositor(surface, background),
	}
}

// SetMetrics attaches a metrics collector updated on every frame.
func (c *Canvas) SetMetrics(m *Metrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = m
}

// Init clears the canvas to its background color.
func (c *Canvas) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compositor.Reset()
}

// Draw runs one smoothing pass over the samples gathered since the last
// call and composites the result onto the canvas.
func (c *Canvas) Draw() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	f := c.pen.Frame()
	err := c.compositor.Compose(f)

	if c.metrics != nil {
		c.metrics.RecordFrame(f.Triangles(), f.Empty(), time.Since(start))
		c.metrics.SetPenStats(c.pen.Stats())
		if err != nil {
			c.metrics.IncrementErrors()
		}
	}
	if err != nil {
		return fmt.Errorf("compose frame: %w", err)
	}
	return nil
}

// Image returns the accumulated drawing, or nil when the canvas is not
// backed by an Ebiten image.
func (c *Canvas) Image() *ebiten.Image {
	if s, ok := c.surface.(*render.ImageSurface); ok {
		return s.Image()
	}
	return nil
}

// PointerDown starts a stroke. The press point is recorded twice so the
// start cap sits exactly on it.
func (c *Canvas) PointerDown(pos geom.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pen.BeginStroke(pos)
	c.pen.Anchor(pos)
}

// PointerMove extends the active stroke. Moves without a press are ignored.
func (c *Canvas) PointerMove(pos geom.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pen.Active() {
		c.pen.ExtendStroke(pos)
	}
}

// PointerUp finishes the active stroke at pos.
func (c *Canvas) PointerUp(pos geom.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pen.Active() {
		return
	}
	c.pen.ExtendStroke(pos)
	c.pen.EndStroke(pos)
}

// Press starts a stroke at (x, y).
func (c *Canvas) Press(x, y float64) { c.PointerDown(geom.V(x, y)) }

// Drag extends the active stroke to (x, y).
func (c *Canvas) Drag(x, y float64) { c.PointerMove(geom.V(x, y)) }

// Release finishes the active stroke at (x, y).
func (c *Canvas) Release(x, y float64) { c.PointerUp(geom.V(x, y)) }

// Drawing reports whether a stroke is in progress.
func (c *Canvas) Drawing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pen.Active()
}

// SetBrush applies b from the next sample onward. Ink already on the canvas
// is unchanged.
func (c *Canvas) SetBrush(b Brush) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pen.SetBrush(b.toStroke())
}

// Brush returns the current brush after defaults are applied.
func (c *Canvas) Brush() Brush {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.pen.Brush()
	return Brush{
		Width:      b.Width,
		Overdraw:   b.Overdraw,
		MinSpacing: b.MinSpacing,
		Color:      b.Color.ToRGBA(),
	}
}

// SetBackground changes the color used by the next Init.
func (c *Canvas) SetBackground(bg color.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.compositor.SetBackground(bg)
}

// Stats returns the pipeline counters.
func (c *Canvas) Stats() CanvasStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	ps := c.pen.Stats()
	cs := c.compositor.Stats()
	st := CanvasStats{
		Strokes:   ps.Strokes,
		Accepted:  ps.Accepted,
		Rejected:  ps.Rejected,
		Frames:    cs.Frames,
		Skipped:   cs.Skipped,
		Segments:  ps.Segments,
		Caps:      ps.Caps,
		Triangles: cs.Triangles,
	}
	if is, ok := c.surface.(*render.ImageSurface); ok {
		st.DrawCalls, st.Vertices = is.Stats().Stats()
	}
	return st
}
