package render

import (
	"errors"
	"fmt"
	"image/color"
	"sync/atomic"

	"github.com/opd-ai/go-smoothink/internal/stroke"
)

// Compositor submits stroke frames to an accumulating Surface. The surface
// is cleared once per session by Reset; every later frame draws on top of
// what is already there.
type Compositor struct {
	surface    Surface
	background color.RGBA

	frames    atomic.Int64
	skipped   atomic.Int64
	triangles atomic.Int64
}

// NewCompositor creates a Compositor drawing into surface. background is the
// color Reset fills the surface with.
func NewCompositor(surface Surface, background color.RGBA) *Compositor {
	return &Compositor{
		surface:    surface,
		background: background,
	}
}

// Background returns the clear color.
func (c *Compositor) Background() color.RGBA {
	return c.background
}

// SetBackground changes the clear color used by the next Reset.
func (c *Compositor) SetBackground(bg color.RGBA) {
	c.background = bg
}

// Reset wipes the accumulated drawing.
func (c *Compositor) Reset() error {
	if err := c.surface.Begin(); err != nil {
		return fmt.Errorf("begin reset pass: %w", err)
	}
	c.surface.Clear(c.background)
	if err := c.surface.End(); err != nil {
		return fmt.Errorf("end reset pass: %w", err)
	}
	return nil
}

// Compose draws f on top of the accumulated drawing: the ribbon first, then
// each cap in recorded order. Empty frames are skipped without opening a
// pass. The pass is always ended, even when a draw fails.
func (c *Compositor) Compose(f stroke.Frame) (err error) {
	if f.Empty() {
		c.skipped.Add(1)
		return nil
	}

	if err := c.surface.Begin(); err != nil {
		return fmt.Errorf("begin pass: %w", err)
	}
	defer func() {
		if endErr := c.surface.End(); endErr != nil {
			err = errors.Join(err, fmt.Errorf("end pass: %w", endErr))
		}
	}()

	c.surface.SetBlend(InkBlend)

	if len(f.Ribbon) > 0 {
		if err := c.surface.DrawTriangles(f.Ribbon); err != nil {
			return fmt.Errorf("draw ribbon: %w", err)
		}
	}
	for i, capVerts := range f.Caps {
		if err := c.surface.DrawTriangles(capVerts); err != nil {
			return fmt.Errorf("draw cap %d: %w", i, err)
		}
	}

	c.frames.Add(1)
	c.triangles.Add(int64(f.Triangles()))
	return nil
}

// CompositorStats are cumulative submission counters.
type CompositorStats struct {
	Frames    int64
	Skipped   int64
	Triangles int64
}

// Stats returns the cumulative counters.
func (c *Compositor) Stats() CompositorStats {
	return CompositorStats{
		Frames:    c.frames.Load(),
		Skipped:   c.skipped.Load(),
		Triangles: c.triangles.Load(),
	}
}
