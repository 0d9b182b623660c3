package stroke

import "github.com/opd-ai/go-smoothink/internal/geom"

// DefaultMinSpacing is the minimum distance between consecutive raw samples
// accepted by Extend.
const DefaultMinSpacing = 1.5

// Buffer holds the raw samples of the active stroke. It is written by input
// handlers and drained by Smooth on the render pass; both run on the host's
// frame goroutine so Buffer does no locking.
type Buffer struct {
	points     []Point
	minSpacing float64
	finishing  bool
}

// NewBuffer creates an empty Buffer that rejects samples closer than
// minSpacing to the previous one. A non-positive value selects
// DefaultMinSpacing.
func NewBuffer(minSpacing float64) *Buffer {
	if minSpacing <= 0 {
		minSpacing = DefaultMinSpacing
	}
	return &Buffer{
		points:     make([]Point, 0, 16),
		minSpacing: minSpacing,
	}
}

// MinSpacing returns the near-duplicate rejection distance.
func (b *Buffer) MinSpacing() float64 {
	return b.minSpacing
}

// SetMinSpacing changes the rejection distance for subsequent samples.
func (b *Buffer) SetMinSpacing(d float64) {
	if d > 0 {
		b.minSpacing = d
	}
}

// Begin discards any previous samples and starts a new stroke at pos.
func (b *Buffer) Begin(pos geom.Vec2, width float64) {
	b.points = b.points[:0]
	b.finishing = false
	b.Add(pos, width)
}

// Extend appends pos unless it lies within MinSpacing of the last sample.
// It reports whether the sample was kept.
func (b *Buffer) Extend(pos geom.Vec2, width float64) bool {
	if n := len(b.points); n > 0 && b.points[n-1].Pos.Dist(pos) < b.minSpacing {
		return false
	}
	b.Add(pos, width)
	return true
}

// Add appends a sample without the spacing check.
func (b *Buffer) Add(pos geom.Vec2, width float64) {
	b.points = append(b.points, Point{Pos: pos, Width: width})
}

// End appends the final sample and flags that the next triangulation pass
// must close the stroke with a cap.
func (b *Buffer) End(pos geom.Vec2, width float64) {
	b.Add(pos, width)
	b.finishing = true
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int {
	return len(b.points)
}

// Points returns a copy of the buffered samples.
func (b *Buffer) Points() []Point {
	out := make([]Point, len(b.points))
	copy(out, b.points)
	return out
}

// Finishing reports whether the stroke has ended but its cap is still owed.
func (b *Buffer) Finishing() bool {
	return b.finishing
}

// Smooth converts the buffered samples into a dense curve and retires all
// but the last two samples, which seed the next frame's first triple.
// It returns nil, leaving the buffer untouched, when fewer than three
// samples are available.
func (b *Buffer) Smooth() []Point {
	if len(b.points) < 3 {
		return nil
	}
	dense := Smooth(b.points)
	n := copy(b.points, b.points[len(b.points)-2:])
	b.points = b.points[:n]
	return dense
}
