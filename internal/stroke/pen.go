package stroke

import "github.com/opd-ai/go-smoothink/internal/geom"

// DefaultWidth is the default stroke width in pixels.
const DefaultWidth = 20.0

// Brush holds the per-stroke drawing parameters.
type Brush struct {
	// Width is the full stroke width applied to every sample.
	Width float64
	// Overdraw is the antialiasing skirt width.
	Overdraw float64
	// MinSpacing is the near-duplicate rejection distance.
	MinSpacing float64
	// Color is the ink color.
	Color Color
}

// DefaultBrush returns blue ink, 20px wide, with a 3px skirt.
func DefaultBrush() Brush {
	return Brush{
		Width:      DefaultWidth,
		Overdraw:   DefaultOverdraw,
		MinSpacing: DefaultMinSpacing,
		Color:      Color{R: 0, G: 0, B: 1, A: 1},
	}
}

// Frame is the geometry produced by one pass of the pipeline.
type Frame struct {
	// Ribbon is the colored ribbon triangle list.
	Ribbon []Vertex
	// Caps holds one triangle list per recorded join.
	Caps [][]Vertex
	// Joins are the joins the caps were built from.
	Joins []Join
	// Dense is the number of smoothed points the ribbon was built from.
	Dense int
}

// Empty reports whether the frame has nothing to draw.
func (f Frame) Empty() bool {
	return len(f.Ribbon) == 0 && len(f.Caps) == 0
}

// Triangles returns the total triangle count of the frame.
func (f Frame) Triangles() int {
	n := len(f.Ribbon)
	for _, c := range f.Caps {
		n += len(c)
	}
	return n / 3
}

// Stats are cumulative pipeline counters.
type Stats struct {
	Strokes  int64
	Accepted int64
	Rejected int64
	Frames   int64
	Segments int64
	Caps     int64
}

// Pen drives the whole pipeline for a single active stroke.
type Pen struct {
	brush  Brush
	buf    *Buffer
	cont   Continuity
	tri    *Triangulator
	stats  Stats
	active bool
}

// NewPen creates a Pen using brush. Zero fields fall back to the defaults.
func NewPen(brush Brush) *Pen {
	brush = normalizeBrush(brush)
	return &Pen{
		brush: brush,
		buf:   NewBuffer(brush.MinSpacing),
		tri:   NewTriangulator(brush.Overdraw),
	}
}

func normalizeBrush(b Brush) Brush {
	d := DefaultBrush()
	if b.Width <= 0 {
		b.Width = d.Width
	}
	if b.Overdraw <= 0 {
		b.Overdraw = d.Overdraw
	}
	if b.MinSpacing <= 0 {
		b.MinSpacing = d.MinSpacing
	}
	return b
}

// Brush returns the current brush.
func (p *Pen) Brush() Brush {
	return p.brush
}

// SetBrush replaces the brush. Samples already buffered keep their width.
func (p *Pen) SetBrush(b Brush) {
	p.brush = normalizeBrush(b)
	p.buf.SetMinSpacing(p.brush.MinSpacing)
	p.tri.Overdraw = p.brush.Overdraw
}

// Active reports whether a stroke is in progress.
func (p *Pen) Active() bool {
	return p.active
}

// BeginStroke starts a new stroke at pos, dropping any leftover samples and
// continuity from the previous stroke.
func (p *Pen) BeginStroke(pos geom.Vec2) {
	p.buf.Begin(pos, p.brush.Width)
	p.cont.Reset()
	p.active = true
	p.stats.Strokes++
	p.stats.Accepted++
}

// ExtendStroke offers a new sample; near-duplicates are rejected.
func (p *Pen) ExtendStroke(pos geom.Vec2) bool {
	if p.buf.Extend(pos, p.brush.Width) {
		p.stats.Accepted++
		return true
	}
	p.stats.Rejected++
	return false
}

// Anchor appends pos without the spacing check.
func (p *Pen) Anchor(pos geom.Vec2) {
	p.buf.Add(pos, p.brush.Width)
	p.stats.Accepted++
}

// EndStroke appends the last sample and requests an end cap.
func (p *Pen) EndStroke(pos geom.Vec2) {
	p.buf.End(pos, p.brush.Width)
	p.active = false
	p.stats.Accepted++
}

// Pending returns the number of raw samples waiting for the next pass.
func (p *Pen) Pending() int {
	return p.buf.Len()
}

// Continuity returns a copy of the stitching state.
func (p *Pen) Continuity() Continuity {
	return p.cont
}

// Frame runs one smoothing and triangulation pass over the samples gathered
// since the previous call. An empty Frame means nothing to draw.
func (p *Pen) Frame() Frame {
	p.stats.Frames++

	finishing := p.buf.Finishing()
	dense := p.buf.Smooth()
	if dense == nil {
		return Frame{}
	}

	mesh := p.tri.Triangulate(dense, p.brush.Color, &p.cont, &finishing)
	p.buf.finishing = finishing

	f := Frame{
		Ribbon: mesh.Vertices,
		Joins:  mesh.Joins,
		Dense:  len(dense),
	}
	if len(mesh.Joins) > 0 {
		f.Caps = make([][]Vertex, 0, len(mesh.Joins))
		for _, j := range mesh.Joins {
			f.Caps = append(f.Caps, JoinCap(j, p.brush.Overdraw, p.brush.Color))
		}
	}

	p.stats.Segments += int64(mesh.Segments())
	p.stats.Caps += int64(len(mesh.Joins))
	return f
}

// Stats returns the cumulative counters.
func (p *Pen) Stats() Stats {
	return p.stats
}
