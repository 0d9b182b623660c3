package stroke

import "github.com/opd-ai/go-smoothink/internal/geom"

// Mesh layout constants.
const (
	// VerticesPerSegment is the vertex count one ribbon segment emits:
	// two core triangles and four skirt triangles.
	VerticesPerSegment = 18
	// DefaultOverdraw is the default skirt width in pixels.
	DefaultOverdraw = 3.0

	degenerateTolerance = 0.0001
)

// Continuity carries the trailing edge of the last emitted segment so that
// the next segment, possibly in a later frame, starts on the same vertices.
type Continuity struct {
	Connecting        bool
	LastRight         geom.Vec2
	LastLeft          geom.Vec2
	LastOverdrawRight geom.Vec2
	LastOverdrawLeft  geom.Vec2
}

// Reset marks the next segment as the start of a fresh stroke.
func (c *Continuity) Reset() {
	*c = Continuity{}
}

// Mesh is the output of one triangulation pass.
type Mesh struct {
	// Vertices is a triangle list, VerticesPerSegment per emitted segment.
	Vertices []Vertex
	// Joins lists the caps recorded during the pass.
	Joins []Join
}

// Segments returns the number of ribbon segments in the mesh.
func (m Mesh) Segments() int {
	return len(m.Vertices) / VerticesPerSegment
}

// Triangulator builds ribbon meshes from dense curves.
type Triangulator struct {
	// Overdraw is the width of the antialiasing skirt.
	Overdraw float64
}

// NewTriangulator returns a Triangulator with the given skirt width.
// A non-positive width selects DefaultOverdraw.
func NewTriangulator(overdraw float64) *Triangulator {
	if overdraw <= 0 {
		overdraw = DefaultOverdraw
	}
	return &Triangulator{Overdraw: overdraw}
}

// Triangulate emits the ribbon for dense and colors it with col.
//
// cont is read to stitch the first segment onto the previous pass and is
// updated after every segment. When *finishing is set, an end cap is
// recorded on the last emitted segment and the flag is cleared.
func (tr *Triangulator) Triangulate(dense []Point, col Color, cont *Continuity, finishing *bool) Mesh {
	var mesh Mesh
	if len(dense) < 2 {
		return mesh
	}

	mesh.Vertices = make([]Vertex, 0, (len(dense)-1)*VerticesPerSegment)
	emitted := 0
	var lastPrev, lastCur Point

	prev := dense[0]
	for _, cur := range dense[1:] {
		if cur.Pos.FuzzyEqual(prev.Pos, degenerateTolerance) {
			continue
		}

		perp := cur.Pos.Sub(prev.Pos).Perp().Normalize()
		a := prev.Pos.Add(perp.Scale(prev.Width / 2))
		b := prev.Pos.Sub(perp.Scale(prev.Width / 2))
		c := cur.Pos.Add(perp.Scale(cur.Width / 2))
		d := cur.Pos.Sub(perp.Scale(cur.Width / 2))

		continuing := cont.Connecting || emitted > 0
		if continuing {
			a, b = cont.LastRight, cont.LastLeft
		} else {
			mesh.Joins = append(mesh.Joins, Join{From: cur, To: prev})
		}

		f := a.Add(perp.Scale(tr.Overdraw))
		g := c.Add(perp.Scale(tr.Overdraw))
		h := b.Sub(perp.Scale(tr.Overdraw))
		i := d.Sub(perp.Scale(tr.Overdraw))
		if continuing {
			f, h = cont.LastOverdrawRight, cont.LastOverdrawLeft
		}

		mesh.Vertices = appendTriangle(mesh.Vertices, LayerRibbon, a, b, c)
		mesh.Vertices = appendTriangle(mesh.Vertices, LayerRibbon, b, c, d)
		mesh.Vertices = appendTriangle(mesh.Vertices, LayerSkirt, f, a, g)
		mesh.Vertices = appendTriangle(mesh.Vertices, LayerSkirt, a, g, c)
		mesh.Vertices = appendTriangle(mesh.Vertices, LayerSkirt, b, h, d)
		mesh.Vertices = appendTriangle(mesh.Vertices, LayerSkirt, h, d, i)

		cont.LastRight, cont.LastLeft = c, d
		cont.LastOverdrawRight, cont.LastOverdrawLeft = g, i

		lastPrev, lastCur = prev, cur
		emitted++
		prev = cur
	}

	if finishing != nil && *finishing {
		if emitted > 0 {
			mesh.Joins = append(mesh.Joins, Join{From: lastPrev, To: lastCur})
		}
		*finishing = false
	}
	if emitted > 0 {
		cont.Connecting = true
	}

	FillRibbonColors(mesh.Vertices, col)
	return mesh
}

func appendTriangle(dst []Vertex, z float32, p0, p1, p2 geom.Vec2) []Vertex {
	return append(dst,
		Vertex{Pos: p0, Z: z},
		Vertex{Pos: p1, Z: z},
		Vertex{Pos: p2, Z: z},
	)
}

// skirtFade marks, per skirt vertex of a segment, whether it sits on the
// outer edge and fades to transparent. Order follows the F,A,G / A,G,C /
// B,H,D / H,D,I triangles.
var skirtFade = [12]bool{
	true, false, true,
	false, true, false,
	false, true, false,
	true, false, true,
}

// FillRibbonColors colors a ribbon triangle list in place. Core vertices get
// col; skirt vertices get col or col with zero alpha so every skirt triangle
// fades from the ribbon edge outward.
func FillRibbonColors(vertices []Vertex, col Color) {
	fade := col.Transparent()
	for s := 0; s+VerticesPerSegment <= len(vertices); s += VerticesPerSegment {
		seg := vertices[s : s+VerticesPerSegment]
		for j := 0; j < 6; j++ {
			seg[j].Color = col
		}
		for j, faded := range skirtFade {
			if faded {
				seg[6+j].Color = fade
			} else {
				seg[6+j].Color = col
			}
		}
	}
}
