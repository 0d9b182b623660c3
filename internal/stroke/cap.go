package stroke

import (
	"math"

	"github.com/opd-ai/go-smoothink/internal/geom"
)

const (
	// CapSegments is the number of fan segments in a round cap.
	CapSegments = 32
	// VerticesPerCapSegment is one core triangle plus two skirt triangles.
	VerticesPerCapSegment = 9
	// CapRadiusFactor scales a point's width into its cap radius.
	CapRadiusFactor = 0.4
)

// Cap fans a semicircle of radius around center. The arc starts at the left
// normal of dir, passes through dir and ends at the right normal, so the cap
// bulges along dir. Each fan segment gets an opaque core triangle and two
// skirt triangles whose outer vertices are transparent.
func Cap(center, dir geom.Vec2, radius, overdraw float64, col Color) []Vertex {
	fade := col.Transparent()
	perp := dir.Perp()
	step := math.Pi / CapSegments

	rimDir := func(k int) geom.Vec2 {
		sin, cos := math.Sincos(float64(k) * step)
		return perp.Scale(cos).Add(dir.Scale(sin))
	}

	out := make([]Vertex, 0, CapSegments*VerticesPerCapSegment)
	prevDir := rimDir(0)
	prevRim := center.Add(prevDir.Scale(radius))
	for k := 1; k <= CapSegments; k++ {
		curDir := rimDir(k)
		curRim := center.Add(curDir.Scale(radius))
		prevOuter := prevRim.Add(prevDir.Scale(overdraw))
		curOuter := curRim.Add(curDir.Scale(overdraw))

		out = append(out,
			Vertex{Pos: center, Z: LayerRibbon, Color: col},
			Vertex{Pos: prevRim, Z: LayerRibbon, Color: col},
			Vertex{Pos: curRim, Z: LayerRibbon, Color: col},

			Vertex{Pos: prevOuter, Z: LayerSkirt, Color: fade},
			Vertex{Pos: prevRim, Z: LayerSkirt, Color: col},
			Vertex{Pos: curOuter, Z: LayerSkirt, Color: fade},

			Vertex{Pos: prevRim, Z: LayerSkirt, Color: col},
			Vertex{Pos: curRim, Z: LayerSkirt, Color: col},
			Vertex{Pos: curOuter, Z: LayerSkirt, Color: fade},
		)

		prevDir, prevRim = curDir, curRim
	}
	return out
}

// JoinCap builds the cap for a recorded join.
func JoinCap(j Join, overdraw float64, col Color) []Vertex {
	return Cap(j.Center(), j.Dir(), j.To.Width*CapRadiusFactor, overdraw, col)
}
