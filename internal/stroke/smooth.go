package stroke

import "math"

// Subdivision bounds for one smoothed triple.
const (
	MinSegments     = 32
	MaxSegments     = 128
	segmentDistance = 2.0
)

// SegmentsFor returns how many steps a triple whose midpoints lie dist apart
// is subdivided into.
func SegmentsFor(dist float64) int {
	n := int(math.Floor(dist / segmentDistance))
	if n < MinSegments {
		return MinSegments
	}
	if n > MaxSegments {
		return MaxSegments
	}
	return n
}

// Smooth converts raw samples into a dense curve. Each consecutive triple
// (p0, p1, p2) becomes a quadratic Bézier from mid(p0,p1) to mid(p1,p2) with
// p1 as control point; widths follow the same blend. Every triple ends on its
// exact second midpoint, so consecutive triples join without a gap.
// Fewer than three samples yield nil.
func Smooth(raw []Point) []Point {
	if len(raw) < 3 {
		return nil
	}

	out := make([]Point, 0, (len(raw)-2)*(MinSegments+1))
	for i := 2; i < len(raw); i++ {
		p0, p1, p2 := raw[i-2], raw[i-1], raw[i]

		m1 := p0.Pos.Mid(p1.Pos)
		m2 := p1.Pos.Mid(p2.Pos)
		w1 := (p0.Width + p1.Width) * 0.5
		w2 := (p1.Width + p2.Width) * 0.5

		segments := SegmentsFor(m1.Dist(m2))
		step := 1.0 / float64(segments)
		for j := 0; j < segments; j++ {
			t := float64(j) * step
			a := (1 - t) * (1 - t)
			b := 2 * (1 - t) * t
			c := t * t
			out = append(out, Point{
				Pos:   m1.Scale(a).Add(p1.Pos.Scale(b)).Add(m2.Scale(c)),
				Width: a*w1 + b*p1.Width + c*w2,
			})
		}
		out = append(out, Point{Pos: m2, Width: w2})
	}
	return out
}
