package stroke

import (
	"math"
	"testing"

	"github.com/opd-ai/go-smoothink/internal/geom"
)

func TestSegmentsFor(t *testing.T) {
	tests := []struct {
		dist float64
		want int
	}{
		{0, MinSegments},
		{10, MinSegments},
		{63.9, MinSegments},
		{64, 32},
		{100, 50},
		{101, 50},
		{256, 128},
		{1000, MaxSegments},
	}

	for _, tt := range tests {
		if got := SegmentsFor(tt.dist); got != tt.want {
			t.Errorf("SegmentsFor(%v) = %d, want %d", tt.dist, got, tt.want)
		}
	}
}

func pts(width float64, xy ...float64) []Point {
	out := make([]Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, Point{Pos: geom.V(xy[i], xy[i+1]), Width: width})
	}
	return out
}

func TestSmoothTooFewPoints(t *testing.T) {
	if got := Smooth(nil); got != nil {
		t.Errorf("Smooth(nil) = %v, want nil", got)
	}
	if got := Smooth(pts(20, 0, 0, 10, 0)); got != nil {
		t.Errorf("Smooth(2 points) = %v, want nil", got)
	}
}

func TestSmoothOutputCount(t *testing.T) {
	tests := []struct {
		name string
		raw  []Point
	}{
		{"short span", pts(20, 0, 0, 10, 0, 20, 0)},
		{"medium span", pts(20, 0, 0, 100, 0, 200, 0)},
		{"long span", pts(20, 0, 0, 500, 0, 1000, 0)},
		{"several triples", pts(20, 0, 0, 40, 10, 90, -20, 150, 30, 400, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := 0
			for i := 2; i < len(tt.raw); i++ {
				m1 := tt.raw[i-2].Pos.Mid(tt.raw[i-1].Pos)
				m2 := tt.raw[i-1].Pos.Mid(tt.raw[i].Pos)
				want += SegmentsFor(m1.Dist(m2)) + 1
			}

			got := Smooth(tt.raw)
			if len(got) != want {
				t.Errorf("len(Smooth) = %d, want %d", len(got), want)
			}
		})
	}
}

func TestSmoothEndpointsAndWidths(t *testing.T) {
	raw := []Point{
		{Pos: geom.V(0, 0), Width: 10},
		{Pos: geom.V(100, 50), Width: 20},
		{Pos: geom.V(200, 0), Width: 30},
	}
	dense := Smooth(raw)

	first, last := dense[0], dense[len(dense)-1]
	if first.Pos != geom.V(50, 25) {
		t.Errorf("first point = %v, want midpoint (50,25)", first.Pos)
	}
	if last.Pos != geom.V(150, 25) {
		t.Errorf("last point = %v, want midpoint (150,25)", last.Pos)
	}
	if first.Width != 15 {
		t.Errorf("first width = %v, want 15", first.Width)
	}
	if last.Width != 25 {
		t.Errorf("last width = %v, want 25", last.Width)
	}
}

func TestSmoothTriplesJoinWithoutGap(t *testing.T) {
	raw := []Point{
		{Pos: geom.V(0, 0), Width: 10},
		{Pos: geom.V(60, 40), Width: 16},
		{Pos: geom.V(130, 10), Width: 24},
		{Pos: geom.V(180, 90), Width: 8},
	}
	dense := Smooth(raw)

	n1 := SegmentsFor(raw[0].Pos.Mid(raw[1].Pos).Dist(raw[1].Pos.Mid(raw[2].Pos))) + 1
	endFirst := dense[n1-1]
	startSecond := dense[n1]

	if endFirst.Pos != startSecond.Pos {
		t.Errorf("triple boundary position jump: %v -> %v", endFirst.Pos, startSecond.Pos)
	}
	if endFirst.Width != startSecond.Width {
		t.Errorf("triple boundary width jump: %v -> %v", endFirst.Width, startSecond.Width)
	}
	if startSecond.Width != (raw[1].Width+raw[2].Width)/2 {
		t.Errorf("second triple starts at width %v, want %v", startSecond.Width, (raw[1].Width+raw[2].Width)/2)
	}
}

func TestSmoothFollowsQuadraticBezier(t *testing.T) {
	raw := pts(20, 0, 0, 100, 100, 200, 0)
	dense := Smooth(raw)

	m1 := geom.V(50, 50)
	ctrl := geom.V(100, 100)
	m2 := geom.V(150, 50)
	segments := SegmentsFor(m1.Dist(m2))

	for j := 0; j < segments; j++ {
		tt := float64(j) / float64(segments)
		want := m1.Scale((1 - tt) * (1 - tt)).
			Add(ctrl.Scale(2 * (1 - tt) * tt)).
			Add(m2.Scale(tt * tt))
		if !dense[j].Pos.FuzzyEqual(want, 1e-9) {
			t.Fatalf("point %d = %v, want %v", j, dense[j].Pos, want)
		}
	}

	apex := dense[segments/2].Pos
	if math.Abs(apex.Y-75) > 0.5 {
		t.Errorf("apex y = %v, want about 75", apex.Y)
	}
}
