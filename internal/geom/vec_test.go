package geom

import (
	"math"
	"testing"
)

func TestVec2Arithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(1, -2)

	if got := a.Add(b); got != V(4, 2) {
		t.Errorf("Add = %v, want (4,2)", got)
	}
	if got := a.Sub(b); got != V(2, 6) {
		t.Errorf("Sub = %v, want (2,6)", got)
	}
	if got := a.Scale(2); got != V(6, 8) {
		t.Errorf("Scale = %v, want (6,8)", got)
	}
	if got := a.Mid(b); got != V(2, 1) {
		t.Errorf("Mid = %v, want (2,1)", got)
	}
	if got := a.Dot(b); got != -5 {
		t.Errorf("Dot = %v, want -5", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
	if got := a.Dist(V(0, 0)); got != 5 {
		t.Errorf("Dist = %v, want 5", got)
	}
}

func TestVec2Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec2
		want Vec2
	}{
		{"x axis", V(10, 0), V(1, 0)},
		{"y axis", V(0, -3), V(0, -1)},
		{"diagonal", V(3, 4), V(0.6, 0.8)},
		{"zero", V(0, 0), V(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if !got.FuzzyEqual(tt.want, 1e-12) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVec2Perp(t *testing.T) {
	v := V(1, 0)
	p := v.Perp()
	if p != V(0, 1) {
		t.Errorf("Perp = %v, want (0,1)", p)
	}
	if d := v.Dot(p); d != 0 {
		t.Errorf("Perp not orthogonal, dot = %v", d)
	}
	if l := V(3, 4).Perp().Len(); math.Abs(l-5) > 1e-12 {
		t.Errorf("Perp changed length: %v", l)
	}
}

func TestVec2FuzzyEqual(t *testing.T) {
	if !V(1, 1).FuzzyEqual(V(1.00005, 0.99995), 0.0001) {
		t.Error("points within tolerance should be equal")
	}
	if V(1, 1).FuzzyEqual(V(1.001, 1), 0.0001) {
		t.Error("points outside tolerance should differ")
	}
}
