// Package stroke turns raw pointer samples into antialiased ribbon meshes.
//
// The pipeline runs once per display frame:
//
//  1. A Buffer collects raw samples between frames.
//  2. Smooth converts every consecutive triple of raw samples into a dense
//     run of points along a quadratic Bézier through the triple's midpoints.
//  3. A Triangulator walks the dense points and emits a core quad strip plus a
//     fading skirt on both sides, recording Joins where caps are needed.
//  4. Cap fans a semicircle at each Join.
//
// Pen ties the stages together and carries the Continuity state that lets
// the first segment of a frame share its leading edge with the last segment
// of the previous frame.
package stroke

import (
	"image/color"
	"math"

	"github.com/opd-ai/go-smoothink/internal/geom"
)

// Depth layers used to separate core ribbon triangles from skirt triangles.
const (
	LayerRibbon float32 = 1
	LayerSkirt  float32 = 2
)

// Point is a single stroke sample. Width is the full stroke width at the
// sample; ribbon edges sit Width/2 away from Pos.
type Point struct {
	Pos   geom.Vec2
	Width float64
}

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// ColorFromRGBA converts an 8-bit color to a float Color.
func ColorFromRGBA(c color.RGBA) Color {
	return Color{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

// ToRGBA converts c back to an 8-bit color.
func (c Color) ToRGBA() color.RGBA {
	to8 := func(v float32) uint8 {
		return uint8(math.Round(float64(min(max(v, 0), 1)) * 255))
	}
	return color.RGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// Transparent returns c with alpha set to zero.
func (c Color) Transparent() Color {
	c.A = 0
	return c
}

// Vertex is one corner of a triangle in a triangle list.
type Vertex struct {
	Pos   geom.Vec2
	Z     float32
	Color Color
}

// Join marks where a round cap is needed. The cap is centred on To and bulges
// away from From.
type Join struct {
	From, To Point
}

// Center returns the cap centre.
func (j Join) Center() geom.Vec2 {
	return j.To.Pos
}

// Dir returns the unit direction the cap bulges towards.
func (j Join) Dir() geom.Vec2 {
	return j.To.Pos.Sub(j.From.Pos).Normalize()
}
