package render

import (
	"errors"
	"image/color"

	"github.com/opd-ai/go-smoothink/internal/stroke"
)

// ErrNotInPass is returned when triangles are submitted outside Begin/End.
var ErrNotInPass = errors.New("render: draw outside of a Begin/End pass")

// ErrPassOpen is returned by Begin when the previous pass was never ended.
var ErrPassOpen = errors.New("render: pass already open")

// Surface is an off-screen target that accumulates triangles across frames.
// Nothing on a Surface is cleared unless Clear is called.
type Surface interface {
	// Begin opens a drawing pass.
	Begin() error
	// End closes the pass opened by Begin.
	End() error
	// Clear fills the whole surface with c.
	Clear(c color.RGBA)
	// SetBlend selects the blend state for subsequent draws.
	SetBlend(b BlendState)
	// DrawTriangles rasterizes a triangle list with per-vertex color.
	DrawTriangles(vertices []stroke.Vertex) error
}

// BlendFactor is a source or destination blend weight.
type BlendFactor int

// Blend factors, named after their GL counterparts.
const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstColor
	BlendOneMinusDstColor
	BlendDstAlpha
	BlendOneMinusDstAlpha
)

var blendFactorNames = [...]string{
	BlendZero:             "zero",
	BlendOne:              "one",
	BlendSrcColor:         "src_color",
	BlendOneMinusSrcColor: "one_minus_src_color",
	BlendSrcAlpha:         "src_alpha",
	BlendOneMinusSrcAlpha: "one_minus_src_alpha",
	BlendDstColor:         "dst_color",
	BlendOneMinusDstColor: "one_minus_dst_color",
	BlendDstAlpha:         "dst_alpha",
	BlendOneMinusDstAlpha: "one_minus_dst_alpha",
}

func (f BlendFactor) String() string {
	if f < 0 || int(f) >= len(blendFactorNames) {
		return "unknown"
	}
	return blendFactorNames[f]
}

// BlendState holds separate RGB and alpha blend factors. The blend equation
// is always addition.
type BlendState struct {
	SrcRGB   BlendFactor
	DstRGB   BlendFactor
	SrcAlpha BlendFactor
	DstAlpha BlendFactor
}

// InkBlend composites straight-alpha ink over the accumulated drawing.
// Color channels are weighted by source alpha; the destination alpha
// accumulates towards opaque.
var InkBlend = BlendState{
	SrcRGB:   BlendSrcAlpha,
	DstRGB:   BlendOneMinusSrcAlpha,
	SrcAlpha: BlendOne,
	DstAlpha: BlendOneMinusSrcAlpha,
}
