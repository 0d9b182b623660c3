package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-smoothink/internal/stroke"
)

// MaxBatchVertices is the largest vertex count submitted in one DrawTriangles
// call. It stays below the uint16 index range and is a multiple of both the
// ribbon segment and the cap segment size so batches never split a triangle.
const MaxBatchVertices = 65520

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// ImageSurface is a Surface backed by an off-screen Ebiten image.
type ImageSurface struct {
	img    *ebiten.Image
	blend  ebiten.Blend
	inPass bool

	vertices *VertexPool
	indices  *IndexPool
	stats    *RenderStats
}

// NewImageSurface allocates a width x height accumulation image.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{
		img:      ebiten.NewImage(width, height),
		blend:    ToEbitenBlend(InkBlend),
		vertices: NewVertexPool(),
		indices:  NewIndexPool(),
		stats:    NewRenderStats(),
	}
}

// Image returns the accumulation image.
func (s *ImageSurface) Image() *ebiten.Image {
	return s.img
}

// Stats returns the draw call counters.
func (s *ImageSurface) Stats() *RenderStats {
	return s.stats
}

// Begin implements Surface.
func (s *ImageSurface) Begin() error {
	if s.inPass {
		return ErrPassOpen
	}
	s.inPass = true
	return nil
}

// End implements Surface.
func (s *ImageSurface) End() error {
	if !s.inPass {
		return ErrNotInPass
	}
	s.inPass = false
	return nil
}

// Clear implements Surface.
func (s *ImageSurface) Clear(c color.RGBA) {
	s.img.Fill(c)
}

// SetBlend implements Surface.
func (s *ImageSurface) SetBlend(b BlendState) {
	s.blend = ToEbitenBlend(b)
}

// DrawTriangles implements Surface. Vertex colors are straight alpha; the
// premultiplied color scale mode keeps Ebiten from multiplying them again so
// the blend factors see exactly the submitted values.
func (s *ImageSurface) DrawTriangles(vertices []stroke.Vertex) error {
	if !s.inPass {
		return ErrNotInPass
	}

	op := &ebiten.DrawTrianglesOptions{
		Blend:          s.blend,
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
	}

	for start := 0; start < len(vertices); start += MaxBatchVertices {
		end := min(start+MaxBatchVertices, len(vertices))
		batch := vertices[start:end]

		vs := s.vertices.Get()
		is := s.indices.Get()
		vs = AppendEbitenVertices(vs, batch)
		for i := range batch {
			is = append(is, uint16(i))
		}

		s.img.DrawTriangles(vs, is, whiteSubImage, op)
		s.stats.RecordDrawCall(len(batch))

		s.vertices.Put(vs)
		s.indices.Put(is)
	}
	return nil
}

// AppendEbitenVertices converts stroke vertices to Ebiten vertices sampling
// the white source texel. The depth layer is dropped: submission order
// decides overlap.
func AppendEbitenVertices(dst []ebiten.Vertex, vertices []stroke.Vertex) []ebiten.Vertex {
	for _, v := range vertices {
		dst = append(dst, ebiten.Vertex{
			DstX:   float32(v.Pos.X),
			DstY:   float32(v.Pos.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: v.Color.R,
			ColorG: v.Color.G,
			ColorB: v.Color.B,
			ColorA: v.Color.A,
		})
	}
	return dst
}

// ToEbitenBlend maps a BlendState onto an Ebiten blend with additive
// equations.
func ToEbitenBlend(b BlendState) ebiten.Blend {
	return ebiten.Blend{
		BlendFactorSourceRGB:        toEbitenFactor(b.SrcRGB),
		BlendFactorSourceAlpha:      toEbitenFactor(b.SrcAlpha),
		BlendFactorDestinationRGB:   toEbitenFactor(b.DstRGB),
		BlendFactorDestinationAlpha: toEbitenFactor(b.DstAlpha),
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
}

func toEbitenFactor(f BlendFactor) ebiten.BlendFactor {
	switch f {
	case BlendZero:
		return ebiten.BlendFactorZero
	case BlendOne:
		return ebiten.BlendFactorOne
	case BlendSrcColor:
		return ebiten.BlendFactorSourceColor
	case BlendOneMinusSrcColor:
		return ebiten.BlendFactorOneMinusSourceColor
	case BlendSrcAlpha:
		return ebiten.BlendFactorSourceAlpha
	case BlendOneMinusSrcAlpha:
		return ebiten.BlendFactorOneMinusSourceAlpha
	case BlendDstColor:
		return ebiten.BlendFactorDestinationColor
	case BlendOneMinusDstColor:
		return ebiten.BlendFactorOneMinusDestinationColor
	case BlendDstAlpha:
		return ebiten.BlendFactorDestinationAlpha
	case BlendOneMinusDstAlpha:
		return ebiten.BlendFactorOneMinusDestinationAlpha
	default:
		return ebiten.BlendFactorOne
	}
}
