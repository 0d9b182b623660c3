package render

import (
	"bytes"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

// defaultFontSize is the default overlay font size in points.
const defaultFontSize = 13.0

// lineSpacing is the line height as a multiple of the font size.
const lineSpacing = 1.2

// TextDrawer draws overlay text. Game accepts it so tests can substitute a
// recorder.
type TextDrawer interface {
	DrawText(dst *ebiten.Image, s string, x, y float64, clr color.RGBA)
	MeasureText(s string) (width, height float64)
	LineHeight() float64
}

// Overlay draws short status lines with the Go Mono face.
type Overlay struct {
	source   *text.GoTextFaceSource
	fontSize float64
	mu       sync.RWMutex
}

// NewOverlay creates an Overlay at the given font size; non-positive sizes
// select the default.
func NewOverlay(size float64) *Overlay {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		// The face is embedded; this only fails on a corrupt build.
		panic("failed to load embedded font: " + err.Error())
	}
	o := &Overlay{source: source}
	o.SetFontSize(size)
	return o
}

// SetFontSize changes the font size; non-positive sizes select the default.
func (o *Overlay) SetFontSize(size float64) {
	if size <= 0 {
		size = defaultFontSize
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fontSize = size
}

// FontSize returns the current font size.
func (o *Overlay) FontSize() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.fontSize
}

func (o *Overlay) face() *text.GoTextFace {
	return &text.GoTextFace{Source: o.source, Size: o.fontSize}
}

// DrawText draws s with its top-left corner at (x, y).
func (o *Overlay) DrawText(dst *ebiten.Image, s string, x, y float64, clr color.RGBA) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = o.fontSize * lineSpacing
	text.Draw(dst, s, o.face(), op)
}

// MeasureText returns the size of s.
func (o *Overlay) MeasureText(s string) (width, height float64) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return text.Measure(s, o.face(), o.fontSize*lineSpacing)
}

// LineHeight returns the height of one line of text.
func (o *Overlay) LineHeight() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.fontSize * lineSpacing
}
