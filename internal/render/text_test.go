//go:build !noebiten

package render

import (
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestOverlayFontSize(t *testing.T) {
	tests := []struct {
		name string
		size float64
		want float64
	}{
		{"default", 0, defaultFontSize},
		{"negative", -4, defaultFontSize},
		{"custom", 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOverlay(tt.size)
			if o.FontSize() != tt.want {
				t.Errorf("FontSize() = %v, want %v", o.FontSize(), tt.want)
			}
			if o.LineHeight() != tt.want*lineSpacing {
				t.Errorf("LineHeight() = %v, want %v", o.LineHeight(), tt.want*lineSpacing)
			}
		})
	}
}

func TestOverlayMeasureText(t *testing.T) {
	o := NewOverlay(14)

	w1, h := o.MeasureText("fps")
	w2, _ := o.MeasureText("fps 60.0")
	if w1 <= 0 || h <= 0 {
		t.Fatalf("MeasureText() = %v x %v, want positive", w1, h)
	}
	if w2 <= w1 {
		t.Errorf("longer text measured %v, not wider than %v", w2, w1)
	}

	// Go Mono is monospaced.
	wa, _ := o.MeasureText("iiii")
	wb, _ := o.MeasureText("MMMM")
	if wa != wb {
		t.Errorf("monospace widths differ: %v vs %v", wa, wb)
	}
}

func TestOverlayDrawText(t *testing.T) {
	o := NewOverlay(0)
	dst := ebiten.NewImage(120, 40)
	o.DrawText(dst, "strokes 3\nfps 60", 4, 4, color.RGBA{A: 255})
}
