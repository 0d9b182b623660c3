package config

import (
	"image/color"
)

// Default values for configuration options.
const (
	// DefaultWidth is the default window width in pixels.
	DefaultWidth = 1024
	// DefaultHeight is the default window height in pixels.
	DefaultHeight = 768
	// DefaultTitle is the default window title.
	DefaultTitle = "smoothink"
	// DefaultTPS is the default input polling rate.
	DefaultTPS = 60
	// DefaultBrushWidth is the default full stroke width in pixels.
	DefaultBrushWidth = 20.0
	// DefaultOverdraw is the default antialiasing skirt width in pixels.
	DefaultOverdraw = 3.0
	// DefaultMinSpacing is the default near-duplicate rejection distance.
	DefaultMinSpacing = 1.5
	// DefaultFontSize is the default overlay font size in points.
	DefaultFontSize = 13.0
)

// Default colors.
var (
	// DefaultInkColor is the default ink color (opaque blue).
	DefaultInkColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	// DefaultBackground is the default canvas color (white).
	DefaultBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	// DefaultStatsColor is the default overlay text color.
	DefaultStatsColor = color.RGBA{R: 96, G: 96, B: 96, A: 255}
	// TransparentColor represents fully transparent.
	TransparentColor = color.RGBA{R: 0, G: 0, B: 0, A: 0}
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
			TPS:    DefaultTPS,
		},
		Brush: BrushConfig{
			Width:      DefaultBrushWidth,
			Overdraw:   DefaultOverdraw,
			MinSpacing: DefaultMinSpacing,
			Color:      DefaultInkColor,
		},
		Canvas: CanvasConfig{
			Background: DefaultBackground,
		},
		Display: DisplayConfig{
			ShowStats:  false,
			StatsColor: DefaultStatsColor,
			FontSize:   DefaultFontSize,
		},
	}
}

// DefaultBrushConfig returns a BrushConfig with default values.
func DefaultBrushConfig() BrushConfig {
	return DefaultConfig().Brush
}
