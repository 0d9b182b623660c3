package render

import (
	"fmt"
	"image/color"
)

// Config holds the window and presentation options.
type Config struct {
	// Width is the window and accumulation surface width in pixels.
	Width int
	// Height is the window and accumulation surface height in pixels.
	Height int
	// Title is the window title.
	Title string
	// TPS is the input polling rate in ticks per second.
	TPS int
	// Background is the color the canvas starts with.
	Background color.RGBA
	// ShowStats draws the frame statistics overlay.
	ShowStats bool
	// StatsColor is the overlay text color.
	StatsColor color.RGBA
	// StatsFontSize is the overlay font size in points.
	StatsFontSize float64
}

// DefaultConfig returns a 1024x768 white canvas polled at 60 TPS.
func DefaultConfig() Config {
	return Config{
		Width:         1024,
		Height:        768,
		Title:         "smoothink",
		TPS:           60,
		Background:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
		ShowStats:     false,
		StatsColor:    color.RGBA{R: 96, G: 96, B: 96, A: 255},
		StatsFontSize: defaultFontSize,
	}
}

// Validate checks that the window has a usable size and tick rate.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", c.Height)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("tps must be positive, got %d", c.TPS)
	}
	return nil
}
