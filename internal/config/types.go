// Package config provides configuration data structures for smoothink.
// A configuration is either a Lua script that fills the ink.config table
// or a plain file of "key value" lines; both formats share the same keys.
package config

import (
	"image/color"
)

// Config represents the complete smoothink configuration.
type Config struct {
	// Window contains window-related configuration options.
	Window WindowConfig
	// Brush contains the stroke parameters.
	Brush BrushConfig
	// Canvas contains the drawing surface settings.
	Canvas CanvasConfig
	// Display contains overlay settings.
	Display DisplayConfig
}

// WindowConfig holds window-related configuration options.
type WindowConfig struct {
	// Width is the window and canvas width in pixels.
	Width int
	// Height is the window and canvas height in pixels.
	Height int
	// Title is the window title.
	Title string
	// TPS is the input polling rate in ticks per second.
	TPS int
}

// BrushConfig holds stroke parameters.
type BrushConfig struct {
	// Width is the full stroke width in pixels.
	Width float64
	// Overdraw is the width of the antialiasing skirt in pixels.
	Overdraw float64
	// MinSpacing is the distance under which a new sample is dropped.
	MinSpacing float64
	// Color is the ink color.
	Color color.RGBA
}

// CanvasConfig holds drawing surface settings.
type CanvasConfig struct {
	// Background is the color the canvas is cleared to at startup.
	Background color.RGBA
}

// DisplayConfig holds overlay settings.
type DisplayConfig struct {
	// ShowStats draws the statistics overlay.
	ShowStats bool
	// StatsColor is the overlay text color.
	StatsColor color.RGBA
	// FontSize is the overlay font size in points.
	FontSize float64
}

// Validate checks if the Config has valid values using the comprehensive validator.
// It returns the first validation error found, or nil if the config is valid.
// For detailed validation results including warnings, use NewValidator().Validate().
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

type fieldKind int

const (
	kindInt fieldKind = iota
	kindFloat
	kindBool
	kindString
	kindColor
)

// field binds a configuration key to the Config member it sets.
type field struct {
	key  string
	kind fieldKind
	ptr  func(*Config) any
}

// fields lists every recognized key in output order.
var fields = []field{
	{"width", kindInt, func(c *Config) any { return &c.Window.Width }},
	{"height", kindInt, func(c *Config) any { return &c.Window.Height }},
	{"title", kindString, func(c *Config) any { return &c.Window.Title }},
	{"tps", kindInt, func(c *Config) any { return &c.Window.TPS }},
	{"brush_width", kindFloat, func(c *Config) any { return &c.Brush.Width }},
	{"overdraw", kindFloat, func(c *Config) any { return &c.Brush.Overdraw }},
	{"min_spacing", kindFloat, func(c *Config) any { return &c.Brush.MinSpacing }},
	{"brush_color", kindColor, func(c *Config) any { return &c.Brush.Color }},
	{"background", kindColor, func(c *Config) any { return &c.Canvas.Background }},
	{"show_stats", kindBool, func(c *Config) any { return &c.Display.ShowStats }},
	{"stats_color", kindColor, func(c *Config) any { return &c.Display.StatsColor }},
	{"stats_font_size", kindFloat, func(c *Config) any { return &c.Display.FontSize }},
}

// aliases maps accepted alternative spellings to their canonical key.
var aliases = map[string]string{
	"ink_color":         "brush_color",
	"ink_colour":        "brush_color",
	"brush_colour":      "brush_color",
	"line_width":        "brush_width",
	"background_colour": "background",
}

func lookupField(key string) (field, bool) {
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	for _, f := range fields {
		if f.key == key {
			return f, true
		}
	}
	return field{}, false
}

// Keys returns the canonical configuration keys.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}
