package config

import (
	"image/color"
	"strings"
	"testing"
)

func hasField(list []ValidationError, field string) bool {
	for _, e := range list {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidatorErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window.width"},
		{"negative height", func(c *Config) { c.Window.Height = -1 }, "window.height"},
		{"zero tps", func(c *Config) { c.Window.TPS = 0 }, "window.tps"},
		{"zero brush", func(c *Config) { c.Brush.Width = 0 }, "brush.width"},
		{"negative overdraw", func(c *Config) { c.Brush.Overdraw = -1 }, "brush.overdraw"},
		{"negative spacing", func(c *Config) { c.Brush.MinSpacing = -0.5 }, "brush.min_spacing"},
		{"negative font size", func(c *Config) { c.Display.FontSize = -2 }, "display.font_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			result := NewValidator().Validate(&cfg)
			if result.IsValid() {
				t.Fatal("expected validation errors")
			}
			if !hasField(result.Errors, tt.field) {
				t.Errorf("errors = %v, want one for %s", result.Errors, tt.field)
			}
			if err := ValidateConfig(&cfg); err == nil || !strings.Contains(err.Error(), tt.field) {
				t.Errorf("ValidateConfig() = %v, want mention of %s", err, tt.field)
			}
		})
	}
}

func TestValidatorWarnings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"huge window", func(c *Config) { c.Window.Width = 20000 }, "window.width"},
		{"fast tps", func(c *Config) { c.Window.TPS = 5000 }, "window.tps"},
		{"huge brush", func(c *Config) { c.Brush.Width = 800 }, "brush.width"},
		{"no overdraw", func(c *Config) { c.Brush.Overdraw = 0 }, "brush.overdraw"},
		{"coarse spacing", func(c *Config) { c.Brush.MinSpacing = 40 }, "brush.min_spacing"},
		{"invisible ink", func(c *Config) { c.Brush.Color = TransparentColor }, "brush.color"},
		{"ink matches background", func(c *Config) { c.Brush.Color = c.Canvas.Background }, "brush.color"},
		{"translucent background", func(c *Config) { c.Canvas.Background.A = 128 }, "canvas.background"},
		{"invisible stats", func(c *Config) {
			c.Display.ShowStats = true
			c.Display.StatsColor = color.RGBA{}
		}, "display.stats_color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			result := NewValidator().Validate(&cfg)
			if !result.IsValid() {
				t.Fatalf("unexpected errors: %v", result.Errors)
			}
			if !hasField(result.Warnings, tt.field) {
				t.Errorf("warnings = %v, want one for %s", result.Warnings, tt.field)
			}

			strict := NewValidator().WithStrictMode(true).Validate(&cfg)
			if strict.IsValid() || len(strict.Warnings) != 0 {
				t.Errorf("strict mode kept %d warnings and %d errors", len(strict.Warnings), len(strict.Errors))
			}
			if ValidateConfigStrict(&cfg) == nil {
				t.Error("ValidateConfigStrict() = nil, want error")
			}
		})
	}
}

func TestValidateConfigNil(t *testing.T) {
	if ValidateConfig(nil) == nil {
		t.Error("ValidateConfig(nil) = nil, want error")
	}
	if ValidateConfigStrict(nil) == nil {
		t.Error("ValidateConfigStrict(nil) = nil, want error")
	}
}

func TestValidationResultMerge(t *testing.T) {
	a := &ValidationResult{}
	a.AddError("x", "bad")
	b := &ValidationResult{}
	b.AddError("y", "worse")
	b.AddWarning("z", "odd")

	a.Merge(b)
	a.Merge(nil)

	if len(a.Errors) != 2 || len(a.Warnings) != 1 {
		t.Errorf("merged %d errors and %d warnings, want 2 and 1", len(a.Errors), len(a.Warnings))
	}
	want := "validation failed: x: bad; y: worse"
	if got := a.Error().Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var empty ValidationResult
	if empty.Error() != nil {
		t.Errorf("empty result Error() = %v, want nil", empty.Error())
	}
}
