package smoothink

import (
	"image/color"

	"github.com/opd-ai/go-smoothink/internal/config"
	"github.com/opd-ai/go-smoothink/internal/render"
)

// Configuration format constants for use with NewFromReader.
const (
	// FormatLua indicates a Lua script filling the ink.config table.
	FormatLua = config.FormatLua
	// FormatPlain indicates "key value" lines.
	FormatPlain = config.FormatPlain
)

// Config is the scene configuration. Use DefaultConfig for a populated value.
type Config = config.Config

// DefaultConfig returns the default scene configuration.
func DefaultConfig() *Config {
	cfg := config.DefaultConfig()
	return &cfg
}

func brushFromConfig(cfg *Config) Brush {
	return Brush{
		Width:      cfg.Brush.Width,
		Overdraw:   cfg.Brush.Overdraw,
		MinSpacing: cfg.Brush.MinSpacing,
		Color:      cfg.Brush.Color,
	}
}

// renderConfig maps cfg onto the window options, with opts overrides applied.
func renderConfig(cfg *Config, opts Options) render.Config {
	rc := render.Config{
		Width:         cfg.Window.Width,
		Height:        cfg.Window.Height,
		Title:         cfg.Window.Title,
		TPS:           cfg.Window.TPS,
		Background:    cfg.Canvas.Background,
		ShowStats:     cfg.Display.ShowStats || opts.ShowStats,
		StatsColor:    cfg.Display.StatsColor,
		StatsFontSize: cfg.Display.FontSize,
	}
	if opts.WindowTitle != "" {
		rc.Title = opts.WindowTitle
	}
	return rc
}

// applyOverrides returns a copy of cfg with the color options applied.
func applyOverrides(cfg *Config, opts Options) *Config {
	out := *cfg
	if opts.BrushColor != (color.RGBA{}) {
		out.Brush.Color = opts.BrushColor
	}
	if opts.Background != (color.RGBA{}) {
		out.Canvas.Background = opts.Background
	}
	return &out
}

// newValidator returns the validator for opts. Strict mode turns warnings
// into errors.
func newValidator(opts *Options) *config.Validator {
	return config.NewValidator().WithStrictMode(opts != nil && opts.StrictValidation)
}

// loadConfig parses and validates one configuration with a fresh parser.
func loadConfig(v *config.Validator, parse func(p *config.Parser) (*Config, error)) (*Config, *config.ValidationResult, error) {
	p, err := config.NewParser()
	if err != nil {
		return nil, nil, err
	}
	defer p.Close()

	cfg, err := parse(p)
	if err != nil {
		return nil, nil, err
	}
	config.ExpandEnvConfig(cfg)

	result := v.Validate(cfg)
	if err := result.Error(); err != nil {
		return nil, result, err
	}
	return cfg, result, nil
}
