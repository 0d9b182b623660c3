package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues such as invisible ink.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}

	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Merge combines another ValidationResult into this one.
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	vr.Errors = append(vr.Errors, other.Errors...)
	vr.Warnings = append(vr.Warnings, other.Warnings...)
}

// Limits above which a value is suspicious but still accepted.
const (
	maxDimension  = 16384
	maxTPS        = 1000
	maxBrushWidth = 500.0
	maxFontSize   = 200.0
	maxTitleLen   = 256
)

// Validator provides comprehensive configuration validation.
type Validator struct {
	// strictMode turns warnings into errors.
	strictMode bool
}

// NewValidator creates a new Validator with default settings.
func NewValidator() *Validator {
	return &Validator{}
}

// WithStrictMode enables strict validation where warnings are errors.
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// Validate performs comprehensive validation of a Config.
func (v *Validator) Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	v.validateWindow(&cfg.Window, result)
	v.validateBrush(&cfg.Brush, result)
	v.validateColors(cfg, result)
	v.validateDisplay(&cfg.Display, result)

	if v.strictMode {
		result.Errors = append(result.Errors, result.Warnings...)
		result.Warnings = nil
	}
	return result
}

func (v *Validator) validateWindow(wc *WindowConfig, result *ValidationResult) {
	if wc.Width <= 0 {
		result.AddError("window.width", fmt.Sprintf("must be positive, got %d", wc.Width))
	}
	if wc.Height <= 0 {
		result.AddError("window.height", fmt.Sprintf("must be positive, got %d", wc.Height))
	}
	if wc.Width > maxDimension {
		result.AddWarning("window.width", fmt.Sprintf("unusually large value %d", wc.Width))
	}
	if wc.Height > maxDimension {
		result.AddWarning("window.height", fmt.Sprintf("unusually large value %d", wc.Height))
	}

	if wc.TPS <= 0 {
		result.AddError("window.tps", fmt.Sprintf("must be positive, got %d", wc.TPS))
	}
	if wc.TPS > maxTPS {
		result.AddWarning("window.tps", fmt.Sprintf("very high rate %d may cause high CPU usage", wc.TPS))
	}

	if len(wc.Title) > maxTitleLen {
		result.AddWarning("window.title", "title too long")
	}
}

func (v *Validator) validateBrush(bc *BrushConfig, result *ValidationResult) {
	if bc.Width <= 0 {
		result.AddError("brush.width", fmt.Sprintf("must be positive, got %g", bc.Width))
	}
	if bc.Width > maxBrushWidth {
		result.AddWarning("brush.width", fmt.Sprintf("unusually large width %g", bc.Width))
	}

	if bc.Overdraw < 0 {
		result.AddError("brush.overdraw", fmt.Sprintf("must be non-negative, got %g", bc.Overdraw))
	}
	if bc.Overdraw == 0 {
		result.AddWarning("brush.overdraw", "zero overdraw falls back to the default skirt")
	}

	if bc.MinSpacing < 0 {
		result.AddError("brush.min_spacing", fmt.Sprintf("must be non-negative, got %g", bc.MinSpacing))
	}
	if bc.Width > 0 && bc.MinSpacing > bc.Width {
		result.AddWarning("brush.min_spacing",
			fmt.Sprintf("spacing %g exceeds the stroke width %g, curves will look faceted", bc.MinSpacing, bc.Width))
	}
}

func (v *Validator) validateColors(cfg *Config, result *ValidationResult) {
	if cfg.Brush.Color.A == 0 {
		result.AddWarning("brush.color", "fully transparent ink will be invisible")
	}
	if cfg.Brush.Color == cfg.Canvas.Background {
		result.AddWarning("brush.color", "ink matches the background color")
	}
	if cfg.Canvas.Background.A != 255 {
		result.AddWarning("canvas.background", "translucent background is drawn over black")
	}
}

func (v *Validator) validateDisplay(dc *DisplayConfig, result *ValidationResult) {
	if dc.FontSize < 0 {
		result.AddError("display.font_size",
			fmt.Sprintf("must be non-negative, got %g", dc.FontSize))
	}
	if dc.FontSize > maxFontSize {
		result.AddWarning("display.font_size",
			fmt.Sprintf("unusually large font size: %g", dc.FontSize))
	}
	if dc.ShowStats && dc.StatsColor.A == 0 {
		result.AddWarning("display.stats_color", "fully transparent overlay text will be invisible")
	}
}

// ValidateConfig is a convenience function to validate a Config with default settings.
// Returns nil if the config is valid, or an error describing validation failures.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return NewValidator().Validate(cfg).Error()
}

// ValidateConfigStrict validates a Config with strict mode enabled.
// Warnings are treated as errors.
func ValidateConfigStrict(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return NewValidator().WithStrictMode(true).Validate(cfg).Error()
}
