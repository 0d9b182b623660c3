package config

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
)

// Migrator converts plain key-value configurations to Lua scripts and back.
type Migrator struct {
	// includeComments adds explanatory comments to the output.
	includeComments bool
	// preserveDefaults includes settings even when they match defaults.
	preserveDefaults bool
}

// MigratorOption is a functional option for configuring a Migrator.
type MigratorOption func(*Migrator)

// WithComments enables adding explanatory comments to the output.
func WithComments(include bool) MigratorOption {
	return func(m *Migrator) {
		m.includeComments = include
	}
}

// WithDefaults includes settings that match default values in the output.
func WithDefaults(preserve bool) MigratorOption {
	return func(m *Migrator) {
		m.preserveDefaults = preserve
	}
}

// NewMigrator creates a new Migrator with the given options.
func NewMigrator(opts ...MigratorOption) *Migrator {
	m := &Migrator{
		includeComments:  true,
		preserveDefaults: false,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// sectionComments labels the first key of each group in the output.
var sectionComments = map[string]string{
	"width":       "Window",
	"brush_width": "Brush",
	"background":  "Canvas",
	"show_stats":  "Statistics overlay",
}

// MigrateToLua renders cfg as a Lua script that fills ink.config.
func (m *Migrator) MigrateToLua(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer
	if m.includeComments {
		buf.WriteString("-- smoothink configuration\n\n")
	}

	buf.WriteString("ink.config = {\n")
	m.writeSettings(&buf, cfg, func(key, value string) string {
		return fmt.Sprintf("    %s = %s,\n", key, value)
	}, "    -- ", luaString)
	buf.WriteString("}\n")

	return buf.Bytes(), nil
}

// MigrateToPlain renders cfg as plain "key value" lines.
func (m *Migrator) MigrateToPlain(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer
	if m.includeComments {
		buf.WriteString("# smoothink configuration\n")
	}
	m.writeSettings(&buf, cfg, func(key, value string) string {
		return fmt.Sprintf("%s %s\n", key, value)
	}, "# ", plainString)

	return buf.Bytes(), nil
}

// writeSettings writes every field that differs from the defaults, or all
// of them when preserveDefaults is set.
func (m *Migrator) writeSettings(buf *bytes.Buffer, cfg *Config, line func(key, value string) string, comment string, quote func(string) string) {
	defaults := DefaultConfig()
	for _, f := range fields {
		value := formatField(cfg, f, quote)
		if !m.preserveDefaults && value == formatField(&defaults, f, quote) {
			continue
		}
		if section, ok := sectionComments[f.key]; ok && m.includeComments {
			buf.WriteString("\n" + comment + section + "\n")
		}
		buf.WriteString(line(f.key, value))
	}
}

// formatField renders the value of f in cfg in a form both parsers accept.
func formatField(cfg *Config, f field, quote func(string) string) string {
	switch v := f.ptr(cfg).(type) {
	case *int:
		return strconv.Itoa(*v)
	case *float64:
		return strconv.FormatFloat(*v, 'g', -1, 64)
	case *bool:
		return strconv.FormatBool(*v)
	case *string:
		return quote(*v)
	case *color.RGBA:
		return quote(colorString(*v))
	}
	return ""
}

func luaString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return "'" + s + "'"
}

func plainString(s string) string {
	if s == "" || strings.ContainsAny(s, " \t#") {
		return `"` + s + `"`
	}
	return s
}

// reverseColorNames provides a deterministic mapping from RGBA colors to
// names. "grey" is preferred over "gray".
var reverseColorNames = map[color.RGBA]string{
	{R: 255, G: 255, B: 255, A: 255}: "white",
	{R: 0, G: 0, B: 0, A: 255}:       "black",
	{R: 255, G: 0, B: 0, A: 255}:     "red",
	{R: 0, G: 255, B: 0, A: 255}:     "green",
	{R: 0, G: 0, B: 255, A: 255}:     "blue",
	{R: 255, G: 255, B: 0, A: 255}:   "yellow",
	{R: 0, G: 255, B: 255, A: 255}:   "cyan",
	{R: 255, G: 0, B: 255, A: 255}:   "magenta",
	{R: 128, G: 128, B: 128, A: 255}: "grey",
	{R: 255, G: 165, B: 0, A: 255}:   "orange",
	{}:                               "transparent",
}

// colorString renders c as a name when one exists, else as hex.
func colorString(c color.RGBA) string {
	if name, ok := reverseColorNames[c]; ok {
		return name
	}
	return strings.ToLower(ToHex(c))
}

// Convert parses content in either format and renders it in the other one.
// It returns the rendered bytes and the name of the output format.
func Convert(content []byte, opts ...MigratorOption) ([]byte, string, error) {
	m := NewMigrator(opts...)
	if IsLuaConfig(content) {
		lp, err := NewLuaConfigParser()
		if err != nil {
			return nil, "", err
		}
		defer lp.Close()
		cfg, err := lp.Parse(content)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse Lua config: %w", err)
		}
		out, err := m.MigrateToPlain(cfg)
		return out, FormatPlain, err
	}

	cfg, err := NewPlainParser().Parse(content)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse plain config: %w", err)
	}
	out, err := m.MigrateToLua(cfg)
	return out, FormatLua, err
}

// ConvertFile reads a configuration file and renders it in the other format.
func ConvertFile(path string, opts ...MigratorOption) ([]byte, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	return Convert(content, opts...)
}
