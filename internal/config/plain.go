package config

import (
	"bufio"
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// PlainParser parses plain configuration files made of "key value" lines.
// Blank lines and lines starting with '#' are ignored. Values may be
// wrapped in double quotes.
type PlainParser struct{}

// NewPlainParser creates a new PlainParser instance.
func NewPlainParser() *PlainParser {
	return &PlainParser{}
}

// Parse parses a plain configuration from content bytes.
// It returns a Config with parsed values or an error if parsing fails.
func (p *PlainParser) Parse(content []byte) (*Config, error) {
	cfg := DefaultConfig()
	scanner := bufio.NewScanner(bytes.NewReader(content))

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if err := p.parseDirective(&cfg, trimmed, lineNum); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading configuration: %w", err)
	}
	return &cfg, nil
}

// parseDirective parses a single "key value" line. A key with no value is a
// boolean flag set to true.
func (p *PlainParser) parseDirective(cfg *Config, line string, lineNum int) error {
	key, value, _ := strings.Cut(line, " ")
	key = strings.ToLower(strings.TrimSpace(key))
	value = unquote(strings.TrimSpace(value))

	f, ok := lookupField(key)
	if !ok {
		// Unknown keys are ignored so newer files still load.
		return nil
	}
	if value == "" && f.kind == kindBool {
		value = "yes"
	}
	if err := setField(cfg, f, ExpandEnv(value)); err != nil {
		return fmt.Errorf("line %d: invalid %s: %w", lineNum, f.key, err)
	}
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// setField parses value according to the kind of f and stores it in cfg.
func setField(cfg *Config, f field, value string) error {
	switch dst := f.ptr(cfg).(type) {
	case *int:
		n, err := parseInt(value)
		if err != nil {
			return err
		}
		*dst = n
	case *float64:
		n, err := parseFloat(value)
		if err != nil {
			return err
		}
		*dst = n
	case *bool:
		*dst = parseBool(value)
	case *string:
		*dst = value
	case *color.RGBA:
		c, err := ParseColor(value)
		if err != nil {
			return err
		}
		*dst = c
	default:
		return fmt.Errorf("unsupported field type %T", dst)
	}
	return nil
}

// parseBool parses a boolean value from common string representations.
// Accepts: yes, no, true, false, on, off, 1, 0
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "on", "1":
		return true
	default:
		return false
	}
}

// parseFloat parses a float64 from a string.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// parseInt parses an int from a string.
func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
