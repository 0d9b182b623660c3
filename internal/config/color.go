package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// NamedColors maps the color names accepted in configuration files.
var NamedColors = map[string]color.RGBA{
	"black":       {R: 0, G: 0, B: 0, A: 255},
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"red":         {R: 255, G: 0, B: 0, A: 255},
	"green":       {R: 0, G: 255, B: 0, A: 255},
	"blue":        {R: 0, G: 0, B: 255, A: 255},
	"yellow":      {R: 255, G: 255, B: 0, A: 255},
	"cyan":        {R: 0, G: 255, B: 255, A: 255},
	"magenta":     {R: 255, G: 0, B: 255, A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"grey":        {R: 128, G: 128, B: 128, A: 255},
	"orange":      {R: 255, G: 165, B: 0, A: 255},
	"purple":      {R: 128, G: 0, B: 128, A: 255},
	"brown":       {R: 165, G: 42, B: 42, A: 255},
	"navy":        {R: 0, G: 0, B: 128, A: 255},
	"crimson":     {R: 220, G: 20, B: 60, A: 255},
	"darkblue":    {R: 0, G: 0, B: 139, A: 255},
	"darkgreen":   {R: 0, G: 100, B: 0, A: 255},
	"darkred":     {R: 139, G: 0, B: 0, A: 255},
	"ivory":       {R: 255, G: 255, B: 240, A: 255},
	"beige":       {R: 245, G: 245, B: 220, A: 255},
	"lightgray":   {R: 211, G: 211, B: 211, A: 255},
	"lightgrey":   {R: 211, G: 211, B: 211, A: 255},
	"transparent": {R: 0, G: 0, B: 0, A: 0},
}

// ParseColor parses a color string. Accepted forms are a name from
// NamedColors, "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA" (the '#' is
// optional), "rgb(r, g, b)" and "rgba(r, g, b, a)" where a is 0-255 or
// 0.0-1.0.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}

	lower := strings.ToLower(s)
	if clr, ok := NamedColors[lower]; ok {
		return clr, nil
	}
	if strings.HasPrefix(s, "#") || isHexString(s) {
		return parseHexColor(s)
	}
	if strings.HasPrefix(lower, "rgba(") {
		return parseColorFunc(s, "rgba(", 4)
	}
	if strings.HasPrefix(lower, "rgb(") {
		return parseColorFunc(s, "rgb(", 3)
	}

	return color.RGBA{}, fmt.Errorf("unrecognized color format: %q", s)
}

// ToHex formats c as #RRGGBB, or #RRGGBBAA when not opaque.
func ToHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func isHexString(s string) bool {
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, c := range s {
		if !isHexDigit(c) {
			return false
		}
	}
	return true
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'f') ||
		(c >= 'A' && c <= 'F')
}

var channelNames = [4]string{"red", "green", "blue", "alpha"}

func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")

	var digits int
	switch len(s) {
	case 3, 4:
		digits = 1
	case 6, 8:
		digits = 2
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length: %d", len(s))
	}

	ch := [4]uint8{0, 0, 0, 255}
	for i := 0; i*digits < len(s); i++ {
		part := s[i*digits : (i+1)*digits]
		if digits == 1 {
			part += part
		}
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid %s component: %w", channelNames[i], err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func parseColorFunc(s, prefix string, n int) (color.RGBA, error) {
	if !strings.HasSuffix(s, ")") {
		return color.RGBA{}, fmt.Errorf("invalid %s) format: %q", prefix, s)
	}

	parts := strings.Split(s[len(prefix):len(s)-1], ",")
	if len(parts) != n {
		return color.RGBA{}, fmt.Errorf("%s) requires exactly %d values, got %d", prefix, n, len(parts))
	}

	ch := [4]uint8{0, 0, 0, 255}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		var (
			v   uint8
			err error
		)
		if i == 3 {
			v, err = parseAlphaComponent(p)
		} else {
			v, err = parseColorComponent(p)
		}
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid %s value: %w", channelNames[i], err)
		}
		ch[i] = v
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func parseColorComponent(s string) (uint8, error) {
	val, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(val), nil
}

// parseAlphaComponent accepts both 0-255 and 0.0-1.0.
func parseAlphaComponent(s string) (uint8, error) {
	if strings.Contains(s, ".") {
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		val = min(max(val, 0), 1)
		return uint8(val * 255), nil
	}
	return parseColorComponent(s)
}
