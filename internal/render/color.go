package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseColor parses "#rgb", "#rrggbb" or the 16-bit "#rrrrggggbbbb" form.
func ParseColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "black":
			return color.NRGBA{A: 255}, nil
		case "white":
			return color.NRGBA{R: 255, G: 255, B: 255, A: 255}, nil
		}
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	var digits int
	switch len(hex) {
	case 3:
		digits = 1
	case 6:
		digits = 2
	case 12:
		digits = 4
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	var c [3]uint8
	for i := range c {
		part := hex[i*digits : (i+1)*digits]
		v, err := strconv.ParseUint(part, 16, 16)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		switch digits {
		case 1:
			c[i] = uint8(v * 17)
		case 2:
			c[i] = uint8(v)
		case 4:
			c[i] = uint8(v >> 8)
		}
	}
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: 255}, nil
}

// colorOr parses s, returning fallback when s is empty or invalid.
func colorOr(s string, fallback color.NRGBA) color.NRGBA {
	if s == "" {
		return fallback
	}
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}
