package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/colornames"
)

// ParseColor resolves a CSS color name ("firebrick", "lawngreen") or a hex
// value ("#1f77b4", "#fff").
func ParseColor(s string) (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(name, "#") {
		hex := strings.TrimPrefix(name, "#")
		if len(hex) != 3 && len(hex) != 6 {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
		c := drawing.ColorFromHex(hex)
		return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}, nil
	}

	c, ok := colornames.Map[name]
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}
	return c, nil
}

// ValidateColors checks that every color resolves.
func ValidateColors(colors []string) error {
	for _, c := range colors {
		if _, err := ParseColor(c); err != nil {
			return err
		}
	}
	return nil
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// drawingColor resolves s for go-chart, falling back to fallback when s is empty.
func drawingColor(s string, fallback drawing.Color) (drawing.Color, error) {
	if s == "" {
		return fallback, nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return drawing.Color{}, err
	}
	return toDrawing(c), nil
}
