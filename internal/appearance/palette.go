package appearance

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// SlateVariant derives the slate-mode rendition of an accent color:
// same hue, muted saturation, darkened lightness.
func SlateVariant(hex string) (string, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("appearance: accent %q: %w", hex, err)
	}

	h, s, l := c.Hsl()
	dark := colorful.Hsl(h, s*0.65, l*0.45+0.08).Clamped()
	return dark.Hex(), nil
}

// TextColor returns a readable foreground ("#000000" or "#ffffff") for
// the given background color, by relative luminance.
func TextColor(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#000000"
	}

	r, g, b := c.RGB255()
	luminance := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	if luminance > 140 {
		return "#000000"
	}
	return "#ffffff"
}

// AccentFor returns the theme accent adjusted for the given mode:
// slate mode gets the derived dark variant. Themes without an accent,
// or with an accent that fails to parse, return the raw value.
func (t Theme) AccentFor(mode Mode) string {
	if mode != ModeSlate || t.Accent == "" {
		return t.Accent
	}
	variant, err := SlateVariant(t.Accent)
	if err != nil {
		return t.Accent
	}
	return variant
}
