package visualizer

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGBA creates a color from 8-bit components and an alpha in [0, 1].
func RGBA(r, g, b uint8, a float64) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, a}
}

// ParseHex parses a color in the #rrggbb form.
func ParseHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return Color{}, errors.Errorf("invalid color %q", hex)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, errors.Wrapf(err, "invalid color %q", hex)
	}

	return RGBA(uint8(v>>16), uint8(v>>8), uint8(v), 1), nil
}

func mustHex(hex string) Color {
	c, err := ParseHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Palette is the gradient that lit segments are colored with, from the bottom
// up.
type Palette []Color

// DefaultPalette goes from cyan through purple and magenta to white.
var DefaultPalette = Palette{
	mustHex("#06b6d4"),
	mustHex("#22d3ee"),
	mustHex("#67e8f9"),
	mustHex("#a855f7"),
	mustHex("#c084fc"),
	mustHex("#e879f9"),
	mustHex("#f0abfc"),
	mustHex("#ffffff"),
}

var (
	PeakColor      = RGBA(255, 255, 255, 1)
	UnlitColor     = RGBA(255, 255, 255, 0.03)
	IdleColor      = RGBA(6, 182, 212, 0.4)
	IdleUnlitColor = RGBA(255, 255, 255, 0.02)
)

// SegmentColor returns the color of a lit segment. Every bar is shifted up the
// gradient a little depending on its index modulo 3.
func (p Palette) SegmentColor(segment, maxSegments, bar int) Color {
	if len(p) == 0 {
		return PeakColor
	}
	if maxSegments <= 0 {
		return p[0]
	}

	ratio := float64(segment)/float64(maxSegments) + float64(bar%3)*0.1
	if ratio > 1 {
		ratio = 1
	}

	ix := int(ratio * float64(len(p)-1))
	if ix >= len(p) {
		ix = len(p) - 1
	}

	return p[ix]
}
