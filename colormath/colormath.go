// Package colormath converts between the colour representations used by the
// bulb driver. Every function is total: out of range inputs are clamped.
package colormath

import (
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/lucasb-eyer/go-colorful"
	"math"
	"strings"
)

var ErrInvalidHex = errors.New("not a six digit hex colour")

// RgbToHsl returns hue in degrees [0,360) and saturation and lightness as
// percentages [0,100].
func RgbToHsl(r, g, b uint8) (h, s, l float64) {
	colour := colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
	h, s, l = colour.Hsl()
	return h, s * 100, l * 100
}

// HslToRgb is the inverse of RgbToHsl.
func HslToRgb(h, s, l float64) (r, g, b uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = clampFloat(s, 0, 100) / 100
	l = clampFloat(l, 0, 100) / 100
	return colorful.Hsl(h, s, l).Clamped().RGB255()
}

// ParseHexRgb reads a colour written as RRGGBB, optionally prefixed with '#'.
func ParseHexRgb(value string) (r, g, b uint8, err error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(trimmed) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: '%s' has %d digits", ErrInvalidHex, value, len(trimmed))
	}
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: '%s': %w", ErrInvalidHex, value, err)
	}
	return decoded[0], decoded[1], decoded[2], nil
}

// SaturationFromHex parses RRGGBB and returns the HSL saturation rounded to a
// whole percentage.
func SaturationFromHex(value string) (int, error) {
	r, g, b, err := ParseHexRgb(value)
	if err != nil {
		return 0, err
	}
	_, s, _ := RgbToHsl(r, g, b)
	return ClampPercent(int(math.Round(s))), nil
}

// ComputeWhiteChannels maps a saturation (used as the warm/cool balance, 0 is
// coolest) and a brightness, both percentages, onto warm and cool white
// channel intensities in [0, channelMax].
//
// With t = saturation/100 and b = brightness/100:
//
//	warm = channelMax * b * min(1, 2t)
//	cool = channelMax * b * min(1, 2(1-t))
//
// Both channels run at full scale at the neutral midpoint, warm only ever
// rises and cool only ever falls as t moves towards warm.
func ComputeWhiteChannels(saturation, brightness, channelMax int) (warm, cool int) {
	if channelMax <= 0 {
		channelMax = 255
	}
	t := float64(ClampPercent(saturation)) / 100
	b := float64(ClampPercent(brightness)) / 100
	full := float64(channelMax) * b

	warm = int(math.Round(full * math.Min(1, 2*t)))
	cool = int(math.Round(full * math.Min(1, 2*(1-t))))
	return Clamp(warm, 0, channelMax), Clamp(cool, 0, channelMax)
}

func Clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func ClampPercent(value int) int {
	return Clamp(value, 0, 100)
}

func clampFloat(value, lo, hi float64) float64 {
	if math.IsNaN(value) || value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
