package blurhash

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// linearTable caches SRGBToLinear for every byte value. The encoder reads it
// once per channel per pixel.
var linearTable [256]float64

func init() {
	for i := range linearTable {
		r, _, _ := colorful.Color{R: float64(i) / 255}.LinearRgb()
		linearTable[i] = r
	}
}

// SRGBToLinear converts an 8-bit sRGB channel to linear light in [0, 1]
// using the two-branch sRGB transfer curve.
func SRGBToLinear(value uint8) float64 {
	return linearTable[value]
}

// LinearToSRGB converts a linear-light channel back to an 8-bit sRGB value.
// Input is clamped to [0, 1]; the result is rounded half up.
func LinearToSRGB(value float64) uint8 {
	v := math.Max(0, math.Min(1, value))
	c := colorful.LinearRgb(v, 0, 0)
	return uint8(math.Min(255, c.R*255+0.5))
}

// signPow raises |value| to exp and restores the sign of value.
func signPow(value, exp float64) float64 {
	return math.Copysign(math.Pow(math.Abs(value), exp), value)
}
