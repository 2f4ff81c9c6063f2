package zdraw

import "image/color"

// Color represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
	Transparent = Color{0, 0, 0, 0}
)

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromColor converts a standard color.Color to a Color.
func FromColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	return Color{
		R: float64(r) / 65535,
		G: float64(g) / 65535,
		B: float64(b) / 65535,
		A: float64(a) / 65535,
	}
}

// NRGBA converts the color to the standard non-premultiplied form.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// Modulate returns the component-wise product of two colors.
func (c Color) Modulate(o Color) Color {
	return Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, A: c.A * o.A}
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
