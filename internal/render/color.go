package render

import "math"

// Color is an RGB triple on the 0..255 scale the scientific ramp works in.
type Color struct {
	R, G, B float64
}

// SciColor maps val through the blue, cyan, green, yellow, red ramp used
// for pressure and smoke-gradient views. The upper clamp sits 0.0001 below
// max so the top ramp segment is never indexed out of range.
func SciColor(val, min, max float64) Color {
	val = math.Min(math.Max(val, min), max-0.0001)
	d := max - min
	if d == 0 {
		val = 0.5
	} else {
		val = (val - min) / d
	}

	const m = 0.25
	num := math.Floor(val / m)
	s := (val - num*m) / m

	var r, g, b float64
	switch int(num) {
	case 0:
		r, g, b = 0.0, s, 1.0
	case 1:
		r, g, b = 0.0, 1.0, 1.0-s
	case 2:
		r, g, b = s, 1.0, 0.0
	case 3:
		r, g, b = 1.0, 1.0-s, 0.0
	default:
		r, g, b = 1.0, 0.0, 0.0
	}
	return Color{R: 255.0 * r, G: 255.0 * g, B: 255.0 * b}
}

func Gray(v float64) Color {
	return Color{R: v, G: v, B: v}
}

func clamp255(v float64) float64 {
	return math.Min(math.Max(v, 0), 255)
}
