package math

import "github.com/chewxy/math32"

// Lerp returns a + t*(b-a).
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Saturate clamps v to [0, 1].
func Saturate(v float32) float32 {
	return Clamp(v, 0, 1)
}

// Smoothstep is the GLSL smoothstep: Hermite interpolation between edge0 and edge1.
func Smoothstep(edge0, edge1, x float32) float32 {
	t := Saturate((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func Abs(v float32) float32 {
	return math32.Abs(v)
}

func Pow(x, y float32) float32 {
	return math32.Pow(x, y)
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
