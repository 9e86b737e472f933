package pixlab

import "math"

// fcolor is a straight-alpha color with channels in [0, 1], used as the
// compositing accumulator.
type fcolor struct {
	r, g, b, a float64
}

func toFloat(c Color) fcolor {
	return fcolor{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
}

// toColor rounds to the nearest 8-bit value. Fully transparent results are
// normalized to transparent black so equal documents give identical bytes.
func (f fcolor) toColor() Color {
	a := unit8(f.a)
	if a == 0 {
		return Transparent
	}
	return Color{unit8(f.r), unit8(f.g), unit8(f.b), a}
}

func unit8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// blendPixel composites src, scaled by opacity, onto dst using mode.
//
// Normal is standard source-over with alpha accumulation. Multiply, Screen
// and Add replace the source color with the mode's mix of source and
// destination (weighted by destination alpha) before the same source-over
// step. Erase subtracts the scaled source alpha from the destination alpha
// and keeps the destination color.
func blendPixel(dst fcolor, src Color, opacity float64, mode BlendMode) fcolor {
	sa := float64(src.A) / 255 * opacity
	if sa <= 0 {
		return dst
	}
	if mode == BlendErase {
		a := dst.a - sa
		if a <= 0 {
			return fcolor{}
		}
		dst.a = a
		return dst
	}

	s := toFloat(src)
	if mode != BlendNormal && dst.a > 0 {
		da := dst.a
		s.r = (1-da)*s.r + da*mixChannel(mode, s.r, dst.r)
		s.g = (1-da)*s.g + da*mixChannel(mode, s.g, dst.g)
		s.b = (1-da)*s.b + da*mixChannel(mode, s.b, dst.b)
	}

	inv := 1 - sa
	outA := sa + dst.a*inv
	if outA <= 0 {
		return fcolor{}
	}
	return fcolor{
		r: (s.r*sa + dst.r*dst.a*inv) / outA,
		g: (s.g*sa + dst.g*dst.a*inv) / outA,
		b: (s.b*sa + dst.b*dst.a*inv) / outA,
		a: outA,
	}
}

// mixChannel is the per-channel arithmetic of the separable blend modes.
func mixChannel(mode BlendMode, s, d float64) float64 {
	switch mode {
	case BlendMultiply:
		return s * d
	case BlendScreen:
		return s + d - s*d
	case BlendAdd:
		return math.Min(1, s+d)
	default:
		return s
	}
}
