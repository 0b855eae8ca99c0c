package curvature

import "image/color"

// mapValuesAsColors remaps the values onto a 0.0-0.7 HSL hue domain, so
// low values come out red, medium values green and high values blue.
func mapValuesAsColors(values []float64) []color.RGBA {
	colors := make([]color.RGBA, len(values))
	for i, v := range remapValues(values, 0.0, 0.7) {
		colors[i] = hslToRGBA(v, 1.0, 0.5)
	}
	return colors
}

// remapValues linearly remaps values into [targetMin, targetMax]. When all
// values are equal there is no source range, so every value maps to
// targetMin.
func remapValues(values []float64, targetMin, targetMax float64) []float64 {
	srcMin := minOf(values)
	srcMax := maxOf(values)
	out := make([]float64, len(values))
	if srcMin == srcMax {
		for i := range out {
			out[i] = targetMin
		}
		return out
	}
	scale := (targetMax - targetMin) / (srcMax - srcMin)
	for i, v := range values {
		out[i] = (v-srcMin)*scale + targetMin
	}
	return out
}

// hslToRGBA converts an HSL color (hue in [0,1]) to 8-bit RGBA.
func hslToRGBA(h, s, l float64) color.RGBA {
	var r, g, b float64
	if s == 0 {
		r, g, b = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		r = hueToChannel(p, q, h+1.0/3)
		g = hueToChannel(p, q, h)
		b = hueToChannel(p, q, h-1.0/3)
	}
	return color.RGBA{
		R: uint8(r*255 + 0.5),
		G: uint8(g*255 + 0.5),
		B: uint8(b*255 + 0.5),
		A: 255,
	}
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}
