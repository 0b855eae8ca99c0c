package drainage

import v3 "github.com/deadsy/sdfx/vec/v3"

// Path is one particle's full descent trail. A Path always has at least
// two points; trails shorter than that carry no direction and are dropped
// by the simulation.
type Path struct {
	points []v3.Vec
}

// Len returns the number of recorded points.
func (p Path) Len() int { return len(p.points) }

// Polyline returns the recorded trail as straight polyline vertices. The
// returned slice is shared and must not be modified.
func (p Path) Polyline() []v3.Vec { return p.points }

// Curve returns a smoothed curve through the recorded points, as a
// Catmull-Rom interpolation with segments samples per span. The curve
// passes through every recorded point; smoothing is presentation only and
// never changes the underlying trail. segments below 1 is treated as 1,
// which reproduces the polyline.
func (p Path) Curve(segments int) []v3.Vec {
	if segments < 1 {
		segments = 1
	}
	pts := p.points
	if len(pts) < 2 {
		return append([]v3.Vec(nil), pts...)
	}

	out := make([]v3.Vec, 0, (len(pts)-1)*segments+1)
	out = append(out, pts[0])
	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[maxInt(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[minInt(i+2, len(pts)-1)]
		for s := 1; s <= segments; s++ {
			t := float64(s) / float64(segments)
			out = append(out, catmullRom(p0, p1, p2, p3, t))
		}
	}
	return out
}

// catmullRom evaluates a uniform Catmull-Rom span between p1 and p2 at
// parameter t in [0, 1].
func catmullRom(p0, p1, p2, p3 v3.Vec, t float64) v3.Vec {
	t2 := t * t
	t3 := t2 * t
	return p1.MulScalar(2).
		Add(p2.Sub(p0).MulScalar(t)).
		Add(p0.MulScalar(2).Sub(p1.MulScalar(5)).Add(p2.MulScalar(4)).Sub(p3).MulScalar(t2)).
		Add(p1.MulScalar(3).Sub(p2.MulScalar(3)).Add(p3).Sub(p0).MulScalar(t3)).
		MulScalar(0.5)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
