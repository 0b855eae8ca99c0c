package surface

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// axisEps is the squared-length threshold below which a projected axis is
// considered degenerate.
const axisEps = 1e-12

// Frame is a local tangent coordinate frame on a surface. Normal is the
// unit out-of-plane axis and XAxis is a unit in-plane reference axis,
// orthogonal to Normal.
type Frame struct {
	Origin v3.Vec
	Normal v3.Vec
	XAxis  v3.Vec
}

// NewFrame builds a tangent frame at origin with the given normal.
//
// The in-plane reference axis follows a fixed convention: the world X axis
// projected into the tangent plane and normalized. When the normal is
// parallel to world X the world Y axis is projected instead. The convention
// is arbitrary but must stay fixed, since frames built from the same
// point/normal pair have to be identical across runs.
func NewFrame(origin, normal v3.Vec) Frame {
	n := normal.Normalize()
	x := projectToPlane(v3.Vec{X: 1}, n)
	if x.Length2() < axisEps {
		x = projectToPlane(v3.Vec{Y: 1}, n)
	}
	return Frame{Origin: origin, Normal: n, XAxis: x.Normalize()}
}

// RotateAxes returns the frame with its in-plane axis rotated by angle
// (radians, counterclockwise about Normal). Origin and Normal are unchanged.
func (f Frame) RotateAxes(angle float64) Frame {
	f.XAxis = rotateAbout(f.XAxis, f.Normal, angle)
	return f
}

// SignedAngle returns the angle from a to b measured about the axis n,
// in (-pi, pi]. All three vectors are expected to be unit length with
// a and b perpendicular to n.
func SignedAngle(a, b, n v3.Vec) float64 {
	return math.Atan2(a.Cross(b).Dot(n), a.Dot(b))
}

// projectToPlane removes from v its component along the unit normal n.
func projectToPlane(v, n v3.Vec) v3.Vec {
	return v.Sub(n.MulScalar(v.Dot(n)))
}

// rotateAbout rotates v about the unit axis k by angle, using the
// Rodrigues rotation formula.
func rotateAbout(v, k v3.Vec, angle float64) v3.Vec {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return v.MulScalar(c).
		Add(k.Cross(v).MulScalar(s)).
		Add(k.MulScalar(k.Dot(v) * (1 - c)))
}
