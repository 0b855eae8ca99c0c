package surface

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ Oracle = (*SDF3Surface)(nil)

// projectIterations bounds the sphere-trace toward the zero set. Distance
// fields from sdfx primitives are exact or Lipschitz-1, so convergence is
// fast; the bound guards badly conditioned fields.
const projectIterations = 16

// SDF3Surface adapts a signed distance field to the Oracle interface.
// The closest surface point is found by walking the distance field along
// its gradient, which is exact for well-behaved fields.
type SDF3Surface struct {
	s sdf.SDF3

	// MaxDistance is the projection tolerance. Query points farther than
	// this from the surface produce no projection. Zero means unlimited.
	MaxDistance float64

	h   float64 // finite-difference step for the gradient
	tol float64 // surface convergence tolerance
}

// NewSDF3Surface wraps a signed distance field as a surface oracle.
func NewSDF3Surface(s sdf.SDF3) *SDF3Surface {
	bb := s.BoundingBox()
	diag := bb.Max.Sub(bb.Min).Length()
	return &SDF3Surface{
		s:   s,
		h:   diag * 1e-6,
		tol: diag * 1e-9,
	}
}

// Normal returns the unit surface normal of the field at p, estimated by
// central differences.
func (s *SDF3Surface) Normal(p v3.Vec) v3.Vec {
	h := s.h
	g := v3.Vec{
		X: s.s.Evaluate(v3.Vec{X: p.X + h, Y: p.Y, Z: p.Z}) - s.s.Evaluate(v3.Vec{X: p.X - h, Y: p.Y, Z: p.Z}),
		Y: s.s.Evaluate(v3.Vec{X: p.X, Y: p.Y + h, Z: p.Z}) - s.s.Evaluate(v3.Vec{X: p.X, Y: p.Y - h, Z: p.Z}),
		Z: s.s.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z + h}) - s.s.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z - h}),
	}
	return g.Normalize()
}

// Project returns the closest point on the zero set of the field and the
// surface normal there. ok is false when p exceeds MaxDistance or the
// walk fails to converge.
func (s *SDF3Surface) Project(p v3.Vec) (point, normal v3.Vec, ok bool) {
	d := s.s.Evaluate(p)
	if s.MaxDistance > 0 && math.Abs(d) > s.MaxDistance {
		return v3.Vec{}, v3.Vec{}, false
	}
	q := p
	for i := 0; i < projectIterations; i++ {
		if math.Abs(d) <= s.tol {
			break
		}
		q = q.Sub(s.Normal(q).MulScalar(d))
		d = s.s.Evaluate(q)
	}
	if math.Abs(d) > s.tol*100 {
		return v3.Vec{}, v3.Vec{}, false
	}
	return q, s.Normal(q), true
}
