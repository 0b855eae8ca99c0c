package drainage

import (
	"errors"

	"github.com/AndersDeleuran/MeshAnalysis/pkg/surface"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Per-particle termination signals. Both are normal outcomes of a trace,
// not failures.
var (
	// ErrNoProjection means the oracle could not locate the particle on
	// the surface.
	ErrNoProjection = errors.New("no surface projection")

	// ErrNoDescentDirection means the tangent plane at the particle is
	// horizontal, so no downhill direction exists. The particle has
	// reached a local minimum.
	ErrNoDescentDirection = errors.New("no descent direction")
)

// descentEps is the squared length below which the projected downhill
// vector counts as zero.
const descentEps = 1e-12

// stepResult is the outcome of one descent step.
type stepResult struct {
	// point is the particle's position projected onto the surface. It is
	// valid whenever the projection itself succeeded, including when the
	// step then terminated with ErrNoDescentDirection, so the tracer can
	// still record the final resting position.
	point v3.Vec

	// frame is the tangent frame advanced one step length downhill from
	// point. Its in-plane axis is the steepest descent direction.
	frame surface.Frame
}

// step advances a particle one step. It projects the frame origin onto the
// surface, rebuilds the tangent frame there, rotates the frame's in-plane
// axis onto the steepest descent direction and moves the origin one step
// length along it.
//
// step is a pure function of its inputs: it keeps no state and only reads
// the oracle, so independent particles may step concurrently.
func step(o surface.Oracle, f surface.Frame, stepLength float64) (stepResult, error) {
	p, n, ok := o.Project(f.Origin)
	if !ok {
		return stepResult{}, ErrNoProjection
	}
	fr := surface.NewFrame(p, n)

	// Steepest descent is the world down vector projected into the
	// tangent plane.
	down := v3.Vec{Z: -1}
	dh := down.Sub(fr.Normal.MulScalar(down.Dot(fr.Normal)))
	if dh.Length2() < descentEps {
		return stepResult{point: p, frame: fr}, ErrNoDescentDirection
	}
	dh = dh.Normalize()

	angle := surface.SignedAngle(fr.XAxis, dh, fr.Normal)
	fr = fr.RotateAxes(angle)
	fr.Origin = fr.Origin.Add(fr.XAxis.MulScalar(stepLength))

	return stepResult{point: p, frame: fr}, nil
}
