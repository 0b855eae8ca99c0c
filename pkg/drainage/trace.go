package drainage

import (
	"errors"

	"github.com/AndersDeleuran/MeshAnalysis/pkg/surface"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Reason records why a particle stopped. Every reason is a normal outcome.
type Reason int

const (
	// NoProjection: the particle left the oracle's domain.
	NoProjection Reason = iota
	// NoDescentDirection: the particle reached a horizontal tangent plane.
	NoDescentDirection
	// UphillStep: the next position would have been level or uphill.
	UphillStep
	// MaxSteps: the step budget ran out.
	MaxSteps
)

func (r Reason) String() string {
	switch r {
	case NoProjection:
		return "no projection"
	case NoDescentDirection:
		return "no descent direction"
	case UphillStep:
		return "uphill step"
	case MaxSteps:
		return "max steps"
	}
	return "unknown"
}

// particle is the private state of one trace. It is created, mutated and
// discarded by a single call to trace; nothing is shared between traces
// except the read-only oracle.
type particle struct {
	trail []v3.Vec
	lastZ float64
}

// trace drives one particle from start through up to maxSteps descent
// steps and returns its trail with the termination reason.
//
// The first iteration steps from the raw start point using a frame with
// the world up axis as normal, so the first oracle query sees the
// unprojected start. The level-or-uphill check is skipped on that first
// iteration, allowing one step even when the surroundings of the raw
// start point are not strictly downhill.
func trace(o surface.Oracle, start v3.Vec, maxSteps int, stepLength float64) ([]v3.Vec, Reason) {
	pa := particle{}
	frame := surface.NewFrame(start, v3.Vec{Z: 1})

	for i := 0; i < maxSteps; i++ {
		res, err := step(o, frame, stepLength)
		if errors.Is(err, ErrNoProjection) {
			return pa.trail, NoProjection
		}

		if i > 0 && res.point.Z >= pa.lastZ {
			// The particle stays at its last recorded position.
			return pa.trail, UphillStep
		}
		pa.trail = append(pa.trail, res.point)
		pa.lastZ = res.point.Z

		if errors.Is(err, ErrNoDescentDirection) {
			// The resting position in the pit is recorded above before
			// the particle stops.
			return pa.trail, NoDescentDirection
		}
		frame = res.frame
	}
	return pa.trail, MaxSteps
}
