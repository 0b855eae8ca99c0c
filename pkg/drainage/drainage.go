// Package drainage traces the paths rain water would take flowing downhill
// across a surface. Particles are seeded at sampled candidate points and
// advected step by step along the locally steepest descent direction, each
// step re-projected onto the surface through a surface.Oracle, until a
// particle reaches a local minimum, leaves the surface, or exhausts its
// step budget.
package drainage

import (
	"errors"
	"fmt"
)

// Config holds the parameters of one simulation run. It is treated as an
// immutable value: all parameters for a run arrive together and nothing
// reads ambient state during execution.
type Config struct {
	// ParticleCount is how many start points are drawn from the candidate
	// set. Requests beyond the candidate count are clamped, not rejected.
	ParticleCount int

	// MaxSteps is the per-particle step budget and the only bound on a
	// trace's runtime.
	MaxSteps int

	// StepLength is the distance a particle advances per step.
	StepLength float64

	// Seed drives the start-point sampling. The same seed over the same
	// candidate ordering selects the same start points.
	Seed int64

	// Parallel fans the particle traces out across CPUs. Output is
	// identical in both modes.
	Parallel bool
}

// ErrInvalidConfig is wrapped by all configuration validation failures.
var ErrInvalidConfig = errors.New("invalid drainage config")

// validate rejects unusable configurations before any sampling or tracing
// begins, so parameter errors never surface mid-simulation.
func (c Config) validate() error {
	if c.ParticleCount <= 0 {
		return fmt.Errorf("%w: particle count %d, must be positive", ErrInvalidConfig, c.ParticleCount)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps %d, must be positive", ErrInvalidConfig, c.MaxSteps)
	}
	if c.StepLength <= 0 {
		return fmt.Errorf("%w: step length %g, must be positive", ErrInvalidConfig, c.StepLength)
	}
	return nil
}
