package drainage

import (
	"errors"
	"runtime"
	"sync"

	"github.com/AndersDeleuran/MeshAnalysis/pkg/surface"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Simulate samples start points from candidates per cfg, traces one
// particle from each, and returns the resulting drainage paths ordered by
// sampling index. Particles whose trail ends up shorter than two points
// produce no path and are absent from the output; early termination of
// individual particles is expected and never fails the run.
//
// The output is deterministic: the same oracle, candidates and config
// produce the same ordered paths whether cfg.Parallel is set or not.
func Simulate(o surface.Oracle, candidates []v3.Vec, cfg Config) ([]Path, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if o == nil {
		return nil, errors.New("drainage: nil surface oracle")
	}

	starts := samplePoints(candidates, cfg.ParticleCount, cfg.Seed)
	if len(starts) == 0 {
		return nil, nil
	}

	// Each trace writes into its own slot, addressed by sampling index.
	// Results are never appended in completion order, which under
	// parallel execution would reorder the output from run to run.
	trails := make([][]v3.Vec, len(starts))
	runTrace := func(k int) {
		trails[k], _ = trace(o, starts[k], cfg.MaxSteps, cfg.StepLength)
	}

	if cfg.Parallel {
		fanOut(len(starts), runTrace)
	} else {
		for k := range starts {
			runTrace(k)
		}
	}

	paths := make([]Path, 0, len(starts))
	for _, trail := range trails {
		if len(trail) < 2 {
			continue
		}
		paths = append(paths, Path{points: trail})
	}
	return paths, nil
}

// fanOut runs fn(k) for k in [0, n) on up to NumCPU workers. The traces
// share only the read-only oracle, so no synchronization is needed beyond
// the join.
func fanOut(n int, fn func(k int)) {
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}

	jobs := make(chan int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobs {
				fn(k)
			}
		}()
	}
	for k := 0; k < n; k++ {
		jobs <- k
	}
	close(jobs)
	wg.Wait()
}
