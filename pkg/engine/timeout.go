package engine

import (
	"fmt"
	"sync"
	"time"
)

// EvalTimeout is the hard limit for a single evaluation. Analysis calls
// over large meshes dominate evaluation time, so the budget is generous
// compared to a pure scripting timeout.
const EvalTimeout = 60 * time.Second

// evalOutcome is the internal type used to pass evaluation results
// through channels.
type evalOutcome struct {
	results *Results
	errors  []EvalError
	err     error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds EvalTimeout. It uses a generation counter to
// discard stale results from previous evaluations.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan evalOutcome,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*Results, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			// A newer evaluation was started; discard this result.
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}

		return res.results, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
