package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// Ensemble repeats one configuration over consecutive seeds on a bounded
// number of workers. Observers of the base simulator are not attached to
// ensemble runs.
type Ensemble struct {
	base      *Simulator
	numRuns   int
	seedStart int64
	Workers   int
}

func NewEnsemble(s *Simulator, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: s, numRuns: numRuns, seedStart: seedStart, Workers: runtime.NumCPU()}
}

// Run returns the results in seed order. Any failed run fails the ensemble.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	runner := &Simulator{params: e.base.params, width: e.base.width, height: e.base.height, metrics: e.base.metrics}
	seeds := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < max(min(e.Workers, e.numRuns), 1); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range seeds {
				run := cfg
				run.Seed = e.seedStart + int64(idx)
				res, err := runner.Run(ctx, run)
				if err != nil {
					err = fmt.Errorf("seed %d: %w", run.Seed, err)
				}
				results[idx], errs[idx] = res, err
			}
		}()
	}
	for i := 0; i < e.numRuns; i++ {
		seeds <- i
	}
	close(seeds)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}
