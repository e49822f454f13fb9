// Package trial runs a single trial: one shuffled row of boxes, every prisoner
// searching it in parallel, and an AND over their outcomes.
package trial

import (
	"errors"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/example/prisoners/internal/core/boxes"
	"github.com/example/prisoners/internal/core/seed"
	"github.com/example/prisoners/internal/core/strategy"
)

// errPrisonerFailed is the only error a chunk returns. It marks the trial as
// failed; it is not an infrastructure error.
var errPrisonerFailed = errors.New("prisoner did not find their number")

// Stream indices under a trial seed. The permutation uses stream 0 and
// prisoner i uses stream i+1.
const permutationStream = 0

// Runner evaluates trials. The zero value uses one worker per CPU.
type Runner struct {
	// Workers caps the number of goroutines evaluating prisoners.
	Workers int
}

// WorkerCount returns the number of goroutines a trial of the given size
// is split across.
func (r Runner) WorkerCount(prisoners int) int {
	w := r.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > prisoners {
		w = prisoners
	}
	return w
}

// Run executes one trial and reports whether every prisoner found their
// number. The outcome is a pure function of (s, prisoners, trialSeed).
func (r Runner) Run(s strategy.Strategy, prisoners int, trialSeed uint64) bool {
	p := boxes.Generate(prisoners, seed.New(seed.Derive(trialSeed, permutationStream)))
	return r.Evaluate(s, p, strategy.Budget(prisoners), trialSeed)
}

// Evaluate runs every prisoner against an existing permutation. p is shared
// read-only across workers.
func (r Runner) Evaluate(s strategy.Strategy, p boxes.Permutation, budget int, trialSeed uint64) bool {
	prisoners := len(p)
	if prisoners == 0 {
		return true
	}

	workers := r.WorkerCount(prisoners)
	chunk := (prisoners + workers - 1) / workers

	var failed atomic.Bool
	var g errgroup.Group
	for start := 0; start < prisoners; start += chunk {
		end := min(start+chunk, prisoners)
		g.Go(func() error {
			src := seed.NewSource(0)
			for i := start; i < end; i++ {
				// The verdict is already false, so the remaining prisoners
				// cannot change it.
				if failed.Load() {
					return nil
				}
				src.Reseed(seed.Derive(trialSeed, uint64(i)+1))
				if !s.Decide(i, p, budget, src.Rand()) {
					failed.Store(true)
					return errPrisonerFailed
				}
			}
			return nil
		})
	}
	return g.Wait() == nil
}
