// Package simulation contains the pure business rules for simulation runs.
// Guards are pure functions that evaluate preconditions without side effects.
package simulation

import (
	"fmt"

	"github.com/example/prisoners/internal/core/strategy"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// RunContext provides context for simulation run guards.
type RunContext struct {
	Strategy  strategy.Strategy
	Count     int
	Prisoners int
}

// CanRunSimulation evaluates whether a simulation can be started.
// Rules:
// - Strategy must be a known variant
// - Trial count must be positive (a zero count has no success rate)
// - Prisoner count must not be negative
func CanRunSimulation(ctx RunContext) GuardResult {
	if !ctx.Strategy.Valid() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown strategy %s", ctx.Strategy),
		}
	}

	if ctx.Count <= 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("trial count must be positive (got %d)", ctx.Count),
		}
	}

	if ctx.Prisoners < 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("number of prisoners cannot be negative (got %d)", ctx.Prisoners),
		}
	}

	return GuardResult{Allowed: true}
}

// IsEvenPrisonerCount reports whether every prisoner gets exactly half the
// boxes. Odd counts are allowed but lose the remainder to floor division.
func IsEvenPrisonerCount(prisoners int) bool {
	return prisoners%2 == 0
}
