package simulation

import (
	"math"

	"github.com/example/prisoners/internal/core/strategy"
)

// Expected returns the exact probability that a trial succeeds.
//
// NumberFollow succeeds iff no cycle is longer than the budget. With P(m) the
// probability that a random permutation of m elements has all cycles of length
// at most b, P(0) = 1 and P(m) = (1/m) * sum_{k=1..min(b,m)} P(m-k), since the
// cycle holding a fixed element has length k with probability 1/m.
//
// Random prisoners search independently, each succeeding with probability
// b/n, so the group succeeds with probability (b/n)^n.
func Expected(s strategy.Strategy, prisoners int) float64 {
	if prisoners <= 0 {
		return 1
	}
	budget := strategy.Budget(prisoners)

	switch s {
	case strategy.NumberFollow:
		return shortCyclesProbability(prisoners, budget)
	case strategy.Random:
		return math.Pow(float64(budget)/float64(prisoners), float64(prisoners))
	default:
		return 0
	}
}

func shortCyclesProbability(n, budget int) float64 {
	p := make([]float64, n+1)
	p[0] = 1
	for m := 1; m <= n; m++ {
		sum := 0.0
		for k := 1; k <= min(budget, m); k++ {
			sum += p[m-k]
		}
		p[m] = sum / float64(m)
	}
	return p[n]
}
