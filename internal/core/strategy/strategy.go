// Package strategy implements the two box-opening strategies a prisoner can
// follow. The set is closed: Decide switches over the known variants.
package strategy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/example/prisoners/internal/core/boxes"
)

// Strategy selects how a prisoner picks which boxes to open.
type Strategy int

const (
	// Random opens a uniformly random sample of boxes, independently of
	// every other prisoner.
	Random Strategy = iota + 1
	// NumberFollow opens the box with the prisoner's own number, then the
	// box named by each number found.
	NumberFollow
)

// ErrUnknownStrategy is returned by Parse for an unrecognised token.
var ErrUnknownStrategy = errors.New("unknown strategy")

// All lists every strategy in display order.
var All = []Strategy{NumberFollow, Random}

// String returns the command-line token for s.
func (s Strategy) String() string {
	switch s {
	case Random:
		return "random"
	case NumberFollow:
		return "number-follow"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	return s == Random || s == NumberFollow
}

// Parse converts a command-line token into a Strategy.
// Matching ignores case, and "_" or no separator are accepted in place of "-".
func Parse(token string) (Strategy, error) {
	normalized := strings.ToLower(strings.TrimSpace(token))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	switch normalized {
	case "random":
		return Random, nil
	case "number-follow", "numberfollow":
		return NumberFollow, nil
	}
	return 0, fmt.Errorf("%w %q (valid: random, number-follow)", ErrUnknownStrategy, token)
}

// Budget returns the number of boxes each prisoner may open.
// Odd prisoner counts round down.
func Budget(prisoners int) int {
	if prisoners <= 0 {
		return 0
	}
	return prisoners / 2
}

// Decide reports whether the prisoner finds their own number in p while
// opening at most budget boxes. rng is only consumed by Random and must not
// be shared with other goroutines.
func (s Strategy) Decide(prisoner int, p boxes.Permutation, budget int, rng *rand.Rand) bool {
	if budget <= 0 {
		return false
	}
	switch s {
	case NumberFollow:
		return followNumbers(prisoner, p, budget)
	case Random:
		return sampleBoxes(prisoner, p, budget, rng)
	default:
		return false
	}
}

func followNumbers(prisoner int, p boxes.Permutation, budget int) bool {
	box := prisoner
	for range budget {
		if p[box] == prisoner {
			return true
		}
		box = p[box]
	}
	return false
}

// sampleBoxes draws budget distinct boxes without replacement. It shuffles
// only the first budget slots of the box range, which yields the same
// distribution as shuffling the whole range and truncating.
func sampleBoxes(prisoner int, p boxes.Permutation, budget int, rng *rand.Rand) bool {
	n := len(p)
	if budget > n {
		budget = n
	}
	candidates := boxes.Identity(n)
	for i := range budget {
		j := i + rng.IntN(n-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
		if p[candidates[i]] == prisoner {
			return true
		}
	}
	return false
}
