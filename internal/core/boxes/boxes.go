// Package boxes models the row of closed boxes for one trial: a permutation
// mapping each box index to the prisoner number it contains.
package boxes

import "math/rand/v2"

// Permutation maps box index to contained number. Every value in [0, len)
// appears exactly once. A Permutation is not modified after generation.
type Permutation []int

// Identity returns the permutation where box i contains number i.
func Identity(n int) Permutation {
	if n <= 0 {
		return Permutation{}
	}
	p := make(Permutation, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// Generate returns a uniformly random permutation of [0, n) using a
// Fisher-Yates shuffle driven by rng. n <= 0 yields an empty permutation.
func Generate(n int, rng *rand.Rand) Permutation {
	p := Identity(n)
	rng.Shuffle(len(p), func(i, j int) {
		p[i], p[j] = p[j], p[i]
	})
	return p
}

// Valid reports whether p is a bijection on [0, len(p)).
func (p Permutation) Valid() bool {
	seen := make([]bool, len(p))
	for _, v := range p {
		if v < 0 || v >= len(p) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// CycleLengthOf returns the length of the cycle containing box i.
func (p Permutation) CycleLengthOf(i int) int {
	length := 1
	for next := p[i]; next != i; next = p[next] {
		length++
	}
	return length
}

// CycleLengths returns the length of every cycle in p, in order of each
// cycle's smallest box index.
func (p Permutation) CycleLengths() []int {
	visited := make([]bool, len(p))
	var lengths []int
	for start := range p {
		if visited[start] {
			continue
		}
		length := 0
		for box := start; !visited[box]; box = p[box] {
			visited[box] = true
			length++
		}
		lengths = append(lengths, length)
	}
	return lengths
}

// LongestCycle returns the length of the longest cycle, or 0 for an empty
// permutation.
func (p Permutation) LongestCycle() int {
	longest := 0
	for _, l := range p.CycleLengths() {
		if l > longest {
			longest = l
		}
	}
	return longest
}
