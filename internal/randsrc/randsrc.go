// Package randsrc provides the seedable random source threaded through
// the simulation driver and every agent decision.
package randsrc

import (
	"math/rand/v2"
)

// Source is the randomness a simulation run consumes.
// *rand.Rand satisfies it.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Shuffle pseudo-randomizes the order of n elements.
	Shuffle(n int, swap func(i, j int))
}

// streamSalt separates the PCG stream from the state seed.
const streamSalt = 0x9e3779b97f4a7c15

// New returns a deterministic source for seed.
// Two sources built from the same seed produce identical sequences.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^streamSalt))
}

// Scripted replays a fixed sequence of Float64 values and never reorders
// on Shuffle. When the script is exhausted it keeps returning Fallback.
type Scripted struct {
	Values   []float64
	Fallback float64

	pos int
}

// NewScripted creates a scripted source.
func NewScripted(values ...float64) *Scripted {
	return &Scripted{Values: values}
}

// Float64 returns the next scripted value.
func (s *Scripted) Float64() float64 {
	if s.pos >= len(s.Values) {
		return s.Fallback
	}
	v := s.Values[s.pos]
	s.pos++
	return v
}

// Shuffle keeps the original order.
func (s *Scripted) Shuffle(int, func(i, j int)) {}

// Consumed returns how many scripted values were drawn.
func (s *Scripted) Consumed() int {
	return s.pos
}

var _ Source = (*rand.Rand)(nil)
var _ Source = (*Scripted)(nil)
