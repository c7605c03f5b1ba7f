package rubikscube

import (
	"fmt"
	"math/rand/v2"
)

// DefaultScrambleMoves is the scramble length used when none is given.
const DefaultScrambleMoves = 100

// Source supplies uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a deterministic PCG generator for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Scramble applies n uniformly random actions of the cube's metric and
// returns them in order. Repeated or cancelling moves are kept as drawn.
func Scramble(c *Cube, src Source, n int) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: scramble length %d", ErrInvalidConfiguration, n)
	}
	actions := make([]int, n)
	if err := ScrambleInto(c, src, actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// ScrambleInto is Scramble with len(dst) moves, recording them in dst.
func ScrambleInto(c *Cube, src Source, dst []int) error {
	if src == nil {
		return fmt.Errorf("%w: nil random source", ErrInvalidConfiguration)
	}
	count := len(c.table)
	for i := range dst {
		a := src.IntN(count)
		if err := c.Turn(a); err != nil {
			return err
		}
		dst[i] = a
	}
	return nil
}
