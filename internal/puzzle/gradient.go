package puzzle

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

const (
	// MinLength is the smallest gradient that still has an interior cell.
	MinLength = 3
	// DefaultLength is the number of cells in the classic single-row board.
	DefaultLength = 10
)

// ErrNotInterior is returned by CheckIndex for indices that are not
// selectable (endpoints or out of range).
var ErrNotInterior = errors.New("index is not an interior cell")

// Gradient is an ordered sequence of colors. Index 0 and Len()-1 are the
// fixed endpoints; only interior cells move.
type Gradient []Color

// Len returns the number of cells.
func (g Gradient) Len() int { return len(g) }

// Equal reports whether both gradients hold exactly the same colors in the
// same order.
func (g Gradient) Equal(other Gradient) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if g[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (g Gradient) Clone() Gradient {
	if g == nil {
		return nil
	}
	out := make(Gradient, len(g))
	copy(out, g)
	return out
}

// IsInterior reports whether i addresses a movable cell.
func (g Gradient) IsInterior(i int) bool {
	return i >= 1 && i <= len(g)-2
}

// Source produces solved gradients and interior shuffles of them.
// State depends on nothing else from the generator.
type Source interface {
	Generate() Gradient
	Shuffle(g Gradient) Gradient
}

// Generator draws random endpoint pairs and interpolates between them.
// It is not safe for concurrent use; each State owns its own.
type Generator struct {
	length int
	rng    *rand.Rand
}

var _ Source = (*Generator)(nil)

// NewGenerator creates a Generator for gradients of the given length.
// A nil rng selects a randomly seeded PCG source. Lengths below MinLength
// panic.
func NewGenerator(length int, rng *rand.Rand) *Generator {
	if length < MinLength {
		panic(fmt.Sprintf("puzzle: gradient length %d below minimum %d", length, MinLength))
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{length: length, rng: rng}
}

// NewSeededGenerator creates a Generator whose output is reproducible for
// a given seed.
func NewSeededGenerator(length int, seed uint64) *Generator {
	return NewGenerator(length, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Length returns the gradient length this generator produces.
func (gen *Generator) Length() int { return gen.length }

// Generate returns a new solved gradient. Interior cell i takes each
// channel as e0 + (e1-e0) * i/(N-1).
func (gen *Generator) Generate() Gradient {
	first := gen.randomColor()
	last := gen.randomColor()
	return Interpolate(first, last, gen.length)
}

// Shuffle returns a copy of g with the interior cells permuted uniformly.
// Endpoints are copied unchanged. The result may equal g.
func (gen *Generator) Shuffle(g Gradient) Gradient {
	out := g.Clone()
	if len(out) < MinLength {
		return out
	}
	interior := out[1 : len(out)-1]
	gen.rng.Shuffle(len(interior), func(i, j int) {
		interior[i], interior[j] = interior[j], interior[i]
	})
	return out
}

func (gen *Generator) randomColor() Color {
	return Opaque(gen.rng.Float64(), gen.rng.Float64(), gen.rng.Float64())
}

// Interpolate builds an n-cell gradient from first to last. Panics when n
// is below MinLength.
func Interpolate(first, last Color, n int) Gradient {
	if n < MinLength {
		panic(fmt.Sprintf("puzzle: gradient length %d below minimum %d", n, MinLength))
	}
	g := make(Gradient, n)
	g[0] = first
	g[n-1] = last
	steps := float64(n - 1)
	for i := 1; i < n-1; i++ {
		t := float64(i) / steps
		g[i] = Color{
			R: first.R + (last.R-first.R)*t,
			G: first.G + (last.G-first.G)*t,
			B: first.B + (last.B-first.B)*t,
			A: 1,
		}
	}
	return g
}
