// Package scoring draws evaluator scores from an injectable source of randomness.
package scoring

import (
	"math/rand/v2"
	"time"
)

// Default score bounds, inclusive.
const (
	DefaultMin = 1
	DefaultMax = 5
)

// Source yields uniform ints in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG-backed source. A zero seed is taken from the clock.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Cycle returns a source that replays values in order, reduced modulo n.
func Cycle(values ...int) Source {
	return &cycle{values: values}
}

type cycle struct {
	values []int
	next   int
}

func (c *cycle) IntN(n int) int {
	if len(c.values) == 0 || n <= 0 {
		return 0
	}
	v := c.values[c.next%len(c.values)]
	c.next++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Generator draws integers uniformly from [min, max].
type Generator struct {
	src      Source
	min, max int
	draws    int
}

// NewGenerator constructs a Generator over [DefaultMin, DefaultMax].
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{min: DefaultMin, max: DefaultMax}
	for _, opt := range opts {
		opt(g)
	}
	if g.src == nil {
		g.src = NewSource(0)
	}
	return g
}

// Next draws one value.
func (g *Generator) Next() int {
	g.draws++
	return g.min + g.src.IntN(g.max-g.min+1)
}

// Draws returns how many values were drawn.
func (g *Generator) Draws() int { return g.draws }

// Bounds returns the inclusive range.
func (g *Generator) Bounds() (lo, hi int) { return g.min, g.max }
