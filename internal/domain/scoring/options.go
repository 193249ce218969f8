package scoring

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSource sets the randomness source.
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// WithSeed seeds a PCG source.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.src = NewSource(seed)
	}
}

// WithRange sets the inclusive bounds; ignored unless lo <= hi.
func WithRange(lo, hi int) Option {
	return func(g *Generator) {
		if lo <= hi {
			g.min, g.max = lo, hi
		}
	}
}
