// Package rng provides the single deterministic pseudo-random stream used by
// every seeded component of the engine: melody generation, breath noise, the
// instrument fallback and waveform visualization all draw from the same
// linear-congruential generator, so identical seeds give identical output on
// every platform.
package rng

// Classic LCG parameters; period 233280.
const (
	multiplier = 9301
	increment  = 49297
	modulus    = 233280
)

// LCG is a small linear-congruential generator.
// The zero value is a valid generator seeded with 0.
type LCG struct {
	state int64
}

// New returns a generator seeded with seed. Negative seeds are folded into
// the generator's modulus range.
func New(seed int64) *LCG {
	s := seed % modulus
	if s < 0 {
		s += modulus
	}
	return &LCG{state: s}
}

// Float returns the next value in [0, 1).
func (g *LCG) Float() float64 {
	g.state = (g.state*multiplier + increment) % modulus
	return float64(g.state) / modulus
}

// IntN returns the next value in [0, n). n must be positive.
func (g *LCG) IntN(n int) int {
	return int(g.Float() * float64(n))
}

// Chance reports true with probability p.
func (g *LCG) Chance(p float64) bool {
	return g.Float() < p
}

// Bipolar returns the next value in [-1, 1).
func (g *LCG) Bipolar() float64 {
	return g.Float()*2 - 1
}

// SeedFromString derives a stable seed from a string by summing its bytes.
func SeedFromString(s string) int64 {
	var sum int64
	for _, b := range []byte(s) {
		sum += int64(b)
	}
	return sum
}
