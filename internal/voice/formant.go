package voice

import (
	"math"

	"github.com/iabetor/choirsynth/internal/logger"
	"github.com/iabetor/choirsynth/internal/phoneme"
)

// FormantBand is one resonance of a vowel: a band-pass center and its Q.
type FormantBand struct {
	Frequency float64 // Hz
	Q         float64
}

// FormantProfile holds the three formants that shape one vowel class.
type FormantProfile [3]FormantBand

// Fixed vowel tables. Center frequencies follow published averages for the
// five cardinal vowels; Qs widen slightly toward the upper formants.
var vowelProfiles = map[phoneme.Class]FormantProfile{
	phoneme.VowelA: {{700, 8}, {1220, 10}, {2600, 12}},
	phoneme.VowelE: {{530, 8}, {1840, 10}, {2480, 12}},
	phoneme.VowelI: {{290, 8}, {2200, 10}, {3000, 12}},
	phoneme.VowelO: {{570, 8}, {840, 10}, {2410, 12}},
	phoneme.VowelU: {{440, 8}, {1020, 10}, {2240, 12}},
}

// ProfileFor returns the formant profile of a vowel class. An unrecognized
// class self-heals to the open-back vowel profile; this is logged but never
// surfaced to the caller.
func ProfileFor(c phoneme.Class) FormantProfile {
	if p, ok := vowelProfiles[c]; ok {
		return p
	}
	logger.Warnf("[voice] no formant profile for class %v, falling back to vowel a", c)
	return vowelProfiles[phoneme.VowelA]
}

// biquad is a direct-form-1 two-pole filter section.
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

// newBandPass builds a constant-peak-gain band-pass biquad (RBJ cookbook).
func newBandPass(freq, q, sampleRate float64) *biquad {
	w0 := 2 * math.Pi * freq / sampleRate
	alpha := math.Sin(w0) / (2 * q)
	cosw0 := math.Cos(w0)
	a0 := 1 + alpha

	return &biquad{
		b0: alpha / a0,
		b1: 0,
		b2: -alpha / a0,
		a1: -2 * cosw0 / a0,
		a2: (1 - alpha) / a0,
	}
}

// newHighPass builds a high-pass biquad (RBJ cookbook).
func newHighPass(freq, q, sampleRate float64) *biquad {
	w0 := 2 * math.Pi * freq / sampleRate
	alpha := math.Sin(w0) / (2 * q)
	cosw0 := math.Cos(w0)
	a0 := 1 + alpha

	return &biquad{
		b0: (1 + cosw0) / 2 / a0,
		b1: -(1 + cosw0) / a0,
		b2: (1 + cosw0) / 2 / a0,
		a1: -2 * cosw0 / a0,
		a2: (1 - alpha) / a0,
	}
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

// FormantChain cascades the three band-pass sections of one vowel profile.
type FormantChain struct {
	stages [3]*biquad
}

// Cascading narrow band-passes loses a lot of energy; the chain applies a
// fixed makeup gain so vowels sit at a usable level on the bus.
const formantMakeup = 8.0

// NewFormantChain builds the filter cascade for one profile.
func NewFormantChain(p FormantProfile, sampleRate float64) *FormantChain {
	c := &FormantChain{}
	for i, band := range p {
		c.stages[i] = newBandPass(band.Frequency, band.Q, sampleRate)
	}
	return c
}

// Process runs one sample through the cascade.
func (c *FormantChain) Process(x float64) float64 {
	for _, s := range c.stages {
		x = s.process(x)
	}
	return x * formantMakeup
}
