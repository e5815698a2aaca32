// Package voice realizes (note, phoneme) pairs as audio under a named
// preset, using a source-filter model: a sawtooth plus breath noise excites
// a cascade of formant band-pass filters. Consonants bypass the formant
// chain entirely and render as short high-passed noise bursts.
package voice

import (
	"math"
	"time"

	"github.com/iabetor/choirsynth/internal/melody"
	"github.com/iabetor/choirsynth/internal/phoneme"
	"github.com/iabetor/choirsynth/internal/rng"
)

// Amplitude envelope stages for voiced segments.
const (
	attackTime  = 15 * time.Millisecond
	decayTime   = 60 * time.Millisecond
	releaseTime = 80 * time.Millisecond
	sustainLvl  = 0.85
)

// Consonant bursts never exceed this length.
const (
	maxConsonantDur  = 50 * time.Millisecond
	consonantAttack  = 5 * time.Millisecond
	consonantCutoff  = 2500.0 // Hz
	consonantLevel   = 0.3
	consonantFilterQ = 0.707
)

// Synthesizer renders segments onto a shared per-track bus. One instance
// owns one deterministic noise stream, so a track rendered twice from the
// same seed is bit-identical.
type Synthesizer struct {
	sampleRate float64
	mixGain    float64
	noise      *rng.LCG
}

// New creates a synthesizer for one track.
func New(sampleRate, mixGain float64, noiseSeed int64) *Synthesizer {
	return &Synthesizer{
		sampleRate: sampleRate,
		mixGain:    mixGain,
		noise:      rng.New(noiseSeed),
	}
}

// RenderSegment sums one segment into bus starting at startFrame. Silence
// and zero-duration segments are skipped. Callers must reject negative
// durations before this point.
func (s *Synthesizer) RenderSegment(bus []float64, startFrame int, seg melody.Segment, preset Preset) {
	frames := s.frames(seg.Phoneme.Duration)
	if frames <= 0 || startFrame >= len(bus) {
		return
	}
	if end := startFrame + frames; end > len(bus) {
		frames = len(bus) - startFrame
	}

	switch {
	case seg.Phoneme.Class.IsVowel():
		s.renderVowel(bus[startFrame:startFrame+frames], seg.Note.Frequency, seg.Phoneme.Class, preset)
	case seg.Phoneme.Class == phoneme.Consonant:
		s.renderConsonant(bus[startFrame : startFrame+frames])
	default:
		// Silence: the bus stays untouched.
	}
}

// renderVowel runs sawtooth + breath noise through the vowel's formant
// cascade under the ADSR envelope.
func (s *Synthesizer) renderVowel(out []float64, freq float64, class phoneme.Class, preset Preset) {
	profile := ProfileFor(class)
	chain := NewFormantChain(profile, s.sampleRate)
	env := newADSR(len(out), s.sampleRate)

	var phase float64
	for i := range out {
		t := float64(i) / s.sampleRate

		// Sinusoidal vibrato in cents around the note frequency.
		cents := preset.VibratoDepthCents * math.Sin(2*math.Pi*preset.VibratoRateHz*t)
		f := freq * math.Pow(2, cents/1200)

		// Sawtooth phase accumulator.
		phase += 2 * f / s.sampleRate
		if phase > 1 {
			phase -= 2
		}

		src := (1-preset.Breath)*phase + preset.Breath*s.noise.Bipolar()
		out[i] += chain.Process(src) * env.at(i) * s.mixGain
	}
}

// renderConsonant writes a high-pass filtered noise burst with a fast
// attack/release envelope. Pitch is ignored.
func (s *Synthesizer) renderConsonant(out []float64) {
	burst := s.frames(maxConsonantDur)
	if burst > len(out) {
		burst = len(out)
	}
	if burst <= 0 {
		return
	}

	hp := newHighPass(consonantCutoff, consonantFilterQ, s.sampleRate)
	attack := s.frames(consonantAttack)
	if attack >= burst {
		attack = burst / 2
	}

	for i := 0; i < burst; i++ {
		var env float64
		if i < attack {
			env = float64(i) / float64(attack)
		} else {
			env = 1 - float64(i-attack)/float64(burst-attack)
		}
		out[i] += hp.process(s.noise.Bipolar()) * env * consonantLevel * s.mixGain
	}
}

func (s *Synthesizer) frames(d time.Duration) int {
	return int(d.Seconds() * s.sampleRate)
}

// adsr precomputes the 4-stage envelope for a segment of n frames. When the
// segment is shorter than attack+decay+release, all stages shrink
// proportionally so the sustain span never goes negative.
type adsr struct {
	attack, decay, sustain, release int
}

func newADSR(n int, sampleRate float64) adsr {
	a := int(attackTime.Seconds() * sampleRate)
	d := int(decayTime.Seconds() * sampleRate)
	r := int(releaseTime.Seconds() * sampleRate)

	if a+d+r > n {
		f := float64(n) / float64(a+d+r)
		a = int(float64(a) * f)
		d = int(float64(d) * f)
		r = int(float64(r) * f)
	}
	sus := n - a - d - r
	if sus < 0 {
		sus = 0
	}
	return adsr{attack: a, decay: d, sustain: sus, release: r}
}

func (e adsr) at(i int) float64 {
	switch {
	case i < e.attack:
		if e.attack == 0 {
			return 1
		}
		return float64(i) / float64(e.attack)
	case i < e.attack+e.decay:
		if e.decay == 0 {
			return sustainLvl
		}
		pos := float64(i-e.attack) / float64(e.decay)
		return 1 - pos*(1-sustainLvl)
	case i < e.attack+e.decay+e.sustain:
		return sustainLvl
	default:
		if e.release == 0 {
			return 0
		}
		pos := float64(i-e.attack-e.decay-e.sustain) / float64(e.release)
		if pos > 1 {
			pos = 1
		}
		return sustainLvl * (1 - pos)
	}
}
