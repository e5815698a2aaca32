// Package render executes synthesis graphs over fixed offline buffers and
// serializes the result as 16-bit PCM WAV. It also hosts the cheaper
// instrument mode used when no singing synthesis is required, the song
// mixer, and the deterministic waveform export for visualization.
package render

import (
	"math"
	"time"

	"github.com/iabetor/choirsynth/internal/logger"
	"github.com/iabetor/choirsynth/internal/melody"
	"github.com/iabetor/choirsynth/internal/phoneme"
	"github.com/iabetor/choirsynth/internal/voice"
)

// VocalSpec describes one sung track.
type VocalSpec struct {
	Lyrics  string
	BPM     int
	Seconds float64
	Scale   melody.Scale
	Preset  voice.Preset
	Pan     float64 // [-1,1]; ignored for mono output
	Seed    int64
}

// Renderer renders tracks into fixed buffers at one sample rate.
type Renderer struct {
	sampleRate int
	channels   int
	mixGain    float64
}

// NewRenderer creates a renderer. channels must be 1 or 2; the config layer
// validates this before we get here.
func NewRenderer(sampleRate, channels int, mixGain float64) *Renderer {
	return &Renderer{sampleRate: sampleRate, channels: channels, mixGain: mixGain}
}

// SampleRate returns the render rate in Hz.
func (r *Renderer) SampleRate() int { return r.sampleRate }

// Channels returns the output channel count.
func (r *Renderer) Channels() int { return r.channels }

// RenderVocal renders one sung track and returns interleaved samples:
// the phoneme timeline is scheduled against the seeded melody and each
// (note, phoneme) segment is synthesized onto a shared mono bus, which is
// then panned into the output channel layout.
func (r *Renderer) RenderVocal(spec VocalSpec) []float64 {
	frames := int(spec.Seconds * float64(r.sampleRate))
	bus := make([]float64, frames)

	timeline := phoneme.BuildTimeline(spec.Lyrics, spec.BPM)
	root := melody.FrequencyToMIDI(spec.Preset.BaseFrequency)
	notes := melody.Generate(spec.BPM, spec.Seconds, spec.Scale, root, spec.Seed)
	segments := melody.SyncPhonemes(timeline, notes)

	logger.Debugf("[render] vocal track: %d phonemes, %d notes, %d segments",
		len(timeline), len(notes), len(segments))

	synth := voice.New(float64(r.sampleRate), r.mixGain, spec.Seed)
	var cursor time.Duration
	for _, seg := range segments {
		startFrame := int(cursor.Seconds() * float64(r.sampleRate))
		synth.RenderSegment(bus, startFrame, seg, spec.Preset)
		cursor += seg.Phoneme.Duration
	}

	return r.spatialize(bus, spec.Pan)
}

// spatialize expands a mono bus into the output layout, applying
// equal-power panning for stereo.
func (r *Renderer) spatialize(bus []float64, pan float64) []float64 {
	if r.channels == 1 {
		return bus
	}

	pan = clamp(pan, -1, 1)
	angle := (pan + 1) * math.Pi / 4
	left := math.Cos(angle)
	right := math.Sin(angle)

	out := make([]float64, len(bus)*2)
	for i, v := range bus {
		out[2*i] = v * left
		out[2*i+1] = v * right
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
