package render

import (
	"math"

	"github.com/iabetor/choirsynth/internal/rng"
)

// Mood biases the instrument fallback's modulation. All components are
// clamped to [0,1] before use.
type Mood struct {
	Happy  float64 `json:"happy"`
	Calm   float64 `json:"calm"`
	Bright float64 `json:"bright"`
}

// InstrumentSpec describes one non-lyric track rendered by the fallback
// path: a seeded melodic pattern with mood-driven amplitude modulation,
// skipping the phoneme/formant pipeline entirely.
type InstrumentSpec struct {
	ID         string
	VocalRange string // bass, tenor, alto, soprano
	Mood       Mood
	Volume     float64 // [0,1]
}

// Base frequencies per vocal range.
var vocalRangeFreqs = map[string]float64{
	"bass":    110, // A2
	"tenor":   196, // G3
	"alto":    262, // C4
	"soprano": 392, // G4
}

const defaultVocalRange = "alto"

// Instrument-mode note grid.
const (
	instrumentNoteSeconds = 0.5
	tremoloRateHz         = 5.0
)

var instrumentScale = []int{0, 2, 4, 5, 7, 9, 11, 12} // major

// RenderInstrument generates a full mono track buffer directly from a
// seeded melodic pattern. The stream is seeded from the track ID, so the
// same object always sings the same line.
func (r *Renderer) RenderInstrument(spec InstrumentSpec, seconds float64) []float64 {
	numSamples := int(seconds * float64(r.sampleRate))
	out := make([]float64, numSamples)

	baseFreq, ok := vocalRangeFreqs[spec.VocalRange]
	if !ok {
		baseFreq = vocalRangeFreqs[defaultVocalRange]
	}

	g := rng.New(rng.SeedFromString(spec.ID))

	bright := clamp(spec.Mood.Bright, 0, 1)
	happy := clamp(spec.Mood.Happy, 0, 1)
	calm := clamp(spec.Mood.Calm, 0, 1)

	energy := 0.3 + happy*0.5
	sustain := calm*0.8 + 0.2

	noteSamples := int(instrumentNoteSeconds * float64(r.sampleRate))
	notesCount := int(seconds / instrumentNoteSeconds)

	for noteIdx := 0; noteIdx <= notesCount; noteIdx++ {
		start := noteIdx * noteSamples
		if start >= numSamples {
			break
		}
		end := start + noteSamples
		if end > numSamples {
			end = numSamples
		}
		n := end - start

		semitones := instrumentScale[g.IntN(len(instrumentScale))]
		freq := baseFreq * math.Pow(2, float64(semitones)/12)

		attack := int(0.1 * float64(noteSamples))
		release := int(0.2 * float64(noteSamples))

		for i := 0; i < n; i++ {
			t := float64(i) / float64(r.sampleRate)

			// 0.6 sine + 0.4 triangle.
			sine := math.Sin(2 * math.Pi * freq * t)
			triangle := (2 / math.Pi) * math.Asin(sine)
			mix := 0.6*sine + 0.4*triangle

			env := 1.0
			if attack > 0 && i < attack {
				env = float64(i) / float64(attack)
			} else if release > 0 && i >= n-release {
				env = float64(n-i) / float64(release)
			}

			tremolo := 1 + bright*0.2*math.Sin(2*math.Pi*tremoloRateHz*t)

			out[start+i] += mix * env * tremolo * energy * sustain
		}
	}

	volume := clamp(spec.Volume, 0, 1)
	for i := range out {
		out[i] *= volume
	}
	return out
}
