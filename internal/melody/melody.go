// Package melody generates deterministic pitch/duration sequences from a
// seed, a scale and a tempo. Identical inputs always produce a bit-identical
// note sequence.
package melody

import (
	"fmt"
	"math"
	"time"

	"github.com/iabetor/choirsynth/internal/phoneme"
	"github.com/iabetor/choirsynth/internal/rng"
)

// Scale selects the interval set used for degree picks.
type Scale int

const (
	Major Scale = iota
	Minor
)

// ParseScale maps a scale name to its enum value.
func ParseScale(name string) (Scale, error) {
	switch name {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	}
	return 0, fmt.Errorf("unknown scale %q", name)
}

func (s Scale) String() string {
	if s == Minor {
		return "minor"
	}
	return "major"
}

// Intervals returns the semitone offsets of the scale, octave included.
func (s Scale) Intervals() []int {
	if s == Minor {
		return []int{0, 2, 3, 5, 7, 8, 10, 12}
	}
	return []int{0, 2, 4, 5, 7, 9, 11, 12}
}

// Note is one melodic event. Notes from one Generate call are non-overlapping
// and ordered by Start.
type Note struct {
	Frequency float64 // Hz
	Start     time.Duration
	Duration  time.Duration
}

// Probability that a slot keeps the single eighth-note length instead of
// stretching to two.
const singleEighthChance = 0.7

// Generate produces an ordered note sequence covering [0, seconds). Per
// eighth-note slot the seeded stream picks, in fixed order: a scale degree,
// an octave shift of -12/0/+12 semitones, and a x1/x2 duration multiplier.
// root is a MIDI note number.
func Generate(bpm int, seconds float64, scale Scale, root int, seed int64) []Note {
	if seconds <= 0 {
		return nil
	}

	g := rng.New(seed)
	intervals := scale.Intervals()
	eighth := time.Duration(60.0 / float64(bpm) / 2 * float64(time.Second))
	total := time.Duration(seconds * float64(time.Second))

	var notes []Note
	var elapsed time.Duration
	for elapsed < total {
		degree := intervals[g.IntN(len(intervals))]
		shift := octaveShift(g.Float())

		dur := eighth
		if !g.Chance(singleEighthChance) {
			dur = 2 * eighth
		}

		notes = append(notes, Note{
			Frequency: MIDIToFrequency(root + degree + shift),
			Start:     elapsed,
			Duration:  dur,
		})
		elapsed += dur
	}
	return notes
}

// octaveShift maps a uniform draw to {-12, 0, +12} semitones in equal thirds.
func octaveShift(r float64) int {
	switch {
	case r < 1.0/3:
		return -12
	case r < 2.0/3:
		return 0
	default:
		return 12
	}
}

// MIDIToFrequency converts a MIDI note number to Hz (A4 = 69 = 440 Hz).
func MIDIToFrequency(midi int) float64 {
	return 440 * math.Pow(2, float64(midi-69)/12)
}

// FrequencyToMIDI returns the nearest MIDI note for a frequency.
func FrequencyToMIDI(freq float64) int {
	return int(math.Round(69 + 12*math.Log2(freq/440)))
}

// Segment pairs one phoneme with the note that carries it.
type Segment struct {
	Phoneme phoneme.Phoneme
	Note    Note
}

// SyncPhonemes assigns a note to every phoneme. When phonemes outnumber
// notes the melody is cycled by index modulo its length. An empty melody
// yields no segments.
func SyncPhonemes(timeline []phoneme.Phoneme, notes []Note) []Segment {
	if len(notes) == 0 {
		return nil
	}
	segments := make([]Segment, 0, len(timeline))
	for i, p := range timeline {
		segments = append(segments, Segment{
			Phoneme: p,
			Note:    notes[i%len(notes)],
		})
	}
	return segments
}
