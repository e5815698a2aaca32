// Package phoneme turns lyric text into an ordered timeline of short
// acoustic units. Timing is a pure function of the text and the tempo:
// there is no randomness anywhere in this package.
package phoneme

import (
	"strings"
	"time"
)

// Class identifies the acoustic family of one unit.
type Class int

const (
	Silence Class = iota
	Consonant
	VowelA
	VowelE
	VowelI
	VowelO
	VowelU
)

// String returns a short label for logging.
func (c Class) String() string {
	switch c {
	case Silence:
		return "sil"
	case Consonant:
		return "cons"
	case VowelA:
		return "a"
	case VowelE:
		return "e"
	case VowelI:
		return "i"
	case VowelO:
		return "o"
	case VowelU:
		return "u"
	}
	return "unknown"
}

// IsVowel reports whether the class is one of the five vowels.
func (c Class) IsVowel() bool {
	return c >= VowelA && c <= VowelU
}

// Phoneme is one unit of the timeline.
type Phoneme struct {
	Grapheme rune
	Class    Class
	Duration time.Duration
}

// Duration shares of the per-syllable unit. Two syllables per beat are
// assumed, so the unit is half a beat.
const (
	vowelShare     = 0.70
	consonantShare = 0.15
	silenceShare   = 0.20
)

// BuildTimeline converts lyrics into an ordered phoneme sequence at the
// given tempo. Words are separated by short silence units; a word's
// characters are walked syllable by syllable. Empty lyrics yield an empty
// timeline. The caller is responsible for clamping bpm to [40,200].
func BuildTimeline(lyrics string, bpm int) []Phoneme {
	words := strings.Fields(lyrics)
	if len(words) == 0 {
		return nil
	}

	unit := unitDuration(bpm)
	vowelDur := scale(unit, vowelShare)
	consDur := scale(unit, consonantShare)
	silDur := scale(unit, silenceShare)

	var out []Phoneme
	for wi, word := range words {
		if wi > 0 {
			out = append(out, Phoneme{Grapheme: ' ', Class: Silence, Duration: silDur})
		}
		for _, syl := range Syllabify(word) {
			for _, r := range syl {
				cls := Classify(r)
				switch {
				case cls.IsVowel():
					out = append(out, Phoneme{Grapheme: r, Class: cls, Duration: vowelDur})
				case cls == Consonant:
					out = append(out, Phoneme{Grapheme: r, Class: cls, Duration: consDur})
				default:
					// Non-letters are silent.
					out = append(out, Phoneme{Grapheme: r, Class: Silence, Duration: silDur})
				}
			}
		}
	}
	return out
}

// TotalDuration sums the timeline.
func TotalDuration(timeline []Phoneme) time.Duration {
	var total time.Duration
	for _, p := range timeline {
		total += p.Duration
	}
	return total
}

// Syllabify splits a word with a greedy scan, breaking after a vowel that is
// immediately followed by a consonant which is itself followed by another
// vowel. A word without vowels stays one syllable.
func Syllabify(word string) []string {
	runes := []rune(word)
	if len(runes) == 0 {
		return nil
	}

	var syllables []string
	start := 0
	for i := 0; i+2 < len(runes); i++ {
		if isVowelRune(runes[i]) && isConsonantRune(runes[i+1]) && isVowelRune(runes[i+2]) {
			syllables = append(syllables, string(runes[start:i+1]))
			start = i + 1
		}
	}
	syllables = append(syllables, string(runes[start:]))
	return syllables
}

// Classify maps one character to its phoneme class. Vowels keep their own
// symbol, consonants collapse to a single class, anything that is not a
// letter is silent.
func Classify(r rune) Class {
	switch lower(r) {
	case 'a':
		return VowelA
	case 'e':
		return VowelE
	case 'i':
		return VowelI
	case 'o':
		return VowelO
	case 'u':
		return VowelU
	}
	if isLetter(r) {
		return Consonant
	}
	return Silence
}

// unitDuration is the length of one syllable slot: half a beat.
func unitDuration(bpm int) time.Duration {
	beatMs := 60000.0 / float64(bpm)
	return time.Duration(beatMs / 2 * float64(time.Millisecond))
}

func scale(d time.Duration, share float64) time.Duration {
	return time.Duration(float64(d) * share)
}

func lower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func isLetter(r rune) bool {
	l := lower(r)
	return l >= 'a' && l <= 'z'
}

func isVowelRune(r rune) bool {
	switch lower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func isConsonantRune(r rune) bool {
	return isLetter(r) && !isVowelRune(r)
}
