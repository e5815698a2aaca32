package voice

import (
	"math"
	"testing"

	"github.com/iabetor/choirsynth/internal/phoneme"
)

func TestProfileFor_AllVowels(t *testing.T) {
	for _, class := range []phoneme.Class{
		phoneme.VowelA, phoneme.VowelE, phoneme.VowelI, phoneme.VowelO, phoneme.VowelU,
	} {
		p := ProfileFor(class)
		for i, band := range p {
			if band.Frequency <= 0 {
				t.Errorf("%v formant %d: non-positive frequency %g", class, i, band.Frequency)
			}
			if band.Q <= 0 {
				t.Errorf("%v formant %d: non-positive Q %g", class, i, band.Q)
			}
		}
	}
}

func TestProfileFor_KnownFormantTables(t *testing.T) {
	a := ProfileFor(phoneme.VowelA)
	if a[0].Frequency != 700 || a[1].Frequency != 1220 || a[2].Frequency != 2600 {
		t.Errorf("open-back vowel formants: got %v, want 700/1220/2600", a)
	}
	i := ProfileFor(phoneme.VowelI)
	if i[0].Frequency != 290 || i[1].Frequency != 2200 || i[2].Frequency != 3000 {
		t.Errorf("close-front vowel formants: got %v, want 290/2200/3000", i)
	}
}

func TestProfileFor_UnknownFallsBack(t *testing.T) {
	// Self-healing case: an unrecognized class gets the default vowel
	// profile instead of an error.
	got := ProfileFor(phoneme.Consonant)
	want := ProfileFor(phoneme.VowelA)
	if got != want {
		t.Fatalf("fallback profile: got %v, want %v", got, want)
	}
}

func TestBandPass_PassesCenterRejectsFar(t *testing.T) {
	const sr = 44100.0
	const center = 1000.0

	gainAt := func(freq float64) float64 {
		f := newBandPass(center, 10, sr)
		var peak float64
		n := int(sr / 2)
		for i := 0; i < n; i++ {
			x := math.Sin(2 * math.Pi * freq * float64(i) / sr)
			y := math.Abs(f.process(x))
			// Skip the transient at the start.
			if i > n/2 && y > peak {
				peak = y
			}
		}
		return peak
	}

	onCenter := gainAt(center)
	farBelow := gainAt(100)
	farAbove := gainAt(8000)

	if onCenter < 5*farBelow {
		t.Errorf("center gain %g not well above low stopband gain %g", onCenter, farBelow)
	}
	if onCenter < 5*farAbove {
		t.Errorf("center gain %g not well above high stopband gain %g", onCenter, farAbove)
	}
}

func TestFormantChain_Stable(t *testing.T) {
	chain := NewFormantChain(ProfileFor(phoneme.VowelO), 44100)
	// Drive with a sawtooth-ish ramp for half a second; output must not
	// blow up.
	var phase float64
	for i := 0; i < 22050; i++ {
		phase += 2 * 220 / 44100.0
		if phase > 1 {
			phase -= 2
		}
		y := chain.Process(phase)
		if math.IsNaN(y) || math.IsInf(y, 0) || math.Abs(y) > 100 {
			t.Fatalf("chain unstable at sample %d: %g", i, y)
		}
	}
}
