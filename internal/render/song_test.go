package render

import (
	"math"
	"testing"
)

func TestMixTracks_Empty(t *testing.T) {
	if _, err := MixTracks(nil); err != ErrNoTracks {
		t.Fatalf("expected ErrNoTracks, got %v", err)
	}
}

func TestMixTracks_PadsShorterTracks(t *testing.T) {
	long := make([]float64, 100)
	short := make([]float64, 50)
	for i := range long {
		long[i] = 0.5
	}
	for i := range short {
		short[i] = 0.3
	}

	mixed, err := MixTracks([][]float64{long, short})
	if err != nil {
		t.Fatalf("MixTracks: %v", err)
	}
	if len(mixed) != 100 {
		t.Fatalf("mixed length: got %d, want 100", len(mixed))
	}
}

func TestMixTracks_NormalizesToHeadroom(t *testing.T) {
	a := []float64{0.9, 0.9, 0.9}
	b := []float64{0.9, 0.9, 0.9}

	mixed, err := MixTracks([][]float64{a, b})
	if err != nil {
		t.Fatalf("MixTracks: %v", err)
	}

	var peak float64
	for _, v := range mixed {
		if x := math.Abs(v); x > peak {
			peak = x
		}
	}
	if math.Abs(peak-0.8) > 1e-9 {
		t.Fatalf("peak after normalization: got %g, want 0.8", peak)
	}
}

func TestMixTracks_SilenceStaysSilent(t *testing.T) {
	mixed, err := MixTracks([][]float64{make([]float64, 10)})
	if err != nil {
		t.Fatalf("MixTracks: %v", err)
	}
	for i, v := range mixed {
		if v != 0 {
			t.Fatalf("sample %d: got %g, want 0", i, v)
		}
	}
}

func TestMakeWaveform_Shape(t *testing.T) {
	points := MakeWaveform(WaveformLength, BaseWaveformSeed)
	if len(points) != WaveformLength {
		t.Fatalf("length: got %d, want %d", len(points), WaveformLength)
	}
	if points[0].T != 0 {
		t.Errorf("first t: got %g, want 0", points[0].T)
	}
	if points[len(points)-1].T != 1 {
		t.Errorf("last t: got %g, want 1", points[len(points)-1].T)
	}
	for i, p := range points {
		if p.V < -1 || p.V > 1 {
			t.Errorf("point %d: v=%g out of [-1,1]", i, p.V)
		}
	}
}

func TestMakeWaveform_Deterministic(t *testing.T) {
	a := MakeWaveform(WaveformLength, 42)
	b := MakeWaveform(WaveformLength, 42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs", i)
		}
	}
}

func TestWaveformSeed_HarmonyDistinct(t *testing.T) {
	seen := map[int64]bool{}
	for i := 0; i < 10; i++ {
		s := WaveformSeed(i, true)
		if seen[s] {
			t.Fatalf("harmony seed for track %d repeats", i)
		}
		seen[s] = true
	}
	if WaveformSeed(0, true) != BaseWaveformSeed {
		t.Error("harmony seed for track 0 should equal the base seed")
	}

	// Outside harmony mode everyone shares the base seed.
	for i := 0; i < 10; i++ {
		if WaveformSeed(i, false) != BaseWaveformSeed {
			t.Fatalf("non-harmony seed for track %d differs from base", i)
		}
	}
}
