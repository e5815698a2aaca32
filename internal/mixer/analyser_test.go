package mixer

import (
	"math"
	"testing"
)

func pushSine(a *Analyser, freq float64, sampleRate, n int) {
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	a.push(buf, 1)
}

func TestAnalyserRMS(t *testing.T) {
	a := newAnalyser(44100)

	// A full-scale sine has RMS 1/sqrt(2).
	pushSine(a, 1000, 44100, analysisSize)
	got := a.RMS()
	want := 1 / math.Sqrt2
	if math.Abs(got-want) > 0.01 {
		t.Fatalf("RMS of full-scale sine: got %f, want %f", got, want)
	}
}

func TestAnalyserRMSSilence(t *testing.T) {
	a := newAnalyser(44100)
	if got := a.RMS(); got != 0 {
		t.Fatalf("RMS of silence: got %f, want 0", got)
	}
}

func TestAnalyserTimeDomainOrder(t *testing.T) {
	a := newAnalyser(44100)

	// Overfill the ring so it wraps, then check chronological order.
	first := make([]float64, analysisSize)
	for i := range first {
		first[i] = 1
	}
	a.push(first, 1)
	a.push([]float64{2, 3, 4}, 1)

	snap := a.TimeDomain()
	if len(snap) != analysisSize {
		t.Fatalf("snapshot length: got %d, want %d", len(snap), analysisSize)
	}
	n := len(snap)
	if snap[n-3] != 2 || snap[n-2] != 3 || snap[n-1] != 4 {
		t.Fatalf("newest samples should be last: got %v", snap[n-3:])
	}
	if snap[0] != 1 {
		t.Fatalf("oldest surviving sample should be first: got %f", snap[0])
	}
}

func TestAnalyserFoldsToMono(t *testing.T) {
	a := newAnalyser(44100)

	// Stereo frames (0.4, 0.8) fold to 0.6.
	stereo := []float64{0.4, 0.8, 0.4, 0.8}
	a.push(stereo, 2)

	snap := a.TimeDomain()
	n := len(snap)
	if math.Abs(snap[n-1]-0.6) > 1e-9 || math.Abs(snap[n-2]-0.6) > 1e-9 {
		t.Fatalf("stereo fold: got %f, %f, want 0.6", snap[n-2], snap[n-1])
	}
}

func TestAnalyserFrequencyPeak(t *testing.T) {
	const sampleRate = 44100
	a := newAnalyser(sampleRate)

	// Pick a frequency centered on an FFT bin so the peak is unambiguous.
	binWidth := float64(sampleRate) / analysisSize
	freq := 20 * binWidth
	pushSine(a, freq, sampleRate, analysisSize)

	mags := a.Frequency()
	if len(mags) != analysisSize/2 {
		t.Fatalf("bin count: got %d, want %d", len(mags), analysisSize/2)
	}

	peak := 0
	for i, v := range mags {
		if v > mags[peak] {
			peak = i
		}
	}
	if peak != 20 {
		t.Fatalf("spectral peak at bin %d, want 20 (%.1f Hz)", peak, freq)
	}
}

func TestAnalyserBinWidth(t *testing.T) {
	a := newAnalyser(44100)
	want := 44100.0 / analysisSize
	if got := a.BinWidth(); got != want {
		t.Fatalf("BinWidth: got %f, want %f", got, want)
	}
}
