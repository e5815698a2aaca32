package mixer

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/ktye/fft"
)

// analysisSize is the ring buffer length for analysis snapshots. Must be a
// power of two for the FFT.
const analysisSize = 1024

// Analyser taps the master bus and serves time-domain, frequency-domain and
// RMS snapshots of the most recent audio. Samples are folded to mono before
// buffering.
type Analyser struct {
	mu         sync.Mutex
	sampleRate int
	ring       [analysisSize]float64
	pos        int
	fft        fft.FFT
	window     []float64
}

func newAnalyser(sampleRate int) *Analyser {
	a := &Analyser{sampleRate: sampleRate}
	f, err := fft.New(analysisSize)
	if err == nil {
		a.fft = f
	}
	a.window = hannWindow(analysisSize)
	return a
}

// push folds interleaved output samples to mono and appends them to the ring.
// Called from the mix path with the mixer lock held.
func (a *Analyser) push(out []float64, channels int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for f := 0; f+channels <= len(out); f += channels {
		var mono float64
		for ch := 0; ch < channels; ch++ {
			mono += out[f+ch]
		}
		mono /= float64(channels)

		a.ring[a.pos] = mono
		a.pos++
		if a.pos == analysisSize {
			a.pos = 0
		}
	}
}

// snapshotLocked copies the ring in chronological order.
func (a *Analyser) snapshotLocked() []float64 {
	out := make([]float64, analysisSize)
	n := copy(out, a.ring[a.pos:])
	copy(out[n:], a.ring[:a.pos])
	return out
}

// TimeDomain returns the most recent mono samples, oldest first.
func (a *Analyser) TimeDomain() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Frequency returns magnitude bins for the most recent window: analysisSize/2
// bins spanning 0..sampleRate/2, Hann-windowed.
func (a *Analyser) Frequency() []float64 {
	a.mu.Lock()
	samples := a.snapshotLocked()
	a.mu.Unlock()

	data := make([]complex128, analysisSize)
	for i, s := range samples {
		data[i] = complex(s*a.window[i], 0)
	}
	spectrum := a.fft.Transform(data)

	mags := make([]float64, analysisSize/2)
	for i := range mags {
		mags[i] = cmplx.Abs(spectrum[i]) / float64(analysisSize/2)
	}
	return mags
}

// BinWidth is the frequency span of one magnitude bin in Hz.
func (a *Analyser) BinWidth() float64 {
	return float64(a.sampleRate) / float64(analysisSize)
}

// RMS returns the root-mean-square level of the most recent window.
func (a *Analyser) RMS() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	var sum float64
	for _, s := range a.ring {
		sum += s * s
	}
	return math.Sqrt(sum / analysisSize)
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}
