package render

import (
	"math"

	"github.com/iabetor/choirsynth/internal/rng"
)

// WaveformPoint is one point of the visualization export.
type WaveformPoint struct {
	T float64 `json:"t"` // [0,1]
	V float64 `json:"v"` // [-1,1]
}

// Waveform export parameters. In harmony mode each track offsets the base
// seed by its index times the step so shapes are visibly different; outside
// harmony mode every track shares the base seed and therefore one shape.
const (
	WaveformLength   = 256
	BaseWaveformSeed = 42
	HarmonySeedStep  = 137
)

// WaveformSeed returns the visualization seed for a track index.
func WaveformSeed(index int, harmonyMode bool) int64 {
	if harmonyMode {
		return BaseWaveformSeed + int64(index)*HarmonySeedStep
	}
	return BaseWaveformSeed
}

// MakeWaveform generates a deterministic fixed-length waveform shape:
// smooth-ish seeded noise under a slow sine envelope, clamped to [-1,1].
func MakeWaveform(length int, seed int64) []WaveformPoint {
	g := rng.New(seed)
	points := make([]WaveformPoint, length)
	for i := range points {
		t := 0.0
		if length > 1 {
			t = float64(i) / float64(length-1)
		}
		v := (g.Float() - 0.5) * 2 * (0.6 + 0.4*math.Sin(float64(i)/12))
		points[i] = WaveformPoint{T: t, V: clamp(v, -1, 1)}
	}
	return points
}
