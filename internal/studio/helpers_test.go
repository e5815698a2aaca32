package studio

import "github.com/iabetor/choirsynth/internal/render"

func renderMood(happy, calm, bright float64) render.Mood {
	return render.Mood{Happy: happy, Calm: calm, Bright: bright}
}

func waveformsEqual(a, b []render.WaveformPoint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
