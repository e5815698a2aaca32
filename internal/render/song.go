package render

import (
	"errors"
	"math"
)

// ErrNoTracks is returned when a mix has nothing to sum.
var ErrNoTracks = errors.New("no tracks to mix")

// Mix normalization headroom: the summed peak is scaled to this level.
const mixHeadroom = 0.8

// MixTracks sums mono track buffers into one buffer, padding shorter tracks
// with silence, and normalizes the result to leave headroom against
// clipping.
func MixTracks(tracks [][]float64) ([]float64, error) {
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}

	maxLen := 0
	for _, track := range tracks {
		if len(track) > maxLen {
			maxLen = len(track)
		}
	}

	mixed := make([]float64, maxLen)
	for _, track := range tracks {
		for i, v := range track {
			mixed[i] += v
		}
	}

	var peak float64
	for _, v := range mixed {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		scale := mixHeadroom / peak
		for i := range mixed {
			mixed[i] *= scale
		}
	}
	return mixed, nil
}
