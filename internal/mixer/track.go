package mixer

import "math"

// TrackState is the lifecycle of a single playback lane.
type TrackState int

const (
	// TrackIdle means the track exists but has no source connected.
	TrackIdle TrackState = iota
	// TrackReady means a source is connected and the track will sound on Play.
	TrackReady
	// TrackPlaying means the transport is running and the track is audible
	// (subject to mute/solo).
	TrackPlaying
	// TrackPaused means the transport is paused with position retained.
	TrackPaused
)

func (s TrackState) String() string {
	switch s {
	case TrackIdle:
		return "idle"
	case TrackReady:
		return "ready"
	case TrackPlaying:
		return "playing"
	case TrackPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Track is one lane of the graph: a source plus gain, pan, mute and solo.
// All fields are guarded by the owning Mixer's lock.
type Track struct {
	id     string
	source Source
	state  TrackState

	gain float64
	pan  float64
	mute bool
	solo bool

	// analyser taps the track's post-gain signal for visualization.
	analyser *Analyser
}

func newTrack(id string, sampleRate int) *Track {
	return &Track{id: id, gain: 1.0, state: TrackIdle, analyser: newAnalyser(sampleRate)}
}

// panGains returns the equal-power left/right gains for the track's pan.
func (t *Track) panGains() (left, right float64) {
	angle := (t.pan + 1) * math.Pi / 4
	return math.Cos(angle), math.Sin(angle)
}

// sample reads one value from the connected source, already scaled by the
// track gain and pan. frame is in the mixer's timeline at outRate; channel is
// the output channel index.
func (t *Track) sample(frame int64, channel, outChannels, outRate int) float64 {
	if t.source == nil {
		return 0
	}

	// Sources at a different rate than the device are read with a
	// nearest-frame ratio step. Rendered assets share the engine rate, so
	// this is normally the identity; it matters for imported MP3s.
	srcFrame := frame
	if rate := t.source.SampleRate(); rate != outRate {
		srcFrame = frame * int64(rate) / int64(outRate)
	}
	v := t.source.Sample(srcFrame, channel) * t.gain

	if outChannels == 2 {
		left, right := t.panGains()
		if channel == 0 {
			v *= left
		} else {
			v *= right
		}
	}
	return v
}
