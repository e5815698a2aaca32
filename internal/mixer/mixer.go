package mixer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/iabetor/choirsynth/internal/logger"
	"github.com/iabetor/choirsynth/internal/render"
)

var (
	// ErrDisposed is returned by every operation after Dispose.
	ErrDisposed = errors.New("mixer disposed")
	// ErrTrackNotFound is returned for operations on unknown track IDs.
	ErrTrackNotFound = errors.New("track not found")
	// ErrNoReadySource means Play was called with nothing connected.
	ErrNoReadySource = errors.New("no track has a connected source")
)

// Mixer is the runtime playback graph: named tracks feeding a shared master
// bus and a single output device. The device context is created lazily on the
// first Play, so building a graph and rendering offline never requires audio
// hardware.
type Mixer struct {
	mu sync.Mutex

	sampleRate int
	channels   int
	masterGain float64
	clock      Clock

	tracks map[string]*Track
	order  []string

	devCtx   *deviceContext
	device   *malgo.Device
	headless bool

	playing    bool
	paused     bool
	clockStart time.Time
	pausedAt   time.Duration
	disposed   bool

	analyser *Analyser
}

// New creates a mixer for the given output format. No device is opened yet.
func New(sampleRate, channels int, clock Clock) *Mixer {
	if clock == nil {
		clock = systemClock{}
	}
	return &Mixer{
		sampleRate: sampleRate,
		channels:   channels,
		masterGain: 1.0,
		clock:      clock,
		tracks:     make(map[string]*Track),
		analyser:   newAnalyser(sampleRate),
	}
}

// NewHeadless creates a mixer that runs the transport and graph without ever
// opening an output device. Audio is pulled through MixInto instead; used for
// offline mixing and tests.
func NewHeadless(sampleRate, channels int, clock Clock) *Mixer {
	m := New(sampleRate, channels, clock)
	m.headless = true
	return m
}

// AddTrack registers an empty track. Adding an existing ID is an error.
func (m *Mixer) AddTrack(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return ErrDisposed
	}
	if _, ok := m.tracks[id]; ok {
		return fmt.Errorf("track %q already exists", id)
	}
	m.tracks[id] = newTrack(id, m.sampleRate)
	m.order = append(m.order, id)
	return nil
}

// ConnectSource attaches a source to a track, moving it from idle to ready.
// Reconnecting replaces the previous source.
func (m *Mixer) ConnectSource(id string, src Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return ErrDisposed
	}
	t, ok := m.tracks[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTrackNotFound, id)
	}
	t.source = src
	switch t.state {
	case TrackIdle:
		t.state = TrackReady
	}
	return nil
}

// ConnectWAV decodes a rendered WAV asset and connects it in one step.
func (m *Mixer) ConnectWAV(id string, wav []byte) error {
	src, err := NewWAVSource(wav)
	if err != nil {
		return fmt.Errorf("connect wav to %q: %w", id, err)
	}
	return m.ConnectSource(id, src)
}

// RemoveTrack drops a track from the graph.
func (m *Mixer) RemoveTrack(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return ErrDisposed
	}
	if _, ok := m.tracks[id]; !ok {
		return fmt.Errorf("%w: %q", ErrTrackNotFound, id)
	}
	delete(m.tracks, id)
	for i, tid := range m.order {
		if tid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// TrackState reports the lifecycle state of a track.
func (m *Mixer) TrackState(id string) (TrackState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tracks[id]
	if !ok {
		return TrackIdle, fmt.Errorf("%w: %q", ErrTrackNotFound, id)
	}
	return t.state, nil
}

// SetGain sets a track's linear gain, clamped to [0, 1].
func (m *Mixer) SetGain(id string, gain float64) error {
	if gain < 0 {
		gain = 0
	}
	if gain > 1 {
		gain = 1
	}
	return m.withTrack(id, func(t *Track) { t.gain = gain })
}

// SetPan sets a track's stereo position in [-1, 1].
func (m *Mixer) SetPan(id string, pan float64) error {
	if pan < -1 {
		pan = -1
	}
	if pan > 1 {
		pan = 1
	}
	return m.withTrack(id, func(t *Track) { t.pan = pan })
}

// SetMute toggles a track's individual mute flag.
func (m *Mixer) SetMute(id string, mute bool) error {
	return m.withTrack(id, func(t *Track) { t.mute = mute })
}

// SetSolo toggles a track's solo flag. While any track is soloed, every
// non-soloed track is silenced; clearing the last solo restores the
// individual mute flags untouched.
func (m *Mixer) SetSolo(id string, solo bool) error {
	return m.withTrack(id, func(t *Track) { t.solo = solo })
}

// SetMasterGain scales the summed output of all tracks.
func (m *Mixer) SetMasterGain(gain float64) {
	m.mu.Lock()
	m.masterGain = gain
	m.mu.Unlock()
}

func (m *Mixer) withTrack(id string, fn func(*Track)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return ErrDisposed
	}
	t, ok := m.tracks[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTrackNotFound, id)
	}
	fn(t)
	return nil
}

// anySoloedLocked reports whether at least one track has solo set.
func (m *Mixer) anySoloedLocked() bool {
	for _, t := range m.tracks {
		if t.solo {
			return true
		}
	}
	return false
}

// audible applies the mute/solo algebra: a track sounds unless it is
// individually muted, or some other track is soloed and this one is not.
func audible(t *Track, anySoloed bool) bool {
	if t.mute {
		return false
	}
	if anySoloed && !t.solo {
		return false
	}
	return true
}

// EffectiveMute reports whether the mute/solo algebra currently silences the
// track, regardless of its individual mute flag.
func (m *Mixer) EffectiveMute(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tracks[id]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrTrackNotFound, id)
	}
	return !audible(t, m.anySoloedLocked()), nil
}

// Play starts the transport at the given offset. The device context and
// device are created on first use; failure to open a device returns an error
// wrapping ErrResourceUnavailable and leaves the graph intact.
func (m *Mixer) Play(offset time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return ErrDisposed
	}

	ready := false
	for _, t := range m.tracks {
		if t.source != nil {
			ready = true
			break
		}
	}
	if !ready {
		return ErrNoReadySource
	}

	if !m.headless {
		if m.devCtx == nil {
			ctx, err := newDeviceContext()
			if err != nil {
				return err
			}
			m.devCtx = ctx
		}
		if m.device == nil {
			dev, err := m.devCtx.openDevice(m.sampleRate, m.channels, m.deviceCallback)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
			}
			m.device = dev
		}
	}

	m.clockStart = m.clock.Now().Add(-offset)
	m.playing = true
	m.paused = false
	for _, t := range m.tracks {
		if t.source != nil {
			t.state = TrackPlaying
		}
	}
	logger.Debugf("transport started at offset %s", offset)
	return nil
}

// Pause freezes the transport, retaining the current position.
func (m *Mixer) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return ErrDisposed
	}
	if !m.playing || m.paused {
		return nil
	}
	m.pausedAt = m.clock.Now().Sub(m.clockStart)
	m.paused = true
	for _, t := range m.tracks {
		if t.state == TrackPlaying {
			t.state = TrackPaused
		}
	}
	return nil
}

// Resume continues playback from the paused position.
func (m *Mixer) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return ErrDisposed
	}
	if !m.paused {
		return nil
	}
	m.clockStart = m.clock.Now().Add(-m.pausedAt)
	m.paused = false
	for _, t := range m.tracks {
		if t.state == TrackPaused {
			t.state = TrackPlaying
		}
	}
	return nil
}

// Stop halts the transport and resets the position to zero. Tracks with a
// connected source return to ready.
func (m *Mixer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return ErrDisposed
	}
	m.playing = false
	m.paused = false
	m.pausedAt = 0
	for _, t := range m.tracks {
		if t.source != nil {
			t.state = TrackReady
		} else {
			t.state = TrackIdle
		}
	}
	return nil
}

// Seek moves the transport to the given offset. While playing this restarts
// the clock from the new position; while stopped or paused it just records
// the position for the next Play or Resume.
func (m *Mixer) Seek(offset time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return ErrDisposed
	}
	if m.playing && !m.paused {
		m.clockStart = m.clock.Now().Add(-offset)
	} else {
		m.pausedAt = offset
	}
	return nil
}

// Elapsed reports the current transport position.
func (m *Mixer) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.playing {
		return m.pausedAt
	}
	if m.paused {
		return m.pausedAt
	}
	return m.clock.Now().Sub(m.clockStart)
}

// Playing reports whether the transport is running.
func (m *Mixer) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing && !m.paused
}

// Analyser exposes the tap on the master bus.
func (m *Mixer) Analyser() *Analyser {
	return m.analyser
}

// TrackAnalyser exposes a track's post-gain visualization tap.
func (m *Mixer) TrackAnalyser(id string) (*Analyser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tracks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTrackNotFound, id)
	}
	return t.analyser, nil
}

// deviceCallback fills the device buffer with int16 frames pulled from the
// graph at the transport position.
func (m *Mixer) deviceCallback(out []byte, frameCount uint32) {
	m.mu.Lock()
	if m.disposed || !m.playing || m.paused {
		m.mu.Unlock()
		for i := range out {
			out[i] = 0
		}
		return
	}
	startFrame := int64(m.clock.Now().Sub(m.clockStart)) * int64(m.sampleRate) / int64(time.Second)

	buf := make([]float64, int(frameCount)*m.channels)
	m.mixLocked(buf, startFrame)
	m.mu.Unlock()

	pcm := render.FloatToPCM16(buf)
	copy(out, pcm)
}

// MixInto renders frames starting at startFrame into an interleaved float
// buffer without touching the device. It mirrors what the device callback
// plays, which makes the graph testable offline.
func (m *Mixer) MixInto(out []float64, startFrame int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mixLocked(out, startFrame)
}

func (m *Mixer) mixLocked(out []float64, startFrame int64) {
	for i := range out {
		out[i] = 0
	}

	anySoloed := m.anySoloedLocked()
	frames := len(out) / m.channels
	scratch := make([]float64, len(out))
	for _, id := range m.order {
		t := m.tracks[id]
		if t.source == nil || !audible(t, anySoloed) {
			continue
		}
		for f := 0; f < frames; f++ {
			for ch := 0; ch < m.channels; ch++ {
				scratch[f*m.channels+ch] = t.sample(startFrame+int64(f), ch, m.channels, m.sampleRate)
			}
		}

		// Per-track tap sits after the track gain, before the master bus.
		t.analyser.push(scratch, m.channels)
		for i := range out {
			out[i] += scratch[i]
		}
	}
	for i := range out {
		out[i] *= m.masterGain
	}

	m.analyser.push(out, m.channels)
}

// Dispose stops playback and releases the device and its context. The mixer
// is unusable afterwards.
func (m *Mixer) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	m.playing = false
	device := m.device
	devCtx := m.devCtx
	m.device = nil
	m.devCtx = nil
	m.mu.Unlock()

	// Device teardown happens outside the lock: Uninit waits for the data
	// callback to drain, and the callback takes the lock.
	if device != nil {
		device.Uninit()
	}
	if devCtx != nil {
		devCtx.free()
	}
	logger.Debug("mixer disposed")
}
