package mixer

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/iabetor/choirsynth/internal/render"
)

// Source supplies samples to one track of the playback graph. Sources are
// fully decoded buffers: playback never blocks on I/O inside the device
// callback.
type Source interface {
	SampleRate() int
	Channels() int
	Frames() int
	// Sample returns the value at (frame, channel). Out-of-range frames
	// read as silence.
	Sample(frame int64, channel int) float64
}

// BufferSource plays interleaved float samples from memory.
type BufferSource struct {
	samples    []float64
	channels   int
	sampleRate int
}

// NewBufferSource wraps interleaved samples.
func NewBufferSource(samples []float64, channels, sampleRate int) *BufferSource {
	return &BufferSource{samples: samples, channels: channels, sampleRate: sampleRate}
}

func (b *BufferSource) SampleRate() int { return b.sampleRate }
func (b *BufferSource) Channels() int   { return b.channels }
func (b *BufferSource) Frames() int     { return len(b.samples) / b.channels }

func (b *BufferSource) Sample(frame int64, channel int) float64 {
	if frame < 0 || frame >= int64(b.Frames()) {
		return 0
	}
	if channel >= b.channels {
		// Mono sources feed every output channel.
		channel = b.channels - 1
	}
	return b.samples[frame*int64(b.channels)+int64(channel)]
}

// NewWAVSource parses a rendered WAV asset into a buffer source. Only the
// engine's own canonical 16-bit PCM layout is supported.
func NewWAVSource(wav []byte) (*BufferSource, error) {
	if len(wav) < 44 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE container")
	}

	le := binary.LittleEndian
	if format := le.Uint16(wav[20:22]); format != 1 {
		return nil, fmt.Errorf("unsupported audio format %d (want PCM)", format)
	}
	if bits := le.Uint16(wav[34:36]); bits != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d (want 16)", bits)
	}

	channels := int(le.Uint16(wav[22:24]))
	sampleRate := int(le.Uint32(wav[24:28]))
	dataSize := int(le.Uint32(wav[40:44]))
	if 44+dataSize > len(wav) {
		return nil, fmt.Errorf("data chunk size %d exceeds container", dataSize)
	}

	samples := render.PCM16ToFloat(wav[44 : 44+dataSize])
	return NewBufferSource(samples, channels, sampleRate), nil
}

// NewMP3FileSource decodes an MP3 file fully into memory so an imported
// backing track can play through the same graph as rendered vocals. go-mp3
// always outputs 16-bit stereo.
func NewMP3FileSource(path string) (*BufferSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mp3: %w", err)
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("create mp3 decoder: %w", err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}

	return NewBufferSource(render.PCM16ToFloat(raw), 2, decoder.SampleRate()), nil
}
