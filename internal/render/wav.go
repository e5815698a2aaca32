package render

import (
	"encoding/binary"
	"math"
)

// DefaultSampleRate is the engine's fixed render rate.
const DefaultSampleRate = 44100

// wavHeaderSize is the canonical RIFF/WAVE header length for 16-bit PCM.
const wavHeaderSize = 44

// EncodeWAV wraps interleaved float samples in a canonical 44-byte
// RIFF/WAVE header as 16-bit signed PCM. Samples are clipped to [-1, 1]
// before scaling. Output length is always 44 + frames*channels*2.
func EncodeWAV(samples []float64, channels, sampleRate int) []byte {
	dataSize := len(samples) * 2
	buf := make([]byte, wavHeaderSize+dataSize)

	le := binary.LittleEndian
	copy(buf[0:4], "RIFF")
	le.PutUint32(buf[4:8], uint32(wavHeaderSize+dataSize-8))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	le.PutUint32(buf[16:20], 16) // fmt chunk size
	le.PutUint16(buf[20:22], 1)  // PCM
	le.PutUint16(buf[22:24], uint16(channels))
	le.PutUint32(buf[24:28], uint32(sampleRate))
	le.PutUint32(buf[28:32], uint32(sampleRate*channels*2)) // byte rate
	le.PutUint16(buf[32:34], uint16(channels*2))            // block align
	le.PutUint16(buf[34:36], 16)                            // bits per sample

	copy(buf[36:40], "data")
	le.PutUint32(buf[40:44], uint32(dataSize))

	for i, s := range samples {
		le.PutUint16(buf[wavHeaderSize+i*2:], uint16(floatToPCM16(s)))
	}
	return buf
}

// floatToPCM16 clamps to [-1, 1] and scales to int16.
func floatToPCM16(s float64) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(s * math.MaxInt16)
}

// FloatToPCM16 converts interleaved float samples to little-endian 16-bit
// PCM bytes, the format the playback device consumes.
func FloatToPCM16(samples []float64) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(floatToPCM16(s)))
	}
	return out
}

// PCM16ToFloat converts little-endian 16-bit PCM bytes back to floats.
// Used by the playback mixer to feed rendered assets into its graph.
func PCM16ToFloat(data []byte) []float64 {
	n := len(data) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		s := int16(data[2*i]) | int16(data[2*i+1])<<8
		out[i] = float64(s) / math.MaxInt16
	}
	return out
}
