package render

import (
	"encoding/binary"
	"testing"
)

func TestEncodeWAV_HeaderLayout(t *testing.T) {
	samples := make([]float64, 1000) // 500 stereo frames
	data := EncodeWAV(samples, 2, 44100)

	if len(data) != 44+1000*2 {
		t.Fatalf("total length: got %d, want %d", len(data), 44+2000)
	}

	le := binary.LittleEndian
	if string(data[0:4]) != "RIFF" {
		t.Errorf("missing RIFF tag: %q", data[0:4])
	}
	if got := le.Uint32(data[4:8]); got != uint32(len(data)-8) {
		t.Errorf("RIFF chunk size: got %d, want %d", got, len(data)-8)
	}
	if string(data[8:12]) != "WAVE" {
		t.Errorf("missing WAVE tag: %q", data[8:12])
	}
	if string(data[12:16]) != "fmt " {
		t.Errorf("missing fmt tag: %q", data[12:16])
	}
	if got := le.Uint16(data[20:22]); got != 1 {
		t.Errorf("audio format: got %d, want 1 (PCM)", got)
	}
	if got := le.Uint16(data[22:24]); got != 2 {
		t.Errorf("channels: got %d, want 2", got)
	}
	if got := le.Uint32(data[24:28]); got != 44100 {
		t.Errorf("sample rate: got %d, want 44100", got)
	}
	if got := le.Uint32(data[28:32]); got != 44100*2*2 {
		t.Errorf("byte rate: got %d, want %d", got, 44100*4)
	}
	if got := le.Uint16(data[32:34]); got != 4 {
		t.Errorf("block align: got %d, want 4", got)
	}
	if got := le.Uint16(data[34:36]); got != 16 {
		t.Errorf("bit depth: got %d, want 16", got)
	}
	if string(data[36:40]) != "data" {
		t.Errorf("missing data tag: %q", data[36:40])
	}
	// frames * channels * 2.
	if got := le.Uint32(data[40:44]); got != 500*2*2 {
		t.Errorf("data chunk size: got %d, want %d", got, 2000)
	}
}

func TestEncodeWAV_Mono(t *testing.T) {
	samples := make([]float64, 441)
	data := EncodeWAV(samples, 1, 44100)

	le := binary.LittleEndian
	if got := le.Uint16(data[22:24]); got != 1 {
		t.Errorf("channels: got %d, want 1", got)
	}
	if got := le.Uint16(data[32:34]); got != 2 {
		t.Errorf("block align: got %d, want 2", got)
	}
	if got := le.Uint32(data[40:44]); got != 441*2 {
		t.Errorf("data chunk size: got %d, want %d", got, 441*2)
	}
}

func TestEncodeWAV_Clipping(t *testing.T) {
	data := EncodeWAV([]float64{2.0, -2.0, 0}, 1, 44100)

	read := func(i int) int16 {
		return int16(binary.LittleEndian.Uint16(data[44+2*i:]))
	}
	if read(0) != 32767 {
		t.Errorf("over-range sample: got %d, want 32767", read(0))
	}
	if read(1) != -32767 {
		t.Errorf("under-range sample: got %d, want -32767", read(1))
	}
	if read(2) != 0 {
		t.Errorf("zero sample: got %d, want 0", read(2))
	}
}

func TestPCM16ToFloat_RoundTrip(t *testing.T) {
	in := []float64{0, 0.25, -0.25, 0.99, -0.99}
	data := EncodeWAV(in, 1, 44100)
	out := PCM16ToFloat(data[44:])

	if len(out) != len(in) {
		t.Fatalf("length: got %d, want %d", len(out), len(in))
	}
	for i := range in {
		if diff := out[i] - in[i]; diff > 1e-4 || diff < -1e-4 {
			t.Errorf("sample %d: got %g, want ~%g", i, out[i], in[i])
		}
	}
}
