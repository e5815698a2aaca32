package mixer

import (
	"errors"
	"fmt"

	"github.com/gen2brain/malgo"
)

// ErrResourceUnavailable means no audio output device context could be
// created. It surfaces only when playback is attempted; offline rendering
// never touches the device.
var ErrResourceUnavailable = errors.New("audio output device unavailable")

// deviceContext wraps the process-wide malgo context. It is created lazily
// on first playback and owned by exactly one Mixer; Dispose must free it or
// a live audio resource leaks.
type deviceContext struct {
	ctx *malgo.AllocatedContext
}

func newDeviceContext() (*deviceContext, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}
	return &deviceContext{ctx: ctx}, nil
}

// openDevice starts a playback device pulling int16 frames from the data
// callback.
func (d *deviceContext) openDevice(sampleRate, channels int, data func(out []byte, frameCount uint32)) (*malgo.Device, error) {
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(channels)
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.PeriodSizeInFrames = 512
	deviceConfig.Periods = 2

	callbacks := malgo.DeviceCallbacks{
		Data: func(outputSamples, inputSamples []byte, frameCount uint32) {
			data(outputSamples, frameCount)
		},
	}

	device, err := malgo.InitDevice(d.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("init playback device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, fmt.Errorf("start playback device: %w", err)
	}
	return device, nil
}

func (d *deviceContext) free() {
	if d.ctx != nil {
		_ = d.ctx.Uninit()
		d.ctx.Free()
		d.ctx = nil
	}
}
