package emu

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"p8sfx/emu/log"
)

const (
	AudioFormat   = sdl.AUDIO_S16LSB
	AudioChannels = 1
)

type sdlOutput struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec
}

func openSDLAudio(cfg AudioConfig) (*sdlOutput, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("failed to init SDL audio: %w", err)
	}

	want := sdl.AudioSpec{
		Freq:     int32(cfg.SampleRate),
		Format:   AudioFormat,
		Channels: AudioChannels,
		Samples:  uint16(cfg.BufferSize),
	}

	out := &sdlOutput{}
	var err error
	out.id, err = sdl.OpenAudioDevice("", false, &want, &out.spec, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}

	log.ModAudio.InfoZ("opened SDL audio device").
		Int("freq", int(out.spec.Freq)).
		Uint16("samples", out.spec.Samples).
		End()

	sdl.PauseAudioDevice(out.id, false)
	return out, nil
}

func (o *sdlOutput) Queue(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
	return sdl.QueueAudio(o.id, buf)
}

func (o *sdlOutput) Queued() int {
	return int(sdl.GetQueuedAudioSize(o.id)) / 2
}

func (o *sdlOutput) Close() error {
	sdl.CloseAudioDevice(o.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
