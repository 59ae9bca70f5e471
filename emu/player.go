package emu

import (
	"context"
	"fmt"
	"time"

	"github.com/arl/blip"

	"p8sfx/emu/log"
	"p8sfx/hw/hwdefs"
)

// AudioOutput is an audio device accepting mono 16-bit samples.
type AudioOutput interface {
	// Queue queues samples for playback.
	Queue(samples []int16) error

	// Queued returns the number of samples not played yet.
	Queued() int

	Close() error
}

// OpenAudio opens the audio output selected by cfg.
func OpenAudio(cfg AudioConfig) (AudioOutput, error) {
	var (
		out AudioOutput
		err error
	)
	switch cfg.Backend {
	case BackendSDL:
		out, err = openSDLAudio(cfg)
	case BackendOto:
		out, err = openOtoAudio(cfg)
	case BackendNone:
		out = nullOutput{}
	default:
		err = fmt.Errorf("unknown audio backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// frameSamples is the number of chip samples rendered per player frame.
const frameSamples = 4 * hwdefs.SamplesPerTick

// Player plays the chip output in real time on an audio output, resampling
// from the chip sample rate to the device sample rate.
type Player struct {
	sess *Session
	out  AudioOutput

	buf     *blip.Buffer
	prev    int32
	chunk   [frameSamples]int8
	outbuf  []int16
	target  int // number of queued samples to keep ahead
	elapsed uint64
}

// NewPlayer returns a player for the session output, the device running at
// cfg.SampleRate.
func NewPlayer(sess *Session, out AudioOutput, cfg AudioConfig) *Player {
	// Room for a few frames, at the device rate.
	size := 4 * (frameSamples*cfg.SampleRate/hwdefs.SampleRate + 1)
	buf := blip.NewBuffer(size)
	buf.SetRates(hwdefs.SampleRate, float64(cfg.SampleRate))

	return &Player{
		sess:   sess,
		out:    out,
		buf:    buf,
		outbuf: make([]int16, size),
		target: max(cfg.BufferSize, 2*frameSamples*cfg.SampleRate/hwdefs.SampleRate),
	}
}

// Frame renders one frame of chip samples, and queues the resampled output.
func (p *Player) Frame() error {
	p.sess.Chip.Render(p.chunk[:])
	for i, s := range p.chunk {
		v := int32(s) << 8
		if v != p.prev {
			p.buf.AddDelta(uint64(i), v-p.prev)
			p.prev = v
		}
	}
	p.buf.EndFrame(frameSamples)
	p.elapsed += frameSamples

	n := p.buf.ReadSamples(p.outbuf, len(p.outbuf), blip.Mono)
	if n == 0 {
		return nil
	}
	return p.out.Queue(p.outbuf[:n])
}

// Play triggers SFX index on channel 0 and plays it until it ends, or ctx is
// done. It then waits for the audio output to drain.
func (p *Player) Play(ctx context.Context, index int) error {
	if err := p.sess.Trigger(0, index, 0); err != nil {
		return err
	}
	log.ModAudio.InfoZ("playing sfx").Int("sfx", index).End()

	for p.sess.Chip.Playing() {
		select {
		case <-ctx.Done():
			p.sess.Stop(0)
			return ctx.Err()
		default:
		}
		if p.out.Queued() > p.target {
			time.Sleep(time.Millisecond)
			continue
		}
		if err := p.Frame(); err != nil {
			return fmt.Errorf("audio: %w", err)
		}
	}

	// Ramp down to silence
	if err := p.Frame(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	for p.out.Queued() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}

	log.ModAudio.DebugZ("sfx done").
		Int("sfx", index).
		Uint64("samples", p.elapsed).
		End()
	return nil
}

// Elapsed returns the number of chip samples played so far.
func (p *Player) Elapsed() uint64 { return p.elapsed }

type nullOutput struct{}

func (nullOutput) Queue([]int16) error { return nil }
func (nullOutput) Queued() int         { return 0 }
func (nullOutput) Close() error        { return nil }
