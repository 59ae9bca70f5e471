package emu

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"p8sfx/emu/log"
)

// otoOutput feeds an oto player from a FIFO of queued samples. The device
// pulls silence when the FIFO is empty.
type otoOutput struct {
	ctx    *oto.Context
	player *oto.Player

	mu   sync.Mutex
	fifo []int16
}

func openOtoAudio(cfg AudioConfig) (*otoOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: AudioChannels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(cfg.BufferSize) * time.Second / time.Duration(cfg.SampleRate),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	out := &otoOutput{ctx: ctx}
	out.player = ctx.NewPlayer(out)
	out.player.Play()

	log.ModAudio.InfoZ("opened oto audio context").
		Int("freq", cfg.SampleRate).
		End()
	return out, nil
}

// Read implements io.Reader, it's called by the oto player.
func (o *otoOutput) Read(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := min(len(p)/2, len(o.fifo))
	for i, s := range o.fifo[:n] {
		binary.LittleEndian.PutUint16(p[2*i:], uint16(s))
	}
	o.fifo = append(o.fifo[:0], o.fifo[n:]...)
	clear(p[2*n:])
	return len(p), nil
}

func (o *otoOutput) Queue(samples []int16) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.fifo = append(o.fifo, samples...)
	return nil
}

func (o *otoOutput) Queued() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.fifo)
}

func (o *otoOutput) Close() error {
	return o.player.Close()
}
