package sfx

import (
	"fmt"
	"sync"

	"p8sfx/emu/log"
	"p8sfx/hw/hwdefs"
	"p8sfx/hw/hwio"
	"p8sfx/hw/snapshot"
)

const ctrlRun = hwdefs.CtrlRun

// Chip is the SFX sound chip: 8 channels fetching SFX data from an external
// memory, mixed into a single 8-bit output at 22050Hz.
//
// Register writes may happen from any goroutine, they take effect at the next
// tick boundary. Tick, Poll and all the other methods exposing the engine
// state must be called from a single goroutine.
type Chip struct {
	mu   sync.Mutex // protects registers, cmds and acks
	bus  *hwio.Table
	cmds []Command
	acks []FetchAck

	mem      Memory
	params   params
	channels [hwdefs.NumChannels]channel
	mixer    mixer
	ticks    uint64

	// pending control inputs, drained at tick boundaries
	pcmds []Command
	packs []FetchAck

	CTRL      hwio.Reg16 `hwio:"offset=0x01,wcb"`
	SFXBASEHI hwio.Reg16 `hwio:"offset=0x02"`
	SFXBASELO hwio.Reg16 `hwio:"offset=0x03,reset=0x3200"`
	NOTEATK   hwio.Reg16 `hwio:"offset=0x08"`
	NOTEREL   hwio.Reg16 `hwio:"offset=0x09"`
	SFXCMD    hwio.Reg16 `hwio:"offset=0x0A,writeonly,wcb"`
	SFXLEN    hwio.Reg16 `hwio:"offset=0x0B"`
}

// New returns a chip fetching SFX data from mem. mem may be nil, in which
// case fetch requests must be answered with Ack.
func New(mem Memory) *Chip {
	c := &Chip{
		bus: hwio.NewTable("sfx"),
		mem: mem,
	}
	hwio.MustInitRegs(c)
	c.bus.MapBank(0, c, 0)

	for i := range c.channels {
		c.channels[i] = newChannel(i, &c.params, mem, c.deliver)
	}
	c.latch(&c.params)
	return c
}

// Write16 writes val to the register at word address addr, only the bytes
// selected by lanes are modified.
func (c *Chip) Write16(addr uint16, val uint16, lanes hwio.ByteLanes) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bus.Write16(addr, val, lanes)
}

// Read16 reads the register at word address addr.
func (c *Chip) Read16(addr uint16) uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.bus.Read16(addr)
}

// Exec writes cmd to SFX_CMD.
func (c *Chip) Exec(cmd Command) {
	c.Write16(hwdefs.RegSFXCMD, cmd.Encode(), hwio.LaneBoth)
}

// Ack hands over a fetch acknowledge coming from an external agent. It is
// applied at the next tick boundary.
func (c *Chip) Ack(a FetchAck) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.acks = append(c.acks, a)
}

// commit applies the control inputs received since the last tick boundary:
// register values, then commands and acknowledges, in the order they came.
func (c *Chip) commit() {
	c.mu.Lock()
	wasRunning := c.params.run
	c.latch(&c.params)
	c.pcmds = append(c.pcmds[:0], c.cmds...)
	c.packs = append(c.packs[:0], c.acks...)
	c.cmds = c.cmds[:0]
	c.acks = c.acks[:0]
	c.mu.Unlock()

	if wasRunning != c.params.run {
		log.ModSound.DebugZ("run changed").Bool("run", c.params.run).End()
	}

	for _, cmd := range c.pcmds {
		ch := &c.channels[cmd.Channel]
		if cmd.IsStop() {
			ch.stop()
			continue
		}
		ch.trigger(cmd.Index, cmd.Offset, c.params.base, c.params.length)
	}
	for _, a := range c.packs {
		c.deliver(a)
	}
}

// deliver routes a fetch acknowledge to the channel it belongs to.
func (c *Chip) deliver(a FetchAck) {
	if a.Channel < 0 || a.Channel >= len(c.channels) {
		log.ModMem.WarnZ("fetch ack for invalid channel").
			Int("ch", a.Channel).
			Uint32("tag", a.Tag).
			End()
		return
	}
	c.channels[a.Channel].fetch.ack(a)
}

// Tick runs the chip for one sample period and returns the output sample.
func (c *Chip) Tick() int8 {
	c.commit()
	c.ticks++

	if !c.params.run {
		return c.mixer.silence()
	}

	var outs [hwdefs.NumChannels]int32
	for i := range c.channels {
		outs[i] = c.channels[i].step()
	}
	return c.mixer.mix(outs[:])
}

// Render fills out with consecutive output samples.
func (c *Chip) Render(out []int8) {
	for i := range out {
		out[i] = c.Tick()
	}
}

// Poll applies pending control inputs and lets channels complete their memory
// fetches, without producing a sample nor moving playback forward.
func (c *Chip) Poll() {
	c.commit()
	if !c.params.run {
		return
	}
	for i := range c.channels {
		c.channels[i].advance()
	}
}

// WaitPlaying polls the chip until channel ch starts playing, for at most
// maxPolls times. It returns the number of polls it took.
//
// A *LoadTimeoutError is returned if the channel is still loading after
// maxPolls. ErrNotTriggered is returned if the channel is, or becomes, idle.
func (c *Chip) WaitPlaying(ch int, maxPolls int) (int, error) {
	if ch < 0 || ch >= len(c.channels) {
		return 0, fmt.Errorf("invalid channel %d", ch)
	}
	for n := 1; n <= maxPolls; n++ {
		c.Poll()
		switch st := c.channels[ch].state; {
		case st.Playing():
			return n, nil
		case st == Idle:
			return n, fmt.Errorf("channel %d: %w", ch, ErrNotTriggered)
		}
	}

	chn := &c.channels[ch]
	return maxPolls, &LoadTimeoutError{
		Channel: ch,
		Polls:   maxPolls,
		State:   chn.state,
		Request: chn.fetch.outstanding(),
		Pending: chn.fetch.pending,
	}
}

// ChannelState returns the state of channel ch.
func (c *Chip) ChannelState(ch int) State {
	return c.channels[ch].state
}

// PendingRequest returns the outstanding fetch request of channel ch, if any.
func (c *Chip) PendingRequest(ch int) (FetchRequest, bool) {
	f := &c.channels[ch].fetch
	return f.outstanding(), f.pending
}

// Playing reports whether any channel is playing or loading.
func (c *Chip) Playing() bool {
	for i := range c.channels {
		if c.channels[i].state != Idle {
			return true
		}
	}
	return false
}

// Reset puts the chip back in its power-on state. Pending commands and
// acknowledges are dropped.
func (c *Chip) Reset() {
	c.mu.Lock()
	hwio.MustInitRegs(c)
	c.cmds = c.cmds[:0]
	c.acks = c.acks[:0]
	c.latch(&c.params)
	c.mu.Unlock()

	for i := range c.channels {
		c.channels[i].reset()
	}
	c.mixer = mixer{}
	c.ticks = 0
}

// AddLogContext implements log.LogContextAdder, decorating log lines with the
// current tick.
func (c *Chip) AddLogContext(z *log.EntryZ) {
	z.Uint64("tick", c.ticks)
}

// State returns a snapshot of the chip state.
func (c *Chip) State() *snapshot.Chip {
	c.mu.Lock()
	regs := snapshot.Regs{
		CTRL:      c.CTRL.Value,
		SFXBASEHI: c.SFXBASEHI.Value,
		SFXBASELO: c.SFXBASELO.Value,
		NOTEATK:   c.NOTEATK.Value,
		NOTEREL:   c.NOTEREL.Value,
		SFXLEN:    c.SFXLEN.Value,
	}
	c.mu.Unlock()

	state := snapshot.Chip{
		Regs:    regs,
		Ticks:   c.ticks,
		Output:  c.mixer.last,
		Clipped: c.mixer.clipped,
	}
	for i := range c.channels {
		c.channels[i].saveState(&state.Channels[i])
	}
	return &state
}
