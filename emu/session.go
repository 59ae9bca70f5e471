package emu

import (
	"fmt"

	"p8sfx/cart"
	"p8sfx/emu/log"
	"p8sfx/hw/hwdefs"
	"p8sfx/hw/hwio"
	"p8sfx/hw/membus"
	"p8sfx/hw/sfx"
	"p8sfx/hw/snapshot"
)

// DefaultMaxPolls is the number of polls a channel is given to complete its
// header and first note fetches after a trigger.
const DefaultMaxPolls = 1024

// A Session ties together the SFX chip, the memory bus it fetches from and
// the RAM holding the SFX table. A session isn't safe for concurrent use.
type Session struct {
	Chip *sfx.Chip
	Bus  *membus.Bus
	RAM  *hwio.Mem
	Cart *cart.Cart

	cfg EngineConfig
}

// NewSession creates a powered-up session configured with cfg.
func NewSession(cfg EngineConfig) *Session {
	ram := hwio.NewMem("ram", hwdefs.MemSize, hwio.MemFlagReadWrite)
	bus := membus.New(ram, cfg.MemLatency)
	s := &Session{
		Chip: sfx.New(bus),
		Bus:  bus,
		RAM:  ram,
		cfg:  cfg,
	}
	s.configure()
	return s
}

func (s *Session) configure() {
	w := func(addr uint16, val uint16) { s.Chip.Write16(addr, val, hwio.LaneBoth) }

	w(hwdefs.RegSFXBASEHI, uint16(s.cfg.SFXBase>>16))
	w(hwdefs.RegSFXBASELO, uint16(s.cfg.SFXBase))
	w(hwdefs.RegNOTEATK, s.cfg.Attack)
	w(hwdefs.RegNOTEREL, s.cfg.Release)
	if s.cfg.RunOnStart {
		w(hwdefs.RegCTRL, hwdefs.CtrlRun)
	}

	log.ModEmu.DebugZ("session configured").
		Hex32("base", s.cfg.SFXBase).
		Uint16("atk", s.cfg.Attack).
		Uint16("rel", s.cfg.Release).
		Int("latency", s.cfg.MemLatency).
		End()
}

// Load copies the SFX slots of c into the session RAM.
func (s *Session) Load(c *cart.Cart) {
	c.Load(s.RAM, s.cfg.SFXBase)
	s.Cart = c
}

// LoadCart reads the cartridge at path and loads its SFX.
func (s *Session) LoadCart(path string) error {
	c, err := cart.LoadFile(path, s.RAM, s.cfg.SFXBase)
	if err != nil {
		return err
	}
	s.Cart = c
	return nil
}

// Run sets or clears CTRL.RUN.
func (s *Session) Run(run bool) {
	var val uint16
	if run {
		val = hwdefs.CtrlRun
	}
	s.Chip.Write16(hwdefs.RegCTRL, val, hwio.LaneLo)
}

// Trigger starts SFX index on channel ch from note offset off and waits for
// the channel to be playing. The channel must be running.
func (s *Session) Trigger(ch, index, off int) error {
	if ch < 0 || ch >= hwdefs.NumChannels {
		return fmt.Errorf("invalid channel %d", ch)
	}
	if index < 0 || index >= hwdefs.StopIndex {
		return fmt.Errorf("invalid sfx index %d", index)
	}
	if off < 0 || off >= hwdefs.NotesPerSlot {
		return fmt.Errorf("invalid note offset %d", off)
	}

	s.Chip.Exec(sfx.Trigger(uint8(ch), uint8(index), uint8(off)))
	polls, err := s.Chip.WaitPlaying(ch, DefaultMaxPolls)
	if err != nil {
		return fmt.Errorf("sfx %d: %w", index, err)
	}

	log.ModEmu.DebugZ("sfx playing").
		Int("ch", ch).
		Int("sfx", index).
		Int("polls", polls).
		End()
	return nil
}

// Stop stops channel ch.
func (s *Session) Stop(ch int) {
	s.Chip.Exec(sfx.Stop(uint8(ch)))
}

// Render plays SFX index on channel 0, from its first note, and returns the
// samples produced until the channel gets back to idle, or limit samples have
// been produced.
func (s *Session) Render(index int, limit int) ([]int8, error) {
	if err := s.Trigger(0, index, 0); err != nil {
		return nil, err
	}

	var out []int8
	if s.Cart != nil && s.Cart.SFX[index] != nil {
		out = make([]int8, 0, min(s.Cart.SFX[index].Duration(), limit))
	}
	for len(out) < limit && s.Chip.Playing() {
		out = append(out, s.Chip.Tick())
	}
	return out, nil
}

// Advance runs the chip for n ticks, discarding the output.
func (s *Session) Advance(n int) {
	for range n {
		s.Chip.Tick()
	}
}

// State returns a snapshot of the chip.
func (s *Session) State() *snapshot.Chip {
	return s.Chip.State()
}

// Reset puts the chip and the bus back in their power-on state, and applies
// the session configuration again. RAM is preserved.
func (s *Session) Reset() {
	s.Bus.Reset()
	s.Chip.Reset()
	s.configure()
}
