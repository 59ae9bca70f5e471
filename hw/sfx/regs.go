package sfx

import (
	"p8sfx/emu/log"
)

// params holds the register values seen by the channels. They are copied from
// the registers at tick boundaries only.
type params struct {
	run     bool
	base    uint32 // SFX table byte address
	attack  uint32 // samples
	release uint32 // samples
	length  uint16 // notes, 0 for the whole SFX
}

// SFX_CMD: $0A
func (c *Chip) WriteSFXCMD(old, val uint16) {
	cmd := DecodeCommand(val)
	if !cmd.Valid {
		return
	}

	log.ModSound.DebugZ("write SFX_CMD").
		Hex16("val", val).
		Stringer("cmd", cmd).
		End()

	c.cmds = append(c.cmds, cmd)
	// strobe: a later single-lane write must not merge with bit 15
	c.SFXCMD.Value = 0
}

// CTRL: $01
func (c *Chip) WriteCTRL(old, val uint16) {
	if (old^val)&ctrlRun != 0 {
		log.ModSound.InfoZ("write CTRL").
			Hex16("val", val).
			Bool("run", val&ctrlRun != 0).
			End()
	}
}

// latch copies the register values into p.
func (c *Chip) latch(p *params) {
	p.run = c.CTRL.Value&ctrlRun != 0
	p.base = uint32(c.SFXBASEHI.Value)<<16 | uint32(c.SFXBASELO.Value)
	p.attack = uint32(c.NOTEATK.Value)
	p.release = uint32(c.NOTEREL.Value)
	p.length = c.SFXLEN.Value
}
