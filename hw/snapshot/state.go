package snapshot

import "p8sfx/hw/hwdefs"

// Chip is the state of the SFX chip.
type Chip struct {
	Regs     Regs
	Ticks    uint64
	Output   int8
	Clipped  uint64
	Channels [hwdefs.NumChannels]Channel
}

// Regs holds the register values (SFX_CMD is write-only and thus absent).
type Regs struct {
	CTRL      uint16
	SFXBASEHI uint16
	SFXBASELO uint16
	NOTEATK   uint16
	NOTEREL   uint16
	SFXLEN    uint16
}

type Channel struct {
	State     string
	Index     uint8
	Offset    uint8
	Position  uint32
	Remaining uint16

	Speed     uint8
	LoopStart uint8
	LoopEnd   uint8
	Note      uint16

	Phase      uint32
	NoteOffset uint32
	Gain       uint32

	FetchPending bool
	FetchTag     uint32
	FetchAddr    uint32

	Output int32
}
