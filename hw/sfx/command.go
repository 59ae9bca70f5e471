package sfx

import (
	"fmt"

	"p8sfx/hw/hwdefs"
	"p8sfx/hw/hwio"
)

// SFX_CMD bits.
const (
	cmdIndexLo   = 0
	cmdOffsetLo  = 6
	cmdChannelLo = 12
	cmdValid     = 15
)

// Command is decoded from a write to SFX_CMD. A command either triggers an SFX
// on a channel, or stops the channel when Index is the stop sentinel.
type Command struct {
	Valid   bool
	Channel uint8 // 0..7
	Offset  uint8 // first note to play, 0..63
	Index   uint8 // SFX slot, 0..63
}

// DecodeCommand decodes an SFX_CMD register value. The returned command is
// invalid (a no-op) when bit 15 is clear.
func DecodeCommand(w uint16) Command {
	if !hwio.GetBit16(w, cmdValid) {
		return Command{}
	}
	return Command{
		Valid:   true,
		Channel: uint8(hwio.Field16(w, cmdChannelLo, 3)),
		Offset:  uint8(hwio.Field16(w, cmdOffsetLo, 6)),
		Index:   uint8(hwio.Field16(w, cmdIndexLo, 6)),
	}
}

// Encode returns the SFX_CMD value of cmd. Out of range fields are truncated
// to their bit width. An invalid command encodes to 0.
func (cmd Command) Encode() uint16 {
	if !cmd.Valid {
		return 0
	}
	var w uint16
	hwio.SetBit16(&w, cmdValid)
	hwio.SetField16(&w, cmdChannelLo, 3, uint16(cmd.Channel))
	hwio.SetField16(&w, cmdOffsetLo, 6, uint16(cmd.Offset))
	hwio.SetField16(&w, cmdIndexLo, 6, uint16(cmd.Index))
	return w
}

// IsStop reports whether cmd stops its channel.
func (cmd Command) IsStop() bool {
	return cmd.Valid && cmd.Index == hwdefs.StopIndex
}

func (cmd Command) String() string {
	switch {
	case !cmd.Valid:
		return "nop"
	case cmd.IsStop():
		return fmt.Sprintf("stop(ch=%d)", cmd.Channel)
	}
	return fmt.Sprintf("trigger(ch=%d sfx=%d off=%d)", cmd.Channel, cmd.Index, cmd.Offset)
}

// Trigger returns the command playing SFX index on channel ch, from note off.
func Trigger(ch, index, off uint8) Command {
	return Command{Valid: true, Channel: ch, Offset: off, Index: index}
}

// Stop returns the command stopping channel ch.
func Stop(ch uint8) Command {
	return Command{Valid: true, Channel: ch, Index: hwdefs.StopIndex}
}
