package snapshot

import (
	"fmt"

	"github.com/go-faster/jx"
)

func (c *Chip) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	e.SetIdent(2)
	c.Encode(&e)
	return e.Bytes(), nil
}

func (c *Chip) UnmarshalJSON(data []byte) error {
	return c.Decode(jx.DecodeBytes(data))
}

func (c *Chip) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("regs")
	c.Regs.Encode(e)
	e.FieldStart("ticks")
	e.UInt64(c.Ticks)
	e.FieldStart("output")
	e.Int8(c.Output)
	e.FieldStart("clipped")
	e.UInt64(c.Clipped)
	e.FieldStart("channels")
	e.ArrStart()
	for i := range c.Channels {
		c.Channels[i].Encode(e)
	}
	e.ArrEnd()
	e.ObjEnd()
}

func (c *Chip) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "regs":
			err = c.Regs.Decode(d)
		case "ticks":
			c.Ticks, err = d.UInt64()
		case "output":
			c.Output, err = d.Int8()
		case "clipped":
			c.Clipped, err = d.UInt64()
		case "channels":
			i := 0
			err = d.Arr(func(d *jx.Decoder) error {
				if i >= len(c.Channels) {
					return fmt.Errorf("too many channels (max %d)", len(c.Channels))
				}
				if err := c.Channels[i].Decode(d); err != nil {
					return fmt.Errorf("channel %d: %w", i, err)
				}
				i++
				return nil
			})
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
}

func (r *Regs) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("ctrl")
	e.UInt16(r.CTRL)
	e.FieldStart("sfx_base_hi")
	e.UInt16(r.SFXBASEHI)
	e.FieldStart("sfx_base_lo")
	e.UInt16(r.SFXBASELO)
	e.FieldStart("note_atk")
	e.UInt16(r.NOTEATK)
	e.FieldStart("note_rel")
	e.UInt16(r.NOTEREL)
	e.FieldStart("sfx_len")
	e.UInt16(r.SFXLEN)
	e.ObjEnd()
}

func (r *Regs) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "ctrl":
			r.CTRL, err = d.UInt16()
		case "sfx_base_hi":
			r.SFXBASEHI, err = d.UInt16()
		case "sfx_base_lo":
			r.SFXBASELO, err = d.UInt16()
		case "note_atk":
			r.NOTEATK, err = d.UInt16()
		case "note_rel":
			r.NOTEREL, err = d.UInt16()
		case "sfx_len":
			r.SFXLEN, err = d.UInt16()
		default:
			err = d.Skip()
		}
		return err
	})
}

func (ch *Channel) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("state")
	e.Str(ch.State)
	e.FieldStart("index")
	e.UInt8(ch.Index)
	e.FieldStart("offset")
	e.UInt8(ch.Offset)
	e.FieldStart("position")
	e.UInt32(ch.Position)
	e.FieldStart("remaining")
	e.UInt16(ch.Remaining)
	e.FieldStart("speed")
	e.UInt8(ch.Speed)
	e.FieldStart("loop_start")
	e.UInt8(ch.LoopStart)
	e.FieldStart("loop_end")
	e.UInt8(ch.LoopEnd)
	e.FieldStart("note")
	e.UInt16(ch.Note)
	e.FieldStart("phase")
	e.UInt32(ch.Phase)
	e.FieldStart("note_offset")
	e.UInt32(ch.NoteOffset)
	e.FieldStart("gain")
	e.UInt32(ch.Gain)
	e.FieldStart("fetch_pending")
	e.Bool(ch.FetchPending)
	e.FieldStart("fetch_tag")
	e.UInt32(ch.FetchTag)
	e.FieldStart("fetch_addr")
	e.UInt32(ch.FetchAddr)
	e.FieldStart("output")
	e.Int32(ch.Output)
	e.ObjEnd()
}

func (ch *Channel) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "state":
			ch.State, err = d.Str()
		case "index":
			ch.Index, err = d.UInt8()
		case "offset":
			ch.Offset, err = d.UInt8()
		case "position":
			ch.Position, err = d.UInt32()
		case "remaining":
			ch.Remaining, err = d.UInt16()
		case "speed":
			ch.Speed, err = d.UInt8()
		case "loop_start":
			ch.LoopStart, err = d.UInt8()
		case "loop_end":
			ch.LoopEnd, err = d.UInt8()
		case "note":
			ch.Note, err = d.UInt16()
		case "phase":
			ch.Phase, err = d.UInt32()
		case "note_offset":
			ch.NoteOffset, err = d.UInt32()
		case "gain":
			ch.Gain, err = d.UInt32()
		case "fetch_pending":
			ch.FetchPending, err = d.Bool()
		case "fetch_tag":
			ch.FetchTag, err = d.UInt32()
		case "fetch_addr":
			ch.FetchAddr, err = d.UInt32()
		case "output":
			ch.Output, err = d.Int32()
		default:
			err = d.Skip()
		}
		return err
	})
}
