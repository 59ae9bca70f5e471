package hwio

import (
	"fmt"

	"p8sfx/emu/log"
)

type RWFlags uint8

const (
	ReadWriteFlag RWFlags = 0
	ReadOnlyFlag  RWFlags = (1 << iota)
	WriteOnlyFlag
)

// ByteLanes are the byte enables of a 16-bit bus access.
type ByteLanes uint8

const (
	LaneLo ByteLanes = 1 << iota // bits 7:0
	LaneHi                       // bits 15:8

	LaneBoth = LaneLo | LaneHi
)

// Mask returns the 16-bit mask of the bits covered by the enabled lanes.
func (l ByteLanes) Mask() uint16 {
	var m uint16
	if l&LaneLo != 0 {
		m |= 0x00FF
	}
	if l&LaneHi != 0 {
		m |= 0xFF00
	}
	return m
}

func (l ByteLanes) String() string {
	switch l & LaneBoth {
	case LaneLo:
		return "lo"
	case LaneHi:
		return "hi"
	case LaneBoth:
		return "lo+hi"
	}
	return "none"
}

type Reg16 struct {
	Name   string
	Value  uint16
	RoMask uint16

	Flags   RWFlags
	ReadCb  func(val uint16) uint16
	WriteCb func(old uint16, val uint16)
}

func (reg Reg16) String() string {
	s := fmt.Sprintf("%s{%04x", reg.Name, reg.Value)
	if reg.ReadCb != nil {
		s += ",r!"
	}
	if reg.WriteCb != nil {
		s += ",w!"
	}
	return s + "}"
}

func (reg *Reg16) write(val uint16, lanes ByteLanes) {
	romask := reg.RoMask | ^lanes.Mask()
	old := reg.Value
	reg.Value = (reg.Value & romask) | (val &^ romask)
	if reg.WriteCb != nil {
		reg.WriteCb(old, reg.Value)
	}
}

func (reg *Reg16) Write16(addr uint16, val uint16, lanes ByteLanes) {
	if reg.Flags&ReadOnlyFlag != 0 {
		log.ModHwIo.ErrorZ("invalid Write16 to readonly reg").
			String("name", reg.Name).
			Hex16("addr", addr).
			End()
		return
	}
	if lanes&LaneBoth == 0 {
		return
	}
	reg.write(val, lanes)
}

func (reg *Reg16) Read16(addr uint16, peek bool) uint16 {
	if reg.Flags&WriteOnlyFlag != 0 {
		if !peek {
			log.ModHwIo.DebugZ("Read16 from writeonly reg").
				String("name", reg.Name).
				Hex16("addr", addr).
				End()
		}
		return 0
	}
	if reg.ReadCb != nil && !peek {
		return reg.ReadCb(reg.Value)
	}
	return reg.Value
}

// Reset sets the register back to val, bypassing the write callback.
func (reg *Reg16) Reset(val uint16) {
	reg.Value = val
}
