package hwio

import (
	"fmt"

	"p8sfx/emu/log"
)

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = (1 << iota) // read-only accesses
	MemFlagNoROLog                          // skip logging attempts to write when configured to readonly
)

// Mem is a linear, byte-addressed memory area. Addresses wrap around the
// (power of 2) size of the buffer. Writes are tracked in a Bitset, so that
// tests and tools can tell which bytes a loader actually touched.
type Mem struct {
	Name  string   // name of the memory area (for debugging)
	Data  []byte   // actual memory buffer
	Flags MemFlags // flags determining how the memory can be accessed

	mask    uint32
	written Bitset
}

func NewMem(name string, size int, flags MemFlags) *Mem {
	if size <= 0 || size&(size-1) != 0 {
		panic(fmt.Sprintf("memory buffer size is not pow2: %d", size))
	}
	if size > NumBits {
		panic(fmt.Sprintf("memory buffer too big: %d > %d", size, NumBits))
	}
	return &Mem{
		Name:  name,
		Data:  make([]byte, size),
		Flags: flags,
		mask:  uint32(size - 1),
	}
}

func (m *Mem) Size() int { return len(m.Data) }

func (m *Mem) Read8(addr uint32) uint8 {
	return m.Data[addr&m.mask]
}

func (m *Mem) Write8(addr uint32, val uint8) {
	if m.Flags&(MemFlag8ReadOnly|MemFlagNoROLog) != 0 {
		if m.Flags&MemFlagNoROLog == 0 {
			log.ModMem.ErrorZ("Write8 to readonly memory").
				String("name", m.Name).
				Hex8("val", val).
				Hex32("addr", addr).
				End()
		}
		return
	}
	off := addr & m.mask
	m.Data[off] = val
	m.written.Set(uint(off))
}

// ReadWord16 returns the big-endian word at word address waddr, that is the
// byte at 2*waddr is the most significant one.
func (m *Mem) ReadWord16(waddr uint32) uint16 {
	addr := waddr << 1
	return uint16(m.Read8(addr))<<8 | uint16(m.Read8(addr+1))
}

// Load copies p into memory starting at addr. It is subject to the same
// rules as Write8.
func (m *Mem) Load(addr uint32, p []byte) {
	for i, b := range p {
		m.Write8(addr+uint32(i), b)
	}
}

// Written reports whether any byte of [addr, addr+n) has been written since
// the last call to ClearWritten.
func (m *Mem) Written(addr uint32, n int) bool {
	if n <= 0 {
		return false
	}
	start := uint(addr & m.mask)
	end := start + uint(n)
	if end > uint(len(m.Data)) {
		return m.written.AnyInRange(start, uint(len(m.Data))) ||
			m.Written(0, int(end)-len(m.Data))
	}
	return m.written.AnyInRange(start, end)
}

func (m *Mem) ClearWritten() {
	m.written.Reset()
}

// Clear zeroes the whole memory and forgets written bytes.
func (m *Mem) Clear() {
	clear(m.Data)
	m.written.Reset()
}
