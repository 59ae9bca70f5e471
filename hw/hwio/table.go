package hwio

import (
	"fmt"

	"p8sfx/emu/log"
)

// log unmapped accesses (useful for debugging but verbose when a host probes
// the whole register space)
const logUnmapped = false

type BankIO16 interface {
	// Read16 reads a word from the given address. If peek is true, the read
	// shouldn't have any side effects (debugging/tracing).
	Read16(addr uint16, peek bool) uint16
	Write16(addr uint16, val uint16, lanes ByteLanes)
}

// Table is a word-addressed control bus. Each address maps at most one
// register; unmapped accesses are silently ignored and read as zero.
type Table struct {
	Name string

	regs map[uint16]BankIO16
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

func (t *Table) Reset() {
	t.regs = make(map[uint16]BankIO16)
}

// Map a register bank (that is, a structure containing multiple Reg16 fields).
// For this function to work, registers must have a struct tag "hwio", containing
// the following fields:
//
//	offset=0x12     Word offset within the register bank at which this
//	                register is mapped. There is no default value: if this
//	                option is missing, the register is assumed not to be
//	                part of the bank, and is ignored by this call.
//
//	bank=NN         Ordinal bank number (if not specified, default to zero).
//	                This option allows for a structure to expose multiple
//	                banks, as regs can be grouped by bank by specified the
//	                bank number.
func (t *Table) MapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		t.MapReg16(addr+reg.offset, reg.regPtr)
	}
}

func (t *Table) UnmapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		t.Unmap(addr + reg.offset)
	}
}

func (t *Table) MapReg16(addr uint16, io *Reg16) {
	if prev, ok := t.regs[addr]; ok {
		panic(fmt.Errorf("%s: address %04x already mapped to %v", t.Name, addr, prev))
	}
	log.ModHwIo.DebugZ("mapping reg").
		Hex16("addr", addr).
		String("name", io.Name).
		String("bus", t.Name).
		End()
	t.regs[addr] = io
}

func (t *Table) Unmap(addr uint16) {
	delete(t.regs, addr)
}

// Read16 searches in the table for the register mapped at the given address
// and forward the read to it.
func (t *Table) Read16(addr uint16) uint16 {
	return t.read16(addr, false)
}

// Peek16 reads without side effects.
func (t *Table) Peek16(addr uint16) uint16 {
	return t.read16(addr, true)
}

func (t *Table) read16(addr uint16, peek bool) uint16 {
	io, ok := t.regs[addr]
	if !ok {
		if logUnmapped && !peek {
			log.ModHwIo.ErrorZ("unmapped Read16").
				String("name", t.Name).
				Hex16("addr", addr).
				End()
		}
		return 0
	}
	return io.Read16(addr, peek)
}

func (t *Table) Write16(addr uint16, val uint16, lanes ByteLanes) {
	io, ok := t.regs[addr]
	if !ok {
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Write16").
				String("name", t.Name).
				Hex16("addr", addr).
				Hex16("val", val).
				End()
		}
		return
	}
	io.Write16(addr, val, lanes)
}

// Mapped reports whether a register is mapped at addr.
func (t *Table) Mapped(addr uint16) bool {
	_, ok := t.regs[addr]
	return ok
}
