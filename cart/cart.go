// Package cart reads and writes the SFX section of PICO-8 text cartridges
// (.p8 files), and loads SFX slots into memory.
package cart

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"p8sfx/emu/log"
	"p8sfx/hw/hwdefs"
	"p8sfx/hw/hwio"
)

var ModCart = log.NewModule("cart")

// SectionSFX is the header line of the SFX section.
const SectionSFX = "__sfx__"

// Cart holds the SFX slots found in a cartridge. Slots missing from the
// cartridge, or whose line was too short, are nil.
type Cart struct {
	SFX [hwdefs.NumSlots]*Slot

	// Skipped lists the lines of the SFX section that were ignored.
	Skipped []int
}

// Open loads a cartridge from file.
func Open(path string) (*Cart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cart := new(Cart)
	if _, err := cart.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cart, nil
}

// ReadFrom implements io.ReaderFrom interface. Only the SFX section is
// decoded, a cartridge without one is valid and has no SFX.
func (c *Cart) ReadFrom(r io.Reader) (int64, error) {
	*c = Cart{}

	cr := &countingReader{r: r}
	sc := bufio.NewScanner(cr)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	section := ""
	line := -1 // line index within the current section
	for sc.Scan() {
		text := sc.Text()
		if strings.HasPrefix(text, "__") {
			section = strings.TrimSpace(text)
			line = -1
			continue
		}
		line++
		if section != SectionSFX {
			continue
		}
		if line >= hwdefs.NumSlots {
			ModCart.WarnZ("extra sfx line").Int("line", line).End()
			c.Skipped = append(c.Skipped, line)
			continue
		}

		slot, err := ParseSlot(text)
		if err != nil {
			ModCart.DebugZ("skipping sfx line").
				Int("line", line).
				Error("err", err).
				End()
			c.Skipped = append(c.Skipped, line)
			continue
		}
		slot.Index = line
		c.SFX[line] = slot
	}
	if err := sc.Err(); err != nil {
		return cr.n, err
	}
	return cr.n, nil
}

// NumSFX returns the number of SFX slots present in the cartridge.
func (c *Cart) NumSFX() int {
	n := 0
	for _, s := range c.SFX {
		if s != nil {
			n++
		}
	}
	return n
}

// Load writes the SFX slots of the cartridge into mem, at the slot table
// starting at base. Absent slots are not written.
func (c *Cart) Load(mem *hwio.Mem, base uint32) {
	for i, s := range c.SFX {
		if s == nil {
			continue
		}
		b := s.Bytes()
		mem.Load(base+uint32(i)*hwdefs.SlotSize, b[:])
	}
	ModCart.InfoZ("loaded sfx").
		Int("count", c.NumSFX()).
		Hex32("base", base).
		End()
}

// LoadFile parses the cartridge at path and loads its SFX into mem. Memory is
// left untouched if the cartridge can't be read.
func LoadFile(path string, mem *hwio.Mem, base uint32) (*Cart, error) {
	cart, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load cartridge: %w", err)
	}
	cart.Load(mem, base)
	return cart, nil
}

// FromMemory decodes the 64 SFX slots found in mem, from base.
func FromMemory(mem *hwio.Mem, base uint32) *Cart {
	c := new(Cart)
	for i := range c.SFX {
		var b [hwdefs.SlotSize]byte
		addr := base + uint32(i)*hwdefs.SlotSize
		for j := range b {
			b[j] = mem.Read8(addr + uint32(j))
		}
		c.SFX[i] = SlotFromBytes(b)
		c.SFX[i].Index = i
	}
	return c
}

// WriteTo writes the SFX section of the cartridge, one line per slot. Absent
// slots are written as empty SFX.
func (c *Cart) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	nn, _ := fmt.Fprintln(bw, SectionSFX)
	n += int64(nn)
	for _, s := range c.SFX {
		if s == nil {
			s = &Slot{}
		}
		nn, _ = fmt.Fprintln(bw, s.Line())
		n += int64(nn)
	}
	return n, bw.Flush()
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
