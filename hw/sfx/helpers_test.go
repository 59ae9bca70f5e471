package sfx

import (
	"testing"

	"p8sfx/hw/hwdefs"
	"p8sfx/hw/hwio"
)

// testMem is a 64KB memory acknowledging requests immediately, unless held.
type testMem struct {
	data     [hwdefs.MemSize]byte
	queue    []FetchRequest
	hold     bool
	requests int
}

func (m *testMem) Request(req FetchRequest) {
	m.queue = append(m.queue, req)
	m.requests++
}

func (m *testMem) Service(ack func(FetchAck)) {
	if m.hold || len(m.queue) == 0 {
		return
	}
	req := m.queue[0]
	m.queue = m.queue[1:]
	addr := (req.Addr << 1) & (hwdefs.MemSize - 1)
	ack(FetchAck{
		Channel: req.Channel,
		Tag:     req.Tag,
		Data:    uint16(m.data[addr])<<8 | uint16(m.data[addr+1]),
	})
}

// writeSlot stores an SFX slot the way the cart loader does.
func (m *testMem) writeSlot(tb testing.TB, base uint32, index int, hdr Header, notes []Note) {
	tb.Helper()

	slot := base + uint32(index)*hwdefs.SlotSize
	for i, n := range notes {
		w, err := n.Pack()
		if err != nil {
			tb.Fatal(err)
		}
		m.data[slot+uint32(2*i)] = uint8(w)
		m.data[slot+uint32(2*i)+1] = uint8(w >> 8)
	}
	b := hdr.Bytes()
	copy(m.data[slot+hwdefs.HeaderOffset:], b[:])
}

func newTestChip(tb testing.TB, mem Memory) *Chip {
	tb.Helper()

	c := New(mem)
	c.Write16(hwdefs.RegCTRL, hwdefs.CtrlRun, hwio.LaneBoth)
	return c
}

// squareNotes returns n notes playing a square wave at volume vol.
func squareNotes(n int, vol uint8) []Note {
	notes := make([]Note, n)
	for i := range notes {
		notes[i] = Note{Pitch: uint8(24 + i%24), Waveform: WaveSquare, Volume: vol}
	}
	return notes
}

func render(c *Chip, n int) []int8 {
	out := make([]int8, n)
	c.Render(out)
	return out
}

func countNonZero(samples []int8) int {
	n := 0
	for _, s := range samples {
		if s != 0 {
			n++
		}
	}
	return n
}
