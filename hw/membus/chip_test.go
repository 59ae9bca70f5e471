package membus

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"p8sfx/hw/hwdefs"
	"p8sfx/hw/hwio"
	"p8sfx/hw/sfx"
)

// loadSlot writes a 32 notes SFX slot at index in ram, notes first.
func loadSlot(tb testing.TB, ram *hwio.Mem, index int, hdr sfx.Header, note func(i int) sfx.Note) {
	tb.Helper()

	slot := uint32(hwdefs.DefaultSFXBase + index*hwdefs.SlotSize)
	for i := range hwdefs.NotesPerSlot {
		w, err := note(i).Pack()
		if err != nil {
			tb.Fatal(err)
		}
		ram.Load(slot+uint32(2*i), []byte{uint8(w), uint8(w >> 8)})
	}
	b := hdr.Bytes()
	ram.Load(slot+hwdefs.HeaderOffset, b[:])
}

func renderSFX(tb testing.TB, latency int) []int8 {
	tb.Helper()

	ram := hwio.NewMem("ram", hwdefs.MemSize, hwio.MemFlagReadWrite)
	for slot := range 3 {
		loadSlot(tb, ram, slot, sfx.Header{Speed: uint8(2 + slot)}, func(i int) sfx.Note {
			return sfx.Note{
				Pitch:    uint8(20 + i + slot),
				Waveform: sfx.WaveSquare,
				Volume:   uint8(1 + (i+slot)%7),
				Effect:   uint8(i % 6),
			}
		})
	}

	chip := sfx.New(New(ram, latency))
	chip.Write16(hwdefs.RegCTRL, hwdefs.CtrlRun, hwio.LaneBoth)
	for ch := range 3 {
		chip.Exec(sfx.Trigger(uint8(ch), uint8(ch), 0))
	}

	var out []int8
	for chip.Playing() || len(out) == 0 {
		out = append(out, chip.Tick())
		if len(out) > 1<<20 {
			tb.Fatal("SFX never ends")
		}
	}
	return out
}

func TestChipLatency(t *testing.T) {
	want := renderSFX(t, 0)
	if len(want) != 32*4*hwdefs.SamplesPerTick {
		t.Errorf("immediate memory: %d samples, want %d", len(want), 32*4*hwdefs.SamplesPerTick)
	}

	got := renderSFX(t, 3)
	if len(got) <= len(want) {
		t.Errorf("slow memory: %d samples, want more than %d", len(got), len(want))
	}
}

func TestChipLatencySingleChannel(t *testing.T) {
	render := func(latency int) []int8 {
		ram := hwio.NewMem("ram", hwdefs.MemSize, hwio.MemFlagReadWrite)
		loadSlot(t, ram, 0, sfx.Header{Speed: 1}, func(i int) sfx.Note {
			return sfx.Note{Pitch: uint8(30 + i), Waveform: sfx.WaveSquare, Volume: 7}
		})

		chip := sfx.New(New(ram, latency))
		chip.Write16(hwdefs.RegCTRL, hwdefs.CtrlRun, hwio.LaneBoth)
		chip.Exec(sfx.Trigger(0, 0, 0))

		var out []int8
		for chip.Playing() || len(out) == 0 {
			out = append(out, chip.Tick())
		}
		return out
	}

	// memory stalls insert silence between notes but don't alter them
	nonZero := func(samples []int8) []int8 {
		var nz []int8
		for _, s := range samples {
			if s != 0 {
				nz = append(nz, s)
			}
		}
		return nz
	}
	if diff := cmp.Diff(nonZero(render(0)), nonZero(render(2))); diff != "" {
		t.Errorf("notes differ with a slow memory (-fast +slow):\n%s", diff)
	}
}
