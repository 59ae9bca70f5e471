package sfx

import (
	"math"
	"testing"

	"p8sfx/hw/hwdefs"
)

func TestPitchTable(t *testing.T) {
	// A4
	want := 440.0 * (1 << 32) / hwdefs.SampleRate
	if got := float64(phaseIncs[33]); math.Abs(got-want) > 1 {
		t.Errorf("phaseIncs[33] = %v, want %v", got, want)
	}
	// one octave up doubles the frequency
	if got := float64(phaseIncs[45]) / float64(phaseIncs[33]); math.Abs(got-2) > 1e-6 {
		t.Errorf("octave ratio = %v, want 2", got)
	}
	for p := 1; p < NumPitches; p++ {
		if phaseIncs[p] <= phaseIncs[p-1] {
			t.Fatalf("pitch table not increasing at %d", p)
		}
	}
}

func TestPitchInc(t *testing.T) {
	if got := pitchInc(10 << 8); got != phaseIncs[10] {
		t.Errorf("pitchInc(10.0) = %d, want %d", got, phaseIncs[10])
	}
	mid := pitchInc(10<<8 | 0x80)
	if mid <= phaseIncs[10] || mid >= phaseIncs[11] {
		t.Errorf("pitchInc(10.5) = %d, not between %d and %d", mid, phaseIncs[10], phaseIncs[11])
	}
	if got := pitchInc(-300); got != phaseIncs[0] {
		t.Errorf("pitchInc(-300) = %d, want %d", got, phaseIncs[0])
	}
	if got := pitchInc(200 << 8); got != phaseIncs[NumPitches-1] {
		t.Errorf("pitchInc(200.0) = %d, want %d", got, phaseIncs[NumPitches-1])
	}
}

func TestNoteOffsetInc(t *testing.T) {
	for speed := uint32(1); speed < 256; speed++ {
		inc := noteOffsetInc(speed)
		dur := speed * hwdefs.SamplesPerTick
		if end := uint64(inc) * uint64(dur-1); end >= noteOffsetOne {
			t.Fatalf("speed %d: note offset overflows (%d)", speed, end)
		}
	}
	if noteOffsetInc(0) != noteOffsetInc(1) {
		t.Error("speed 0 should play like speed 1")
	}
}
