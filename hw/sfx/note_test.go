package sfx

import (
	"math/bits"
	"testing"
)

func TestNotePackRoundTrip(t *testing.T) {
	for pitch := range uint8(64) {
		for wave := range uint8(8) {
			for vol := range uint8(8) {
				for fx := range uint8(8) {
					for _, custom := range []bool{false, true} {
						n := Note{Pitch: pitch, Waveform: wave, Custom: custom, Volume: vol, Effect: fx}
						w, err := n.Pack()
						if err != nil {
							t.Fatalf("Pack(%v): %v", n, err)
						}
						if got := UnpackNote(w); got != n {
							t.Fatalf("UnpackNote(Pack(%v)) = %v", n, got)
						}
						if got := noteFromWord(bits.ReverseBytes16(w)); got != n {
							t.Fatalf("noteFromWord(swapped %v) = %v", n, got)
						}
					}
				}
			}
		}
	}
}

func TestNotePackLayout(t *testing.T) {
	n := Note{Pitch: 0x2A, Waveform: 5, Volume: 3, Effect: 6, Custom: true}
	w, err := n.Pack()
	if err != nil {
		t.Fatal(err)
	}
	// 1 110 011 101 101010
	if want := uint16(0b1110_0111_0110_1010); w != want {
		t.Errorf("Pack() = %016b, want %016b", w, want)
	}
}

func TestNotePackErrors(t *testing.T) {
	tests := []Note{
		{Pitch: 64},
		{Waveform: 8},
		{Volume: 8},
		{Effect: 8},
	}
	for _, n := range tests {
		if _, err := n.Pack(); err == nil {
			t.Errorf("Pack(%+v) should fail", n)
		}
	}
}

func TestHeaderLength(t *testing.T) {
	tests := []struct {
		hdr  Header
		want uint8
	}{
		{Header{}, 32},
		{Header{LoopStart: 8, LoopEnd: 16}, 32},
		{Header{LoopStart: 12}, 12},
		{Header{LoopStart: 40}, 32},
	}
	for _, tt := range tests {
		if got := tt.hdr.length(); got != tt.want {
			t.Errorf("%+v.length() = %d, want %d", tt.hdr, got, tt.want)
		}
	}
}
