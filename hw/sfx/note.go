package sfx

import (
	"fmt"
	"math/bits"

	"p8sfx/hw/hwdefs"
	"p8sfx/hw/hwio"
)

// Note is one of the 32 notes of an SFX slot.
//
// In memory a note is packed little-endian into 16 bits:
//
//	15    14..12  11..9   8..6      5..0
//	custom effect volume  waveform  pitch
type Note struct {
	Pitch    uint8 // 0..63
	Waveform uint8 // 0..7
	Custom   bool  // custom (SFX based) instrument
	Volume   uint8 // 0..7
	Effect   uint8 // 0..7
}

// Note fields bit positions.
const (
	notePitchLo  = 0
	noteWaveLo   = 6
	noteVolumeLo = 9
	noteEffectLo = 12
	noteCustom   = 15
)

// Pack returns the 16-bit memory representation of n. It fails if a field
// doesn't fit in its bit width.
func (n Note) Pack() (uint16, error) {
	switch {
	case !hwio.FitsBits(uint(n.Pitch), 6):
		return 0, fmt.Errorf("note pitch out of range: %d", n.Pitch)
	case !hwio.FitsBits(uint(n.Waveform), 3):
		return 0, fmt.Errorf("note waveform out of range: %d", n.Waveform)
	case !hwio.FitsBits(uint(n.Volume), 3):
		return 0, fmt.Errorf("note volume out of range: %d", n.Volume)
	case !hwio.FitsBits(uint(n.Effect), 3):
		return 0, fmt.Errorf("note effect out of range: %d", n.Effect)
	}

	var w uint16
	hwio.SetField16(&w, notePitchLo, 6, uint16(n.Pitch))
	hwio.SetField16(&w, noteWaveLo, 3, uint16(n.Waveform))
	hwio.SetField16(&w, noteVolumeLo, 3, uint16(n.Volume))
	hwio.SetField16(&w, noteEffectLo, 3, uint16(n.Effect))
	if n.Custom {
		hwio.SetBit16(&w, noteCustom)
	}
	return w, nil
}

// UnpackNote decodes a note from its 16-bit memory representation.
func UnpackNote(w uint16) Note {
	return Note{
		Pitch:    uint8(hwio.Field16(w, notePitchLo, 6)),
		Waveform: uint8(hwio.Field16(w, noteWaveLo, 3)),
		Volume:   uint8(hwio.Field16(w, noteVolumeLo, 3)),
		Effect:   uint8(hwio.Field16(w, noteEffectLo, 3)),
		Custom:   hwio.GetBit16(w, noteCustom),
	}
}

// noteFromWord decodes a note as it arrives from the memory bus. Bus words
// are big-endian, so the note bytes come swapped.
func noteFromWord(w uint16) Note {
	return UnpackNote(bits.ReverseBytes16(w))
}

func (n Note) String() string {
	custom := ""
	if n.Custom {
		custom = "c"
	}
	return fmt.Sprintf("p=%d w=%d%s v=%d e=%d", n.Pitch, n.Waveform, custom, n.Volume, n.Effect)
}

// Header holds the 4 bytes following the notes of an SFX slot.
type Header struct {
	Mode      uint8 // mode/filter flags
	Speed     uint8 // note duration, in PICO-8 ticks
	LoopStart uint8
	LoopEnd   uint8
}

// headerFromWords decodes a header from the 2 big-endian words at slot
// offsets 64 and 66.
func headerFromWords(w0, w1 uint16) Header {
	return Header{
		Mode:      uint8(w0 >> 8),
		Speed:     uint8(w0),
		LoopStart: uint8(w1 >> 8),
		LoopEnd:   uint8(w1),
	}
}

// Bytes returns the header as laid out in memory.
func (h Header) Bytes() [4]byte {
	return [4]byte{h.Mode, h.Speed, h.LoopStart, h.LoopEnd}
}

// length returns the number of notes played before the SFX ends. A loop end
// of 0 makes the loop start the SFX length.
func (h Header) length() uint8 {
	if h.LoopEnd == 0 && h.LoopStart > 0 {
		return min(h.LoopStart, hwdefs.NotesPerSlot)
	}
	return hwdefs.NotesPerSlot
}

// noteSpeed returns the speed to use for timing, a speed of 0 plays like 1.
func (h Header) noteSpeed() uint32 {
	return uint32(max(h.Speed, 1))
}
