package cart

import (
	"errors"
	"fmt"
	"strings"

	"p8sfx/hw/hwdefs"
	"p8sfx/hw/sfx"
)

// Number of hex digits of an SFX line: 4 header bytes, then 32 notes of 5
// digits each.
const (
	lineHeaderDigits = 8
	noteDigits       = 5
	LineDigits       = lineHeaderDigits + hwdefs.NotesPerSlot*noteDigits
)

var ErrShortLine = errors.New("not enough hex digits")

// Slot is an SFX slot: a header and 32 notes.
type Slot struct {
	Index  int
	Header sfx.Header
	Notes  [hwdefs.NotesPerSlot]sfx.Note
}

// ParseSlot decodes an SFX slot from a line of the SFX section. Characters
// other than hex digits are ignored, digits past the first 168 too.
//
// On disk, a note is made of 5 hex digits: pitch (2), waveform (1, 8 and
// above select a custom instrument), volume (1) and effect (1).
func ParseSlot(line string) (*Slot, error) {
	var digits [LineDigits]uint8
	n := 0
	for i := 0; i < len(line) && n < LineDigits; i++ {
		if v, ok := hexval(line[i]); ok {
			digits[n] = v
			n++
		}
	}
	if n < LineDigits {
		return nil, fmt.Errorf("%w: %d/%d", ErrShortLine, n, LineDigits)
	}

	byteAt := func(i int) uint8 { return digits[i]<<4 | digits[i+1] }

	s := new(Slot)
	s.Header = sfx.Header{
		Mode:      byteAt(0),
		Speed:     byteAt(2),
		LoopStart: byteAt(4),
		LoopEnd:   byteAt(6),
	}
	for i := range s.Notes {
		d := digits[lineHeaderDigits+i*noteDigits:]
		s.Notes[i] = sfx.Note{
			Pitch:    byteAt(lineHeaderDigits+i*noteDigits) & 0x3F,
			Waveform: d[2] & 7,
			Custom:   d[2] >= 8,
			Volume:   d[3] & 7,
			Effect:   d[4] & 7,
		}
	}
	return s, nil
}

func hexval(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Line encodes the slot as a line of the SFX section.
func (s *Slot) Line() string {
	var sb strings.Builder
	sb.Grow(LineDigits)

	h := s.Header
	fmt.Fprintf(&sb, "%02x%02x%02x%02x", h.Mode, h.Speed, h.LoopStart, h.LoopEnd)
	for _, n := range s.Notes {
		wave := n.Waveform
		if n.Custom {
			wave |= 8
		}
		fmt.Fprintf(&sb, "%02x%x%x%x", n.Pitch, wave, n.Volume, n.Effect)
	}
	return sb.String()
}

// Bytes returns the slot as laid out in memory: the 32 notes, packed
// little-endian, followed by the header.
func (s *Slot) Bytes() [hwdefs.SlotSize]byte {
	var b [hwdefs.SlotSize]byte
	for i, n := range s.Notes {
		// fields are masked at parse time, Pack can't fail
		w, _ := n.Pack()
		b[2*i] = uint8(w)
		b[2*i+1] = uint8(w >> 8)
	}
	hdr := s.Header.Bytes()
	copy(b[hwdefs.HeaderOffset:], hdr[:])
	return b
}

// SlotFromBytes decodes a slot from its memory layout.
func SlotFromBytes(b [hwdefs.SlotSize]byte) *Slot {
	s := new(Slot)
	for i := range s.Notes {
		s.Notes[i] = sfx.UnpackNote(uint16(b[2*i]) | uint16(b[2*i+1])<<8)
	}
	h := b[hwdefs.HeaderOffset:]
	s.Header = sfx.Header{Mode: h[0], Speed: h[1], LoopStart: h[2], LoopEnd: h[3]}
	return s
}

// Empty reports whether the slot has no audible note.
func (s *Slot) Empty() bool {
	for _, n := range s.Notes {
		if n.Volume != 0 {
			return false
		}
	}
	return true
}

// Duration returns the number of samples the whole slot plays for, ignoring
// loops.
func (s *Slot) Duration() int {
	speed := max(int(s.Header.Speed), 1)
	notes := hwdefs.NotesPerSlot
	if s.Header.LoopEnd == 0 && s.Header.LoopStart > 0 {
		notes = min(int(s.Header.LoopStart), notes)
	}
	return notes * speed * hwdefs.SamplesPerTick
}

// Looping reports whether the slot loops forever.
func (s *Slot) Looping() bool {
	return s.Header.LoopEnd > s.Header.LoopStart
}
