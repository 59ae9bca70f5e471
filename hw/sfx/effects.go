package sfx

import "p8sfx/hw/hwdefs"

// Note effects.
const (
	EffectNone = iota
	EffectSlide
	EffectVibrato
	EffectDrop
	EffectFadeIn
	EffectFadeOut
	EffectArpFast
	EffectArpSlow
)

var effectNames = [8]string{"none", "slide", "vibrato", "drop", "fade in", "fade out", "arp fast", "arp slow"}

// EffectName returns the name of a note effect.
func EffectName(e uint8) string {
	return effectNames[e&7]
}

const (
	// noteOffsetOne is 1.0 in the U24 note offset format.
	noteOffsetOne = 1 << 24

	// 7.5Hz vibrato LFO.
	vibratoInc = 15 * (1 << 32) / (2 * hwdefs.SampleRate)
)

// noteOffsetInc returns the per-sample increment of the note offset (the U24
// progress across a note) for notes of the given speed.
func noteOffsetInc(speed uint32) uint32 {
	return noteOffsetOne / (max(speed, 1) * hwdefs.SamplesPerTick)
}

func isArpeggio(effect uint8) bool {
	return effect == EffectArpFast || effect == EffectArpSlow
}

// modulate returns the Q8.8 pitch and Q16 volume of the current note sample,
// after its effect has been applied. Effects span the whole note, attack and
// release included; the envelope gain is applied on top.
func (ch *channel) modulate() (pitch int32, vol uint32) {
	n := &ch.note
	pitch = int32(n.Pitch) << 8
	vol = uint32(n.Volume) << 16

	t := int64(ch.noteOffset)
	switch n.Effect {
	case EffectSlide:
		from := int32(ch.prevPitch) << 8
		pitch = from + int32(int64(pitch-from)*t>>24)
	case EffectVibrato:
		// ±0.5 semitone
		pitch += triangle(ch.vibPhase)
	case EffectDrop:
		pitch = int32(int64(pitch) * (noteOffsetOne - t) >> 24)
	case EffectFadeIn:
		vol = uint32(int64(vol) * t >> 24)
	case EffectFadeOut:
		vol = uint32(int64(vol) * (noteOffsetOne - t) >> 24)
	case EffectArpFast, EffectArpSlow:
		pitch = int32(ch.arp[ch.arpIndex()].Pitch) << 8
	}
	return pitch, vol
}

// arpIndex returns the index, within its group of 4, of the note an
// arpeggio plays at the current position.
func (ch *channel) arpIndex() int {
	ticks := uint32(4)
	if ch.note.Effect == EffectArpSlow {
		ticks = 8
	}
	if ch.hdr.Speed <= 8 {
		ticks /= 2
	}
	return int(ch.pos/(ticks*hwdefs.SamplesPerTick)) & 3
}
