package sfx

import (
	"p8sfx/emu/log"
	"p8sfx/hw/hwdefs"
	"p8sfx/hw/snapshot"
)

var ModChan = log.NewModule("chan")

// upper bound on the number of fetch steps a channel can chain within a
// single sample (header, note and arpeggio group take at most 7).
const maxFetchSteps = 16

// Full scale channel output is ±64: 2 channels playing at full volume reach
// the mixer limits.
const channelScale = 2 * 7

// channel is the engine playing SFX on one channel. It fetches the slot
// header and notes from memory on demand, then plays each note through its
// oscillator, envelope and effect.
type channel struct {
	id      int
	params  *params
	mem     Memory
	deliver func(FetchAck)

	state     State
	index     uint8  // SFX slot
	offset    uint8  // current note
	slot      uint32 // slot byte address
	remaining uint16 // notes left to play, 0 if unlimited
	nfetch    int    // words fetched in the current fetch state
	words     [2]uint16

	hdr       Header
	note      Note
	arp       [4]Note // arpeggio group of the current note
	prevPitch uint8
	hasPrev   bool

	pos        uint32 // sample position in the current note
	noteOffset uint32 // U24 progress across the note
	offsetInc  uint32
	vibPhase   uint32

	env   envelope
	osc   oscillator
	fetch fetchUnit
	out   int32
}

func newChannel(id int, params *params, mem Memory, deliver func(FetchAck)) channel {
	ch := channel{
		id:      id,
		params:  params,
		mem:     mem,
		deliver: deliver,
		fetch:   fetchUnit{channel: id},
	}
	ch.osc.reset()
	return ch
}

func (ch *channel) reset() {
	ch.fetch.abort()
	*ch = newChannel(ch.id, ch.params, ch.mem, ch.deliver)
}

// trigger starts playing SFX index from note offset, from the slot table at
// base. Any SFX currently playing or loading is abandoned.
func (ch *channel) trigger(index, offset uint8, base uint32, length uint16) {
	ch.fetch.abort()

	ch.index = index
	ch.offset = offset
	ch.slot = base + uint32(index)*hwdefs.SlotSize
	ch.remaining = length
	ch.nfetch = 0
	ch.hasPrev = false
	ch.vibPhase = 0
	ch.out = 0
	ch.osc.reset()

	log.ModSound.InfoZ("trigger").
		Int("ch", ch.id).
		Uint8("sfx", index).
		Uint8("offset", offset).
		Uint16("len", length).
		Hex32("slot", ch.slot).
		End()

	if offset >= hwdefs.NotesPerSlot {
		ch.finish("offset out of range")
		return
	}
	ch.state = FetchHeader
}

// stop silences the channel. Stopping an idle channel has no effect.
func (ch *channel) stop() {
	if ch.state == Idle {
		return
	}
	ch.finish("stop")
}

func (ch *channel) finish(reason string) {
	ch.fetch.abort()
	ch.nfetch = 0
	ch.out = 0
	ch.state = Idle

	ModChan.DebugZ("channel idle").
		Int("ch", ch.id).
		Uint8("sfx", ch.index).
		Uint8("offset", ch.offset).
		String("reason", reason).
		End()
}

// wordAddr returns the word address of byte offset off of the slot.
func (ch *channel) wordAddr(off uint32) uint32 {
	return (ch.slot + off) >> 1
}

// load returns the word at word address addr, requesting it if needed. It
// returns false while the word is not available.
func (ch *channel) load(addr uint32) (uint16, bool) {
	if w, ok := ch.fetch.take(); ok {
		return w, true
	}
	if !ch.fetch.pending {
		ch.fetch.request(ch.mem, addr)
	}
	if ch.mem != nil {
		ch.mem.Service(ch.deliver)
	}
	return ch.fetch.take()
}

// advance runs the fetch states, until the channel either plays, becomes
// idle or stalls waiting for memory.
func (ch *channel) advance() {
	for range maxFetchSteps {
		switch ch.state {
		case FetchHeader:
			w, ok := ch.load(ch.wordAddr(hwdefs.HeaderOffset + uint32(2*ch.nfetch)))
			if !ok {
				return
			}
			ch.words[ch.nfetch] = w
			ch.nfetch++
			if ch.nfetch < len(ch.words) {
				continue
			}
			ch.nfetch = 0
			ch.hdr = headerFromWords(ch.words[0], ch.words[1])

			ModChan.DebugZ("header").
				Int("ch", ch.id).
				Uint8("mode", ch.hdr.Mode).
				Uint8("speed", ch.hdr.Speed).
				Uint8("loop start", ch.hdr.LoopStart).
				Uint8("loop end", ch.hdr.LoopEnd).
				End()

			if ch.offset >= ch.hdr.length() {
				ch.finish("offset past end")
				return
			}
			ch.state = FetchNote

		case FetchNote:
			if ch.nfetch == 0 {
				w, ok := ch.load(ch.wordAddr(uint32(ch.offset) * hwdefs.NoteSize))
				if !ok {
					return
				}
				ch.note = noteFromWord(w)
				if !isArpeggio(ch.note.Effect) {
					ch.startNote()
					continue
				}
				ch.arp[ch.offset&3] = ch.note
				ch.nfetch = 1
			}

			// Arpeggio: fetch the other notes of the group.
			for ch.nfetch <= len(ch.arp) && ch.nfetch-1 == int(ch.offset&3) {
				ch.nfetch++
			}
			if ch.nfetch > len(ch.arp) {
				ch.startNote()
				continue
			}
			i := ch.nfetch - 1
			group := uint32(ch.offset &^ 3)
			w, ok := ch.load(ch.wordAddr((group + uint32(i)) * hwdefs.NoteSize))
			if !ok {
				return
			}
			ch.arp[i] = noteFromWord(w)
			ch.nfetch++

		default:
			return
		}
	}
}

func (ch *channel) startNote() {
	speed := ch.hdr.noteSpeed()
	ch.nfetch = 0
	ch.pos = 0
	ch.noteOffset = 0
	ch.offsetInc = noteOffsetInc(speed)
	ch.env.start(speed*hwdefs.SamplesPerTick, ch.params.attack, ch.params.release)
	if !ch.hasPrev {
		ch.prevPitch = ch.note.Pitch
		ch.hasPrev = true
	}
	ch.state = ch.env.stage(0)

	ModChan.DebugZ("note").
		Int("ch", ch.id).
		Uint8("offset", ch.offset).
		Stringer("note", ch.note).
		End()
}

// produce returns the channel output for the current sample, then moves to
// the next sample. A channel that is not playing outputs 0.
func (ch *channel) produce() int32 {
	if !ch.state.Playing() {
		ch.out = 0
		return 0
	}

	ch.state = ch.env.stage(ch.pos)
	pitch, vol := ch.modulate()
	s := ch.osc.sample(ch.note.Waveform, pitchInc(pitch))
	if ch.note.Custom {
		// custom instruments are not supported
		s = 0
	}
	gain := ch.env.gain(ch.pos)
	ch.out = int32(int64(s) * int64(vol) * int64(gain) / (channelScale << 32))

	ch.pos++
	ch.noteOffset += ch.offsetInc
	ch.vibPhase += vibratoInc
	if ch.pos >= ch.env.dur {
		ch.endNote()
	}
	return ch.out
}

func (ch *channel) endNote() {
	ch.prevPitch = ch.note.Pitch
	ch.offset++

	if ch.remaining > 0 {
		ch.remaining--
		if ch.remaining == 0 {
			ch.finish("length reached")
			return
		}
	}
	if ch.hdr.LoopEnd > ch.hdr.LoopStart && ch.offset >= ch.hdr.LoopEnd {
		ch.offset = ch.hdr.LoopStart
	}
	if ch.offset >= ch.hdr.length() {
		ch.finish("end of sfx")
		return
	}
	ch.state = FetchNote
}

// step runs the channel for one sample.
func (ch *channel) step() int32 {
	ch.advance()
	return ch.produce()
}

func (ch *channel) saveState(state *snapshot.Channel) {
	state.State = ch.state.String()
	state.Index = ch.index
	state.Offset = ch.offset
	state.Position = ch.pos
	state.Remaining = ch.remaining
	state.Speed = ch.hdr.Speed
	state.LoopStart = ch.hdr.LoopStart
	state.LoopEnd = ch.hdr.LoopEnd
	state.Note = ch.noteWord()
	state.Phase = ch.osc.phase
	state.NoteOffset = ch.noteOffset
	if ch.state.Playing() {
		state.Gain = ch.env.gain(ch.pos)
	}
	state.FetchPending = ch.fetch.pending
	state.FetchTag = ch.fetch.tag
	state.FetchAddr = ch.fetch.addr
	state.Output = ch.out
}

// noteWord returns the current note in its memory representation.
func (ch *channel) noteWord() uint16 {
	w, _ := ch.note.Pack()
	return w
}
