package sfx

import (
	"testing"

	"p8sfx/hw/hwdefs"
)

func TestEffectsSpanEnvelope(t *testing.T) {
	const speed = 4
	dur := uint32(speed * hwdefs.SamplesPerTick)
	inc := noteOffsetInc(speed)

	var ch channel
	ch.note = Note{Pitch: 30, Volume: 7, Effect: EffectFadeOut}
	ch.env.start(dur, dur/4, dur/4)

	volAt := func(pos uint32) uint32 {
		ch.pos = pos
		ch.noteOffset = pos * inc
		_, vol := ch.modulate()
		return vol
	}

	full := uint32(7) << 16
	if vol := volAt(ch.env.attack - 1); vol >= full {
		t.Errorf("end of attack: volume = %d, want faded below %d", vol, full)
	}

	sustainEnd := volAt(dur - ch.env.release - 1)
	for pos := dur - ch.env.release; pos < dur; pos++ {
		if ch.env.stage(pos) != Release {
			t.Fatalf("pos %d: stage = %s, want %s", pos, ch.env.stage(pos), Release)
		}
		if vol := volAt(pos); vol >= sustainEnd {
			t.Fatalf("pos %d: release volume = %d, want below %d", pos, vol, sustainEnd)
		}
	}

	prev := volAt(0)
	for pos := uint32(1); pos < dur; pos++ {
		vol := volAt(pos)
		if vol > prev {
			t.Fatalf("pos %d: volume went up from %d to %d", pos, prev, vol)
		}
		prev = vol
	}
}
