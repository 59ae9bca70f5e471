package sfx

const unityGain = 1 << 16

// envelope shapes the volume of a single note. Attack and release are laid
// out inside the note duration so that they never change the note length.
//
//	gain
//	 1 |     ___________
//	   |    /           \
//	 0 |___/             \___
//	      atk   sustain   rel
type envelope struct {
	dur     uint32 // note duration, in samples
	attack  uint32
	release uint32
}

// start prepares the envelope for a note of dur samples, with the requested
// attack and release lengths, clipped to fit.
func (env *envelope) start(dur, atk, rel uint32) {
	env.dur = dur
	env.attack = min(atk, dur)
	env.release = min(rel, dur-env.attack)
}

// stage returns the envelope stage at sample pos of the note.
func (env *envelope) stage(pos uint32) State {
	switch {
	case pos < env.attack:
		return Attack
	case pos >= env.dur-env.release:
		return Release
	}
	return Sustain
}

// gain returns the Q16 envelope gain at sample pos of the note.
func (env *envelope) gain(pos uint32) uint32 {
	switch env.stage(pos) {
	case Attack:
		return uint32(uint64(pos) * unityGain / uint64(env.attack))
	case Release:
		left := env.dur - 1 - pos
		return uint32(uint64(left) * unityGain / uint64(env.release))
	}
	return unityGain
}
