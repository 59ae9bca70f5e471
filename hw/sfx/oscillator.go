package sfx

// Built-in waveforms.
const (
	WaveTriangle = iota
	WaveTiltedSaw
	WaveSaw
	WaveSquare
	WavePulse
	WaveOrgan
	WaveNoise
	WavePhaser
)

var waveNames = [8]string{"triangle", "tilted saw", "saw", "square", "pulse", "organ", "noise", "phaser"}

// WaveName returns the name of a built-in waveform.
func WaveName(w uint8) string {
	return waveNames[w&7]
}

const lfsrSeed = 0x4A3D

// oscillator is a 32-bit phase accumulator driving one of the built-in
// waveforms. Samples are in [-128, 127].
type oscillator struct {
	phase  uint32
	phase2 uint32 // phaser detuned accumulator

	lfsr      uint16
	noiseStep uint32
	noise     int32
}

func (o *oscillator) reset() {
	o.phase = 0
	o.phase2 = 0
	o.lfsr = lfsrSeed
	o.noiseStep = 0
	o.noise = 0
}

// sample returns the current sample of waveform wave, then advances the
// phase by inc.
func (o *oscillator) sample(wave uint8, inc uint32) int32 {
	var s int32
	switch wave & 7 {
	case WaveTriangle:
		s = triangle(o.phase)
	case WaveTiltedSaw:
		s = tiltedSaw(o.phase)
	case WaveSaw:
		s = int32(o.phase>>24) - 128
	case WaveSquare:
		s = pulse(o.phase, 1<<31)
	case WavePulse:
		s = pulse(o.phase, 0x55555555)
	case WaveOrgan:
		s = (triangle(o.phase) + triangle(o.phase<<1)) / 2
	case WaveNoise:
		s = o.stepNoise()
	case WavePhaser:
		s = (triangle(o.phase) + triangle(o.phase2)) / 2
		o.phase2 += inc - inc>>7
	}
	o.phase += inc
	return s
}

// stepNoise clocks the LFSR 16 times per oscillator period, so that the noise
// color follows the note pitch.
func (o *oscillator) stepNoise() int32 {
	step := o.phase >> 28
	if step != o.noiseStep || o.noise == 0 {
		o.noiseStep = step
		bit := (o.lfsr ^ o.lfsr>>1) & 1
		o.lfsr = o.lfsr>>1 | bit<<14
		o.noise = int32(o.lfsr&0xFF) - 128
		if o.noise == 0 {
			o.noise = 1
		}
	}
	return o.noise
}

func triangle(phase uint32) int32 {
	t := int32(phase >> 24)
	if t < 128 {
		return 2*t - 128
	}
	return 383 - 2*t
}

// tilted saw rises over the first 7/8 of the period.
const tiltSplit = 0xE000

func tiltedSaw(phase uint32) int32 {
	p := int32(phase >> 16)
	if p < tiltSplit {
		return -128 + p*255/tiltSplit
	}
	return 127 - (p-tiltSplit)*255/(0x10000-tiltSplit)
}

func pulse(phase, duty uint32) int32 {
	if phase < duty {
		return 127
	}
	return -128
}
