package sfx

import (
	"math"

	"p8sfx/hw/hwdefs"
)

const (
	// NumPitches is the number of integer pitches.
	NumPitches = 96

	// pitch 33 is A4 (440Hz)
	refPitch = 33
	refFreq  = 440.0
)

// phaseIncs holds, for each integer pitch, the 32-bit phase accumulator
// increment producing that pitch at the chip sample rate.
var phaseIncs = func() (tbl [NumPitches]uint32) {
	for p := range tbl {
		tbl[p] = uint32(math.Round(PitchFreq(p) * (1 << 32) / hwdefs.SampleRate))
	}
	return
}()

// PitchFreq returns the frequency in Hz of an integer pitch.
func PitchFreq(p int) float64 {
	return refFreq * math.Pow(2, float64(p-refPitch)/12)
}

// pitchInc returns the phase increment of a Q8.8 pitch. Fractional pitches
// interpolate linearly between table entries.
func pitchInc(q int32) uint32 {
	q = min(max(q, 0), (NumPitches-1)<<8)
	i, frac := q>>8, uint64(q&0xFF)
	if i == NumPitches-1 {
		return phaseIncs[i]
	}
	lo, hi := phaseIncs[i], phaseIncs[i+1]
	return lo + uint32(uint64(hi-lo)*frac>>8)
}
