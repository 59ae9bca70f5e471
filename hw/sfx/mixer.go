package sfx

import "math"

// Mix sums channel outputs, in order, and clamps the result to the signed
// 8-bit output range.
func Mix(outs []int32) int8 {
	s, _ := mix(outs)
	return s
}

func mix(outs []int32) (int8, bool) {
	var sum int32
	for _, o := range outs {
		sum += o
	}
	switch {
	case sum > math.MaxInt8:
		return math.MaxInt8, true
	case sum < math.MinInt8:
		return math.MinInt8, true
	}
	return int8(sum), false
}

// mixer produces the chip output sample, once per tick.
type mixer struct {
	last    int8
	clipped uint64 // number of clamped samples
}

func (m *mixer) mix(outs []int32) int8 {
	s, clipped := mix(outs)
	if clipped {
		m.clipped++
	}
	m.last = s
	return s
}

func (m *mixer) silence() int8 {
	m.last = 0
	return 0
}
