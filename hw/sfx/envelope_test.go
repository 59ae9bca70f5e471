package sfx

import "testing"

func TestEnvelope(t *testing.T) {
	tests := []struct {
		name          string
		dur, atk, rel uint32
		stages        [3]uint32 // samples in attack, sustain, release
	}{
		{"none", 100, 0, 0, [3]uint32{0, 100, 0}},
		{"attack", 100, 10, 0, [3]uint32{10, 90, 0}},
		{"release", 100, 0, 20, [3]uint32{0, 80, 20}},
		{"both", 100, 30, 20, [3]uint32{30, 50, 20}},
		{"clip attack", 100, 300, 20, [3]uint32{100, 0, 0}},
		{"clip release", 100, 60, 60, [3]uint32{60, 0, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env envelope
			env.start(tt.dur, tt.atk, tt.rel)

			var got [3]uint32
			for pos := range tt.dur {
				switch env.stage(pos) {
				case Attack:
					got[0]++
				case Sustain:
					got[1]++
				case Release:
					got[2]++
				}
				if g := env.gain(pos); g > unityGain {
					t.Fatalf("gain(%d) = %d > 1.0", pos, g)
				}
			}
			if got != tt.stages {
				t.Errorf("stages = %v, want %v", got, tt.stages)
			}
			if tt.atk > 0 && env.gain(0) != 0 {
				t.Errorf("attack starts at gain %d, want 0", env.gain(0))
			}
			if env.release > 0 && env.gain(tt.dur-1) != 0 {
				t.Errorf("release ends at gain %d, want 0", env.gain(tt.dur-1))
			}
		})
	}
}
