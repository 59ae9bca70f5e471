package capture

import (
	"fmt"
	"math"

	"p8sfx/hw/hwdefs"
	"p8sfx/hw/sfx"
)

// FrameSize is the number of samples per analysis frame: 16 PICO-8 ticks.
const FrameSize = 16 * hwdefs.SamplesPerTick

// Amplitudes returns the RMS amplitude of each full frame of samples. A
// trailing partial frame is ignored.
func Amplitudes(samples []float64) []float64 {
	amps := make([]float64, len(samples)/FrameSize)
	for i := range amps {
		var sum float64
		for _, s := range samples[i*FrameSize : (i+1)*FrameSize] {
			sum += s * s
		}
		amps[i] = math.Sqrt(sum / FrameSize)
	}
	return amps
}

// Report holds the result of a comparison between a reference recording and
// an output recording.
type Report struct {
	RefFrames, OutFrames int

	// Diffs holds the absolute amplitude difference of each frame. The
	// shorter recording is padded with silent frames.
	Diffs []float64

	// MeanDiff is the mean of Diffs. MeanNonZero is the mean over the frames
	// where the reference isn't silent, it's 0 if there are none.
	MeanDiff    float64
	MeanNonZero float64
}

func (r *Report) String() string {
	return fmt.Sprintf("frames ref=%d out=%d, mean diff %.6f, mean diff (non-zero ref) %.6f",
		r.RefFrames, r.OutFrames, r.MeanDiff, r.MeanNonZero)
}

// Compare compares the per-frame amplitudes of two recordings.
func Compare(ref, out *Recording) (*Report, error) {
	if ref.SampleRate != out.SampleRate {
		return nil, fmt.Errorf("sample rate mismatch: %d != %d", ref.SampleRate, out.SampleRate)
	}

	refAmps := Amplitudes(ref.Samples)
	outAmps := Amplitudes(out.Samples)
	n := max(len(refAmps), len(outAmps))
	rep := &Report{
		RefFrames: len(refAmps),
		OutFrames: len(outAmps),
		Diffs:     make([]float64, n),
	}

	var sum, sumNZ float64
	var nz int
	for i := range n {
		var ra, oa float64
		if i < len(refAmps) {
			ra = refAmps[i]
		}
		if i < len(outAmps) {
			oa = outAmps[i]
		}
		d := math.Abs(ra - oa)
		rep.Diffs[i] = d
		sum += d
		if ra != 0 {
			sumNZ += d
			nz++
		}
	}
	if n > 0 {
		rep.MeanDiff = sum / float64(n)
	}
	if nz > 0 {
		rep.MeanNonZero = sumNZ / float64(nz)
	}
	return rep, nil
}

// CompareFiles reads and compares two WAV files.
func CompareFiles(refPath, outPath string) (*Report, error) {
	ref, err := ReadFile(refPath)
	if err != nil {
		return nil, err
	}
	out, err := ReadFile(outPath)
	if err != nil {
		return nil, err
	}
	return Compare(ref, out)
}

// Spectrum returns the magnitude of each of the note frequencies in the
// given frame, using a Hann window. The magnitude for a note is that of the
// DFT bin nearest to its frequency.
func Spectrum(frame []float64, sampleRate int) []float64 {
	n := len(frame)
	mags := make([]float64, sfx.NumPitches)
	if n < 2 || sampleRate <= 0 {
		return mags
	}

	win := make([]float64, n)
	for i, s := range frame {
		win[i] = s * (0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}

	for p := range mags {
		k := math.Round(sfx.PitchFreq(p) * float64(n) / float64(sampleRate))
		mags[p] = goertzel(win, k/float64(n))
	}
	return mags
}

// goertzel returns the DFT magnitude of x at normalized frequency f
// (cycles/sample).
func goertzel(x []float64, f float64) float64 {
	w := 2 * math.Pi * f
	coeff := 2 * math.Cos(w)
	var s1, s2 float64
	for _, v := range x {
		s := v + coeff*s1 - s2
		s2, s1 = s1, s
	}
	re := s1 - s2*math.Cos(w)
	im := s2 * math.Sin(w)
	return math.Hypot(re, im)
}
