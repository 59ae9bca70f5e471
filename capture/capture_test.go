package capture

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"p8sfx/hw/hwdefs"
	"p8sfx/hw/sfx"
)

func ramp(n int) []int8 {
	out := make([]int8, n)
	for i := range out {
		out[i] = int8(i)
	}
	return out
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	want := ramp(3*FrameSize + 17)

	if err := WriteFile(path, want); err != nil {
		t.Fatal(err)
	}

	rec, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if rec.SampleRate != hwdefs.SampleRate {
		t.Errorf("sample rate = %d, want %d", rec.SampleRate, hwdefs.SampleRate)
	}
	if diff := cmp.Diff(want, rec.Int8()); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestWriterMultipleWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	all := ramp(2*writeBufSize + 100)
	for _, chunk := range [][]int8{all[:10], all[10:5000], all[5000:]} {
		if err := w.Write(chunk); err != nil {
			t.Fatal(err)
		}
	}
	if w.Samples() != len(all) {
		t.Errorf("Samples() = %d, want %d", w.Samples(), len(all))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	rec, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(all, rec.Int8()); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("this is not a wav file at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Fatal("ReadFile succeeded on an invalid file")
	}
	if _, err := Decode(bytes.NewReader(nil)); err == nil {
		t.Fatal("Decode succeeded on empty input")
	}
}

func TestAmplitudes(t *testing.T) {
	samples := make([]float64, 2*FrameSize+FrameSize/2)
	for i := FrameSize; i < 2*FrameSize; i++ {
		samples[i] = 0.5
		if i%2 == 0 {
			samples[i] = -0.5
		}
	}
	for i := 2 * FrameSize; i < len(samples); i++ {
		samples[i] = 1
	}

	got := Amplitudes(samples)
	want := []float64{0, 0.5}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Amplitudes mismatch (-want +got):\n%s", diff)
	}
}

func constFrames(vals ...float64) *Recording {
	rec := &Recording{SampleRate: hwdefs.SampleRate}
	for _, v := range vals {
		for range FrameSize {
			rec.Samples = append(rec.Samples, v)
		}
	}
	return rec
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		ref, out *Recording
		want     *Report
	}{
		{
			name: "identical",
			ref:  constFrames(0, 0.5, 0.25),
			out:  constFrames(0, 0.5, 0.25),
			want: &Report{RefFrames: 3, OutFrames: 3, Diffs: []float64{0, 0, 0}},
		},
		{
			name: "different",
			ref:  constFrames(0, 0.5, 0.25),
			out:  constFrames(0.25, 0.25, 0.25),
			want: &Report{
				RefFrames: 3, OutFrames: 3,
				Diffs:       []float64{0.25, 0.25, 0},
				MeanDiff:    0.5 / 3,
				MeanNonZero: 0.125,
			},
		},
		{
			name: "shorter output",
			ref:  constFrames(0.5, 0.5),
			out:  constFrames(0.5),
			want: &Report{
				RefFrames: 2, OutFrames: 1,
				Diffs:       []float64{0, 0.5},
				MeanDiff:    0.25,
				MeanNonZero: 0.25,
			},
		},
		{
			name: "silent reference",
			ref:  constFrames(0),
			out:  constFrames(0, 0.5),
			want: &Report{
				RefFrames: 1, OutFrames: 2,
				Diffs:    []float64{0, 0.5},
				MeanDiff: 0.25,
			},
		},
		{
			name: "empty",
			ref:  &Recording{SampleRate: hwdefs.SampleRate},
			out:  &Recording{SampleRate: hwdefs.SampleRate},
			want: &Report{Diffs: []float64{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.ref, tt.out)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("Compare mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompareSampleRate(t *testing.T) {
	ref := &Recording{SampleRate: 44100}
	out := &Recording{SampleRate: hwdefs.SampleRate}
	if _, err := Compare(ref, out); err == nil {
		t.Fatal("Compare succeeded with different sample rates")
	}
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	ref, out := filepath.Join(dir, "ref.wav"), filepath.Join(dir, "out.wav")
	samples := ramp(4 * FrameSize)
	if err := WriteFile(ref, samples); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(out, samples); err != nil {
		t.Fatal(err)
	}

	rep, err := CompareFiles(ref, out)
	if err != nil {
		t.Fatal(err)
	}
	if rep.RefFrames != 4 || rep.MeanDiff != 0 {
		t.Errorf("got %v, want 4 identical frames", rep)
	}

	if _, err := CompareFiles(ref, filepath.Join(dir, "missing.wav")); !os.IsNotExist(err) {
		t.Errorf("CompareFiles with missing file: err = %v, want not exist", err)
	}
}

func TestSpectrum(t *testing.T) {
	const pitch = 33
	frame := make([]float64, FrameSize)
	freq := sfx.PitchFreq(pitch)
	for i := range frame {
		frame[i] = math.Sin(2 * math.Pi * freq * float64(i) / hwdefs.SampleRate)
	}

	mags := Spectrum(frame, hwdefs.SampleRate)
	if len(mags) != sfx.NumPitches {
		t.Fatalf("len(Spectrum) = %d, want %d", len(mags), sfx.NumPitches)
	}
	peak := 0
	for p, m := range mags {
		if m > mags[peak] {
			peak = p
		}
	}
	if peak != pitch {
		t.Errorf("spectrum peak at pitch %d, want %d", peak, pitch)
	}
}
