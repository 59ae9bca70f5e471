// Package capture records the chip output to WAV files, reads them back and
// compares recordings.
package capture

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"p8sfx/hw/hwdefs"
)

const (
	bitDepth     = 16
	numChannels  = 1
	pcmFormat    = 1 // WAVE_FORMAT_PCM
	writeBufSize = 4096
)

// Writer writes 8-bit chip samples to a mono 16-bit WAV stream.
type Writer struct {
	enc *wav.Encoder
	buf *audio.IntBuffer
	f   *os.File // set when Writer owns the file
	n   int
}

// NewWriter returns a Writer encoding to ws. The WAV header is finalized by
// Close, which doesn't close ws.
func NewWriter(ws io.WriteSeeker) *Writer {
	return &Writer{
		enc: wav.NewEncoder(ws, hwdefs.SampleRate, bitDepth, numChannels, pcmFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: numChannels, SampleRate: hwdefs.SampleRate},
			Data:           make([]int, 0, writeBufSize),
			SourceBitDepth: bitDepth,
		},
	}
}

// Create creates the WAV file at path.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := NewWriter(f)
	w.f = f
	return w, nil
}

// Write appends samples to the recording.
func (w *Writer) Write(samples []int8) error {
	for len(samples) > 0 {
		n := min(len(samples), writeBufSize)
		w.buf.Data = w.buf.Data[:0]
		for _, s := range samples[:n] {
			w.buf.Data = append(w.buf.Data, int(s)<<8)
		}
		if err := w.enc.Write(w.buf); err != nil {
			return fmt.Errorf("wav: %w", err)
		}
		w.n += n
		samples = samples[n:]
	}
	return nil
}

// Samples returns the number of samples written so far.
func (w *Writer) Samples() int { return w.n }

// Close finalizes the WAV header, and closes the file if the Writer was
// created with Create.
func (w *Writer) Close() error {
	err := w.enc.Close()
	if w.f != nil {
		err = errors.Join(err, w.f.Close())
	}
	if err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return nil
}

// WriteFile writes samples to a new WAV file at path.
func WriteFile(path string, samples []int8) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	if err := w.Write(samples); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Recording is a decoded WAV file. Samples are those of the first channel,
// normalized to [-1, 1).
type Recording struct {
	SampleRate int
	Samples    []float64
}

// Decode reads a WAV stream.
func Decode(r io.ReadSeeker) (*Recording, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wav: not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	nchans := max(int(dec.NumChans), 1)
	depth := int(dec.BitDepth)
	rec := &Recording{
		SampleRate: int(dec.SampleRate),
		Samples:    make([]float64, 0, len(buf.Data)/nchans),
	}
	for i := 0; i < len(buf.Data); i += nchans {
		rec.Samples = append(rec.Samples, normalize(buf.Data[i], depth))
	}
	return rec, nil
}

func normalize(v, depth int) float64 {
	if depth == 8 {
		// 8-bit WAV samples are unsigned
		return float64(v-128) / 128
	}
	return float64(v) / float64(int(1)<<(depth-1))
}

// ReadFile reads the WAV file at path.
func ReadFile(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Int8 converts the recording back to chip samples.
func (rec *Recording) Int8() []int8 {
	out := make([]int8, len(rec.Samples))
	for i, s := range rec.Samples {
		out[i] = int8(max(min(s*128, 127), -128))
	}
	return out
}
