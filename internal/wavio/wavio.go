// Package wavio converts between WAV files and signal.Signal.
//
// Files are decoded as integer PCM and mixed down to mono. Signals are written
// as mono 16-bit PCM after clamping to [-1, 1].
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-fxfit/dsp/core"
	"github.com/cwbudde/algo-fxfit/dsp/signal"
)

// SaveBitDepth is the PCM resolution of written files.
const SaveBitDepth = 16

const wavFormatPCM = 1

// ErrInvalidFile is returned for inputs that are not integer PCM WAV data.
var ErrInvalidFile = errors.New("wavio: not a PCM wav file")

// Load reads the WAV file at path.
func Load(path string) (signal.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return signal.Signal{}, fmt.Errorf("wavio: %w", err)
	}
	defer f.Close()

	sig, err := Decode(f)
	if err != nil {
		return signal.Signal{}, fmt.Errorf("%s: %w", path, err)
	}

	return sig, nil
}

// Decode reads a WAV stream and mixes all channels down to mono.
func Decode(r io.ReadSeeker) (signal.Signal, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return signal.Signal{}, ErrInvalidFile
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return signal.Signal{}, fmt.Errorf("%w: audio format %d", ErrInvalidFile, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return signal.Signal{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth < 8 || bitDepth > 32 {
		return signal.Signal{}, fmt.Errorf("%w: bit depth %d", ErrInvalidFile, bitDepth)
	}

	chans := int(dec.NumChans)
	if chans < 1 {
		return signal.Signal{}, fmt.Errorf("%w: %d channels", ErrInvalidFile, chans)
	}

	sig, err := signal.New(int(dec.SampleRate), mixdown(buf.Data, chans, bitDepth))
	if err != nil {
		return signal.Signal{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	return sig, nil
}

// mixdown averages interleaved integer frames into normalized mono samples.
func mixdown(data []int, chans, bitDepth int) []float32 {
	fullScale := float64(int64(1) << (bitDepth - 1))

	offset := 0.0
	if bitDepth == 8 {
		// 8-bit PCM is unsigned.
		offset = fullScale
	}

	frames := len(data) / chans
	out := make([]float32, frames)

	for i := range frames {
		var sum float64
		for c := range chans {
			sum += float64(data[i*chans+c]) - offset
		}

		out[i] = float32(sum / float64(chans) / fullScale)
	}

	return out
}

// Save writes sig to path as mono 16-bit PCM, creating or truncating the file.
func Save(path string, sig signal.Signal) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	if err := Encode(f, sig); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	return nil
}

// Encode writes sig as mono 16-bit PCM. Samples outside [-1, 1] are clamped.
func Encode(w io.WriteSeeker, sig signal.Signal) error {
	if err := sig.Validate(); err != nil {
		return err
	}

	const fullScale = 1<<(SaveBitDepth-1) - 1

	data := make([]int, len(sig.Samples))
	for i, v := range sig.Samples {
		data[i] = int(math.Round(core.Clamp(float64(v), -1, 1) * fullScale))
	}

	enc := wav.NewEncoder(w, sig.SampleRate, SaveBitDepth, 1, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			SampleRate:  sig.SampleRate,
			NumChannels: 1,
		},
		Data:           data,
		SourceBitDepth: SaveBitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: write: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: close: %w", err)
	}

	return nil
}
