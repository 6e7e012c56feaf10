// SPDX-License-Identifier: MIT
/*
Package analysis implements the signal analysis stage of the haptic
pipeline: a rolling window of normalized audio samples and the spectral
and loudness features derived from it.

The sample ring is the transform window. Incoming chunks of any size
accumulate in the ring, and each transform reads the most recent
fftSize samples, so chunk size is decoupled from analysis resolution.
*/
package analysis

import (
	"fmt"
	"math/cmplx"

	"haptic/pkg/bitint"

	"gonum.org/v1/gonum/dsp/fourier"
)

// workspace holds pre-allocated buffers for transform calculations so
// the per-chunk path does not allocate beyond the returned Spectrum.
type workspace struct {
	input     []float64    // Windowed input signal, zero-padded to fftSize
	fftOutput []complex128 // FFT complex results
	window    []float64    // Pre-calculated window coefficients
}

// Analyzer maintains the rolling sample window and computes spectral
// and loudness features on demand. It owns its sample ring exclusively.
// Not safe for concurrent use; the device serializes access.
type Analyzer struct {
	fftCalculator *fourier.FFT
	fftSize       int
	sampleRate    float64
	ring          *sampleRing
	workspace     workspace
}

// NewAnalyzer creates an Analyzer whose sample ring holds exactly one
// transform window. fftSize must be a power of 2 and sampleRate
// positive.
func NewAnalyzer(fftSize int, sampleRate float64, windowType WindowFunc) (*Analyzer, error) {
	if !bitint.IsPowerOfTwo(fftSize) {
		return nil, fmt.Errorf("fft size must be a power of 2, got %d", fftSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %f", sampleRate)
	}

	windowCoeffs := make([]float64, fftSize)
	applyWindow(windowCoeffs, windowType)

	// FFT output size for real input is N/2 + 1 complex values.
	outputSize := fftSize/2 + 1

	return &Analyzer{
		fftCalculator: fourier.NewFFT(fftSize),
		fftSize:       fftSize,
		sampleRate:    sampleRate,
		ring:          newSampleRing(fftSize),
		workspace: workspace{
			input:     make([]float64, fftSize),
			fftOutput: make([]complex128, outputSize),
			window:    windowCoeffs,
		},
	}, nil
}

// AddSamples appends an ordered chunk of normalized samples to the
// rolling window. When the window is full the oldest samples are
// evicted. An empty chunk is a no-op.
func (a *Analyzer) AddSamples(samples []float64) {
	a.ring.Append(samples)
}

// Transform computes the magnitude spectrum of the current window
// contents. The window function is applied to the buffered samples and
// the remainder is zero-padded, so a short or empty buffer still yields
// a valid (possibly all-zero) spectrum. The sample ring is not mutated.
func (a *Analyzer) Transform() Spectrum {
	filled := a.ring.CopyTo(a.workspace.input)
	for i := 0; i < filled; i++ {
		a.workspace.input[i] *= a.workspace.window[i]
	}
	for i := filled; i < a.fftSize; i++ {
		a.workspace.input[i] = 0 // Zero-padding
	}

	a.fftCalculator.Coefficients(a.workspace.fftOutput, a.workspace.input)

	magnitudes := make([]float64, len(a.workspace.fftOutput))
	for i, c := range a.workspace.fftOutput {
		magnitudes[i] = cmplx.Abs(c)
	}

	return Spectrum{
		Magnitudes: magnitudes,
		BinWidth:   a.sampleRate / float64(a.fftSize),
	}
}

// Envelope returns the RMS amplitude of the current window contents,
// or 0.0 when the window is empty. RMS is used rather than peak so a
// single sample glitch does not register as loudness.
func (a *Analyzer) Envelope() float64 {
	return a.ring.rms()
}

// DominantFrequency returns the frequency (Hz) of the strongest
// spectrum bin, with ties resolving to the lowest frequency. A silent
// or empty window reports 0.0.
func (a *Analyzer) DominantFrequency() float64 {
	freq, _ := a.Transform().Peak()
	return freq
}

// Clear empties the sample ring. Idempotent.
func (a *Analyzer) Clear() {
	a.ring.Clear()
}

// BufferState reports the current fill level and capacity of the
// sample ring for diagnostics. Read-only.
func (a *Analyzer) BufferState() (fill, capacity int) {
	return a.ring.Len(), a.ring.Cap()
}

// FFTSize returns the transform window size. Immutable after creation.
func (a *Analyzer) FFTSize() int {
	return a.fftSize
}

// SampleRate returns the configured sample rate (Hz).
func (a *Analyzer) SampleRate() float64 {
	return a.sampleRate
}

// BinWidth returns the frequency resolution of the transform in Hz.
func (a *Analyzer) BinWidth() float64 {
	return a.sampleRate / float64(a.fftSize)
}
