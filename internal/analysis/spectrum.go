// SPDX-License-Identifier: MIT
package analysis

// Spectrum is the magnitude spectrum of one transform window. It is a
// derived, ephemeral value: a fresh Spectrum is produced on every
// Transform call and is never mutated afterwards. Bin i covers the
// frequency i*BinWidth.
type Spectrum struct {
	Magnitudes []float64 // One magnitude per bin, DC first
	BinWidth   float64   // Frequency resolution in Hz (sampleRate / fftSize)
}

// Bins returns the number of bins in the spectrum.
func (s Spectrum) Bins() int { return len(s.Magnitudes) }

// Freq returns the center frequency (Hz) for the given bin index, or 0
// for an out-of-range index.
func (s Spectrum) Freq(binIndex int) float64 {
	if binIndex < 0 || binIndex >= len(s.Magnitudes) {
		return 0.0
	}
	return float64(binIndex) * s.BinWidth
}

// Peak returns the frequency and magnitude of the strongest bin. Ties
// resolve to the lowest frequency, so an all-zero spectrum reports the
// DC bin: frequency 0, magnitude 0.
func (s Spectrum) Peak() (freq, magnitude float64) {
	if len(s.Magnitudes) == 0 {
		return 0.0, 0.0
	}
	peakBin := 0
	for i, m := range s.Magnitudes {
		if m > s.Magnitudes[peakBin] {
			peakBin = i
		}
	}
	return s.Freq(peakBin), s.Magnitudes[peakBin]
}
