// SPDX-License-Identifier: MIT
/*
Package haptic maps spectral features onto vibration commands for a
small fixed set of activation points. Pitch maps to location: each
point owns a frequency band, and the point whose band contains the
dominant frequency is the one that vibrates. Loudness maps to
vibration amplitude, gated by a noise floor so ambient hiss does not
produce a constant low-level buzz.
*/
package haptic

import (
	"haptic/internal/analysis"
)

// Pulse is one on/off step of a command's timing sequence.
type Pulse struct {
	OnMs  int `json:"on_ms"`
	OffMs int `json:"off_ms"`
}

// VibrationCommand is the instruction handed to the actuator boundary.
// Produced fresh per audio chunk and consumed once. All fields are
// populated even at amplitude 0; callers check Amplitude to decide
// whether to act.
type VibrationCommand struct {
	Pattern   string  `json:"pattern"`   // "continuous" or "pulse-train"
	Frequency float64 `json:"frequency"` // Dominant frequency driving the selection (Hz)
	Amplitude float64 `json:"amplitude"` // Vibration strength, 0.0-1.0
	Location  string  `json:"location"`  // Selected activation-point site
	Sequence  []Pulse `json:"sequence"`  // Timing descriptor for the actuator
	Band      string  `json:"band"`      // Label of the selected band
}

// Timing sequences. Continuous output holds the motor on for the whole
// frame; the pulse train breaks it into three short bursts so
// transitions between sounds stay distinguishable by touch.
var (
	continuousSequence = []Pulse{{OnMs: 80, OffMs: 0}}
	pulseTrainSequence = []Pulse{{OnMs: 20, OffMs: 15}, {OnMs: 20, OffMs: 15}, {OnMs: 20, OffMs: 0}}
)

// Generator converts spectral features into vibration commands. It is
// a pure transform over its inputs plus the static catalogs; it holds
// no per-session state and is safe to share across sessions.
type Generator struct {
	points     []ActivationPoint
	speech     []ActivationPoint
	noiseFloor float64
}

// NewGenerator creates a Generator with the built-in catalogs and the
// given noise floor. Scaled amplitudes below the floor are forced to
// zero. A negative floor is treated as zero (gate always open).
func NewGenerator(noiseFloor float64) *Generator {
	if noiseFloor < 0 {
		noiseFloor = 0
	}
	return &Generator{
		points:     defaultPoints,
		speech:     speechPoints,
		noiseFloor: noiseFloor,
	}
}

// Command maps the spectrum's dominant frequency to an activation
// point and scales the continuous vibration by the supplied loudness.
// amplitude is clamped to [0, 1]; below the noise floor it is forced
// to 0 while the remaining fields stay populated.
func (g *Generator) Command(spectrum analysis.Spectrum, amplitude float64) VibrationCommand {
	return g.generate(g.points, "continuous", continuousSequence, spectrum, amplitude)
}

// SpeechCommand is the language-learning mapping: the finer speech
// catalog and a pulsed pattern, tuned for phoneme discrimination. Same
// noise-floor and clamping contract as Command.
func (g *Generator) SpeechCommand(spectrum analysis.Spectrum, amplitude float64) VibrationCommand {
	return g.generate(g.speech, "pulse-train", pulseTrainSequence, spectrum, amplitude)
}

func (g *Generator) generate(catalog []ActivationPoint, pattern string, sequence []Pulse, spectrum analysis.Spectrum, amplitude float64) VibrationCommand {
	freq, _ := spectrum.Peak()
	point := pointFor(catalog, freq)

	if amplitude < 0 {
		amplitude = 0
	}
	if amplitude > 1 {
		amplitude = 1
	}
	if amplitude < g.noiseFloor {
		amplitude = 0 // Ambient noise stays silent
	}

	return VibrationCommand{
		Pattern:   pattern,
		Frequency: freq,
		Amplitude: amplitude,
		Location:  point.Location,
		Sequence:  sequence,
		Band:      point.Label,
	}
}

// Points returns the standard activation-point catalog. The slice is
// shared; callers must treat it as read-only.
func (g *Generator) Points() []ActivationPoint {
	return g.points
}

// SpeechPoints returns the language-learning catalog. Shared,
// read-only.
func (g *Generator) SpeechPoints() []ActivationPoint {
	return g.speech
}

// NoiseFloor returns the configured suppression threshold.
func (g *Generator) NoiseFloor() float64 {
	return g.noiseFloor
}
