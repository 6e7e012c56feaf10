// SPDX-License-Identifier: MIT
package device

import "fmt"

// Mode selects which spectral-to-haptic mapping the device applies.
type Mode string

const (
	// ModeStandard maps the full audible spectrum across the
	// activation points with a continuous pattern.
	ModeStandard Mode = "standard"
	// ModeLanguageLearning uses the finer speech-band partition and a
	// pulsed pattern for phoneme discrimination.
	ModeLanguageLearning Mode = "language-learning"
	// ModeMusic uses the standard mapping; it exists as a distinct
	// mode so future tuning (sustain, rhythm emphasis) has a home.
	ModeMusic Mode = "music"
)

// SupportedModes returns the set of valid modes.
func SupportedModes() []Mode {
	return []Mode{ModeStandard, ModeLanguageLearning, ModeMusic}
}

// ParseMode converts a mode string to a Mode, or fails with
// ErrInvalidMode for anything outside the supported set.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeStandard, ModeLanguageLearning, ModeMusic:
		return Mode(s), nil
	default:
		return ModeStandard, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}
