// SPDX-License-Identifier: MIT
package haptic

// ActivationPoint describes one physical haptic location and the
// inclusive frequency band it represents. The catalogs below are
// immutable configuration data shared by reference; callers must not
// modify them.
type ActivationPoint struct {
	Location string  `json:"location"` // Physical actuator site
	Label    string  `json:"label"`    // Human-readable band name
	LowHz    float64 `json:"low_hz"`
	HighHz   float64 `json:"high_hz"`
}

// defaultPoints partitions the audible spectrum across seven forearm
// locations. Band edges grow roughly geometrically (each band spans
// about 2.5x its lower edge) to match pitch perception, so equal
// musical intervals map to equal distances along the arm.
var defaultPoints = []ActivationPoint{
	{Location: "wrist-inner", Label: "sub-bass", LowHz: 20, HighHz: 60},
	{Location: "wrist-outer", Label: "bass", LowHz: 60, HighHz: 150},
	{Location: "forearm-lower", Label: "low-mid", LowHz: 150, HighHz: 400},
	{Location: "forearm-mid", Label: "mid", LowHz: 400, HighHz: 1000},
	{Location: "forearm-upper", Label: "high-mid", LowHz: 1000, HighHz: 2500},
	{Location: "elbow-inner", Label: "presence", LowHz: 2500, HighHz: 6000},
	{Location: "elbow-outer", Label: "brilliance", LowHz: 6000, HighHz: 16000},
}

// speechPoints is the finer partition used in language-learning mode.
// The same seven locations cover only the speech-relevant range
// (100 Hz - 4 kHz), again log-spaced, so voicing pitch, vowel formants
// and frication each land on distinct sites. A trained user can tell
// consonant/vowel transitions apart by where the pulse lands.
var speechPoints = []ActivationPoint{
	{Location: "wrist-inner", Label: "voicing", LowHz: 100, HighHz: 170},
	{Location: "wrist-outer", Label: "f1-low", LowHz: 170, HighHz: 290},
	{Location: "forearm-lower", Label: "f1-mid", LowHz: 290, HighHz: 490},
	{Location: "forearm-mid", Label: "f1-high", LowHz: 490, HighHz: 820},
	{Location: "forearm-upper", Label: "f2-low", LowHz: 820, HighHz: 1400},
	{Location: "elbow-inner", Label: "f2-high", LowHz: 1400, HighHz: 2400},
	{Location: "elbow-outer", Label: "frication", LowHz: 2400, HighHz: 4000},
}

// pointFor returns the catalog entry whose band contains freq.
// Frequencies below the catalog clamp to the first point and above it
// to the last, so every spectrum maps to a real actuator site.
func pointFor(catalog []ActivationPoint, freq float64) ActivationPoint {
	for _, p := range catalog {
		if freq >= p.LowHz && freq <= p.HighHz {
			return p
		}
	}
	if freq < catalog[0].LowHz {
		return catalog[0]
	}
	return catalog[len(catalog)-1]
}
