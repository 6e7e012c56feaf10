// SPDX-License-Identifier: MIT
package device

import "time"

// SessionStats accumulates monotonically from initialization until
// shutdown. Reset only by re-initialization.
type SessionStats struct {
	TotalSamplesProcessed uint64            `json:"total_samples_processed"`
	VibrationEvents       uint64            `json:"vibration_events"`
	DominantBands         map[string]uint64 `json:"dominant_bands"`
	Duration              time.Duration     `json:"duration"`
}

// snapshot returns a copy with an independent histogram map, so the
// caller cannot mutate the live counters.
func (s SessionStats) snapshot(duration time.Duration) SessionStats {
	bands := make(map[string]uint64, len(s.DominantBands))
	for k, v := range s.DominantBands {
		bands[k] = v
	}
	return SessionStats{
		TotalSamplesProcessed: s.TotalSamplesProcessed,
		VibrationEvents:       s.VibrationEvents,
		DominantBands:         bands,
		Duration:              duration,
	}
}
