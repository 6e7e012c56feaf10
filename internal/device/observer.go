// SPDX-License-Identifier: MIT
package device

import (
	"time"

	applog "haptic/internal/log"
)

// Observer receives device status events. It replaces ambient console
// output so the core stays usable headlessly: tests inject a recording
// observer, the CLI injects the logging one.
type Observer interface {
	OnInitialize(receipt InitReceipt)
	OnModeChange(previous, current Mode)
	OnVibration(record ExecutionRecord)
	OnShutdown(stats SessionStats)
}

// LogObserver logs device events through the application logger.
type LogObserver struct{}

func (LogObserver) OnInitialize(receipt InitReceipt) {
	applog.Infof("Device: session %s initialized (mode: %s, sample rate: %.0f Hz)",
		receipt.SessionID, receipt.Mode, receipt.SampleRate)
}

func (LogObserver) OnModeChange(previous, current Mode) {
	applog.Infof("Device: mode changed %s → %s", previous, current)
}

func (LogObserver) OnVibration(record ExecutionRecord) {
	applog.Debugf("Device: vibration %s at %s (%.2f amplitude, %s)",
		record.ID, record.Command.Location, record.Command.Amplitude, record.Status)
}

func (LogObserver) OnShutdown(stats SessionStats) {
	applog.Infof("Device: session ended after %s (%d samples, %d vibration events)",
		stats.Duration.Round(time.Millisecond), stats.TotalSamplesProcessed, stats.VibrationEvents)
}

var _ Observer = LogObserver{}
