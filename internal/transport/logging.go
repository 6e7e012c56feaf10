// SPDX-License-Identifier: MIT
package transport

import (
	applog "haptic/internal/log"
)

// LoggingTransport implements Transport by logging each dispatched
// command at debug level. Used when no actuator bridge is configured
// and as a headless stand-in during development.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport.
func NewLoggingTransport() *LoggingTransport {
	applog.Infof("Transport: using logging transport (no actuator bridge)")
	return &LoggingTransport{}
}

// Send logs the dispatched data. It never fails.
func (lt *LoggingTransport) Send(data any) error {
	applog.Debugf("Transport: dispatch %+v", data)
	return nil
}

// Close is a no-op.
func (lt *LoggingTransport) Close() error {
	return nil
}

var _ Transport = (*LoggingTransport)(nil)
