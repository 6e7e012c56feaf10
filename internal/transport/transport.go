// SPDX-License-Identifier: MIT
// Package transport carries vibration commands from the device core to
// the actuator boundary. The core never blocks on delivery: commands
// are handed to a Dispatcher whose worker goroutine feeds a Transport
// in strict FIFO order, so touch stays temporally aligned with sound.
package transport

// Transport defines a generic interface for delivering dispatched
// commands or events to an actuator backend. Implementations must be
// safe for calls from the dispatcher's worker goroutine.
type Transport interface {
	Send(data any) error
	Close() error
}
