// SPDX-License-Identifier: MIT
package transport

import (
	"sync"
	"sync/atomic"

	applog "haptic/internal/log"
)

// Dispatcher decouples command production from delivery. Enqueue never
// blocks; a single worker goroutine drains the queue into the
// Transport, which preserves FIFO order per device instance. When the
// queue is full the new command is dropped and counted: delivering a
// stale backlog would break the temporal correspondence between sound
// and touch that the pipeline exists to provide.
type Dispatcher struct {
	transport Transport
	queue     chan any
	wg        sync.WaitGroup
	stopOnce  sync.Once

	mu      sync.Mutex
	running bool

	dropped atomic.Uint64
}

// NewDispatcher creates a Dispatcher feeding the given transport. If
// depth is not positive a default queue depth of 64 is used.
func NewDispatcher(t Transport, depth int) *Dispatcher {
	if depth <= 0 {
		depth = 64
		applog.Warnf("Dispatcher: invalid queue depth, defaulting to %d", depth)
	}
	return &Dispatcher{
		transport: t,
		queue:     make(chan any, depth),
	}
}

// Start launches the worker goroutine. Safe to call once per
// Dispatcher; subsequent calls are no-ops.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		applog.Warnf("Dispatcher: Start called but already running")
		return
	}
	d.running = true
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for data := range d.queue {
			if err := d.transport.Send(data); err != nil {
				applog.Errorf("Dispatcher: send error: %v", err)
			}
		}
	}()
}

// Enqueue hands a command to the worker without blocking. Returns
// false when the command was dropped because the queue was full or the
// dispatcher was stopped.
func (d *Dispatcher) Enqueue(data any) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		d.dropped.Add(1)
		return false
	}
	select {
	case d.queue <- data:
		return true
	default:
		d.dropped.Add(1)
		applog.Warnf("Dispatcher: queue full, dropping command")
		return false
	}
}

// Dropped returns the number of commands dropped so far.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Stop closes the queue, waits for the worker to drain every command
// already enqueued, and returns. In-flight commands are delivered, not
// lost. Safe to call multiple times.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		wasRunning := d.running
		d.running = false
		d.mu.Unlock()

		close(d.queue)
		if wasRunning {
			d.wg.Wait()
		}
	})
}
