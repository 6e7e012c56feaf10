// SPDX-License-Identifier: MIT
/*
Package device implements the orchestrator of the audio-to-haptic
pipeline. The Device owns configuration and session lifecycle, drives
the per-chunk Analyzer → Generator → dispatch flow, and accumulates
session statistics.

Lifecycle: Uninitialized → Active → Shutdown. Initialize starts a new
session from any state; ProcessAudio requires Active.

A Device runs a single-threaded, per-chunk cooperative model: one
chunk is processed to completion before the next is accepted. It is
not designed for concurrent external mutation; callers invoking its
methods from multiple goroutines must serialize access. The only
internal concurrency is the dispatch worker behind ExecuteVibration,
which delivers commands in FIFO order without stalling analysis.
*/
package device

import (
	"fmt"
	"time"

	"haptic/internal/analysis"
	"haptic/internal/config"
	"haptic/internal/haptic"
	"haptic/internal/transport"

	"github.com/google/uuid"
)

// State is the device lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateActive
	StateShutdown
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// InitReceipt is returned by Initialize.
type InitReceipt struct {
	SessionID  string    `json:"session_id"`
	StartedAt  time.Time `json:"started_at"`
	SampleRate float64   `json:"sample_rate"`
	FFTSize    int       `json:"fft_size"`
	Mode       Mode      `json:"mode"`
}

// ProcessResult is the composite output of one ProcessAudio call: the
// raw analysis features plus the generated vibration command.
type ProcessResult struct {
	Spectrum          analysis.Spectrum       `json:"-"`
	Amplitude         float64                 `json:"amplitude"` // RMS envelope before sensitivity scaling
	DominantFrequency float64                 `json:"dominant_frequency"`
	Command           haptic.VibrationCommand `json:"command"`
	AudioDisabled     bool                    `json:"audio_disabled,omitempty"` // Soft condition: analysis switched off
}

// ExecutionRecord is returned by ExecuteVibration. Status is
// "dispatched", "vibration disabled" or "dropped"; only "dispatched"
// means the command reached the actuator queue.
type ExecutionRecord struct {
	ID        string                  `json:"id"`
	Timestamp time.Time               `json:"timestamp"`
	Command   haptic.VibrationCommand `json:"command"`
	Status    string                  `json:"status"`
}

// Status is a read-only snapshot of device state and configuration.
type Status struct {
	State            string  `json:"state"`
	Mode             Mode    `json:"mode"`
	SampleRate       float64 `json:"sample_rate"`
	Sensitivity      float64 `json:"sensitivity"`
	VibrationEnabled bool    `json:"vibration_enabled"`
	AudioEnabled     bool    `json:"audio_enabled"`
	NoiseFloor       float64 `json:"noise_floor"`
	BufferFill       int     `json:"buffer_fill"`
	BufferCapacity   int     `json:"buffer_capacity"`
}

// Capabilities is the manifest returned by SelfTest.
type Capabilities struct {
	AnalyzerReady    bool                     `json:"analyzer_ready"`
	GeneratorReady   bool                     `json:"generator_ready"`
	DispatcherReady  bool                     `json:"dispatcher_ready"`
	SupportedModes   []Mode                   `json:"supported_modes"`
	ActivationPoints []haptic.ActivationPoint `json:"activation_points"`
	FFTSize          int                      `json:"fft_size"`
	SampleRate       float64                  `json:"sample_rate"`
}

// Device is the pipeline orchestrator. The zero value is not usable;
// construct with New.
type Device struct {
	analyzer   *analysis.Analyzer
	generator  *haptic.Generator
	transport  transport.Transport
	dispatcher *transport.Dispatcher
	observer   Observer

	state            State
	mode             Mode
	sensitivity      float64
	vibrationEnabled bool
	audioEnabled     bool
	sampleRate       float64

	stats        SessionStats
	sessionStart time.Time
	sessionEnd   time.Time
}

// New builds a Device from the configuration. A nil transport falls
// back to the logging transport and a nil observer to the logging
// observer, so headless construction always succeeds on valid config.
func New(cfg *config.Config, t transport.Transport, obs Observer) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	windowType, err := analysis.ParseWindowFunc(cfg.FFTWindow)
	if err != nil {
		return nil, err
	}
	analyzer, err := analysis.NewAnalyzer(cfg.FFTSize, cfg.SampleRate, windowType)
	if err != nil {
		return nil, err
	}

	if t == nil {
		t = transport.NewLoggingTransport()
	}
	if obs == nil {
		obs = LogObserver{}
	}

	dispatcher := transport.NewDispatcher(t, config.DefaultDispatchQueue)
	dispatcher.Start()

	return &Device{
		analyzer:         analyzer,
		generator:        haptic.NewGenerator(cfg.NoiseFloor),
		transport:        t,
		dispatcher:       dispatcher,
		observer:         obs,
		state:            StateUninitialized,
		mode:             mode,
		sensitivity:      cfg.Sensitivity,
		vibrationEnabled: cfg.VibrationEnabled,
		audioEnabled:     cfg.AudioEnabled,
		sampleRate:       cfg.SampleRate,
	}, nil
}

// Initialize starts a new session: the sample window is cleared,
// statistics reset and the session start time recorded. Callable from
// any state; calling it on an active or shut-down device begins a
// fresh session, which is how a caller recovers from lifecycle errors.
func (d *Device) Initialize() InitReceipt {
	if d.state == StateShutdown {
		// The previous dispatcher drained and stopped at shutdown; a
		// new session needs a fresh one.
		d.dispatcher = transport.NewDispatcher(d.transport, config.DefaultDispatchQueue)
		d.dispatcher.Start()
	}
	d.analyzer.Clear()
	d.stats = SessionStats{DominantBands: make(map[string]uint64)}
	d.sessionStart = time.Now()
	d.sessionEnd = time.Time{}
	d.state = StateActive

	receipt := InitReceipt{
		SessionID:  uuid.NewString(),
		StartedAt:  d.sessionStart,
		SampleRate: d.sampleRate,
		FFTSize:    d.analyzer.FFTSize(),
		Mode:       d.mode,
	}
	d.observer.OnInitialize(receipt)
	return receipt
}

// ProcessAudio runs one chunk through the pipeline: samples feed the
// analyzer, the spectrum and envelope drive the generator selected by
// the current mode, and session statistics accumulate. The mode is
// read once at the top, so a concurrent-looking SetMode between chunks
// never splits a chunk across mappings.
func (d *Device) ProcessAudio(samples []float64) (*ProcessResult, error) {
	switch d.state {
	case StateUninitialized:
		return nil, ErrNotInitialized
	case StateShutdown:
		return nil, ErrShutdown
	}

	if !d.audioEnabled {
		// Soft condition, not an error: analysis is switched off.
		return &ProcessResult{AudioDisabled: true}, nil
	}

	mode := d.mode

	d.analyzer.AddSamples(samples)
	spectrum := d.analyzer.Transform()
	envelope := d.analyzer.Envelope()
	scaled := envelope * d.sensitivity

	var command haptic.VibrationCommand
	if mode == ModeLanguageLearning {
		command = d.generator.SpeechCommand(spectrum, scaled)
	} else {
		command = d.generator.Command(spectrum, scaled)
	}

	d.stats.TotalSamplesProcessed += uint64(len(samples))
	if command.Amplitude > 0 {
		d.stats.VibrationEvents++
		d.stats.DominantBands[command.Band]++
	}

	return &ProcessResult{
		Spectrum:          spectrum,
		Amplitude:         envelope,
		DominantFrequency: command.Frequency,
		Command:           command,
	}, nil
}

// ExecuteVibration hands a command to the actuator dispatch queue and
// returns an execution record. When vibration is disabled the record
// carries the "vibration disabled" status and nothing is dispatched.
// Hardware-level failures are the actuator boundary's concern; this
// call only fails on lifecycle misuse, never on delivery.
func (d *Device) ExecuteVibration(command haptic.VibrationCommand) (*ExecutionRecord, error) {
	if d.state == StateShutdown {
		return nil, ErrShutdown
	}

	record := &ExecutionRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Command:   command,
	}

	if !d.vibrationEnabled {
		record.Status = "vibration disabled"
		return record, nil
	}

	if d.dispatcher.Enqueue(command) {
		record.Status = "dispatched"
	} else {
		record.Status = "dropped"
	}
	d.observer.OnVibration(*record)
	return record, nil
}

// SetMode validates and applies a new mapping mode. The change takes
// effect with the next ProcessAudio call. Invalid modes leave the
// configuration unchanged.
func (d *Device) SetMode(mode string) error {
	parsed, err := ParseMode(mode)
	if err != nil {
		return err
	}
	previous := d.mode
	d.mode = parsed
	if previous != parsed {
		d.observer.OnModeChange(previous, parsed)
	}
	return nil
}

// SetSensitivity validates and applies a new amplitude scaling factor.
// Out-of-range values leave the configuration unchanged.
func (d *Device) SetSensitivity(level float64) error {
	if level < config.MinSensitivity || level > config.MaxSensitivity {
		return fmt.Errorf("%w: %.2f not in [%.1f, %.1f]",
			ErrSensitivityRange, level, config.MinSensitivity, config.MaxSensitivity)
	}
	d.sensitivity = level
	return nil
}

// SetVibrationEnabled toggles actuator dispatch. Unconditional.
func (d *Device) SetVibrationEnabled(enabled bool) {
	d.vibrationEnabled = enabled
}

// GetStatus returns a read-only snapshot of state, configuration and
// buffer fill.
func (d *Device) GetStatus() Status {
	fill, capacity := d.analyzer.BufferState()
	return Status{
		State:            d.state.String(),
		Mode:             d.mode,
		SampleRate:       d.sampleRate,
		Sensitivity:      d.sensitivity,
		VibrationEnabled: d.vibrationEnabled,
		AudioEnabled:     d.audioEnabled,
		NoiseFloor:       d.generator.NoiseFloor(),
		BufferFill:       fill,
		BufferCapacity:   capacity,
	}
}

// GetSessionStats returns a snapshot of the session counters with the
// duration measured up to now (or to shutdown once finalized).
func (d *Device) GetSessionStats() SessionStats {
	return d.stats.snapshot(d.sessionDuration())
}

func (d *Device) sessionDuration() time.Duration {
	if d.sessionStart.IsZero() {
		return 0
	}
	if !d.sessionEnd.IsZero() {
		return d.sessionEnd.Sub(d.sessionStart)
	}
	return time.Since(d.sessionStart)
}

// Shutdown ends the session, drains any queued vibration commands and
// returns the finalized statistics. Safe to call at any time after
// Initialize; no in-flight statistics are lost. Further ProcessAudio
// calls fail until the caller re-initializes.
func (d *Device) Shutdown() (*SessionStats, error) {
	switch d.state {
	case StateUninitialized:
		return nil, ErrNotInitialized
	case StateShutdown:
		return nil, ErrShutdown
	}

	d.sessionEnd = time.Now()
	d.state = StateShutdown
	d.dispatcher.Stop() // Drains queued commands before returning

	stats := d.stats.snapshot(d.sessionDuration())
	d.observer.OnShutdown(stats)
	return &stats, nil
}

// GetVibrationLocations returns the standard activation-point catalog.
func (d *Device) GetVibrationLocations() []haptic.ActivationPoint {
	return d.generator.Points()
}

// PerformSelfTest verifies the pipeline components are present and
// returns a capability manifest. Session state is not mutated.
func (d *Device) PerformSelfTest() Capabilities {
	return Capabilities{
		AnalyzerReady:    d.analyzer != nil,
		GeneratorReady:   d.generator != nil,
		DispatcherReady:  d.dispatcher != nil,
		SupportedModes:   SupportedModes(),
		ActivationPoints: d.generator.Points(),
		FFTSize:          d.analyzer.FFTSize(),
		SampleRate:       d.sampleRate,
	}
}
