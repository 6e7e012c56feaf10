// SPDX-License-Identifier: MIT
package device

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"haptic/internal/config"
	"haptic/pkg/testsig"
)

// recordingObserver captures device events for inspection.
type recordingObserver struct {
	initializations int
	modeChanges     [][2]Mode
	vibrations      []ExecutionRecord
	shutdowns       []SessionStats
}

func (r *recordingObserver) OnInitialize(InitReceipt) { r.initializations++ }
func (r *recordingObserver) OnModeChange(prev, cur Mode) {
	r.modeChanges = append(r.modeChanges, [2]Mode{prev, cur})
}
func (r *recordingObserver) OnVibration(rec ExecutionRecord) {
	r.vibrations = append(r.vibrations, rec)
}
func (r *recordingObserver) OnShutdown(stats SessionStats) {
	r.shutdowns = append(r.shutdowns, stats)
}

func newTestDevice(t *testing.T, mutate func(*config.Config)) (*Device, *testsig.MockTransport, *recordingObserver) {
	t.Helper()
	cfg := config.NewConfig()
	if mutate != nil {
		mutate(cfg)
	}
	mock := &testsig.MockTransport{}
	obs := &recordingObserver{}
	d, err := New(cfg, mock, obs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, mock, obs
}

func tone(freq float64, size int) []float64 {
	return testsig.SineWave(size, config.DefaultSampleRate, freq)
}

func TestProcessAudioRequiresInitialize(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)

	_, err := d.ProcessAudio(tone(440, 512))
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ProcessAudio before Initialize: err = %v, expected ErrNotInitialized", err)
	}
}

func TestProcessAudioAfterShutdownFails(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)
	d.Initialize()
	if _, err := d.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	_, err := d.ProcessAudio(tone(440, 512))
	if !errors.Is(err, ErrShutdown) {
		t.Errorf("ProcessAudio after Shutdown: err = %v, expected ErrShutdown", err)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	d, _, obs := newTestDevice(t, nil)

	if got := d.GetStatus().State; got != "uninitialized" {
		t.Errorf("initial state = %q", got)
	}

	receipt := d.Initialize()
	if receipt.SessionID == "" {
		t.Error("initialization receipt missing session ID")
	}
	if receipt.SampleRate != config.DefaultSampleRate || receipt.FFTSize != config.DefaultFFTSize {
		t.Errorf("receipt = %+v, expected default sample rate and FFT size", receipt)
	}
	if got := d.GetStatus().State; got != "active" {
		t.Errorf("state after Initialize = %q", got)
	}

	if _, err := d.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if got := d.GetStatus().State; got != "shutdown" {
		t.Errorf("state after Shutdown = %q", got)
	}
	if _, err := d.Shutdown(); !errors.Is(err, ErrShutdown) {
		t.Errorf("second Shutdown: err = %v, expected ErrShutdown", err)
	}
	if obs.initializations != 1 || len(obs.shutdowns) != 1 {
		t.Errorf("observer saw %d inits, %d shutdowns", obs.initializations, len(obs.shutdowns))
	}
}

func TestShutdownBeforeInitialize(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)
	if _, err := d.Shutdown(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Shutdown before Initialize: err = %v, expected ErrNotInitialized", err)
	}
}

func TestReinitializeResetsSession(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)
	d.Initialize()
	if _, err := d.ProcessAudio(tone(440, 1024)); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Shutdown(); err != nil {
		t.Fatal(err)
	}

	d.Initialize()
	stats := d.GetSessionStats()
	if stats.TotalSamplesProcessed != 0 || stats.VibrationEvents != 0 {
		t.Errorf("stats not reset by re-initialization: %+v", stats)
	}
	if fill := d.GetStatus().BufferFill; fill != 0 {
		t.Errorf("buffer fill = %d after re-initialization, expected 0", fill)
	}
	if _, err := d.ProcessAudio(tone(440, 512)); err != nil {
		t.Errorf("ProcessAudio after re-initialization: %v", err)
	}
}

func TestTotalSamplesAccumulates(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)
	d.Initialize()

	chunks := []int{512, 100, 2048, 0, 7}
	var total uint64
	for _, size := range chunks {
		if _, err := d.ProcessAudio(tone(440, size)); err != nil {
			t.Fatal(err)
		}
		total += uint64(size)
	}

	stats := d.GetSessionStats()
	if stats.TotalSamplesProcessed != total {
		t.Errorf("total samples = %d, expected %d", stats.TotalSamplesProcessed, total)
	}
}

func TestSilenceProducesNoVibrationEvents(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)
	d.Initialize()

	for i := 0; i < 5; i++ {
		result, err := d.ProcessAudio(testsig.Silence(1024))
		if err != nil {
			t.Fatal(err)
		}
		if result.Command.Amplitude != 0 {
			t.Fatalf("chunk %d: silence produced amplitude %v", i, result.Command.Amplitude)
		}
	}

	stats := d.GetSessionStats()
	if stats.VibrationEvents != 0 {
		t.Errorf("vibration events = %d for pure silence, expected 0", stats.VibrationEvents)
	}
}

func TestSensitivityScalingMonotonic(t *testing.T) {
	input := tone(440, 1024)
	var last float64

	for _, sensitivity := range []float64{0.1, 0.5, 1.0, 1.5, 2.0, 3.0} {
		t.Run(fmt.Sprintf("%.1f", sensitivity), func(t *testing.T) {
			d, _, _ := newTestDevice(t, func(c *config.Config) { c.Sensitivity = sensitivity })
			d.Initialize()

			result, err := d.ProcessAudio(input)
			if err != nil {
				t.Fatal(err)
			}
			amp := result.Command.Amplitude
			if amp < 0 || amp > 1 {
				t.Errorf("amplitude %v outside [0, 1]", amp)
			}
			if amp < last {
				t.Errorf("amplitude %v decreased from %v as sensitivity rose", amp, last)
			}
			last = amp
		})
	}
}

func TestModeValidation(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)
	d.Initialize()

	before := d.GetStatus()
	err := d.SetMode("invalid")
	if !errors.Is(err, ErrInvalidMode) {
		t.Errorf("SetMode(invalid): err = %v, expected ErrInvalidMode", err)
	}
	if after := d.GetStatus(); !reflect.DeepEqual(before, after) {
		t.Errorf("status changed by rejected SetMode:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestSensitivityValidation(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)
	d.Initialize()

	before := d.GetStatus()
	for _, level := range []float64{0.05, 0.0, -1, 3.5, 5.0} {
		if err := d.SetSensitivity(level); !errors.Is(err, ErrSensitivityRange) {
			t.Errorf("SetSensitivity(%v): err = %v, expected ErrSensitivityRange", level, err)
		}
	}
	if after := d.GetStatus(); !reflect.DeepEqual(before, after) {
		t.Errorf("status changed by rejected SetSensitivity:\nbefore %+v\nafter  %+v", before, after)
	}

	if err := d.SetSensitivity(2.5); err != nil {
		t.Errorf("SetSensitivity(2.5): %v", err)
	}
	if got := d.GetStatus().Sensitivity; got != 2.5 {
		t.Errorf("sensitivity = %v, expected 2.5", got)
	}
}

func TestModeSwitchAppliesNextChunk(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)
	d.Initialize()

	first, err := d.ProcessAudio(tone(440, 1024))
	if err != nil {
		t.Fatal(err)
	}
	if first.Command.Pattern != "continuous" {
		t.Errorf("standard mode pattern = %q, expected continuous", first.Command.Pattern)
	}

	if err := d.SetMode("language-learning"); err != nil {
		t.Fatal(err)
	}

	second, err := d.ProcessAudio(tone(440, 1024))
	if err != nil {
		t.Fatal(err)
	}
	if second.Command.Pattern != "pulse-train" {
		t.Errorf("pattern after mode switch = %q, expected pulse-train with the very next chunk", second.Command.Pattern)
	}

	if err := d.SetMode("music"); err != nil {
		t.Fatal(err)
	}
	third, err := d.ProcessAudio(tone(440, 1024))
	if err != nil {
		t.Fatal(err)
	}
	if third.Command.Pattern != "continuous" {
		t.Errorf("music mode pattern = %q, expected the standard mapping", third.Command.Pattern)
	}
}

func TestVibrationDisabled(t *testing.T) {
	d, mock, _ := newTestDevice(t, func(c *config.Config) { c.VibrationEnabled = false })
	d.Initialize()

	result, err := d.ProcessAudio(tone(440, 1024))
	if err != nil {
		t.Fatal(err)
	}

	record, err := d.ExecuteVibration(result.Command)
	if err != nil {
		t.Fatalf("ExecuteVibration: %v", err)
	}
	if record.Status != "vibration disabled" {
		t.Errorf("status = %q, expected \"vibration disabled\"", record.Status)
	}
	if len(mock.Sent()) != 0 {
		t.Errorf("%d commands dispatched while vibration disabled", len(mock.Sent()))
	}

	d.SetVibrationEnabled(true)
	record, err = d.ExecuteVibration(result.Command)
	if err != nil {
		t.Fatal(err)
	}
	if record.Status != "dispatched" {
		t.Errorf("status = %q after enabling, expected dispatched", record.Status)
	}
}

func TestAudioDisabled(t *testing.T) {
	d, _, _ := newTestDevice(t, func(c *config.Config) { c.AudioEnabled = false })
	d.Initialize()

	result, err := d.ProcessAudio(tone(440, 1024))
	if err != nil {
		t.Fatalf("audio disabled is a soft condition, got error: %v", err)
	}
	if !result.AudioDisabled {
		t.Error("result should report audio disabled")
	}

	stats := d.GetSessionStats()
	if stats.TotalSamplesProcessed != 0 {
		t.Errorf("samples counted while audio disabled: %d", stats.TotalSamplesProcessed)
	}
}

func TestExecutionRecordFields(t *testing.T) {
	d, mock, obs := newTestDevice(t, nil)
	d.Initialize()

	result, err := d.ProcessAudio(tone(440, 1024))
	if err != nil {
		t.Fatal(err)
	}

	record, err := d.ExecuteVibration(result.Command)
	if err != nil {
		t.Fatal(err)
	}
	if record.ID == "" {
		t.Error("execution record missing identifier")
	}
	if record.Timestamp.IsZero() {
		t.Error("execution record missing timestamp")
	}
	if record.Command.Location != result.Command.Location {
		t.Errorf("record echoes location %q, expected %q", record.Command.Location, result.Command.Location)
	}
	if len(obs.vibrations) != 1 {
		t.Errorf("observer saw %d vibrations, expected 1", len(obs.vibrations))
	}

	if _, err := d.Shutdown(); err != nil {
		t.Fatal(err)
	}
	// Shutdown drains the dispatch queue, so the command must have
	// reached the transport.
	if len(mock.Sent()) != 1 {
		t.Errorf("transport received %d commands, expected 1", len(mock.Sent()))
	}
}

func TestDominantBandHistogram(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)
	d.Initialize()

	// Three chunks in the mid band, two in high-mid.
	for i := 0; i < 3; i++ {
		if _, err := d.ProcessAudio(tone(440, 1024)); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := d.ProcessAudio(tone(2000, 1024)); err != nil {
			t.Fatal(err)
		}
	}

	stats := d.GetSessionStats()
	if stats.DominantBands["mid"] != 3 {
		t.Errorf("mid band count = %d, expected 3", stats.DominantBands["mid"])
	}
	if stats.DominantBands["high-mid"] != 2 {
		t.Errorf("high-mid band count = %d, expected 2", stats.DominantBands["high-mid"])
	}
	if stats.VibrationEvents != 5 {
		t.Errorf("vibration events = %d, expected 5", stats.VibrationEvents)
	}
}

func TestStatsSnapshotIsolated(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)
	d.Initialize()
	if _, err := d.ProcessAudio(tone(440, 1024)); err != nil {
		t.Fatal(err)
	}

	snap := d.GetSessionStats()
	snap.DominantBands["mid"] = 999

	if d.GetSessionStats().DominantBands["mid"] == 999 {
		t.Error("mutating a stats snapshot leaked into the live counters")
	}
}

func TestSelfTest(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)

	caps := d.PerformSelfTest()
	if !caps.AnalyzerReady || !caps.GeneratorReady || !caps.DispatcherReady {
		t.Errorf("self test reports missing components: %+v", caps)
	}
	if len(caps.SupportedModes) != 3 {
		t.Errorf("supported modes = %v, expected 3 entries", caps.SupportedModes)
	}
	if len(caps.ActivationPoints) != 7 {
		t.Errorf("activation points = %d, expected 7", len(caps.ActivationPoints))
	}

	// Self test must not mutate session state.
	if got := d.GetStatus().State; got != "uninitialized" {
		t.Errorf("state after self test = %q, expected uninitialized", got)
	}
}

func TestVibrationLocationsDelegates(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)
	points := d.GetVibrationLocations()
	if len(points) != 7 {
		t.Fatalf("got %d locations, expected 7", len(points))
	}
	if points[0].Location != "wrist-inner" || points[6].Location != "elbow-outer" {
		t.Errorf("unexpected catalog endpoints: %s .. %s", points[0].Location, points[6].Location)
	}
}

func TestInvalidConfigRejectedAtConstruction(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"Bad mode", func(c *config.Config) { c.Mode = "turbo" }},
		{"Bad sensitivity", func(c *config.Config) { c.Sensitivity = 9 }},
		{"Bad FFT size", func(c *config.Config) { c.FFTSize = 999 }},
		{"Bad window", func(c *config.Config) { c.FFTWindow = "triangle" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewConfig()
			tt.mutate(cfg)
			if _, err := New(cfg, &testsig.MockTransport{}, nil); err == nil {
				t.Error("New should have rejected the configuration")
			}
		})
	}
}

func TestEndToEndSilenceScenario(t *testing.T) {
	d, mock, _ := newTestDevice(t, nil)
	d.Initialize()

	result, err := d.ProcessAudio(testsig.Silence(1024))
	if err != nil {
		t.Fatal(err)
	}
	if result.Command.Amplitude != 0 {
		t.Fatalf("silence produced amplitude %v", result.Command.Amplitude)
	}

	record, err := d.ExecuteVibration(result.Command)
	if err != nil {
		t.Fatal(err)
	}
	if record.ID == "" || record.Status != "dispatched" {
		t.Errorf("zero-amplitude command should still yield a valid execution record, got %+v", record)
	}

	stats, err := d.Shutdown()
	if err != nil {
		t.Fatal(err)
	}
	if stats.VibrationEvents != 0 {
		t.Errorf("vibration events = %d, expected 0 for a silent session", stats.VibrationEvents)
	}
	if len(mock.Sent()) != 1 {
		t.Errorf("transport received %d commands, expected the zero-amplitude dispatch", len(mock.Sent()))
	}
}

func TestEndToEndLanguageLearningScenario(t *testing.T) {
	d, _, _ := newTestDevice(t, nil)
	d.Initialize()
	if err := d.SetMode("language-learning"); err != nil {
		t.Fatal(err)
	}

	// Two alternating dominant frequencies in distinct speech bands.
	// A full window of the new tone displaces the previous one.
	low, err := d.ProcessAudio(tone(500, 1024))
	if err != nil {
		t.Fatal(err)
	}
	high, err := d.ProcessAudio(tone(2000, 1024))
	if err != nil {
		t.Fatal(err)
	}

	if low.Command.Amplitude == 0 || high.Command.Amplitude == 0 {
		t.Fatalf("tones should clear the noise floor: %v, %v", low.Command.Amplitude, high.Command.Amplitude)
	}
	if low.Command.Location == high.Command.Location {
		t.Errorf("both tones activated %s; distinct bands must select distinct points", low.Command.Location)
	}
}
