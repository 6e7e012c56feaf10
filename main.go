package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"haptic/cmd"
	"haptic/internal/capture"
	"haptic/internal/config"
	"haptic/internal/device"
	applog "haptic/internal/log"
	"haptic/internal/transport"
	"haptic/pkg/build"
)

// main is the entry point for the haptic device application.
// The program flow is divided into three distinct phases:
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Configure runtime settings
//   - Initialize PortAudio
//   - Parse command line arguments
//   - Execute one-off commands if requested
//
// 2. Concurrent Phase (Hot Path):
//   - Start the actuator bridge transport
//   - Initialize the device session
//   - Begin input stream processing
//   - Start recording if enabled
//
// 3. Shutdown Phase (Cold Path):
//   - Handle termination signals
//   - Close the capture stream
//   - Finalize and report session statistics
func main() {
	// ==================== STARTUP PHASE (Cold Path) ====================

	if err := build.Initialize(); err != nil {
		applog.Fatalf("%v", err)
	}

	// Limit OS threads to optimize for real-time processing:
	// one for the capture callback, one for dispatch and I/O.
	runtime.GOMAXPROCS(2)

	if err := capture.Initialize(); err != nil {
		applog.Fatalf("%v", err)
	}
	defer capture.Terminate()

	cfg, err := cmd.ParseArgs()
	if err != nil {
		applog.Fatalf("%v", err)
	}

	if cfg.Verbose {
		applog.SetLevel(applog.LevelDebug)
	}

	// Handle one-off commands that don't require the capture pipeline.
	if cfg.Command != "" {
		if err := executeCommand(cfg.Command, cfg); err != nil {
			applog.Fatalf("%v", err)
		}
		return
	}

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	bridge := transport.NewWebSocketTransport(cfg.ListenAddr)

	dev, err := device.New(cfg, bridge, device.LogObserver{})
	if err != nil {
		applog.Fatalf("%v", err)
	}
	receipt := dev.Initialize()
	applog.Infof("Session %s started", receipt.SessionID)

	stream, err := capture.NewStream(cfg, dev)
	if err != nil {
		applog.Fatalf("%v", err)
	}

	// CRITICAL: the first Start call triggers PortAudio to begin
	// invoking the capture callback, marking the start of the hot path.
	if err := stream.Start(); err != nil {
		applog.Fatalf("%v", err)
	}

	if cfg.RecordInput {
		if err := stream.StartRecording(cfg.OutputFile); err != nil {
			applog.Fatalf("%v", err)
		}
	}

	// Block until termination signal is received
	<-done

	// ==================== SHUTDOWN PHASE (Cold Path) ====================

	if cfg.RecordInput {
		if err := stream.StopRecording(); err != nil {
			applog.Errorf("Error stopping recording: %v", err)
		} else {
			fmt.Printf("\nRecording saved to: %s\n", cfg.OutputFile)
		}
	}

	if err := stream.Close(); err != nil {
		applog.Errorf("Error closing capture stream: %v", err)
	}

	stats, err := dev.Shutdown()
	if err != nil {
		applog.Errorf("Error shutting down device: %v", err)
	} else {
		fmt.Printf("\nSession summary: %d samples, %d vibration events over %s\n",
			stats.TotalSamplesProcessed, stats.VibrationEvents, stats.Duration.Round(time.Millisecond))
		for band, count := range stats.DominantBands {
			fmt.Printf("  %-12s %d\n", band, count)
		}
	}

	if err := bridge.Close(); err != nil {
		applog.Errorf("Error closing actuator bridge: %v", err)
	}
}

// executeCommand handles one-off commands that don't require the
// capture pipeline, such as listing devices or running the self test.
func executeCommand(command string, cfg *config.Config) error {
	switch command {
	case "list":
		return capture.ListDevices()
	case "points":
		return printActivationPoints(cfg)
	case "selftest":
		return runSelfTest(cfg)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}
