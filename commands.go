package main

import (
	"fmt"

	"haptic/internal/config"
	"haptic/internal/device"
)

// printActivationPoints shows the standard and language-learning
// catalogs with their frequency bands.
func printActivationPoints(cfg *config.Config) error {
	dev, err := device.New(cfg, nil, device.LogObserver{})
	if err != nil {
		return err
	}

	fmt.Printf("\nActivation Points (standard mapping)\n\n")
	for _, p := range dev.GetVibrationLocations() {
		fmt.Printf("  %-14s %-11s %6.0f - %6.0f Hz\n", p.Location, p.Label, p.LowHz, p.HighHz)
	}

	return nil
}

// runSelfTest builds a device from the configuration and prints its
// capability manifest.
func runSelfTest(cfg *config.Config) error {
	dev, err := device.New(cfg, nil, device.LogObserver{})
	if err != nil {
		return err
	}

	caps := dev.PerformSelfTest()

	fmt.Printf("\nSelf Test\n\n")
	fmt.Printf("  Analyzer ready:   %v\n", caps.AnalyzerReady)
	fmt.Printf("  Generator ready:  %v\n", caps.GeneratorReady)
	fmt.Printf("  Dispatcher ready: %v\n", caps.DispatcherReady)
	fmt.Printf("  FFT size:         %d\n", caps.FFTSize)
	fmt.Printf("  Sample rate:      %.0f Hz\n", caps.SampleRate)
	fmt.Printf("  Modes:            ")
	for i, mode := range caps.SupportedModes {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Print(mode)
	}
	fmt.Printf("\n  Activation points: %d\n", len(caps.ActivationPoints))

	if !caps.AnalyzerReady || !caps.GeneratorReady || !caps.DispatcherReady {
		return fmt.Errorf("self test failed: component missing")
	}
	return nil
}
