// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"

	"haptic/pkg/bitint"

	"gopkg.in/yaml.v3"
)

// Load builds a Config from defaults, an optional YAML file and
// environment variable overrides, in that order. If path is empty the
// default locations ("haptic.yaml", "config.yaml") are tried; when no
// file is found the built-in defaults are used. The final configuration
// is validated before being returned.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		for _, candidate := range []string{"haptic.yaml", "config.yaml"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// yaml.v3 ignores unknown keys, so config files written for
		// newer builds still load here.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the numeric bounds of the configuration. Mode strings
// are validated by the device at construction, where the mode set is
// defined.
func (c *Config) Validate() error {
	if c.SampleRate < MinSampleRate || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("sample_rate %.0f outside supported range [%d, %d]",
			c.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if !bitint.IsPowerOfTwo(c.FFTSize) {
		return fmt.Errorf("fft_size must be a power of 2, got %d", c.FFTSize)
	}
	if c.FramesPerBuffer <= 0 || c.FramesPerBuffer > MaxBufferFrames {
		return fmt.Errorf("frames_per_buffer %d outside supported range (0, %d]",
			c.FramesPerBuffer, MaxBufferFrames)
	}
	if c.Sensitivity < MinSensitivity || c.Sensitivity > MaxSensitivity {
		return fmt.Errorf("sensitivity %.2f outside supported range [%.1f, %.1f]",
			c.Sensitivity, MinSensitivity, MaxSensitivity)
	}
	if c.NoiseFloor < 0 || c.NoiseFloor >= 1 {
		return fmt.Errorf("noise_floor %.3f outside supported range [0, 1)", c.NoiseFloor)
	}
	return nil
}

// applyEnvOverrides applies HAPTIC_* environment variables on top of
// the loaded configuration.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("HAPTIC_MODE"); ok {
		c.Mode = val
	}
	if val, ok := os.LookupEnv("HAPTIC_SENSITIVITY"); ok {
		if fVal, err := strconv.ParseFloat(val, 64); err == nil {
			c.Sensitivity = fVal
		}
	}
	if val, ok := os.LookupEnv("HAPTIC_VIBRATION_ENABLED"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			c.VibrationEnabled = bVal
		}
	}
	if val, ok := os.LookupEnv("HAPTIC_LISTEN_ADDR"); ok {
		c.ListenAddr = val
	}
}
