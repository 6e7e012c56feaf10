// SPDX-License-Identifier: MIT
package config

// Core configuration constants that define the boundaries and defaults
// for the haptic device core.
const (
	// Default values for the device configuration
	DefaultSampleRate       = 44100      // CD-quality audio
	DefaultMode             = "standard" // Standard spectral mapping
	DefaultVibrationEnabled = true       // Dispatch commands by default
	DefaultAudioEnabled     = true       // Analyze incoming audio by default
	DefaultSensitivity      = 1.0        // Unity amplitude scaling
	DefaultFFTSize          = 1024       // Transform window (power of 2)
	DefaultFFTWindow        = "hann"     // Window function for the transform
	DefaultNoiseFloor       = 0.05       // Scaled amplitude below this is silenced
	DefaultFramesPerBuffer  = 512        // Capture chunk size, balanced latency
	DefaultDeviceID         = MinDeviceID
	DefaultListenAddr       = ":8080" // WebSocket actuator bridge address
	DefaultRecordInput      = false
	DefaultOutputFile       = "" // Auto-generated filename
	DefaultCommand          = ""
	DefaultVerbosity        = false

	// Hardware and processing limits
	MinDeviceID     = -1     // -1 represents system default capture device
	MinSampleRate   = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate   = 192000 // Maximum supported sample rate (Hz)
	MaxBufferFrames = 8192   // Maximum frames per capture buffer

	// Sensitivity bounds, validated on every update
	MinSensitivity = 0.1
	MaxSensitivity = 3.0

	// Dispatch queue depth for in-order command delivery
	DefaultDispatchQueue = 64
)

// Config holds all runtime options for the haptic device and its
// boundary adapters. It is constructed from defaults, then optionally a
// YAML file, then command line flags. Unrecognized YAML keys are
// ignored, so newer config files load on older binaries.
type Config struct {
	// Device core settings
	SampleRate       float64 `yaml:"sample_rate"`       // Sample rate in Hz
	Mode             string  `yaml:"mode"`              // standard, language-learning or music
	VibrationEnabled bool    `yaml:"vibration_enabled"` // Dispatch commands to the actuator bridge
	AudioEnabled     bool    `yaml:"audio_enabled"`     // Analyze incoming audio chunks
	Sensitivity      float64 `yaml:"sensitivity"`       // Amplitude scaling factor [0.1, 3.0]
	FFTSize          int     `yaml:"fft_size"`          // Transform window size (power of 2)
	FFTWindow        string  `yaml:"fft_window"`        // Window function name (hann, hamming, blackman, nuttall)
	NoiseFloor       float64 `yaml:"noise_floor"`       // Minimum scaled amplitude before suppression

	// Capture settings
	DeviceID        int  `yaml:"input_device"`      // PortAudio device index (-1 for default)
	FramesPerBuffer int  `yaml:"frames_per_buffer"` // Capture chunk size in frames
	LowLatency      bool `yaml:"low_latency"`       // Request low latency from the capture device

	// Recording options
	RecordInput bool   `yaml:"record_input"` // Record captured audio to a WAV file
	OutputFile  string `yaml:"output_file"`  // Output path for recordings

	// Actuator bridge transport
	ListenAddr string `yaml:"listen_addr"` // WebSocket listen address

	// Debug options
	Verbose bool   `yaml:"verbose"`
	Command string `yaml:"-"` // One-off command to execute
}

// NewConfig creates a Config with documented defaults. This is the base
// configuration before YAML or command line flags are applied.
func NewConfig() *Config {
	return &Config{
		SampleRate:       DefaultSampleRate,
		Mode:             DefaultMode,
		VibrationEnabled: DefaultVibrationEnabled,
		AudioEnabled:     DefaultAudioEnabled,
		Sensitivity:      DefaultSensitivity,
		FFTSize:          DefaultFFTSize,
		FFTWindow:        DefaultFFTWindow,
		NoiseFloor:       DefaultNoiseFloor,
		DeviceID:         DefaultDeviceID,
		FramesPerBuffer:  DefaultFramesPerBuffer,
		RecordInput:      DefaultRecordInput,
		OutputFile:       DefaultOutputFile,
		ListenAddr:       DefaultListenAddr,
		Verbose:          DefaultVerbosity,
		Command:          DefaultCommand,
	}
}
