package cmd

import (
	"os"
	"time"

	"haptic/internal/config"
	"haptic/pkg/build"

	"github.com/spf13/cobra"
)

// ParseArgs builds the runtime configuration from defaults, an
// optional YAML file and command line flags, in that order of
// precedence (flags win).
func ParseArgs() (*config.Config, error) {
	buildInfo := build.GetBuildFlags()
	options := config.NewConfig()
	var configPath string

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         "Audio-to-haptic sensory substitution device",
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil // Default: run the device
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// One-off commands that don't start the capture pipeline.
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio capture devices",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "list"
		},
	}
	rootCmd.AddCommand(listCmd)

	pointsCmd := &cobra.Command{
		Use:   "points",
		Short: "Show the activation-point catalog and its frequency bands",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "points"
		},
	}
	rootCmd.AddCommand(pointsCmd)

	selftestCmd := &cobra.Command{
		Use:   "selftest",
		Short: "Verify pipeline components and print the capability manifest",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "selftest"
		},
	}
	rootCmd.AddCommand(selftestCmd)

	// Capture configuration
	rootCmd.PersistentFlags().IntVarP(&options.DeviceID, "device", "d", options.DeviceID,
		"Input device ID. Use 'list' to see available devices.")
	rootCmd.PersistentFlags().Float64VarP(&options.SampleRate, "sample-rate", "s", options.SampleRate,
		"Sample rate, measured in Hertz (Hz)")
	rootCmd.PersistentFlags().IntVarP(&options.FramesPerBuffer, "frames-per-buffer", "b", options.FramesPerBuffer,
		"The number of frames per capture buffer (affects latency)")
	rootCmd.PersistentFlags().BoolVarP(&options.LowLatency, "low-latency", "l", options.LowLatency,
		"Use low latency mode for real-time capture")

	// Device core configuration
	rootCmd.PersistentFlags().StringVarP(&options.Mode, "mode", "m", options.Mode,
		"Mapping mode: standard, language-learning or music")
	rootCmd.PersistentFlags().Float64Var(&options.Sensitivity, "sensitivity", options.Sensitivity,
		"Amplitude scaling factor, 0.1-3.0")
	rootCmd.PersistentFlags().Float64Var(&options.NoiseFloor, "noise-floor", options.NoiseFloor,
		"Minimum scaled amplitude before vibration is suppressed")
	rootCmd.PersistentFlags().IntVar(&options.FFTSize, "fft-size", options.FFTSize,
		"Transform window size (power of 2)")
	rootCmd.PersistentFlags().StringVar(&options.FFTWindow, "window", options.FFTWindow,
		"Window function: hann, hamming, blackman or nuttall")
	rootCmd.PersistentFlags().BoolVar(&options.VibrationEnabled, "vibration", options.VibrationEnabled,
		"Dispatch vibration commands to the actuator bridge")

	// Actuator bridge
	rootCmd.PersistentFlags().StringVar(&options.ListenAddr, "listen", options.ListenAddr,
		"WebSocket listen address for the actuator bridge")

	// Recording configuration
	rootCmd.PersistentFlags().BoolVarP(&options.RecordInput, "record", "r", options.RecordInput,
		"Record captured audio to a WAV file")
	rootCmd.PersistentFlags().StringVarP(&options.OutputFile, "output", "o", options.OutputFile,
		"Output file name. Default is session-DD-MM-YYYY-HHMMSS.wav")

	// Debug configuration
	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", options.Verbose,
		"Show verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML configuration file")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	// A config file sits between defaults and flags: file values apply
	// wherever the user didn't pass an explicit flag.
	if configPath != "" {
		fileCfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		flags := rootCmd.PersistentFlags()
		if !flags.Changed("sample-rate") {
			options.SampleRate = fileCfg.SampleRate
		}
		if !flags.Changed("mode") {
			options.Mode = fileCfg.Mode
		}
		if !flags.Changed("sensitivity") {
			options.Sensitivity = fileCfg.Sensitivity
		}
		if !flags.Changed("noise-floor") {
			options.NoiseFloor = fileCfg.NoiseFloor
		}
		if !flags.Changed("fft-size") {
			options.FFTSize = fileCfg.FFTSize
		}
		if !flags.Changed("window") {
			options.FFTWindow = fileCfg.FFTWindow
		}
		if !flags.Changed("vibration") {
			options.VibrationEnabled = fileCfg.VibrationEnabled
		}
		if !flags.Changed("listen") {
			options.ListenAddr = fileCfg.ListenAddr
		}
		if !flags.Changed("device") {
			options.DeviceID = fileCfg.DeviceID
		}
		if !flags.Changed("frames-per-buffer") {
			options.FramesPerBuffer = fileCfg.FramesPerBuffer
		}
		options.AudioEnabled = fileCfg.AudioEnabled
	}

	if options.OutputFile == "" {
		options.OutputFile = "session-" +
			time.Now().UTC().Format("02-01-2006-150405") +
			".wav"
	}

	return options, nil
}
