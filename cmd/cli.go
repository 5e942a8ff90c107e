package cmd

import (
	"os"

	"audioviz/internal/config"
	"audioviz/pkg/build"

	"github.com/spf13/cobra"
)

// ParseArgs builds the runtime configuration. Precedence, lowest to highest:
// defaults, YAML file, ENV_* overrides, command line flags.
func ParseArgs() (*config.Config, error) {
	buildInfo := build.GetBuildFlags()

	// Flag storage. Only flags the user actually set are overlaid onto the
	// loaded configuration, so file and env values survive untouched flags.
	flagVals := config.NewConfig()
	var configPath string
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			overlayFlags(cmd, flagVals, loaded)
			if err := loaded.Validate(); err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.TUIMode = true
			return nil
		},
	}

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Run: func(cmd *cobra.Command, args []string) {
			cfg.Command = "list"
			cfg.TUIMode = false
		},
	}
	rootCmd.AddCommand(listCmd)

	// Audio Device Configuration
	rootCmd.PersistentFlags().IntVarP(&flagVals.Audio.DeviceID, "device", "d", config.DefaultDeviceID,
		"Specify input device ID. Use 'list' command to see available devices.")
	rootCmd.PersistentFlags().IntVarP(&flagVals.Audio.Channels, "channels", "c", config.DefaultChannels,
		"Number of channels to capture (1=mono, 2=stereo)")
	rootCmd.PersistentFlags().Float64VarP(&flagVals.Audio.SampleRate, "sample-rate", "s", config.DefaultSampleRate,
		"Sample rate, measured in Hertz (Hz)")
	rootCmd.PersistentFlags().IntVarP(&flagVals.Audio.FramesPerBuffer, "frames-per-buffer", "b", config.DefaultFramesPerBuffer,
		"The number of frames per buffer (affects latency)")
	rootCmd.PersistentFlags().BoolVarP(&flagVals.Audio.LowLatency, "low-latency", "l", config.DefaultLowLatency,
		"Use low latency mode for real-time processing")
	rootCmd.PersistentFlags().BoolVar(&flagVals.Audio.GateEnabled, "gate", config.DefaultGateEnabled,
		"Enable the noise gate; gated blocks feed silence to the analyzer")
	rootCmd.PersistentFlags().Float64Var(&flagVals.Audio.GateThreshold, "gate-threshold", config.DefaultGateThreshold,
		"Gate threshold amplitude in 0.0-1.0")

	// Analysis Configuration
	rootCmd.PersistentFlags().StringVarP(&flagVals.Analysis.Mode, "mode", "m", config.DefaultMode,
		"Analysis mode: 'waveform' (256-point) or 'spectrum' (2048-point)")
	rootCmd.PersistentFlags().Float64Var(&flagVals.Analysis.Smoothing, "smoothing", config.DefaultSmoothing,
		"Spectral smoothing time constant in 0.0-1.0 (higher is slower)")
	rootCmd.PersistentFlags().Float64Var(&flagVals.Analysis.Sensitivity, "sensitivity", config.DefaultSensitivity,
		"Output scale factor applied to published analysis data")
	rootCmd.PersistentFlags().IntVar(&flagVals.Analysis.Bands, "bands", config.DefaultBands,
		"Number of frequency bands for bar-style views")

	// Streaming Configuration
	rootCmd.PersistentFlags().BoolVar(&flagVals.Stream.Enabled, "stream", false,
		"Stream analysis snapshots over WebSocket")
	rootCmd.PersistentFlags().StringVar(&flagVals.Stream.Port, "stream-port", config.DefaultStreamPort,
		"WebSocket listen port")
	rootCmd.PersistentFlags().DurationVar(&flagVals.Stream.Interval, "stream-interval", config.DefaultStreamInterval,
		"Time between streamed snapshots")

	// Debug Configuration
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flagVals.Debug, "verbose", "v", false,
		"Show verbose output")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	// Help and version short-circuit inside cobra before PersistentPreRunE
	// runs, leaving cfg unset. Hand back defaults with TUIMode off so the
	// caller exits cleanly after the printed output.
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return cfg, nil
}

// overlayFlags copies explicitly set flags onto dst, leaving everything else
// at its file/env-resolved value.
func overlayFlags(cmd *cobra.Command, src, dst *config.Config) {
	set := map[string]func(){
		"device":            func() { dst.Audio.DeviceID = src.Audio.DeviceID },
		"channels":          func() { dst.Audio.Channels = src.Audio.Channels },
		"sample-rate":       func() { dst.Audio.SampleRate = src.Audio.SampleRate },
		"frames-per-buffer": func() { dst.Audio.FramesPerBuffer = src.Audio.FramesPerBuffer },
		"low-latency":       func() { dst.Audio.LowLatency = src.Audio.LowLatency },
		"gate":              func() { dst.Audio.GateEnabled = src.Audio.GateEnabled },
		"gate-threshold":    func() { dst.Audio.GateThreshold = src.Audio.GateThreshold },
		"mode":              func() { dst.Analysis.Mode = src.Analysis.Mode },
		"smoothing":         func() { dst.Analysis.Smoothing = src.Analysis.Smoothing },
		"sensitivity":       func() { dst.Analysis.Sensitivity = src.Analysis.Sensitivity },
		"bands":             func() { dst.Analysis.Bands = src.Analysis.Bands },
		"stream":            func() { dst.Stream.Enabled = src.Stream.Enabled },
		"stream-port":       func() { dst.Stream.Port = src.Stream.Port },
		"stream-interval":   func() { dst.Stream.Interval = src.Stream.Interval },
		"verbose":           func() { dst.Debug = src.Debug },
	}
	for name, apply := range set {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	if dst.Debug {
		dst.LogLevel = "debug"
	}
	if dst.Stream.Interval <= 0 {
		dst.Stream.Interval = config.DefaultStreamInterval
	}
}
