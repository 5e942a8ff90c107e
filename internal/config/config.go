package config

import "time"

// Boundaries and defaults for the capture and analysis engine.
const (
	// Audio capture defaults
	DefaultDeviceID        = MinDeviceID // System default device
	DefaultChannels        = 2           // Stereo capture, mixed to mono for analysis
	DefaultSampleRate      = 44100       // CD-quality audio
	DefaultFramesPerBuffer = 512         // Balanced latency/throughput
	DefaultLowLatency      = false
	DefaultGateEnabled     = false
	DefaultGateThreshold   = 0.001

	// Analysis defaults
	DefaultMode        = "spectrum" // "waveform" or "spectrum"
	DefaultSmoothing   = 0.8
	DefaultSensitivity = 1.0
	DefaultBands       = 5
	DefaultBandLoPass  = 100
	DefaultBandHiPass  = 600

	// Streaming defaults
	DefaultStreamPort     = "8080"
	DefaultStreamInterval = 16 * time.Millisecond // ~60 Hz

	// Hardware and processing limits
	MinDeviceID     = -1     // -1 selects the system default device
	MinSampleRate   = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate   = 192000 // Maximum supported sample rate (Hz)
	MaxBufferFrames = 8192   // Maximum frames per buffer (power of 2)
)

// Config holds all runtime options, built from defaults, an optional YAML
// file, environment overrides, and command line flags, in that order.
type Config struct {
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`

	Audio    AudioConfig    `yaml:"audio"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Stream   StreamConfig   `yaml:"stream"`

	// CLI-only state, never read from file.
	Command string `yaml:"-"`
	TUIMode bool   `yaml:"-"`
}

// AudioConfig holds capture settings.
type AudioConfig struct {
	DeviceID        int     `yaml:"device_id"`         // PortAudio device index (-1 for default)
	Channels        int     `yaml:"channels"`          // Captured channels; analysis mixes to mono
	SampleRate      float64 `yaml:"sample_rate"`       // Hz
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Callback block size
	LowLatency      bool    `yaml:"low_latency"`       // Request low latency from the device
	GateEnabled     bool    `yaml:"gate_enabled"`      // Feed silence below the threshold
	GateThreshold   float64 `yaml:"gate_threshold"`    // 0..1 amplitude
}

// AnalysisConfig holds analyzer tuning.
type AnalysisConfig struct {
	Mode        string  `yaml:"mode"`         // "waveform" or "spectrum"
	Smoothing   float64 `yaml:"smoothing"`    // Spectral smoothing time constant, 0..1
	Sensitivity float64 `yaml:"sensitivity"`  // Output multiplier, >= 0
	Bands       int     `yaml:"bands"`        // Band count for the bar-style views
	BandLoPass  int     `yaml:"band_lo_pass"` // Low bin cutoff for band queries
	BandHiPass  int     `yaml:"band_hi_pass"` // High bin cutoff for band queries
}

// StreamConfig holds WebSocket fan-out settings.
type StreamConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Port     string        `yaml:"port"`
	Interval time.Duration `yaml:"interval"` // Time between snapshots
}

// NewConfig returns a Config populated with defaults, the base before file,
// environment, and flag overlays.
func NewConfig() *Config {
	return &Config{
		LogLevel: "info",
		Audio: AudioConfig{
			DeviceID:        DefaultDeviceID,
			Channels:        DefaultChannels,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			LowLatency:      DefaultLowLatency,
			GateEnabled:     DefaultGateEnabled,
			GateThreshold:   DefaultGateThreshold,
		},
		Analysis: AnalysisConfig{
			Mode:        DefaultMode,
			Smoothing:   DefaultSmoothing,
			Sensitivity: DefaultSensitivity,
			Bands:       DefaultBands,
			BandLoPass:  DefaultBandLoPass,
			BandHiPass:  DefaultBandHiPass,
		},
		Stream: StreamConfig{
			Enabled:  false,
			Port:     DefaultStreamPort,
			Interval: DefaultStreamInterval,
		},
	}
}
