// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"audioviz/pkg/bitint"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at path. If path is empty
// it searches the default location ("config.yaml"); if no file is found the
// built-in defaults are used. Environment overrides apply after the file,
// then the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		} else {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields the engine cannot clamp its way around.
// Analyzer knobs (smoothing, sensitivity) are clamped at their setters and
// need no validation here.
func (c *Config) Validate() error {
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate %g outside [%d, %d]", c.Audio.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.Audio.Channels < 1 {
		return fmt.Errorf("audio.channels must be at least 1, got %d", c.Audio.Channels)
	}
	if !bitint.IsPowerOfTwo(c.Audio.FramesPerBuffer) || c.Audio.FramesPerBuffer > MaxBufferFrames {
		return fmt.Errorf("audio.frames_per_buffer must be a power of 2 up to %d, got %d", MaxBufferFrames, c.Audio.FramesPerBuffer)
	}
	if c.Analysis.Mode != "waveform" && c.Analysis.Mode != "spectrum" {
		return fmt.Errorf("analysis.mode must be \"waveform\" or \"spectrum\", got %q", c.Analysis.Mode)
	}
	if c.Analysis.Bands < 1 {
		return fmt.Errorf("analysis.bands must be at least 1, got %d", c.Analysis.Bands)
	}
	if c.Stream.Enabled && c.Stream.Interval <= 0 {
		return fmt.Errorf("stream.interval must be positive when streaming is enabled")
	}
	return nil
}

// applyEnvOverrides layers ENV_* variables over whatever the file set.
func (cfg *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("ENV_DEBUG"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			cfg.Debug = bVal
		}
	}
	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok {
		cfg.LogLevel = val
	}
	if val, ok := os.LookupEnv("ENV_STREAM_ENABLED"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			cfg.Stream.Enabled = bVal
		}
	}
	if val, ok := os.LookupEnv("ENV_STREAM_PORT"); ok {
		cfg.Stream.Port = val
	}
	if val, ok := os.LookupEnv("ENV_STREAM_INTERVAL"); ok {
		if dur, err := time.ParseDuration(val); err == nil {
			cfg.Stream.Interval = dur
		}
	}
}
