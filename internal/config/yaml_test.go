// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("")
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config, got nil")
	}
	if cfg.Analysis.Mode != DefaultMode {
		t.Errorf("default mode = %q, want %q", cfg.Analysis.Mode, DefaultMode)
	}
	if cfg.Audio.FramesPerBuffer != DefaultFramesPerBuffer {
		t.Errorf("default frames per buffer = %d, want %d", cfg.Audio.FramesPerBuffer, DefaultFramesPerBuffer)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Errorf("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoadConfig_UnmarshalError(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, ":\n:bad")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Error("expected unmarshal error, got nil or wrong error")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, `
analysis:
  mode: waveform
  smoothing: 0.5
  bands: 12
audio:
  frames_per_buffer: 1024
stream:
  enabled: true
  port: "9999"
  interval: 33ms
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Analysis.Mode != "waveform" {
		t.Errorf("mode = %q, want waveform", cfg.Analysis.Mode)
	}
	if cfg.Analysis.Smoothing != 0.5 {
		t.Errorf("smoothing = %g, want 0.5", cfg.Analysis.Smoothing)
	}
	if cfg.Analysis.Bands != 12 {
		t.Errorf("bands = %d, want 12", cfg.Analysis.Bands)
	}
	if cfg.Audio.FramesPerBuffer != 1024 {
		t.Errorf("frames_per_buffer = %d, want 1024", cfg.Audio.FramesPerBuffer)
	}
	if !cfg.Stream.Enabled || cfg.Stream.Port != "9999" || cfg.Stream.Interval != 33*time.Millisecond {
		t.Errorf("stream = %+v, want enabled on :9999 at 33ms", cfg.Stream)
	}
	// Untouched fields keep defaults.
	if cfg.Audio.SampleRate != DefaultSampleRate {
		t.Errorf("sample_rate = %g, want default %d", cfg.Audio.SampleRate, DefaultSampleRate)
	}
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad mode", "analysis:\n  mode: fancy\n", "analysis.mode"},
		{"bad sample rate", "audio:\n  sample_rate: 100\n", "audio.sample_rate"},
		{"bad frames", "audio:\n  frames_per_buffer: 500\n", "frames_per_buffer"},
		{"oversized frames", "audio:\n  frames_per_buffer: 16384\n", "frames_per_buffer"},
		{"bad channels", "audio:\n  channels: 0\n", "audio.channels"},
		{"bad bands", "analysis:\n  bands: 0\n", "analysis.bands"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeTempConfig(t, tt.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ENV_STREAM_ENABLED", "true")
	t.Setenv("ENV_STREAM_PORT", "7070")
	t.Setenv("ENV_STREAM_INTERVAL", "25ms")

	path := writeTempConfig(t, "stream:\n  enabled: false\n  port: \"8080\"\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Stream.Enabled {
		t.Error("env override should enable streaming")
	}
	if cfg.Stream.Port != "7070" {
		t.Errorf("port = %q, want env override 7070", cfg.Stream.Port)
	}
	if cfg.Stream.Interval != 25*time.Millisecond {
		t.Errorf("interval = %v, want 25ms", cfg.Stream.Interval)
	}
}
