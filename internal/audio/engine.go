// SPDX-License-Identifier: MIT
/*
Package audio owns the PortAudio capture path. The stream callback is the
real-time side of the system: it feeds raw interleaved float32 blocks into
the analyzer and must never block, allocate, or log.

Thread Safety:
- The callback runs on the PortAudio audio thread
- Gate state uses atomics so the UI can toggle it mid-stream
- All buffers are pre-allocated at engine construction
*/
package audio

import (
	"fmt"
	"runtime"
	"time"

	"audioviz/internal/analyzer"
	"audioviz/internal/config"
	applog "audioviz/internal/log"

	"github.com/gordonklaus/portaudio"
)

// Engine captures audio from an input device and drives the analyzer.
type Engine struct {
	config   *config.Config
	analyzer *analyzer.Analyzer

	// Audio input handling.
	inputBuffer  []float32
	silence      []float32 // fed to the analyzer while the gate is closed
	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream

	// Noise gate for signal conditioning.
	gate gateState
}

// NewEngine wires a capture engine to an existing analyzer. The analyzer's
// mode and the engine's buffer sizes are both fixed here; reconfiguration
// means building a new engine.
func NewEngine(cfg *config.Config, an *analyzer.Analyzer) (*Engine, error) {
	if an == nil {
		return nil, fmt.Errorf("engine requires a non-nil analyzer")
	}

	inputDevice, err := InputDevice(cfg.Audio.DeviceID)
	if err != nil {
		return nil, err
	}

	// Pre-allocate I/O buffers sized for frames × channels.
	inputSize := cfg.Audio.FramesPerBuffer * cfg.Audio.Channels

	e := &Engine{
		config:      cfg,
		analyzer:    an,
		inputBuffer: make([]float32, inputSize),
		silence:     make([]float32, inputSize),
		inputDevice: inputDevice,
	}
	e.gate.setEnabled(cfg.Audio.GateEnabled)
	e.gate.setThreshold(cfg.Audio.GateThreshold)

	if cfg.Audio.LowLatency {
		e.inputLatency = inputDevice.DefaultLowInputLatency
	} else {
		e.inputLatency = inputDevice.DefaultHighInputLatency
	}

	applog.Infof("Engine: input device %q, %d ch @ %.0f Hz, %d frames/buffer",
		inputDevice.Name, cfg.Audio.Channels, cfg.Audio.SampleRate, cfg.Audio.FramesPerBuffer)

	return e, nil
}

// StartInputStream opens and starts the capture stream. From the first
// callback on, the hot path is live.
func (e *Engine) StartInputStream() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: e.config.Audio.Channels,
			Device:   e.inputDevice,
			Latency:  e.inputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: 0,
			Device:   nil,
		},
		FramesPerBuffer: e.config.Audio.FramesPerBuffer,
		SampleRate:      e.config.Audio.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, e.processInputStream)
	if err != nil {
		return fmt.Errorf("failed to open input stream: %w", err)
	}
	e.inputStream = stream

	if err := e.inputStream.Start(); err != nil {
		e.inputStream.Close()
		e.inputStream = nil
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	return nil
}

// StopInputStream stops and closes the capture stream if running.
func (e *Engine) StopInputStream() error {
	if e.inputStream == nil {
		return nil
	}
	if err := e.inputStream.Stop(); err != nil {
		return err
	}
	if err := e.inputStream.Close(); err != nil {
		return err
	}
	e.inputStream = nil
	return nil
}

// Close releases all engine resources.
func (e *Engine) Close() error {
	return e.StopInputStream()
}

// Analyzer returns the analyzer this engine feeds; consumers query it for
// spectra and levels.
func (e *Engine) Analyzer() *analyzer.Analyzer {
	return e.analyzer
}

// processInputStream is the capture callback.
// Performance Critical (Hot Path):
// - Pre-allocated buffers only, no allocations
// - No logging, no syscalls
func (e *Engine) processInputStream(in []float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	n := copy(e.inputBuffer, in)
	e.processBlock(e.inputBuffer[:n])
}

// processBlock routes one interleaved block through the gate and into the
// analyzer. Below the gate threshold the analyzer is fed silence instead of
// the raw block, so published levels and spectra decay to zero rather than
// freezing at their last values.
func (e *Engine) processBlock(block []float32) {
	if e.gate.enabled() {
		var maxAmplitude float32
		for _, s := range block {
			if s < 0 {
				s = -s
			}
			if s > maxAmplitude {
				maxAmplitude = s
			}
		}
		if float64(maxAmplitude) <= e.gate.threshold() {
			e.analyzer.PushInterleaved(e.silence[:len(block)], e.config.Audio.Channels)
			return
		}
	}

	e.analyzer.PushInterleaved(block, e.config.Audio.Channels)
}
