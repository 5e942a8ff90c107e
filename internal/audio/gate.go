// SPDX-License-Identifier: MIT
package audio

import (
	"math"
	"sync/atomic"
)

// gateState holds the noise gate knobs. Both are written from the UI thread
// and read from the audio callback, hence the atomics.
type gateState struct {
	on    atomic.Bool
	level atomic.Uint64 // threshold as float64 bits, 0..1 amplitude
}

func (g *gateState) enabled() bool      { return g.on.Load() }
func (g *gateState) setEnabled(v bool)  { g.on.Store(v) }
func (g *gateState) threshold() float64 { return math.Float64frombits(g.level.Load()) }

func (g *gateState) setThreshold(v float64) {
	if v < 0.0 {
		v = 0.0
	}
	if v > 1.0 {
		v = 1.0
	}
	g.level.Store(math.Float64bits(v))
}

// EnableGate turns the noise gate on.
func (e *Engine) EnableGate() {
	e.gate.setEnabled(true)
}

// DisableGate turns the noise gate off.
func (e *Engine) DisableGate() {
	e.gate.setEnabled(false)
}

// GateEnabled reports whether the noise gate is currently on.
func (e *Engine) GateEnabled() bool {
	return e.gate.enabled()
}

// SetGateThreshold adjusts the gate threshold amplitude in 0.0-1.0, where
// 0 keeps the gate always open and 1 always closed.
func (e *Engine) SetGateThreshold(threshold float64) {
	e.gate.setThreshold(threshold)
}

// GateThreshold returns the current gate threshold amplitude.
func (e *Engine) GateThreshold() float64 {
	return e.gate.threshold()
}
