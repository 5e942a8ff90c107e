// SPDX-License-Identifier: MIT
package analyzer

import (
	"math"
	"testing"
)

func TestMirroredSpectrumStructure(t *testing.T) {
	t.Parallel()
	a := New(ModeWaveform)

	// Distinct per-bin values so source indices are recoverable.
	a.mu.Lock()
	for i := range a.smoothed {
		a.smoothed[i] = float64(i) / 1000.0
	}
	a.mu.Unlock()

	total := a.BinCount()
	start := int(float64(total) * mirrorRangeStart)
	end := int(float64(total) * mirrorRangeEnd)
	half := (end - start) / 2

	out := a.MirroredSpectrum()
	if len(out) != 2*half {
		t.Fatalf("mirrored length = %d, want %d", len(out), 2*half)
	}

	// Left half reversed, then right half forward, both drawn from the
	// same source bins, so the output is palindromic.
	for k := 0; k < half; k++ {
		wantSrc := float64(start+half-1-k) / 1000.0
		if math.Abs(out[k]-wantSrc) > 1e-12 {
			t.Errorf("out[%d] = %g, want source bin %d (%g)", k, out[k], start+half-1-k, wantSrc)
		}
		if out[k] != out[len(out)-1-k] {
			t.Errorf("mirror asymmetry at %d: %g != %g", k, out[k], out[len(out)-1-k])
		}
	}
}

func TestMirroredSpectrumDegenerateRange(t *testing.T) {
	t.Parallel()

	// A bin count small enough that the fractional cutoffs collapse to an
	// empty sub-range.
	a := &Analyzer{
		fftSize:  8,
		binCount: 4,
		smoothed: make([]float64, 4),
	}
	a.sensitivity.Store(1)

	out := a.MirroredSpectrum()
	if out == nil {
		t.Fatal("degenerate range must return an empty slice, not nil")
	}
	if len(out) != 0 {
		t.Errorf("degenerate range output length = %d, want 0", len(out))
	}
}

func TestMirroredSpectrumAppliesSensitivity(t *testing.T) {
	t.Parallel()
	a := New(ModeWaveform)
	a.SetSensitivity(2.0)

	a.mu.Lock()
	for i := range a.smoothed {
		a.smoothed[i] = 0.3
	}
	a.mu.Unlock()

	for i, v := range a.MirroredSpectrum() {
		if math.Abs(v-0.6) > 1e-12 {
			t.Fatalf("mirrored[%d] = %g, want 0.6", i, v)
		}
	}
}
