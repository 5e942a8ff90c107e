// SPDX-License-Identifier: MIT
/*
Package analyzer implements the real-time audio analysis engine feeding the
visualization layer:
- Sample ingestion on the audio callback thread (no locks, no allocation)
- Block FFT with Hann windowing and magnitude normalization
- Exponentially smoothed spectrum published across threads
- Derived views: RMS/peak levels, mirrored spectrum, frequency bands

Thread Safety:
- The audio thread calls Push/PushInterleaved/PushBuffer
- The UI thread calls the Spectrum/Level/Band getters
- Level scalars and configuration knobs are plain atomics
- The smoothed spectrum is guarded by a short-held spinlock scoped to the
  copy/update, never across the FFT itself
*/
package analyzer

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync/atomic"

	"audioviz/pkg/bitint"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// Mode selects the analysis frame size. The choice is permanent for the
// lifetime of the Analyzer; changing it requires constructing a new one.
type Mode int

const (
	// ModeWaveform uses a small frame for fast, coarse updates suited to
	// centered waveform-style displays.
	ModeWaveform Mode = iota
	// ModeSpectrum uses a large frame for detailed frequency band displays.
	ModeSpectrum
)

// ParseMode maps a configuration string to an analysis mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "waveform":
		return ModeWaveform, nil
	case "spectrum":
		return ModeSpectrum, nil
	}
	return 0, fmt.Errorf("unknown analysis mode %q", s)
}

// Tuned constants shared with the visualization layer.
const (
	WaveformFFTSize = 256
	SpectrumFFTSize = 2048

	// DefaultSmoothing is the spectral smoothing time constant. Higher
	// values respond slower and smoother.
	DefaultSmoothing = 0.8

	// DefaultSensitivity leaves query output unscaled.
	DefaultSensitivity = 1.0

	// levelSmoothingFactor is fixed and distinct from the spectral
	// smoothing constant; tuned for level-meter responsiveness.
	levelSmoothingFactor = 0.2

	// MaxBlockFrames bounds the per-call mixdown scratch. Larger blocks
	// are truncated rather than grown, keeping the audio thread
	// allocation-free.
	MaxBlockFrames = 8192
)

// Analyzer converts raw sample blocks into smoothed spectral and level data.
// Construct with New; the zero value is not usable.
type Analyzer struct {
	fftSize  int
	binCount int
	fft      *fourier.FFT

	// Audio-thread state. Owned exclusively by the ingestion path and
	// never read by the query thread.
	fifo       []float64    // accumulation buffer, one analysis frame long
	fifoIndex  int          // write cursor into fifo
	input      []float64    // windowed time-domain working buffer
	coeffs     []complex128 // FFT output scratch (fftSize/2 + 1)
	window     []float64    // Hann coefficients
	monoMix    []float32    // mixdown scratch for interleaved input
	transforms uint64       // count of completed transforms, audio thread only

	// Cross-thread boundary. The audio thread writes under the lock inside
	// the transform; the query thread copies out under the same lock.
	mu       spinLock
	smoothed []float64

	rms         atomicFloat64
	peak        atomicFloat64
	smoothing   atomicFloat64
	sensitivity atomicFloat64
}

// New creates an Analyzer for the given mode with all buffers pre-allocated.
// No further allocation happens on the ingestion path.
func New(mode Mode) *Analyzer {
	fftSize := WaveformFFTSize
	if mode == ModeSpectrum {
		fftSize = SpectrumFFTSize
	}
	if !bitint.IsPowerOfTwo(fftSize) {
		panic("analyzer: frame size must be a power of 2")
	}

	// Hann coefficients: w[i] = 0.5 * (1 - cos(2*pi*i/(N-1))).
	coeffs := make([]float64, fftSize)
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	window.Hann(coeffs)

	a := &Analyzer{
		fftSize:  fftSize,
		binCount: fftSize / 2,
		fft:      fourier.NewFFT(fftSize),
		fifo:     make([]float64, fftSize),
		input:    make([]float64, fftSize),
		coeffs:   make([]complex128, fftSize/2+1),
		window:   coeffs,
		monoMix:  make([]float32, MaxBlockFrames),
		smoothed: make([]float64, fftSize/2),
	}
	a.smoothing.Store(DefaultSmoothing)
	a.sensitivity.Store(DefaultSensitivity)
	return a
}

// Push ingests a block of mono samples from the audio callback.
// Performance Critical (Hot Path):
// - No allocations, no blocking, no error returns
// - Empty input is a silent no-op
// - May run more than one transform if the block spans multiple frames
func (a *Analyzer) Push(samples []float32) {
	n := len(samples)
	if n == 0 {
		return
	}

	// Level statistics for the whole block.
	var sumSquares, peak float64
	for _, s := range samples {
		f := float64(s)
		sumSquares += f * f
		if abs := math.Abs(f); abs > peak {
			peak = abs
		}
	}
	blockRMS := math.Sqrt(sumSquares / float64(n))

	// RMS is smoothed toward the instantaneous block value; peak is stored
	// raw so the UI can show transient hits.
	cur := a.rms.Load()
	a.rms.Store(clampUnit(smoothToward(cur, blockRMS, levelSmoothingFactor)))
	a.peak.Store(clampUnit(peak))

	// Accumulate into the frame FIFO, transforming each time it fills.
	for _, s := range samples {
		a.fifo[a.fifoIndex] = float64(s)
		a.fifoIndex++
		if a.fifoIndex >= a.fftSize {
			a.transform()
			a.fifoIndex = 0
		}
	}
}

// transform runs one windowed magnitude FFT over the filled FIFO and folds
// the normalized result into the published spectrum. Called only from the
// ingestion path with a full frame.
func (a *Analyzer) transform() {
	for i, v := range a.fifo {
		a.input[i] = v * a.window[i]
	}
	a.fft.Coefficients(a.coeffs, a.input)

	k := clampUnit(a.smoothing.Load())
	norm := 2.0 / float64(a.fftSize)

	// The lock covers only the smoothing recursion over pre-computed
	// magnitudes, never the FFT above.
	a.mu.Lock()
	for i := 0; i < a.binCount; i++ {
		v := clampUnit(cmplx.Abs(a.coeffs[i]) * norm)
		a.smoothed[i] = a.smoothed[i]*k + v*(1-k)
	}
	a.mu.Unlock()

	a.transforms++
}

// Spectrum returns the smoothed spectrum scaled by sensitivity and clamped
// to [0,1]. Allocates the result slice; UI-thread use only. Readers wanting
// to avoid the allocation should use SpectrumInto.
func (a *Analyzer) Spectrum() []float64 {
	out := make([]float64, a.binCount)
	_ = a.SpectrumInto(out)
	return out
}

// SpectrumInto copies the smoothed spectrum into dst, applying sensitivity
// scaling and clamping. dst must be exactly BinCount long.
func (a *Analyzer) SpectrumInto(dst []float64) error {
	if len(dst) != a.binCount {
		return fmt.Errorf("analyzer: destination length %d does not match bin count %d", len(dst), a.binCount)
	}
	a.copySmoothed(dst)
	sens := a.Sensitivity()
	if sens != 1.0 {
		for i, v := range dst {
			dst[i] = clampUnit(v * sens)
		}
	}
	return nil
}

// copySmoothed snapshots the raw smoothed bins under the lock. All derived
// math happens on the snapshot after the lock is released, bounding the
// critical section to a fixed-size copy.
func (a *Analyzer) copySmoothed(dst []float64) {
	a.mu.Lock()
	copy(dst, a.smoothed)
	a.mu.Unlock()
}

// RMSLevel returns the smoothed RMS level in [0,1].
func (a *Analyzer) RMSLevel() float64 {
	return a.rms.Load()
}

// PeakLevel returns the instantaneous peak level in [0,1] of the most
// recently ingested block.
func (a *Analyzer) PeakLevel() float64 {
	return a.peak.Load()
}

// SetSmoothingTimeConstant sets the spectral smoothing constant, clamped to
// [0,1]. Safe to call from any thread.
func (a *Analyzer) SetSmoothingTimeConstant(smoothing float64) {
	a.smoothing.Store(clampUnit(smoothing))
}

// SmoothingTimeConstant returns the current spectral smoothing constant.
func (a *Analyzer) SmoothingTimeConstant() float64 {
	return a.smoothing.Load()
}

// SetSensitivity sets the output scaling multiplier, clamped to >= 0.
// Safe to call from any thread.
func (a *Analyzer) SetSensitivity(sensitivity float64) {
	a.sensitivity.Store(math.Max(0, sensitivity))
}

// Sensitivity returns the current output scaling multiplier.
func (a *Analyzer) Sensitivity() float64 {
	return a.sensitivity.Load()
}

// FFTSize returns the analysis frame size in samples.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// BinCount returns the number of published frequency bins (FFTSize / 2).
func (a *Analyzer) BinCount() int { return a.binCount }

// smoothToward moves current toward target by the given factor.
func smoothToward(current, target, factor float64) float64 {
	return current + (target-current)*factor
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// atomicFloat64 stores a float64 through its bit pattern. Last-writer-wins
// is fine for these values; staleness of one frame is acceptable.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (f *atomicFloat64) Store(v float64) { f.bits.Store(math.Float64bits(v)) }
func (f *atomicFloat64) Load() float64   { return math.Float64frombits(f.bits.Load()) }
