// SPDX-License-Identifier: MIT
package analyzer

import "math"

// dB normalization window and the default band query used by the bar-style
// displays. The constants encode a perceptual curve tuned against the
// reference web implementation; they are a fixed behavioral contract, not
// physical units.
const (
	MinDB = -100.0
	MaxDB = -10.0

	DefaultBandCount  = 5
	DefaultBandLoPass = 100
	DefaultBandHiPass = 600
)

// NormalizeDb maps a dB value into [0,1]: clamp to the [MinDB, MaxDB]
// window, rescale linearly, then take a square root to lift the low end.
func NormalizeDb(db float64) float64 {
	if math.IsInf(db, -1) {
		return 0
	}
	clamped := math.Min(MaxDB, math.Max(MinDB, db))
	normalized := 1.0 + clamped/100.0
	return math.Sqrt(normalized)
}

// FrequencyBands partitions the bin range [loPass, hiPass) into numBands
// contiguous chunks (the last may be shorter) and averages each chunk's
// dB-normalized magnitudes. Exact-zero magnitudes take the MinDB floor
// instead of -Inf. Chunks containing no valid bins output 0. Sensitivity
// scaling and clamping are applied last, matching Spectrum.
func (a *Analyzer) FrequencyBands(numBands, loPass, hiPass int) []float64 {
	if numBands <= 0 {
		return []float64{}
	}
	out := make([]float64, numBands)

	snapshot := make([]float64, a.binCount)
	a.copySmoothed(snapshot)

	sliceLen := hiPass - loPass
	if sliceLen > 0 {
		chunk := (sliceLen + numBands - 1) / numBands
		for i := range out {
			var sum float64
			count := 0
			start := loPass + i*chunk
			end := loPass + (i+1)*chunk
			if end > hiPass {
				end = hiPass
			}
			for j := start; j < end; j++ {
				if j < 0 || j >= len(snapshot) {
					continue
				}
				db := MinDB
				if mag := snapshot[j]; mag > 0 {
					db = 20 * math.Log10(mag)
				}
				sum += NormalizeDb(db)
				count++
			}
			if count > 0 {
				out[i] = sum / float64(count)
			}
		}
	}

	sens := a.Sensitivity()
	for i, v := range out {
		out[i] = clampUnit(v * sens)
	}
	return out
}
