// SPDX-License-Identifier: MIT
package analyzer

// Fractional bin cutoffs for the mirrored view. The 5%..40% window focuses
// on the voice band, matching the reference visualization.
const (
	mirrorRangeStart = 0.05
	mirrorRangeEnd   = 0.40
)

// MirroredSpectrum returns a symmetric arrangement of the mid-band spectrum
// for centered waveform-style displays: the reversed left half of the
// sub-range followed by its forward right half. Sensitivity scaling and
// clamping are inherited from Spectrum. Degenerate sub-ranges produce an
// empty, non-nil slice.
func (a *Analyzer) MirroredSpectrum() []float64 {
	freq := a.Spectrum()

	total := len(freq)
	start := int(float64(total) * mirrorRangeStart)
	end := int(float64(total) * mirrorRangeEnd)
	half := (end - start) / 2
	if half <= 0 {
		return []float64{}
	}

	out := make([]float64, 0, 2*half)
	for i := half - 1; i >= 0; i-- {
		if idx := start + i; idx < total {
			out = append(out, freq[idx])
		}
	}
	for i := 0; i < half; i++ {
		if idx := start + i; idx < total {
			out = append(out, freq[idx])
		}
	}
	return out
}
