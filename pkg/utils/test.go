package utils

import "math"

// GenerateSineWave produces a float32 sine block at the given frequency,
// scaled to 90% full amplitude.
func GenerateSineWave(size int, sampleRate, frequency float64) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = float32(math.Sin(2*math.Pi*frequency*t) * 0.9)
	}
	return buffer
}

// GenerateBinAlignedSine produces one analysis frame of a sine whose
// frequency lands exactly on the given FFT bin, so its energy concentrates
// there instead of leaking across the spectrum.
func GenerateBinAlignedSine(size, bin int) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		buffer[i] = float32(math.Sin(2*math.Pi*float64(bin)*float64(i)/float64(size)) * 0.9)
	}
	return buffer
}

// GenerateComplexWave produces a 440 Hz fundamental with two harmonics,
// useful for exercising multi-peak spectra.
func GenerateComplexWave(size int, sampleRate float64) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		tm := float64(i) / sampleRate
		signal := math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2
		buffer[i] = float32(signal * 0.9)
	}
	return buffer
}

// FindPeakBin returns the index of the largest magnitude in
// magnitudes[startBin..endBin], clamping the range to the slice.
func FindPeakBin(magnitudes []float64, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}

	if startBin < 0 {
		startBin = 0
	}
	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]
	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}
	return peakBin
}
