/*
Package bitint provides power-of-2 helpers for FFT frame and buffer sizing.
All operations are O(1), allocation-free, and safe on the real-time path.
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of 2 >= size. Powers of 2 map to
// themselves; zero and negative sizes map to 1. The size-1 in the bit-length
// computation is what keeps exact powers of 2 from doubling.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}

	// int is 64-bit on all platforms we target except 32-bit ARM.
	if ^uint(0)>>63 == 0 {
		return int(1 << (bits.Len64(uint64(size - 1))))
	}
	return int(1 << (bits.Len32(uint32(size - 1))))
}

// IsPowerOfTwo reports whether n is a positive power of 2. Powers of 2 have
// exactly one bit set, so n & (n-1) clears it to zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
