// Package bits provides low-level bit manipulation primitives.
package bits

import "math/bits"

// FastRange32 maps a 64-bit random value uniformly to [0, n) returning uint32.
// Uses the "fastrange" technique: multiply and take high bits.
// This is the standard way to map random words to ranges without a modulo.
func FastRange32(x uint64, n uint32) uint32 {
	if n == 0 {
		return 0
	}
	hi, _ := bits.Mul64(x, uint64(n))
	return uint32(hi)
}

// FastRange64 is FastRange32 for 64-bit ranges.
// The bias is at most n/2^64, far below anything a fixture can observe.
func FastRange64(x uint64, n uint64) uint64 {
	if n == 0 {
		return 0
	}
	hi, _ := bits.Mul64(x, n)
	return hi
}

// DecimalLen returns the number of decimal digits needed to print v.
func DecimalLen(v uint64) int {
	n := 1
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}
