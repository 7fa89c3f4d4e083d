package internal

import "math/bits"

// Ilog2Ceil returns the number of bits needed to represent every integer in
// [0, n] unsigned: 0 for n == 0, otherwise bits.Len32(n) (equivalently
// ceil(log2(n+1)), without the overflow hazard of evaluating n+1 at the
// uint32 boundary). Every group width and reference field in the complex
// packing templates is sized with this.
func Ilog2Ceil(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	return uint32(bits.Len32(n))
}
