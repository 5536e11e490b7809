//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package simd

// Ops defines the vectorizable primitives. All implementations
// produce bit-identical results. The package level Mul and Transpose
// functions are the Accelerated implementations.
type Ops interface {
	// Mul computes the 256-bit carry-less product of a and b.
	Mul(a, b Block) (lo, hi Block)

	// Reduce reduces the 256-bit value modulo x^128+x^7+x^2+x+1.
	Reduce(lo, hi Block) Block

	// Transpose transposes src into dst.
	Transpose(dst, src BitMatrix)
}

var (
	_ Ops = Accelerated{}
	_ Ops = Portable{}
)

// Accelerated implements Ops with the CLMUL instruction when the CPU
// supports it and with word-parallel 8x8 bit transposes.
type Accelerated struct{}

// Mul implements Ops.Mul.
func (Accelerated) Mul(a, b Block) (lo, hi Block) {
	return mul128(a, b)
}

// Reduce implements Ops.Reduce.
func (Accelerated) Reduce(lo, hi Block) Block {
	return Reduce(lo, hi)
}

// Transpose implements Ops.Transpose.
func (Accelerated) Transpose(dst, src BitMatrix) {
	transposeSWAR(dst, src)
}

// Portable implements Ops with plain shift-and-xor arithmetic and a
// bit-at-a-time transpose.
type Portable struct{}

// Mul implements Ops.Mul.
func (Portable) Mul(a, b Block) (lo, hi Block) {
	return mul128Generic(a, b)
}

// Reduce implements Ops.Reduce.
func (Portable) Reduce(lo, hi Block) Block {
	return Reduce(lo, hi)
}

// Transpose implements Ops.Transpose.
func (Portable) Transpose(dst, src BitMatrix) {
	transposeBits(dst, src)
}

// HasCLMUL reports whether the carry-less multiplication instruction
// is used.
func HasCLMUL() bool {
	return hasCLMUL
}
