//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package simd

// Mul computes the carry-less product of a and b. The 256-bit result
// is returned as the low and high 128-bit halves.
func Mul(a, b Block) (lo, hi Block) {
	return mul128(a, b)
}

// Reduce reduces the 256-bit polynomial (lo, hi) modulo
// x^128 + x^7 + x^2 + x + 1. The operands use the natural bit order
// without bit reflection.
func Reduce(lo, hi Block) Block {
	// hi·x^128 = hi·(x^7 + x^2 + x + 1)
	r := lo.Xor(hi).Xor(hi.shl(1)).Xor(hi.shl(2)).Xor(hi.shl(7))

	// Bits shifted past x^127 are folded once more. They fit in 7
	// bits so the second fold cannot overflow.
	o := hi.Hi>>63 ^ hi.Hi>>62 ^ hi.Hi>>57
	r.Lo ^= o ^ o<<1 ^ o<<2 ^ o<<7

	return r
}

// MulReduce computes a·b in GF(2^128).
func MulReduce(a, b Block) Block {
	return Reduce(Mul(a, b))
}

// InnerProduct computes the unreduced sum of a[i]·b[i]. The function
// panics if the vectors have different lengths.
func InnerProduct(a, b []Block) (lo, hi Block) {
	if len(a) != len(b) {
		panic("simd: vector length mismatch")
	}
	for i := range a {
		l, h := mul128(a[i], b[i])
		lo = lo.Xor(l)
		hi = hi.Xor(h)
	}
	return
}

func clmul64(a, b uint64) (lo, hi uint64) {
	for i := 0; i < 64; i++ {
		if (b>>i)&1 != 0 {
			if i == 0 {
				lo ^= a
			} else {
				lo ^= a << i
				hi ^= a >> (64 - i)
			}
		}
	}
	return
}

func mul128Generic(a, b Block) (lo, hi Block) {
	p00lo, p00hi := clmul64(a.Lo, b.Lo)
	p01lo, p01hi := clmul64(a.Lo, b.Hi)
	p10lo, p10hi := clmul64(a.Hi, b.Lo)
	p11lo, p11hi := clmul64(a.Hi, b.Hi)

	midLo := p01lo ^ p10lo
	midHi := p01hi ^ p10hi

	lo.Lo = p00lo
	lo.Hi = p00hi ^ midLo

	hi.Lo = midHi ^ p11lo
	hi.Hi = p11hi

	return
}
