//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package simd

import (
	"math/rand"
	"testing"
)

func mul128Ref(a, b Block) (lo, hi Block) {
	var r [256]bool

	for i := 0; i < 128; i++ {
		if a.Bit(i) == 0 {
			continue
		}
		for j := 0; j < 128; j++ {
			if b.Bit(j) == 1 {
				r[i+j] = !r[i+j]
			}
		}
	}
	for i := 0; i < 256; i++ {
		if !r[i] {
			continue
		}
		switch {
		case i < 64:
			lo.Lo |= 1 << i
		case i < 128:
			lo.Hi |= 1 << (i - 64)
		case i < 192:
			hi.Lo |= 1 << (i - 128)
		default:
			hi.Hi |= 1 << (i - 192)
		}
	}
	return
}

func randomBlock(rng *rand.Rand) Block {
	return Block{
		Lo: rng.Uint64(),
		Hi: rng.Uint64(),
	}
}

func TestMul128Basic(t *testing.T) {
	zero := Block{}
	one := Block{Lo: 1}

	lo, hi := Mul(zero, Block{0xdeadbeef, 0x12345678})
	if lo != zero || hi != zero {
		t.Fatal("0*x != 0")
	}

	x := Block{0xabcdef, 0x1234}
	lo, hi = Mul(one, x)
	if lo != x || hi != zero {
		t.Fatal("1*x != x")
	}

	a := Block{Lo: 2}
	lo, hi = Mul(a, a)
	if lo.Lo != 4 || lo.Hi != 0 || hi != zero {
		t.Fatal("x*x != x^2")
	}
}

func TestMul128Cross(t *testing.T) {
	// x^63 * x^63 = x^126
	a := Block{Lo: 1 << 63}

	lo, hi := Mul(a, a)
	if lo != (Block{Hi: 1 << 62}) || hi != (Block{}) {
		t.Fatalf("got lo=%v hi=%v", lo, hi)
	}

	// x^127 * x^127 = x^254
	a = Block{Hi: 1 << 63}
	lo, hi = Mul(a, a)
	if lo != (Block{}) || hi != (Block{Hi: 1 << 62}) {
		t.Fatalf("got lo=%v hi=%v", lo, hi)
	}
}

func TestMul128Random(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		a := randomBlock(rng)
		b := randomBlock(rng)

		lo1, hi1 := Mul(a, b)
		lo2, hi2 := mul128Ref(a, b)
		lo3, hi3 := Portable{}.Mul(a, b)

		if lo1 != lo2 || hi1 != hi2 {
			t.Fatalf("mismatch on %v * %v", a, b)
		}
		if lo1 != lo3 || hi1 != hi3 {
			t.Fatalf("accelerated != portable on %v * %v", a, b)
		}
	}
}

func TestReduce(t *testing.T) {
	// x^127 * x = x^128 = x^7 + x^2 + x + 1
	r := MulReduce(Block{Hi: 1 << 63}, Block{Lo: 2})
	if r != (Block{Lo: 0x87}) {
		t.Fatalf("x^128 = %v, expected 0x87", r)
	}

	// x^255 = x^127 * x^128
	lo, hi := Block{}, Block{Hi: 1 << 63}
	expected := MulReduce(Block{Hi: 1 << 63}, Block{Lo: 0x87})
	if got := Reduce(lo, hi); got != expected {
		t.Fatalf("x^255: got %v, expected %v", got, expected)
	}
}

func TestFieldLaws(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	one := Block{Lo: 1}

	for i := 0; i < 500; i++ {
		a := randomBlock(rng)
		b := randomBlock(rng)
		c := randomBlock(rng)

		if MulReduce(a, one) != a {
			t.Fatalf("a*1 != a for %v", a)
		}
		if MulReduce(a, b) != MulReduce(b, a) {
			t.Fatalf("commutativity failed for %v, %v", a, b)
		}
		ab := MulReduce(MulReduce(a, b), c)
		bc := MulReduce(a, MulReduce(b, c))
		if ab != bc {
			t.Fatalf("associativity failed for %v, %v, %v", a, b, c)
		}
		l := MulReduce(a, b.Xor(c))
		r := MulReduce(a, b).Xor(MulReduce(a, c))
		if l != r {
			t.Fatalf("distributivity failed for %v, %v, %v", a, b, c)
		}
	}
}

func TestInnerProduct(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := make([]Block, 37)
	b := make([]Block, 37)

	var expLo, expHi Block
	for i := range a {
		a[i] = randomBlock(rng)
		b[i] = randomBlock(rng)
		lo, hi := mul128Ref(a[i], b[i])
		expLo = expLo.Xor(lo)
		expHi = expHi.Xor(hi)
	}
	lo, hi := InnerProduct(a, b)
	if lo != expLo || hi != expHi {
		t.Fatalf("InnerProduct mismatch")
	}
}

func TestLoadStore(t *testing.T) {
	data := []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x80,
	}
	b := Load(data)
	if b.Lo != 0x0807060504030201 || b.Hi != 0x800f0e0d0c0b0a09 {
		t.Fatalf("Load: %v", b)
	}
	if b.Bit(127) != 1 || b.Bit(0) != 1 || b.Bit(1) != 0 {
		t.Fatalf("Bit: %v", b)
	}

	short := Load(data[:10])
	if short.Lo != b.Lo || short.Hi != 0x0a09 {
		t.Fatalf("short Load: %v", short)
	}

	var out [10]byte
	b.Store(out[:])
	for i := range out {
		if out[i] != data[i] {
			t.Fatalf("Store: byte %d: %x != %x", i, out[i], data[i])
		}
	}
}

func BenchmarkMul128(b *testing.B) {
	x := Block{0x0123456789abcdef, 0xfedcba9876543210}
	y := Block{0xdeadbeefdeadbeef, 0x1234567812345678}

	for b.Loop() {
		lo, hi := Mul(x, y)
		_ = lo
		_ = hi
	}
}

func BenchmarkMul128Generic(b *testing.B) {
	x := Block{0x0123456789abcdef, 0xfedcba9876543210}
	y := Block{0xdeadbeefdeadbeef, 0x1234567812345678}

	for b.Loop() {
		lo, hi := mul128Generic(x, y)
		_ = lo
		_ = hi
	}
}
