//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package commit

import (
	"bytes"
	"testing"

	"github.com/markkurossi/splitcommit/simd"
)

// naiveCombination computes the linear combination row i as the sum
// of α^(c/128+1)·x^(c%128) over the commitments c with the bit i
// set.
func naiveCombination(buf *Buffer, rows int, alpha simd.Block,
	numChecks int) *proof {

	result := newProof(rows, numChecks)
	for i := 0; i < rows; i++ {
		var acc simd.Block
		weight := alpha
		for c := 0; c < buf.NumEntries(); c++ {
			if c > 0 && c%NumParChecks == 0 {
				weight = simd.MulReduce(weight, alpha)
			}
			if getBit(buf.Entry(c), i) == 0 {
				continue
			}
			var x simd.Block
			if k := c % NumParChecks; k < 64 {
				x.Lo = 1 << k
			} else {
				x.Hi = 1 << (k - 64)
			}
			acc = acc.Xor(simd.MulReduce(weight, x))
		}
		acc.Store(result.row(i))
	}
	return result
}

func TestLinearCombination(t *testing.T) {
	rand := NewSeededReader(42)

	var seed [CSecBytes]byte
	rand.Read(seed[:])
	alpha := simd.Load(seed[:])

	for _, n := range []int{1, 7, 128, 129, 300, 1000} {
		for _, entrySize := range []int{1, 5, 16, 33} {
			buf := NewBuffer(n, entrySize)
			rand.Read(buf.Data())

			rows := entrySize * 8
			for _, numChecks := range []int{BatchDecommit, Consistency} {
				got := linearCombination(buf, rows, alpha, numChecks)
				expected := naiveCombination(buf, rows, alpha, numChecks)
				if !bytes.Equal(got.data, expected.data) {
					t.Fatalf("n=%d, size=%d, checks=%d: mismatch",
						n, entrySize, numChecks)
				}
			}
		}
	}
}

func TestLinearCombinationLinear(t *testing.T) {
	rand := NewSeededReader(43)

	var seed [CSecBytes]byte
	rand.Read(seed[:])
	alpha := simd.Load(seed[:])

	const n = 777
	a := NewBuffer(n, 33)
	b := NewBuffer(n, 33)
	sum := NewBuffer(n, 33)
	rand.Read(a.Data())
	rand.Read(b.Data())
	for i := range sum.Data() {
		sum.Data()[i] = a.Data()[i] ^ b.Data()[i]
	}
	pa := linearCombination(a, 264, alpha, Consistency)
	pb := linearCombination(b, 264, alpha, Consistency)
	ps := linearCombination(sum, 264, alpha, Consistency)

	if !equalXor(pa.data, pb.data, ps.data) {
		t.Fatalf("linear combination is not linear")
	}
}

func TestTransposeBlind(t *testing.T) {
	rand := NewSeededReader(44)

	for _, n := range []int{40, 100, 128, 200} {
		blind := NewBuffer(n, 33)
		rand.Read(blind.Data())

		m := transposeBlind(blind, 264)
		if m.Rows != 264 || m.Cols() != NumParChecks {
			t.Fatalf("invalid blind matrix %v", m)
		}
		for i := 0; i < 264; i++ {
			for c := 0; c < NumParChecks; c++ {
				var expected uint
				if c < n {
					expected = getBit(blind.Entry(c), i)
				}
				if m.Bit(i, c) != expected {
					t.Fatalf("n=%d: bit (%d,%d) mismatch", n, i, c)
				}
			}
		}
	}
}
