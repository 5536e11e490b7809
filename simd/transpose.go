//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package simd

import (
	"encoding/binary"
	"fmt"
)

// BitMatrix describes a row-major bit matrix stored in Data. Each row
// is Stride bytes long and the bit (r, c) is the bit c%8 of the byte
// Data[r*Stride+c/8]. The matrix has Stride*8 columns.
type BitMatrix struct {
	Data   []byte
	Rows   int
	Stride int
}

// NewBitMatrix creates a zero matrix with the given shape.
func NewBitMatrix(rows, stride int) BitMatrix {
	return BitMatrix{
		Data:   make([]byte, rows*stride),
		Rows:   rows,
		Stride: stride,
	}
}

func (m BitMatrix) String() string {
	return fmt.Sprintf("%dx%d", m.Rows, m.Stride*8)
}

// Cols returns the number of columns in the matrix.
func (m BitMatrix) Cols() int {
	return m.Stride * 8
}

// Row returns the row r of the matrix.
func (m BitMatrix) Row(r int) []byte {
	return m.Data[r*m.Stride : (r+1)*m.Stride]
}

// Bit returns the bit (r, c).
func (m BitMatrix) Bit(r, c int) uint {
	return uint(m.Data[r*m.Stride+c/8]>>(c%8)) & 1
}

// SetBit sets the bit (r, c) to v.
func (m BitMatrix) SetBit(r, c int, v uint) {
	idx := r*m.Stride + c/8
	mask := byte(1 << (c % 8))
	if v&1 != 0 {
		m.Data[idx] |= mask
	} else {
		m.Data[idx] &^= mask
	}
}

func (m BitMatrix) check() {
	if m.Rows < 0 || m.Stride < 0 || len(m.Data) < m.Rows*m.Stride {
		panic(fmt.Sprintf("simd: invalid bit matrix %v: len=%d",
			m, len(m.Data)))
	}
}

// Transpose writes the transpose of src into dst: the bit (c, r) of
// dst is set to the bit (r, c) of src. The source rows beyond
// dst.Cols() and the source columns beyond dst.Rows are dropped.
// Destination bits not covered by src are cleared.
func Transpose(dst, src BitMatrix) {
	transposeSWAR(dst, src)
}

func transposeSWAR(dst, src BitMatrix) {
	dst.check()
	src.check()
	clear(dst.Data[:dst.Rows*dst.Stride])

	rows := min(src.Rows, dst.Cols())
	cols := min(src.Cols(), dst.Rows)

	var tmp [8]byte
	for r := 0; r < rows; r += 8 {
		n := min(8, rows-r)
		for cb := 0; cb*8 < cols; cb++ {
			var x uint64
			for i := 0; i < n; i++ {
				x |= uint64(src.Data[(r+i)*src.Stride+cb]) << (8 * i)
			}
			if x == 0 {
				continue
			}
			x = transpose8x8(x)

			binary.LittleEndian.PutUint64(tmp[:], x)
			k := min(8, cols-cb*8)
			for j := 0; j < k; j++ {
				dst.Data[(cb*8+j)*dst.Stride+r/8] = tmp[j]
			}
		}
	}
}

// transpose8x8 transposes the 8x8 bit matrix x where byte i holds the
// row i and bit j of the byte the column j.
func transpose8x8(x uint64) uint64 {
	t := (x ^ (x >> 7)) & 0x00AA00AA00AA00AA
	x ^= t ^ (t << 7)
	t = (x ^ (x >> 14)) & 0x0000CCCC0000CCCC
	x ^= t ^ (t << 14)
	t = (x ^ (x >> 28)) & 0x00000000F0F0F0F0
	x ^= t ^ (t << 28)
	return x
}

func transposeBits(dst, src BitMatrix) {
	dst.check()
	src.check()
	clear(dst.Data[:dst.Rows*dst.Stride])

	rows := min(src.Rows, dst.Cols())
	cols := min(src.Cols(), dst.Rows)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if src.Bit(r, c) != 0 {
				dst.SetBit(c, r, 1)
			}
		}
	}
}
