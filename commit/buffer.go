//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package commit

import (
	"fmt"

	"github.com/markkurossi/splitcommit/simd"
)

// Buffer implements a contiguous array of fixed size entries.
type Buffer struct {
	data       []byte
	numEntries int
	entrySize  int
}

// NewBuffer creates a zero buffer of numEntries entries of entrySize
// bytes.
func NewBuffer(numEntries, entrySize int) *Buffer {
	if numEntries < 0 || entrySize < 0 {
		panic(fmt.Sprintf("commit: invalid buffer %dx%d",
			numEntries, entrySize))
	}
	return &Buffer{
		data:       make([]byte, numEntries*entrySize),
		numEntries: numEntries,
		entrySize:  entrySize,
	}
}

func (b *Buffer) String() string {
	return fmt.Sprintf("%dx%d", b.numEntries, b.entrySize)
}

// Entry returns the entry i. The returned slice shares the buffer
// memory and it can't be extended past the entry. The function
// panics if i is out of range.
func (b *Buffer) Entry(i int) []byte {
	if i < 0 || i >= b.numEntries {
		panic(fmt.Sprintf("commit: entry %d out of range 0...%d",
			i, b.numEntries))
	}
	start := i * b.entrySize
	end := start + b.entrySize
	return b.data[start:end:end]
}

// Data returns the buffer data.
func (b *Buffer) Data() []byte {
	return b.data
}

// NumEntries returns the number of entries.
func (b *Buffer) NumEntries() int {
	return b.numEntries
}

// EntrySize returns the entry size in bytes.
func (b *Buffer) EntrySize() int {
	return b.entrySize
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() int {
	return len(b.data)
}

// Matrix returns the buffer as a bit matrix where each entry is one
// row.
func (b *Buffer) Matrix() simd.BitMatrix {
	return simd.BitMatrix{
		Data:   b.data,
		Rows:   b.numEntries,
		Stride: b.entrySize,
	}
}

// Slice returns a buffer view of the entries from...to-1.
func (b *Buffer) Slice(from, to int) *Buffer {
	if from < 0 || to > b.numEntries || from > to {
		panic(fmt.Sprintf("commit: slice %d:%d out of range 0...%d",
			from, to, b.numEntries))
	}
	return &Buffer{
		data:       b.data[from*b.entrySize : to*b.entrySize],
		numEntries: to - from,
		entrySize:  b.entrySize,
	}
}

// Clone returns a copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	result := NewBuffer(b.numEntries, b.entrySize)
	copy(result.data, b.data)
	return result
}

// Shares hold the Sender's two shares of the codewords.
type Shares [2]*Buffer

// NumEntries returns the number of codewords in the shares.
func (s Shares) NumEntries() int {
	return s[0].NumEntries()
}

// Slice returns a view of the share entries from...to-1.
func (s Shares) Slice(from, to int) Shares {
	return Shares{s[0].Slice(from, to), s[1].Slice(from, to)}
}
