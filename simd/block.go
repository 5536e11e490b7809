//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package simd implements the bit-matrix transpose and the
// GF(2^128) arithmetic used by the commitment consistency checks.
package simd

import (
	"encoding/binary"
	"fmt"
)

// BlockSize defines the size of a Block in bytes.
const BlockSize = 16

// Block implements a 128-bit value. The Lo word holds bits 0-63 and
// Hi holds bits 64-127. As a field element, bit i is the coefficient
// of x^i.
type Block struct {
	Lo uint64
	Hi uint64
}

func (b Block) String() string {
	return fmt.Sprintf("%016x%016x", b.Hi, b.Lo)
}

// Xor returns b ⊕ o.
func (b Block) Xor(o Block) Block {
	return Block{
		Lo: b.Lo ^ o.Lo,
		Hi: b.Hi ^ o.Hi,
	}
}

// Bit returns the bit i of the block.
func (b Block) Bit(i int) uint {
	if i < 64 {
		return uint(b.Lo>>i) & 1
	}
	return uint(b.Hi>>(i-64)) & 1
}

// Load loads a block from the little-endian bytes in data. If data is
// shorter than BlockSize, the missing bytes are zero.
func Load(data []byte) Block {
	if len(data) >= BlockSize {
		return Block{
			Lo: binary.LittleEndian.Uint64(data[0:8]),
			Hi: binary.LittleEndian.Uint64(data[8:16]),
		}
	}
	var buf [BlockSize]byte
	copy(buf[:], data)
	return Load(buf[:])
}

// Store stores the block as little-endian bytes into data. If data is
// shorter than BlockSize, the block is truncated.
func (b Block) Store(data []byte) {
	if len(data) >= BlockSize {
		binary.LittleEndian.PutUint64(data[0:8], b.Lo)
		binary.LittleEndian.PutUint64(data[8:16], b.Hi)
		return
	}
	var buf [BlockSize]byte
	b.Store(buf[:])
	copy(data, buf[:])
}

func (b Block) shl(n uint) Block {
	if n == 0 {
		return b
	}
	return Block{
		Lo: b.Lo << n,
		Hi: b.Hi<<n | b.Lo>>(64-n),
	}
}

func (b Block) shr(n uint) Block {
	if n == 0 {
		return b
	}
	return Block{
		Lo: b.Lo>>n | b.Hi<<(64-n),
		Hi: b.Hi >> n,
	}
}
