//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//
// Better Concrete Security for Half-Gates Garbling (in the
// Multi-Instance Setting)
//  - https://eprint.iacr.org/2019/1168.pdf
//
// The key schedule follows the EMP Toolkit's emp-tool/utils/mitccrh.h
// (MIT License, Copyright (c) 2018 Xiao Wang).

package ot

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
)

// MITCCRH implements the multi-instance tweakable circular
// correlation robust hash. Each hash key is the seed XORed with a
// running key index and each key hashes a group of consecutive
// blocks: H(x) = AES_k(x) ⊕ x.
type MITCCRH struct {
	seed  LabelData
	next  uint64
	keys  []cipher.Block
	avail int
}

// NewMITCCRH creates a new MITCCRH with the seed s. The batchSize
// defines how many keys are scheduled at a time.
func NewMITCCRH(s Label, batchSize int) *MITCCRH {
	m := &MITCCRH{
		keys: make([]cipher.Block, batchSize),
	}
	s.GetData(&m.seed)
	return m
}

func (m *MITCCRH) schedule() {
	for i := range m.keys {
		key := m.seed
		var idx [8]byte
		binary.LittleEndian.PutUint64(idx[:], m.next)
		xor(key[:8], idx[:])
		m.next++

		block, err := aes.NewCipher(key[:])
		if err != nil {
			panic(err)
		}
		m.keys[i] = block
	}
	m.avail = len(m.keys)
}

// Hash hashes k groups of h blocks in place. The group i is hashed
// with the next unused key. The function panics if k does not divide
// the batch size or if len(blks) is not k*h.
func (m *MITCCRH) Hash(blks []Label, k, h int) {
	if k > len(m.keys) || len(m.keys)%k != 0 {
		panic(fmt.Sprintf("ot: invalid key count %d for batch %d",
			k, len(m.keys)))
	}
	if k*h != len(blks) {
		panic(fmt.Sprintf("ot: invalid block count %d, expected %d",
			len(blks), k*h))
	}
	if m.avail == 0 {
		m.schedule()
	}
	keys := m.keys[len(m.keys)-m.avail:]
	m.avail -= k

	var in, out LabelData
	for i, blk := range blks {
		blk.GetData(&in)
		keys[i/h].Encrypt(out[:], in[:])

		var t Label
		t.SetData(&out)
		blks[i].Xor(t)
	}
}
