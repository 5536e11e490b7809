//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"crypto/aes"
	"encoding/hex"
	"errors"
	"testing"
)

// AES_k(0) for the keys k = 0, 1, ..., 7 in the first key byte.
var mitccrhZero = []string{
	"66e94bd4ef8a2c3b884cfa59ca342b2e",
	"dc0ed85df9611abb7249cdd168c5467e",
	"c117d2238d53836acd92ddcdb85d6a21",
	"79c86d43f2be7fce99dd2c2133b0cf7c",
	"dbe01de67e346a800c4c4b4880311de4",
	"54ca53bb28791846e6b09a2757f014e4",
	"86495e4a9c80564982f41de01f2b9884",
	"d83636687394ca5538a73a2198ea4ab7",
}

func TestMITCCRHZero(t *testing.T) {
	var seed Label
	hash := NewMITCCRH(seed, len(mitccrhZero))

	const h = 2
	blks := make([]Label, len(mitccrhZero)*h)
	hash.Hash(blks, len(mitccrhZero), h)

	for i, blk := range blks {
		var ld LabelData
		got := hex.EncodeToString(blk.Bytes(&ld))
		if got != mitccrhZero[i/h] {
			t.Errorf("block %d: got %s, expected %s", i, got, mitccrhZero[i/h])
		}
	}
}

func TestMITCCRHKeys(t *testing.T) {
	seed := Label{
		D0: 0x0001020304050607,
		D1: 0x08090a0b0c0d0e0f,
	}
	hash := NewMITCCRH(seed, 4)

	// Two batches of four keys, the second batch in two calls.
	blks := make([]Label, 12)
	for i := range blks {
		blks[i] = NewTweak(uint32(i))
	}
	orig := make([]Label, len(blks))
	copy(orig, blks)

	hash.Hash(blks[:4], 4, 1)
	hash.Hash(blks[4:8], 2, 2)
	hash.Hash(blks[8:], 2, 2)

	keyIndex := []int{0, 1, 2, 3, 4, 4, 5, 5, 6, 6, 7, 7}
	for i, blk := range blks {
		var key, in, out LabelData
		seed.GetData(&key)
		key[0] ^= byte(keyIndex[i])

		c, err := aes.NewCipher(key[:])
		if err != nil {
			t.Fatal(err)
		}
		orig[i].GetData(&in)
		c.Encrypt(out[:], in[:])

		var expected Label
		expected.SetData(&out)
		expected.Xor(orig[i])
		if !blk.Equal(expected) {
			t.Errorf("block %d: got %v, expected %v", i, blk, expected)
		}
	}
}

func TestMITCCRHInvalid(t *testing.T) {
	var seed Label
	hash := NewMITCCRH(seed, 8)
	for _, test := range []struct {
		n, k, h int
	}{
		{n: 3, k: 3, h: 1},
		{n: 16, k: 16, h: 1},
		{n: 7, k: 8, h: 1},
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Hash(%d, %d, %d) did not panic",
						test.n, test.k, test.h)
				}
			}()
			hash.Hash(make([]Label, test.n), test.k, test.h)
		}()
	}
}

func TestROTRole(t *testing.T) {
	rot := NewROT(NewCO(nil), nil, false, false)
	if err := rot.Send(make([]Wire, 1)); !errors.Is(err, ErrRole) {
		t.Errorf("Send before InitSender: %v", err)
	}
	if err := rot.Receive(make([]bool, 1), make([]Label, 1)); !errors.Is(err,
		ErrRole) {
		t.Errorf("Receive before InitReceiver: %v", err)
	}
}

func BenchmarkMITCCRH(b *testing.B) {
	var seed Label
	hash := NewMITCCRH(seed, rotBatch)
	var pad [2 * rotBatch]Label

	for b.Loop() {
		hash.Hash(pad[:], rotBatch, 2)
	}
}
