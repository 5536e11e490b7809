//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package commit

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20"
)

// PRG implements a pseudorandom generator expanding a 128-bit seed
// with AES-128 in counter mode.
type PRG struct {
	seed   [CSecBytes]byte
	stream cipher.Stream
}

// NewPRG creates a new PRG for the seed.
func NewPRG(seed []byte) (*PRG, error) {
	if len(seed) != CSecBytes {
		return nil, fmt.Errorf("invalid PRG seed length %d", len(seed))
	}
	prg := new(PRG)
	copy(prg.seed[:], seed)

	block, err := aes.NewCipher(prg.seed[:])
	if err != nil {
		return nil, err
	}
	var iv [aes.BlockSize]byte
	prg.stream = cipher.NewCTR(block, iv[:])

	return prg, nil
}

// Seed returns the PRG seed.
func (prg *PRG) Seed() []byte {
	return prg.seed[:]
}

// Read implements io.Reader. It fills buf with the next len(buf)
// bytes of the stream.
func (prg *PRG) Read(buf []byte) (int, error) {
	clear(buf)
	prg.stream.XORKeyStream(buf, buf)
	return len(buf), nil
}

// squeeze derives a new PRG from the next seed of the stream.
func (prg *PRG) squeeze() (*PRG, error) {
	var seed [CSecBytes]byte
	prg.Read(seed[:])
	return NewPRG(seed[:])
}

// streamReader implements io.Reader over the chacha20 keystream.
type streamReader struct {
	c *chacha20.Cipher
}

func (r *streamReader) Read(buf []byte) (int, error) {
	clear(buf)
	r.c.XORKeyStream(buf, buf)
	return len(buf), nil
}

// NewStreamReader creates a deterministic random stream for the
// 256-bit key.
func NewStreamReader(key []byte) (io.Reader, error) {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce[:])
	if err != nil {
		return nil, err
	}
	return &streamReader{
		c: c,
	}, nil
}

// DeriveReader creates a new random stream keyed from r.
func DeriveReader(r io.Reader) (io.Reader, error) {
	var key [chacha20.KeySize]byte
	if _, err := io.ReadFull(r, key[:]); err != nil {
		return nil, err
	}
	return NewStreamReader(key[:])
}

// NewSeededReader creates a deterministic random stream for the
// constant seed. It must be used only in tests and benchmarks.
func NewSeededReader(seed uint64) io.Reader {
	var key [chacha20.KeySize]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	r, err := NewStreamReader(key[:])
	if err != nil {
		panic(err)
	}
	return r
}
