//
// co.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//
// Chou Orlandi OT - The Simplest Protocol for Oblivious Transfer.
//  - https://eprint.iacr.org/2015/267.pdf

/*

This implementation is derived from the EMP Toolkit's co.h
(https://github.com/emp-toolkit/emp-ot/blob/master/emp-ot/co.h)
with original license as follows:

MIT License

Copyright (c) 2018 Xiao Wang (wangxiao1254@gmail.com)

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.

Enquiries about further applications and development opportunities are welcome.

*/

package ot

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"

	"filippo.io/edwards25519"
)

const (
	coGroup     = "edwards25519"
	pointSize   = 32
	scalarBytes = 64
)

var (
	_ OT = &CO{}

	// ErrInvalidPoint signals that the peer sent an invalid or
	// low-order group element.
	ErrInvalidPoint = errors.New("ot: invalid group element")
)

// CO implements the Chou-Orlandi OT over the edwards25519 group as
// the OT interface.
type CO struct {
	r      io.Reader
	hash   hash.Hash
	digest []byte
	io     IO
}

// NewCO creates a new CO OT implementing the OT interface. The
// argument reader is the source of the random scalars.
func NewCO(r io.Reader) *CO {
	return &CO{
		r:      r,
		hash:   sha256.New(),
		digest: make([]byte, 0, sha256.Size),
	}
}

// InitSender initializes the OT sender.
func (co *CO) InitSender(io IO) error {
	co.io = io
	if err := SendString(io, coGroup); err != nil {
		return err
	}
	return io.Flush()
}

// InitReceiver initializes the OT receiver.
func (co *CO) InitReceiver(io IO) error {
	co.io = io

	name, err := ReceiveString(io)
	if err != nil {
		return err
	}
	if name != coGroup {
		return fmt.Errorf("invalid group %s, expected %s", name, coGroup)
	}
	return nil
}

func (co *CO) randomScalar() (*edwards25519.Scalar, error) {
	var buf [scalarBytes]byte
	if _, err := io.ReadFull(co.r, buf[:]); err != nil {
		return nil, err
	}
	return edwards25519.NewScalar().SetUniformBytes(buf[:])
}

func (co *CO) receivePoint() (*edwards25519.Point, error) {
	data, err := co.io.ReceiveData()
	if err != nil {
		return nil, err
	}
	if len(data) != pointSize {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidPoint, len(data))
	}
	p, err := new(edwards25519.Point).SetBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	if new(edwards25519.Point).MultByCofactor(p).Equal(
		edwards25519.NewIdentityPoint()) == 1 {
		return nil, fmt.Errorf("%w: low order point", ErrInvalidPoint)
	}
	return p, nil
}

// kdf derives the pad of the transfer id from the shared point. The
// point is multiplied by the cofactor before hashing.
func (co *CO) kdf(p *edwards25519.Point, id int) Label {
	var tmp [8]byte
	var label Label

	q := new(edwards25519.Point).MultByCofactor(p)

	co.hash.Reset()
	co.hash.Write(q.Bytes())
	bo.PutUint64(tmp[:], uint64(id))
	co.hash.Write(tmp[:])
	co.digest = co.hash.Sum(co.digest[:0])

	label.SetBytes(co.digest)
	return label
}

// Send sends the wire labels with OT.
func (co *CO) Send(wires []Wire) error {
	// a <- Zp
	a, err := co.randomScalar()
	if err != nil {
		return err
	}

	// A = G^a
	A := new(edwards25519.Point).ScalarBaseMult(a)
	if err := co.io.SendData(A.Bytes()); err != nil {
		return err
	}
	if err := co.io.Flush(); err != nil {
		return err
	}

	// Aa = A^a
	Aa := new(edwards25519.Point).ScalarMult(a, A)

	Bs := make([]*edwards25519.Point, len(wires))
	for i := range wires {
		Bs[i], err = co.receivePoint()
		if err != nil {
			return err
		}
	}

	var ld LabelData
	for i := range wires {
		// B^a and (B/A)^a
		Ba := new(edwards25519.Point).ScalarMult(a, Bs[i])
		Baa := new(edwards25519.Point).Subtract(Ba, Aa)

		e0 := co.kdf(Ba, i)
		e0.Xor(wires[i].L0)
		if err := co.io.SendLabel(e0, &ld); err != nil {
			return err
		}
		e1 := co.kdf(Baa, i)
		e1.Xor(wires[i].L1)
		if err := co.io.SendLabel(e1, &ld); err != nil {
			return err
		}
	}

	return co.io.Flush()
}

// Receive receives the wire labels with OT based on the flag values.
func (co *CO) Receive(flags []bool, result []Label) error {
	if len(flags) != len(result) {
		return fmt.Errorf("flags and result length mismatch: %d != %d",
			len(flags), len(result))
	}
	A, err := co.receivePoint()
	if err != nil {
		return err
	}

	bs := make([]*edwards25519.Scalar, len(flags))
	for i := range flags {
		// b <- Zp
		bs[i], err = co.randomScalar()
		if err != nil {
			return err
		}
		B := new(edwards25519.Point).ScalarBaseMult(bs[i])
		if flags[i] {
			B.Add(B, A)
		}
		if err := co.io.SendData(B.Bytes()); err != nil {
			return err
		}
	}
	if err := co.io.Flush(); err != nil {
		return err
	}

	var ld LabelData
	var e0, e1 Label
	for i := range flags {
		if err := co.io.ReceiveLabel(&e0, &ld); err != nil {
			return err
		}
		if err := co.io.ReceiveLabel(&e1, &ld); err != nil {
			return err
		}
		Ab := new(edwards25519.Point).ScalarMult(bs[i], A)
		result[i] = co.kdf(Ab, i)
		if flags[i] {
			result[i].Xor(e1)
		} else {
			result[i].Xor(e0)
		}
	}

	return nil
}
