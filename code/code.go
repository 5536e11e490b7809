//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package code implements the systematic binary linear codes that
// the commitments use to expand messages into codewords.
package code

import (
	"errors"
	"math/bits"
)

// ErrMalformed signals a malformed generator resource.
var ErrMalformed = errors.New("code: malformed generator")

// Code defines a systematic binary linear code. The codeword of a
// message is the message followed by its parity bits.
type Code interface {
	// MsgBits returns the number of message bits.
	MsgBits() int

	// MsgBytes returns the number of bytes holding the message bits.
	MsgBytes() int

	// ParityBytes returns the number of parity bytes.
	ParityBytes() int

	// Encode computes the parity bytes of the message msg into
	// parity. The function reads all message bits before writing
	// parity so msg and parity may overlap.
	Encode(msg, parity []byte)
}

// Weight returns the Hamming weight of data.
func Weight(data []byte) int {
	var w int
	for _, b := range data {
		w += bits.OnesCount8(b)
	}
	return w
}
