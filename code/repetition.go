//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package code

import (
	"fmt"
)

var _ Code = &Repetition{}

// Repetition implements a repetition code for 1-bit messages. The
// message bit is bit 0 of the first message byte and the parity
// bytes are all 0x00 or all 0xff.
type Repetition struct {
	bytes int
}

// NewRepetition creates a repetition code with the given number of
// parity bytes.
func NewRepetition(bytes int) *Repetition {
	return &Repetition{
		bytes: bytes,
	}
}

func (c *Repetition) String() string {
	return fmt.Sprintf("repetition[%d]", c.bytes*8)
}

// MsgBits implements Code.MsgBits.
func (c *Repetition) MsgBits() int {
	return 1
}

// MsgBytes implements Code.MsgBytes.
func (c *Repetition) MsgBytes() int {
	return 1
}

// ParityBytes implements Code.ParityBytes.
func (c *Repetition) ParityBytes() int {
	return c.bytes
}

// Encode implements Code.Encode.
func (c *Repetition) Encode(msg, parity []byte) {
	var v byte
	if msg[0]&1 != 0 {
		v = 0xff
	}
	for i := 0; i < c.bytes; i++ {
		parity[i] = v
	}
}
