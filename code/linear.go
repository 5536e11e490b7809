//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package code

import (
	"bufio"
	_ "embed" // generator resource
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var _ Code = &Linear{}

// BCH128Name names the built-in [264,128] generator resource.
const BCH128Name = "bch_128_136"

//go:embed bch_128_136.txt
var bch128Data string

var (
	bch128     *Linear
	bch128Err  error
	bch128Once sync.Once
)

// BCH128 returns the built-in code for 128-bit messages: a shortened
// BCH code extended with an overall parity bit, 136 parity bits and
// minimum distance above 40.
func BCH128() (*Linear, error) {
	bch128Once.Do(func() {
		bch128, bch128Err = Load(strings.NewReader(bch128Data))
		if bch128Err != nil {
			bch128Err = fmt.Errorf("%s: %w", BCH128Name, bch128Err)
		}
	})
	return bch128, bch128Err
}

// Linear implements a systematic linear code from its generator
// rows. Row i holds the parity bits of the unit message with bit i
// set. The encoder uses a 256-entry table per message byte.
type Linear struct {
	msgBits     int
	parityBytes int
	rows        [][]byte
	table       []byte
}

// LoadFile loads the generator from the file.
func LoadFile(path string) (*Linear, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load loads the generator from the reader. The input has one row per
// message bit, each row a hex encoded parity vector. Empty lines and
// lines starting with '#' are ignored.
func Load(in io.Reader) (*Linear, error) {
	var rows [][]byte

	scanner := bufio.NewScanner(in)
	var lineNo int
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		row, err := hex.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
		}
		if len(row) == 0 {
			return nil, fmt.Errorf("%w: line %d: empty row",
				ErrMalformed, lineNo)
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: line %d: row length %d, expected %d",
				ErrMalformed, lineNo, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no generator rows", ErrMalformed)
	}
	return NewLinear(rows), nil
}

// NewLinear creates a linear code from the parity rows. All rows must
// have the same length.
func NewLinear(rows [][]byte) *Linear {
	c := &Linear{
		msgBits:     len(rows),
		parityBytes: len(rows[0]),
		rows:        rows,
	}
	msgBytes := c.MsgBytes()
	pb := c.parityBytes

	c.table = make([]byte, msgBytes*256*pb)
	for i := 0; i < msgBytes; i++ {
		for v := 1; v < 256; v++ {
			entry := c.table[(i*256+v)*pb : (i*256+v+1)*pb]
			for bit := 0; bit < 8; bit++ {
				idx := i*8 + bit
				if v&(1<<bit) == 0 || idx >= c.msgBits {
					continue
				}
				for j, b := range rows[idx] {
					entry[j] ^= b
				}
			}
		}
	}
	return c
}

func (c *Linear) String() string {
	return fmt.Sprintf("linear[%d,%d]", c.msgBits+c.parityBytes*8, c.msgBits)
}

// MsgBits implements Code.MsgBits.
func (c *Linear) MsgBits() int {
	return c.msgBits
}

// MsgBytes implements Code.MsgBytes.
func (c *Linear) MsgBytes() int {
	return (c.msgBits + 7) / 8
}

// ParityBytes implements Code.ParityBytes.
func (c *Linear) ParityBytes() int {
	return c.parityBytes
}

// Row returns the generator row of the message bit i.
func (c *Linear) Row(i int) []byte {
	return c.rows[i]
}

// Encode implements Code.Encode.
func (c *Linear) Encode(msg, parity []byte) {
	pb := c.parityBytes
	msgBytes := c.MsgBytes()

	var tmp [64]byte
	var acc []byte
	if pb <= len(tmp) {
		acc = tmp[:pb]
	} else {
		acc = make([]byte, pb)
	}
	for i := 0; i < msgBytes; i++ {
		v := int(msg[i])
		if v == 0 {
			continue
		}
		entry := c.table[(i*256+v)*pb : (i*256+v+1)*pb]
		for j := range acc {
			acc[j] ^= entry[j]
		}
	}
	copy(parity[:pb], acc)
}
