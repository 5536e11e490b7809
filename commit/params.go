//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package commit implements OT-based split commitments. The Sender
// commits to random bit or 128-bit string values by holding two
// shares of every codeword. The Receiver holds one bit of either
// share per codeword position, selected by its seed OT choice bits.
package commit

import (
	"errors"
	"fmt"

	"github.com/markkurossi/splitcommit/code"
	"github.com/markkurossi/splitcommit/env"
	"github.com/markkurossi/text/superscript"
)

const (
	// CSec defines the computational security parameter in bits.
	CSec = 128

	// CSecBytes defines the computational security parameter in
	// bytes.
	CSecBytes = CSec / 8

	// SSecBytes defines the statistical security parameter in bytes.
	SSecBytes = 5

	// NumParChecks defines the number of blinding commitments and
	// the number of parallel linear combinations computed by the
	// consistency checks.
	NumParChecks = 128

	// Consistency defines the number of linear combinations, in
	// bytes, verified by the commit consistency check.
	Consistency = 10

	// BatchDecommit defines the number of linear combinations, in
	// bytes, verified by the batch decommit operations.
	BatchDecommit = SSecBytes

	// LSBIndex is the bit index of the least significant bit of a
	// 128-bit message.
	LSBIndex = 127

	// NoLSBStart disables the LSB fixing of Commit.
	NoLSBStart = -1
)

// ErrConfig signals invalid parameters or use of an unprepared
// commitment instance.
var ErrConfig = errors.New("commit: configuration error")

func configError(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, a...))
}

// CommitType defines constraints for the committed values.
type CommitType int

// Commit types.
const (
	// Normal commits to uniformly random values.
	Normal CommitType = iota

	// AllZeroLSBRnd commits to values where all bits except the LSB
	// are zero.
	AllZeroLSBRnd

	// AllRndLSBZero commits to random values with zero LSB.
	AllRndLSBZero
)

var commitTypes = map[CommitType]string{
	Normal:        "normal",
	AllZeroLSBRnd: "all-zero-lsb-rnd",
	AllRndLSBZero: "all-rnd-lsb-zero",
}

func (t CommitType) String() string {
	name, ok := commitTypes[t]
	if ok {
		return name
	}
	return fmt.Sprintf("{CommitType %d}", t)
}

// Params define the codeword layout. The codeword of a message
// holds the message bytes followed by the parity bytes, starting at
// MsgOffset. For 1-bit messages the message bit is the bit 0 of the
// parity region and MsgOffset is 0.
type Params struct {
	MsgBits     int
	MsgBytes    int
	CwordBits   int
	CwordBytes  int
	ParityBits  int
	ParityBytes int
	MsgOffset   int
}

func (p Params) String() string {
	return fmt.Sprintf("k=%d, n=%d", p.MsgBits, p.CwordBits)
}

// NewParams creates the codeword parameters and the code for the
// message size bits. The optional genMatrixPath names a generator
// file for the 128-bit code. If it is empty, the built-in
// bch_128_136 code is used.
func NewParams(bits int, genMatrixPath string) (Params, code.Code, error) {
	switch bits {
	case 1:
		c := code.NewRepetition(SSecBytes)
		return Params{
			MsgBits:     1,
			MsgBytes:    1,
			CwordBits:   c.ParityBytes() * 8,
			CwordBytes:  c.ParityBytes(),
			ParityBits:  c.ParityBytes() * 8,
			ParityBytes: c.ParityBytes(),
		}, c, nil

	case CSec:
		var c *code.Linear
		var err error
		if len(genMatrixPath) > 0 {
			c, err = code.LoadFile(genMatrixPath)
		} else {
			c, err = code.BCH128()
		}
		if err != nil {
			return Params{}, nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		if c.MsgBits() != CSec {
			return Params{}, nil, configError("code %v: %d message bits",
				c, c.MsgBits())
		}
		cwordBytes := c.MsgBytes() + c.ParityBytes()
		return Params{
			MsgBits:     CSec,
			MsgBytes:    c.MsgBytes(),
			CwordBits:   cwordBytes * 8,
			CwordBytes:  cwordBytes,
			ParityBits:  c.ParityBytes() * 8,
			ParityBytes: c.ParityBytes(),
			MsgOffset:   c.MsgBytes(),
		}, c, nil

	default:
		return Params{}, nil, configError("unsupported message size %d",
			bits)
	}
}

// state holds the parameters shared by senders and receivers.
type state struct {
	config    *env.Config
	role      string
	id        int
	params    Params
	code      code.Code
	paramsSet bool
	otsSet    bool
}

func (st *state) String() string {
	if st.id == 0 {
		return st.role
	}
	return st.role + superscript.Itoa(st.id)
}

// Params returns the codeword parameters.
func (st *state) Params() Params {
	return st.params
}

func (st *state) setMsgBitSize(bits int, genMatrixPath string) error {
	if st.otsSet {
		return configError("%s: message size fixed by seed OTs", st)
	}
	params, c, err := NewParams(bits, genMatrixPath)
	if err != nil {
		return err
	}
	st.params = params
	st.code = c
	st.paramsSet = true

	st.config.Debugf("%s: %v, code %v", st, params, c)

	return nil
}

func (st *state) checkParams() error {
	if !st.paramsSet {
		return configError("%s: message size not set", st)
	}
	return nil
}

func (st *state) checkReady() error {
	if err := st.checkParams(); err != nil {
		return err
	}
	if !st.otsSet {
		return configError("%s: seed OTs not set", st)
	}
	return nil
}

func (st *state) checkCommit(n, lsbStart int, ctype CommitType) error {
	if n == 0 {
		return configError("%s: empty commit", st)
	}
	if _, ok := commitTypes[ctype]; !ok {
		return configError("%s: invalid commit type %v", st, ctype)
	}
	if st.params.MsgBits != CSec {
		if lsbStart != NoLSBStart {
			return configError("%s: LSB fixing with %d-bit messages",
				st, st.params.MsgBits)
		}
		if ctype != Normal {
			return configError("%s: commit type %v with %d-bit messages",
				st, ctype, st.params.MsgBits)
		}
	}
	if lsbStart != NoLSBStart && (lsbStart < 0 || lsbStart > n) {
		return configError("%s: LSB start %d out of range 0...%d",
			st, lsbStart, n)
	}
	return nil
}

// clone creates a state for the clone id.
func (st *state) clone(id int) state {
	return state{
		config:    st.config,
		role:      st.role,
		id:        id,
		params:    st.params,
		code:      st.code,
		paramsSet: st.paramsSet,
	}
}

// numValueEntries returns the number of value entries holding n
// decommitted values. The 1-bit values are packed into bytes.
func (st *state) numValueEntries(n int) int {
	if st.params.MsgBits == 1 {
		return (n + 7) / 8
	}
	return n
}

func (st *state) valueEntrySize() int {
	return st.params.MsgBytes
}

func getBit(data []byte, i int) uint {
	return uint(data[i/8]>>(i%8)) & 1
}

func setBit(data []byte, i int, v uint) {
	mask := byte(1 << (i % 8))
	if v&1 != 0 {
		data[i/8] |= mask
	} else {
		data[i/8] &^= mask
	}
}

// lsb returns the LSB of the message in the codeword.
func lsb(cword []byte) uint {
	return getBit(cword, LSBIndex)
}

// lsbMask is the LSB mask of the last message byte.
const lsbMask = 1 << (LSBIndex % 8)

// shape applies the commit type constraints to the codeword share.
func (st *state) shape(cword []byte, ctype CommitType) {
	switch ctype {
	case AllZeroLSBRnd:
		b := lsb(cword)
		clear(cword[:st.params.MsgBytes])
		setBit(cword, LSBIndex, b)

	case AllRndLSBZero:
		setBit(cword, LSBIndex, 0)
	}
}
