//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//
// IKNP OT Extension:
//
// Extending oblivious transfers efficiently
//  - https://www.iacr.org/archive/crypto2003/27290145/27290145.pdf
//
// Actively Secure OT Extension with Optimal Overhead
//  - https://eprint.iacr.org/2015/546.pdf
//
// The protocol flow follows the EMP Toolkit's emp-ot/{iknp,cot}.h
// (MIT License, Copyright (c) 2018 Xiao Wang).

package ot

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"

	"github.com/markkurossi/splitcommit/simd"
)

const (
	// K defines the IKNP security parameter; the number of IKNP base
	// OTs.
	K = 128

	// The number of OTs extended in one column chunk. Must be a
	// multiple of 8.
	chunkOTs = 128

	// The number of bytes in one column of a chunk.
	chunkStride = chunkOTs / 8

	// The number of extra OTs hiding the consistency check.
	checkOTs = 2 * K

	// The number of challenges expanded from the PRG at a time.
	challengeBatch = 1024
)

// ErrConsistency is returned when the peer's OT extension
// consistency check fails.
var ErrConsistency = errors.New("ot: extension consistency check failed")

// columnPRG expands a base OT key into one column of the OT
// extension matrix.
type columnPRG struct {
	stream cipher.Stream
}

func newColumnPRG(key Label) (*columnPRG, error) {
	var ld LabelData
	block, err := aes.NewCipher(key.Bytes(&ld))
	if err != nil {
		return nil, err
	}
	var iv [aes.BlockSize]byte
	return &columnPRG{
		stream: cipher.NewCTR(block, iv[:]),
	}, nil
}

// Read fills buf with the next bytes of the column stream.
func (prg *columnPRG) Read(buf []byte) {
	clear(buf)
	prg.stream.XORKeyStream(buf, buf)
}

// Blocks fills blocks with the next GF(2^128) elements of the stream.
func (prg *columnPRG) Blocks(blocks []simd.Block) {
	var buf [simd.BlockSize]byte
	for i := range blocks {
		prg.Read(buf[:])
		blocks[i] = simd.Load(buf[:])
	}
}

// rowLabels transposes the K-row column matrix into the OT labels:
// the label bit j of OT i is the bit i of column j.
func rowLabels(result []Label, columns simd.BitMatrix) {
	rows := simd.NewBitMatrix(columns.Cols(), K/8)
	simd.Transpose(rows, columns)
	for i := range min(len(result), rows.Rows) {
		result[i].SetBlock(simd.Load(rows.Row(i)))
	}
}

// tags computes the unreduced inner product of the challenges and
// the labels.
type tags struct {
	lo simd.Block
	hi simd.Block
}

func (t *tags) add(chi []simd.Block, labels []Label) {
	blocks := make([]simd.Block, len(labels))
	for i, l := range labels {
		blocks[i] = l.Block()
	}
	lo, hi := simd.InnerProduct(chi, blocks)
	t.lo = t.lo.Xor(lo)
	t.hi = t.hi.Xor(hi)
}

func (t *tags) addMul(a, b simd.Block) {
	lo, hi := simd.Mul(a, b)
	t.lo = t.lo.Xor(lo)
	t.hi = t.hi.Xor(hi)
}

// IKNPSender implements the random correlated OT sender.
type IKNPSender struct {
	// Delta defines the correlation delta: b1 = b0 ⊕ Δ
	Delta Label
	io    IO
	cols  [K]*columnPRG
}

// NewIKNPSender creates a new sender. The d is an optional delta. If
// unset, the function creates a random delta. The sender acts as the
// receiver of the K base OTs, selecting with the bits of delta.
func NewIKNPSender(base OT, io IO, r io.Reader, d *Label) (*IKNPSender, error) {
	s := &IKNPSender{
		io: io,
	}
	if d != nil {
		s.Delta = *d
	} else {
		var err error
		s.Delta, err = NewLabel(r)
		if err != nil {
			return nil, err
		}
	}

	flags := make([]bool, K)
	for i := range flags {
		flags[i] = s.Delta.Bit(i) == 1
	}
	keys := make([]Label, K)
	if err := base.Receive(flags, keys); err != nil {
		return nil, err
	}
	for i, key := range keys {
		var err error
		s.cols[i], err = newColumnPRG(key)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Send sends n labels. The function returns the b0 labels. The b1
// labels are b0[i] ⊕ s.Delta. If malicious is set, the function
// verifies the receiver's consistency tags and returns
// ErrConsistency if they do not match.
func (s *IKNPSender) Send(n int, malicious bool) ([]Label, error) {
	if !malicious {
		return s.extend(n)
	}
	labels, err := s.extend(n + checkOTs)
	if err != nil {
		return nil, err
	}

	var seed Label
	var ld LabelData
	if err := s.io.ReceiveLabel(&seed, &ld); err != nil {
		return nil, err
	}
	chiPRG, err := newColumnPRG(seed)
	if err != nil {
		return nil, err
	}
	var q tags
	chi := make([]simd.Block, challengeBatch)
	for i := 0; i < len(labels); i += challengeBatch {
		count := min(challengeBatch, len(labels)-i)
		chiPRG.Blocks(chi[:count])
		q.add(chi[:count], labels[i:i+count])
	}

	var x, t0, t1 Label
	for _, l := range []*Label{&x, &t0, &t1} {
		if err := s.io.ReceiveLabel(l, &ld); err != nil {
			return nil, err
		}
	}
	q.addMul(x.Block(), s.Delta.Block())

	if q.lo != t0.Block() || q.hi != t1.Block() {
		return nil, ErrConsistency
	}
	return labels[:n], nil
}

func (s *IKNPSender) extend(n int) ([]Label, error) {
	result := make([]Label, n)
	columns := simd.NewBitMatrix(K, chunkStride)

	for ofs := 0; ofs < n; ofs += chunkOTs {
		stride := (min(chunkOTs, n-ofs) + 7) / 8
		u, err := s.io.ReceiveData()
		if err != nil {
			return nil, err
		}
		if len(u) != K*stride {
			return nil, fmt.Errorf("ot: invalid column chunk: got %d, "+
				"expected %d bytes", len(u), K*stride)
		}
		columns.Stride = stride
		for i := 0; i < K; i++ {
			col := columns.Row(i)
			s.cols[i].Read(col)
			if s.Delta.Bit(i) == 1 {
				xor(col, u[i*stride:(i+1)*stride])
			}
		}
		rowLabels(result[ofs:], columns)
	}
	return result, nil
}

// IKNPReceiver implements the random correlated OT receiver.
type IKNPReceiver struct {
	io   IO
	rand io.Reader
	cols [K][2]*columnPRG
}

// NewIKNPReceiver creates a new receiver. The receiver acts as the
// sender of the K random base OTs.
func NewIKNPReceiver(base OT, io IO, rand io.Reader) (*IKNPReceiver, error) {
	wires := make([]Wire, K)
	for i := range wires {
		var err error
		wires[i].L0, err = NewLabel(rand)
		if err != nil {
			return nil, err
		}
		wires[i].L1, err = NewLabel(rand)
		if err != nil {
			return nil, err
		}
	}
	if err := base.Send(wires); err != nil {
		return nil, err
	}

	r := &IKNPReceiver{
		io:   io,
		rand: rand,
	}
	for i, w := range wires {
		var err error
		r.cols[i][0], err = newColumnPRG(w.L0)
		if err != nil {
			return nil, err
		}
		r.cols[i][1], err = newColumnPRG(w.L1)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Receive labels based on the selection flags b. The returned labels
// implement the correlation: br[i] = b0[i] ⊕ b[i]*s.Delta. The
// function panics if b and result have different lengths.
func (r *IKNPReceiver) Receive(b []bool, result []Label, malicious bool) error {
	if len(b) != len(result) {
		panic("ot: len(b) != len(result)")
	}
	if !malicious {
		return r.extend(b, result)
	}

	// Extend with random padding choices hiding the choice vector
	// in the consistency check.
	flags := make([]bool, len(b)+checkOTs)
	copy(flags, b)
	var pad [checkOTs / 8]byte
	if _, err := io.ReadFull(r.rand, pad[:]); err != nil {
		return err
	}
	for i := 0; i < checkOTs; i++ {
		flags[len(b)+i] = (pad[i/8]>>(i%8))&1 == 1
	}
	labels := make([]Label, len(flags))
	if err := r.extend(flags, labels); err != nil {
		return err
	}
	copy(result, labels)

	seed, err := NewLabel(r.rand)
	if err != nil {
		return err
	}
	var ld LabelData
	if err := r.io.SendLabel(seed, &ld); err != nil {
		return err
	}
	chiPRG, err := newColumnPRG(seed)
	if err != nil {
		return err
	}

	var t tags
	var x simd.Block
	chi := make([]simd.Block, challengeBatch)
	for i := 0; i < len(labels); i += challengeBatch {
		count := min(challengeBatch, len(labels)-i)
		chiPRG.Blocks(chi[:count])
		t.add(chi[:count], labels[i:i+count])
		for j := 0; j < count; j++ {
			if flags[i+j] {
				x = x.Xor(chi[j])
			}
		}
	}

	var xl, t0, t1 Label
	xl.SetBlock(x)
	t0.SetBlock(t.lo)
	t1.SetBlock(t.hi)
	for _, l := range []Label{xl, t0, t1} {
		if err := r.io.SendLabel(l, &ld); err != nil {
			return err
		}
	}
	return r.io.Flush()
}

func (r *IKNPReceiver) extend(b []bool, result []Label) error {
	columns := simd.NewBitMatrix(K, chunkStride)
	u := make([]byte, K*chunkStride)
	choices := make([]byte, chunkStride)

	for ofs := 0; ofs < len(b); ofs += chunkOTs {
		count := min(chunkOTs, len(b)-ofs)
		stride := (count + 7) / 8

		clear(choices)
		for i := 0; i < count; i++ {
			if b[ofs+i] {
				choices[i/8] |= 1 << (i % 8)
			}
		}

		columns.Stride = stride
		for i := 0; i < K; i++ {
			t := columns.Row(i)
			ui := u[i*stride : (i+1)*stride]
			r.cols[i][0].Read(t)
			r.cols[i][1].Read(ui)
			xor(ui, t)
			xor(ui, choices[:stride])
		}
		if err := r.io.SendData(u[:K*stride]); err != nil {
			return err
		}
		rowLabels(result[ofs:], columns)
	}
	return r.io.Flush()
}

// xor computes a ^= b and returns a truncated to the shorter slice.
func xor(a, b []byte) []byte {
	l := min(len(a), len(b))
	for i := 0; i < l; i++ {
		a[i] ^= b[i]
	}
	return a[:l]
}
