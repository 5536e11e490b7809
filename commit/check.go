//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package commit

import (
	"bytes"
	"io"

	"github.com/markkurossi/splitcommit/p2p"
	"github.com/markkurossi/splitcommit/simd"
)

// proof holds the rows of the linear combinations of one share
// vector. Row i is the combination of the codeword bit i of all
// commitments and it is numChecks bytes long.
type proof struct {
	data      []byte
	rows      int
	numChecks int
}

func newProof(rows, numChecks int) *proof {
	return &proof{
		data:      make([]byte, rows*numChecks),
		rows:      rows,
		numChecks: numChecks,
	}
}

func (p *proof) row(i int) []byte {
	return p.data[i*p.numChecks : (i+1)*p.numChecks]
}

// xorBlind adds the first numChecks bytes of the transposed blinding
// rows into the proof rows.
func (p *proof) xorBlind(blind simd.BitMatrix) {
	for i := 0; i < p.rows; i++ {
		row := p.row(i)
		brow := blind.Row(i)
		for j := range row {
			row[j] ^= brow[j]
		}
	}
}

// linearCombination computes numChecks bytes of random linear
// combinations of the first rows bit columns of the entries of buf.
// The commitments are processed in blocks of NumParChecks. The
// column bits of the block j are packed into a GF(2^128) element
// and multiplied with α^(j+1). The products are accumulated without
// reduction and each row is reduced once at the end.
func linearCombination(buf *Buffer, rows int, alpha simd.Block,
	numChecks int) *proof {

	lo := make([]simd.Block, rows)
	hi := make([]simd.Block, rows)

	n := buf.NumEntries()
	block := simd.NewBitMatrix(rows, NumParChecks/8)
	pow := alpha

	for ofs := 0; ofs < n; ofs += NumParChecks {
		end := min(ofs+NumParChecks, n)
		simd.Transpose(block, buf.Slice(ofs, end).Matrix())

		for i := 0; i < rows; i++ {
			l, h := simd.Mul(simd.Load(block.Row(i)), pow)
			lo[i] = lo[i].Xor(l)
			hi[i] = hi[i].Xor(h)
		}
		pow = simd.MulReduce(pow, alpha)
	}

	result := newProof(rows, numChecks)
	for i := 0; i < rows; i++ {
		simd.Reduce(lo[i], hi[i]).Store(result.row(i))
	}
	return result
}

// transposeBlind transposes the first NumParChecks blinding
// codewords into rows of the codeword bits.
func transposeBlind(blind *Buffer, cwordBits int) simd.BitMatrix {
	m := simd.NewBitMatrix(cwordBits, NumParChecks/8)
	simd.Transpose(m, blind.Matrix())
	return m
}

func sendProofs(conn *p2p.Conn, p0, p1 *proof) error {
	if err := conn.SendData(p0.data); err != nil {
		return err
	}
	if err := conn.SendData(p1.data); err != nil {
		return err
	}
	return conn.Flush()
}

func receiveProofs(conn *p2p.Conn, rows, numChecks int) (
	[2]*proof, error) {

	result := [2]*proof{
		newProof(rows, numChecks),
		newProof(rows, numChecks),
	}
	for _, p := range result {
		if err := conn.ReceiveDataInto(p.data); err != nil {
			return result, err
		}
	}
	return result, nil
}

func receiveChallenge(conn *p2p.Conn) (simd.Block, error) {
	var buf [CSecBytes]byte
	if err := conn.ReceiveDataInto(buf[:]); err != nil {
		return simd.Block{}, err
	}
	return simd.Load(buf[:]), nil
}

func sendChallenge(r io.Reader, conn *p2p.Conn) (simd.Block, error) {
	var buf [CSecBytes]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return simd.Block{}, err
	}
	if err := conn.SendData(buf[:]); err != nil {
		return simd.Block{}, err
	}
	if err := conn.Flush(); err != nil {
		return simd.Block{}, err
	}
	return simd.Load(buf[:]), nil
}

// verifyTransposedDecommits verifies the Sender's proofs against the
// combinations of the Receiver's record. The proof row selected by
// the choice bit of the row must equal the record row. The XOR of
// the proofs must consist of numChecks*8 codewords.
func (r *Receiver) verifyTransposedDecommits(proofs [2]*proof,
	combined *proof) bool {

	params := r.params
	numChecks := combined.numChecks

	m := simd.NewBitMatrix(params.CwordBits, NumParChecks/8)
	for i := 0; i < params.CwordBits; i++ {
		p0 := proofs[0].row(i)
		p1 := proofs[1].row(i)

		selected := p0
		if r.choices[i] {
			selected = p1
		}
		if !bytes.Equal(combined.row(i), selected) {
			r.config.Debugf("%s: proof row %d mismatch", r, i)
			return false
		}
		row := m.Row(i)
		for j := 0; j < numChecks; j++ {
			row[j] = p0[j] ^ p1[j]
		}
	}

	cwords := simd.NewBitMatrix(NumParChecks, params.CwordBytes)
	simd.Transpose(cwords, m)

	parity := make([]byte, params.ParityBytes)
	for i := 0; i < numChecks*8; i++ {
		cword := cwords.Row(i)
		r.code.Encode(cword[:params.MsgBytes], parity)
		if !bytes.Equal(parity, cword[params.MsgOffset:]) {
			r.config.Debugf("%s: linear combination %d is not a codeword",
				r, i)
			return false
		}
	}
	return true
}
