//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package commit

import (
	"io"

	"github.com/markkurossi/splitcommit/env"
	"github.com/markkurossi/splitcommit/ot"
	"github.com/markkurossi/splitcommit/p2p"
	"github.com/markkurossi/splitcommit/simd"
)

// Sender implements the committing party. The Sender holds both
// seeds of every seed OT. A Sender and its connection must be used
// by one goroutine at a time; use GetCloneSenders for parallel
// executions.
type Sender struct {
	state
	seeds [2][]*PRG
}

// NewSender creates a new commitment sender.
func NewSender(config *env.Config) *Sender {
	return &Sender{
		state: state{
			config: config,
			role:   "S",
		},
	}
}

// SetMsgBitSize sets the message size in bits. The supported sizes
// are 1 and 128. The optional genMatrixPath names the generator file
// of the 128-bit code.
func (s *Sender) SetMsgBitSize(bits int, genMatrixPath string) error {
	return s.setMsgBitSize(bits, genMatrixPath)
}

// ComputeAndSetSeedOTs runs the random OTs for the seeds with the
// Receiver. The Sender acts as the random OT sender.
func (s *Sender) ComputeAndSetSeedOTs(r io.Reader, conn *p2p.Conn) error {
	if err := s.checkParams(); err != nil {
		return err
	}
	rot := ot.NewROT(ot.NewCO(r), r, true, false)
	if err := rot.InitSender(conn); err != nil {
		return err
	}
	wires := make([]ot.Wire, s.params.CwordBits)
	if err := rot.Send(wires); err != nil {
		return err
	}
	return s.SetSeedOTs(wires)
}

// SetSeedOTs sets the seed OTs. The Sender needs one wire per
// codeword bit.
func (s *Sender) SetSeedOTs(seeds []ot.Wire) error {
	if err := s.checkParams(); err != nil {
		return err
	}
	if len(seeds) != s.params.CwordBits {
		return configError("%s: got %d seed OTs, expected %d",
			s, len(seeds), s.params.CwordBits)
	}
	var result [2][]*PRG
	var ld ot.LabelData
	for b := 0; b < 2; b++ {
		result[b] = make([]*PRG, len(seeds))
	}
	for i, wire := range seeds {
		var err error
		result[0][i], err = NewPRG(wire.L0.Bytes(&ld))
		if err != nil {
			return err
		}
		result[1][i], err = NewPRG(wire.L1.Bytes(&ld))
		if err != nil {
			return err
		}
	}
	s.seeds = result
	s.otsSet = true

	return nil
}

// Seeds returns the seeds of the codeword bit i.
func (s *Sender) Seeds(i int) (seed0, seed1 []byte) {
	return s.seeds[0][i].Seed(), s.seeds[1][i].Seed()
}

// GetCloneSenders creates n independent Senders. The clone seeds are
// drawn from the seed streams of this Sender. The Receiver must call
// GetCloneReceivers with the same n at the same point of the
// protocol.
func (s *Sender) GetCloneSenders(n int) ([]*Sender, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	result := make([]*Sender, n)
	for e := 0; e < n; e++ {
		clone := &Sender{
			state: s.clone(e + 1),
		}
		for b := 0; b < 2; b++ {
			clone.seeds[b] = make([]*PRG, len(s.seeds[b]))
			for i, prg := range s.seeds[b] {
				var err error
				clone.seeds[b][i], err = prg.squeeze()
				if err != nil {
					return nil, err
				}
			}
		}
		clone.otsSet = true
		result[e] = clone
	}
	return result, nil
}

// NewShares creates share buffers for n commitments.
func (s *Sender) NewShares(n int) Shares {
	return Shares{
		NewBuffer(n, s.params.CwordBytes),
		NewBuffer(n, s.params.CwordBytes),
	}
}

func (s *Sender) checkShares(shares Shares) error {
	for b := 0; b < 2; b++ {
		if shares[b] == nil {
			return configError("%s: share %d unset", s, b)
		}
		if shares[b].EntrySize() != s.params.CwordBytes {
			return configError("%s: share %d: entry size %d, expected %d",
				s, b, shares[b].EntrySize(), s.params.CwordBytes)
		}
	}
	if shares[0].NumEntries() != shares[1].NumEntries() {
		return configError("%s: share size mismatch: %d != %d",
			s, shares[0].NumEntries(), shares[1].NumEntries())
	}
	return nil
}

// Commit commits to the random values of the shares. The shares are
// overwritten with the codeword shares of the commitments. If
// lsbStart is not NoLSBStart, the LSBs of the commitments before
// lsbStart are fixed to 0 and the LSBs of the rest commitments to 1.
// The ctype constrains the committed values.
func (s *Sender) Commit(shares Shares, conn *p2p.Conn, lsbStart int,
	ctype CommitType) error {

	if err := s.checkReady(); err != nil {
		return err
	}
	if err := s.checkShares(shares); err != nil {
		return err
	}
	n := shares.NumEntries()
	if err := s.checkCommit(n, lsbStart, ctype); err != nil {
		return err
	}
	s.config.Debugf("%s: commit %d %v", s, n, ctype)

	blind := s.NewShares(NumParChecks)
	s.expandAndTranspose(shares, blind)

	if ctype != Normal {
		for b := 0; b < 2; b++ {
			for i := 0; i < n; i++ {
				s.shape(shares[b].Entry(i), ctype)
			}
		}
	}
	if lsbStart != NoLSBStart {
		if err := s.fixLSBs(shares, lsbStart, conn); err != nil {
			return err
		}
	}
	if err := s.checkbitCorrection(shares, blind, conn); err != nil {
		return err
	}
	return s.consistencyCheck(shares, blind, conn)
}

// expandAndTranspose expands the seed streams into the commitment
// and blinding shares. Each seed stream provides one codeword bit of
// all commitments.
func (s *Sender) expandAndTranspose(shares, blind Shares) {
	for b := 0; b < 2; b++ {
		expand(s.seeds[b], shares[b])
		expand(s.seeds[b], blind[b])
	}
}

func expand(seeds []*PRG, buf *Buffer) {
	m := simd.NewBitMatrix(len(seeds), (buf.NumEntries()+7)/8)
	for i, prg := range seeds {
		prg.Read(m.Row(i))
	}
	simd.Transpose(buf.Matrix(), m)
}

// fixLSBs sends the LSB corrections of all commitments so that the
// LSB of the commitment i is 1 iff i >= lsbStart.
func (s *Sender) fixLSBs(shares Shares, lsbStart int, conn *p2p.Conn) error {
	n := shares.NumEntries()
	corrections := make([]byte, (n+7)/8)

	for i := 0; i < n; i++ {
		s0 := shares[0].Entry(i)
		s1 := shares[1].Entry(i)

		var want uint
		if i >= lsbStart {
			want = 1
		}
		c := lsb(s0) ^ lsb(s1) ^ want
		if c != 0 {
			setBit(corrections, i, 1)
			s1[LSBIndex/8] ^= lsbMask
		}
	}
	return conn.SendData(corrections)
}

// checkbitCorrection corrects the parity of the shares so that
// share0⊕share1 is a codeword. The parity corrections are applied to
// share1.
func (s *Sender) checkbitCorrection(shares, blind Shares,
	conn *p2p.Conn) error {

	n := shares.NumEntries()
	pb := s.params.ParityBytes
	ofs := s.params.MsgOffset

	corrections := make([]byte, (n+NumParChecks)*pb)
	value := make([]byte, s.params.CwordBytes)
	parity := make([]byte, pb)

	correct := func(s0, s1, corr []byte) {
		for i := range value {
			value[i] = s0[i] ^ s1[i]
		}
		s.code.Encode(value[:s.params.MsgBytes], parity)
		for i := 0; i < pb; i++ {
			corr[i] = parity[i] ^ value[ofs+i]
			s1[ofs+i] ^= corr[i]
		}
	}
	for i := 0; i < n; i++ {
		correct(shares[0].Entry(i), shares[1].Entry(i),
			corrections[i*pb:(i+1)*pb])
	}
	for i := 0; i < NumParChecks; i++ {
		correct(blind[0].Entry(i), blind[1].Entry(i),
			corrections[(n+i)*pb:(n+i+1)*pb])
	}

	if err := conn.SendData(corrections); err != nil {
		return err
	}
	return conn.Flush()
}

// consistencyCheck proves that the shares are shares of codewords
// by opening blinded random linear combinations of them.
func (s *Sender) consistencyCheck(shares, blind Shares,
	conn *p2p.Conn) error {

	proofs, err := s.computeShares(shares, blind, Consistency, conn)
	if err != nil {
		return err
	}
	return sendProofs(conn, proofs[0], proofs[1])
}

// computeShares receives the Receiver's challenge and computes the
// numChecks byte random linear combinations of both share vectors.
// If blind is set, the blinding shares are added to the
// combinations.
func (s *Sender) computeShares(shares, blind Shares, numChecks int,
	conn *p2p.Conn) ([2]*proof, error) {

	var proofs [2]*proof
	alpha, err := receiveChallenge(conn)
	if err != nil {
		return proofs, err
	}
	for b := 0; b < 2; b++ {
		proofs[b] = linearCombination(shares[b], s.params.CwordBits, alpha,
			numChecks)
		if blind[b] != nil {
			proofs[b].xorBlind(transposeBlind(blind[b], s.params.CwordBits))
		}
	}
	return proofs, nil
}

// Decommit opens the commitments by sending both shares.
func (s *Sender) Decommit(shares Shares, conn *p2p.Conn) error {
	if err := s.checkReady(); err != nil {
		return err
	}
	if err := s.checkShares(shares); err != nil {
		return err
	}
	if err := conn.SendData(shares[0].Data()); err != nil {
		return err
	}
	if err := conn.SendData(shares[1].Data()); err != nil {
		return err
	}
	return conn.Flush()
}

// values returns the committed values of the shares. The 1-bit
// values are packed into bytes.
func (s *Sender) values(shares Shares) []byte {
	n := shares.NumEntries()
	if s.params.MsgBits == 1 {
		result := make([]byte, (n+7)/8)
		for i := 0; i < n; i++ {
			v := (shares[0].Entry(i)[0] ^ shares[1].Entry(i)[0]) & 1
			setBit(result, i, uint(v))
		}
		return result
	}
	msgBytes := s.params.MsgBytes
	result := make([]byte, n*msgBytes)
	for i := 0; i < n; i++ {
		s0 := shares[0].Entry(i)
		s1 := shares[1].Entry(i)
		for j := 0; j < msgBytes; j++ {
			result[i*msgBytes+j] = s0[j] ^ s1[j]
		}
	}
	return result
}

// BatchDecommit opens the values of the commitments and proves them
// with random linear combinations of the shares. If valuesSent is
// true, the values were already delivered to the Receiver.
func (s *Sender) BatchDecommit(shares Shares, conn *p2p.Conn,
	valuesSent bool) error {

	if err := s.checkReady(); err != nil {
		return err
	}
	if err := s.checkShares(shares); err != nil {
		return err
	}
	if shares.NumEntries() == 0 {
		return configError("%s: empty decommit", s)
	}
	if !valuesSent {
		if err := conn.SendData(s.values(shares)); err != nil {
			return err
		}
		if err := conn.Flush(); err != nil {
			return err
		}
	}
	proofs, err := s.computeShares(shares, Shares{}, BatchDecommit, conn)
	if err != nil {
		return err
	}
	return sendProofs(conn, proofs[0], proofs[1])
}

// BatchDecommitLSB opens the LSBs of the commitments. The proofs are
// blinded with the blind commitments that must be committed with
// the AllRndLSBZero type. If valuesSent is true, the LSBs were
// already delivered to the Receiver.
func (s *Sender) BatchDecommitLSB(shares, blind Shares, conn *p2p.Conn,
	valuesSent bool) error {

	if err := s.checkReady(); err != nil {
		return err
	}
	if s.params.MsgBits != CSec {
		return configError("%s: LSB decommit with %d-bit messages",
			s, s.params.MsgBits)
	}
	if err := s.checkShares(shares); err != nil {
		return err
	}
	if err := s.checkShares(blind); err != nil {
		return err
	}
	n := shares.NumEntries()
	if n == 0 {
		return configError("%s: empty decommit", s)
	}
	if blind.NumEntries() < BatchDecommit*8 {
		return configError("%s: %d blinding commitments, need %d",
			s, blind.NumEntries(), BatchDecommit*8)
	}
	if !valuesSent {
		lsbs := make([]byte, (n+7)/8)
		for i := 0; i < n; i++ {
			setBit(lsbs, i, lsb(shares[0].Entry(i))^lsb(shares[1].Entry(i)))
		}
		if err := conn.SendData(lsbs); err != nil {
			return err
		}
		if err := conn.Flush(); err != nil {
			return err
		}
	}
	proofs, err := s.computeShares(shares, blind, BatchDecommit, conn)
	if err != nil {
		return err
	}
	return sendProofs(conn, proofs[0], proofs[1])
}
