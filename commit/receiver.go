//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package commit

import (
	"bytes"
	"io"

	"github.com/markkurossi/splitcommit/env"
	"github.com/markkurossi/splitcommit/ot"
	"github.com/markkurossi/splitcommit/p2p"
	"github.com/markkurossi/splitcommit/simd"
)

// Receiver implements the verifying party. The Receiver holds one
// seed of every seed OT, selected by its choice bits. A Receiver and
// its connection must be used by one goroutine at a time; use
// GetCloneReceivers for parallel executions.
type Receiver struct {
	state
	seeds       []*PRG
	choices     []bool
	choiceBytes []byte
}

// NewReceiver creates a new commitment receiver.
func NewReceiver(config *env.Config) *Receiver {
	return &Receiver{
		state: state{
			config: config,
			role:   "R",
		},
	}
}

// SetMsgBitSize sets the message size in bits. The supported sizes
// are 1 and 128. The optional genMatrixPath names the generator file
// of the 128-bit code.
func (r *Receiver) SetMsgBitSize(bits int, genMatrixPath string) error {
	return r.setMsgBitSize(bits, genMatrixPath)
}

// ComputeAndSetSeedOTs runs the random OTs for the seeds with the
// Sender. The choice bits are sampled from rand.
func (r *Receiver) ComputeAndSetSeedOTs(rand io.Reader,
	conn *p2p.Conn) error {

	if err := r.checkParams(); err != nil {
		return err
	}
	n := r.params.CwordBits

	buf := make([]byte, r.params.CwordBytes)
	if _, err := io.ReadFull(rand, buf); err != nil {
		return err
	}
	choices := make([]bool, n)
	for i := range choices {
		choices[i] = getBit(buf, i) == 1
	}

	rot := ot.NewROT(ot.NewCO(rand), rand, true, false)
	if err := rot.InitReceiver(conn); err != nil {
		return err
	}
	labels := make([]ot.Label, n)
	if err := rot.Receive(choices, labels); err != nil {
		return err
	}
	return r.SetSeedOTs(labels, choices)
}

// SetSeedOTs sets the seed OTs and their choice bits. The Receiver
// needs one seed per codeword bit.
func (r *Receiver) SetSeedOTs(seeds []ot.Label, choices []bool) error {
	if err := r.checkParams(); err != nil {
		return err
	}
	n := r.params.CwordBits
	if len(seeds) != n || len(choices) != n {
		return configError("%s: got %d seed OTs and %d choices, expected %d",
			r, len(seeds), len(choices), n)
	}
	prgs := make([]*PRG, n)
	var ld ot.LabelData
	for i, seed := range seeds {
		var err error
		prgs[i], err = NewPRG(seed.Bytes(&ld))
		if err != nil {
			return err
		}
	}
	r.seeds = prgs
	r.setChoices(choices)
	r.otsSet = true

	return nil
}

func (r *Receiver) setChoices(choices []bool) {
	r.choices = make([]bool, len(choices))
	copy(r.choices, choices)

	r.choiceBytes = make([]byte, r.params.CwordBytes)
	for i, c := range choices {
		if c {
			// Byte mask selecting the corrections of the 1-shares.
			r.choiceBytes[i/8] |= 1 << (i % 8)
		}
	}
}

// Choices returns the seed OT choice bits.
func (r *Receiver) Choices() []bool {
	result := make([]bool, len(r.choices))
	copy(result, r.choices)
	return result
}

// Seed returns the seed of the codeword bit i.
func (r *Receiver) Seed(i int) []byte {
	return r.seeds[i].Seed()
}

// GetCloneReceivers creates n independent Receivers, matching the
// Senders created by GetCloneSenders. The function also returns an
// independent random stream for each clone, derived from rand.
func (r *Receiver) GetCloneReceivers(n int, rand io.Reader) (
	[]*Receiver, []io.Reader, error) {

	if err := r.checkReady(); err != nil {
		return nil, nil, err
	}
	result := make([]*Receiver, n)
	rands := make([]io.Reader, n)
	for e := 0; e < n; e++ {
		clone := &Receiver{
			state: r.clone(e + 1),
			seeds: make([]*PRG, len(r.seeds)),
		}
		for i, prg := range r.seeds {
			var err error
			clone.seeds[i], err = prg.squeeze()
			if err != nil {
				return nil, nil, err
			}
		}
		clone.setChoices(r.choices)
		clone.otsSet = true
		result[e] = clone

		var err error
		rands[e], err = DeriveReader(rand)
		if err != nil {
			return nil, nil, err
		}
	}
	return result, rands, nil
}

// NewRecord creates a record buffer for n commitments.
func (r *Receiver) NewRecord(n int) *Buffer {
	return NewBuffer(n, r.params.CwordBytes)
}

// NewValues creates a value buffer for n decommitted values.
func (r *Receiver) NewValues(n int) *Buffer {
	return NewBuffer(r.numValueEntries(n), r.valueEntrySize())
}

// NewLSBValues creates a value buffer for n decommitted LSBs.
func (r *Receiver) NewLSBValues(n int) *Buffer {
	return NewBuffer((n+7)/8, 1)
}

func (r *Receiver) checkRecord(record *Buffer) error {
	if record == nil {
		return configError("%s: record unset", r)
	}
	if record.EntrySize() != r.params.CwordBytes {
		return configError("%s: record entry size %d, expected %d",
			r, record.EntrySize(), r.params.CwordBytes)
	}
	return nil
}

func (r *Receiver) checkValues(values *Buffer, n int) error {
	if values == nil {
		return configError("%s: values unset", r)
	}
	entries := r.numValueEntries(n)
	size := r.valueEntrySize()
	if values.NumEntries() != entries || values.EntrySize() != size {
		return configError("%s: values %v, expected %dx%d",
			r, values, entries, size)
	}
	return nil
}

func (r *Receiver) checkLSBs(values *Buffer, n int) error {
	if values == nil {
		return configError("%s: values unset", r)
	}
	entries := (n + 7) / 8
	if values.NumEntries() != entries || values.EntrySize() != 1 {
		return configError("%s: LSB values %v, expected %dx1",
			r, values, entries)
	}
	return nil
}

// Commit receives the commitments of the Sender into record. The
// function returns false if the Sender's consistency proof fails.
// The lsbStart and ctype must match the Sender's arguments.
func (r *Receiver) Commit(record *Buffer, rand io.Reader, conn *p2p.Conn,
	lsbStart int, ctype CommitType) (bool, error) {

	if err := r.checkReady(); err != nil {
		return false, err
	}
	if err := r.checkRecord(record); err != nil {
		return false, err
	}
	n := record.NumEntries()
	if err := r.checkCommit(n, lsbStart, ctype); err != nil {
		return false, err
	}
	r.config.Debugf("%s: commit %d %v", r, n, ctype)

	blind := r.NewRecord(NumParChecks)
	r.expandAndTranspose(record, blind)

	if ctype != Normal {
		for i := 0; i < n; i++ {
			r.shape(record.Entry(i), ctype)
		}
	}
	if lsbStart != NoLSBStart {
		if err := r.fixLSBs(record, conn); err != nil {
			return false, err
		}
	}
	if err := r.checkbitCorrection(record, blind, conn); err != nil {
		return false, err
	}
	return r.consistencyCheck(record, blind, rand, conn, ctype)
}

func (r *Receiver) expandAndTranspose(record, blind *Buffer) {
	expand(r.seeds, record)
	expand(r.seeds, blind)
}

func (r *Receiver) fixLSBs(record *Buffer, conn *p2p.Conn) error {
	n := record.NumEntries()
	corrections := make([]byte, (n+7)/8)
	if err := conn.ReceiveDataInto(corrections); err != nil {
		return err
	}
	if !r.choices[LSBIndex] {
		return nil
	}
	for i := 0; i < n; i++ {
		if getBit(corrections, i) == 1 {
			record.Entry(i)[LSBIndex/8] ^= lsbMask
		}
	}
	return nil
}

func (r *Receiver) checkbitCorrection(record, blind *Buffer,
	conn *p2p.Conn) error {

	n := record.NumEntries()
	pb := r.params.ParityBytes
	ofs := r.params.MsgOffset

	corrections := make([]byte, (n+NumParChecks)*pb)
	if err := conn.ReceiveDataInto(corrections); err != nil {
		return err
	}
	mask := r.choiceBytes[ofs : ofs+pb]

	correct := func(cword, corr []byte) {
		for i, m := range mask {
			cword[ofs+i] ^= corr[i] & m
		}
	}
	for i := 0; i < n; i++ {
		correct(record.Entry(i), corrections[i*pb:(i+1)*pb])
	}
	for i := 0; i < NumParChecks; i++ {
		correct(blind.Entry(i), corrections[(n+i)*pb:(n+i+1)*pb])
	}
	return nil
}

func (r *Receiver) consistencyCheck(record, blind *Buffer, rand io.Reader,
	conn *p2p.Conn, ctype CommitType) (bool, error) {

	cwordBits := r.params.CwordBits
	combined, _, err := r.computeShares(record, blind, nil, 0, Consistency,
		rand, conn)
	if err != nil {
		return false, err
	}
	proofs, err := receiveProofs(conn, cwordBits, Consistency)
	if err != nil {
		return false, err
	}

	// The constrained message bits of the commitments are zero so
	// the selected proof rows must equal the blinding rows.
	var from, to int
	switch ctype {
	case AllZeroLSBRnd:
		from, to = 0, LSBIndex
	case AllRndLSBZero:
		from, to = LSBIndex, LSBIndex+1
	}
	var blindRows simd.BitMatrix
	if from < to {
		blindRows = transposeBlind(blind, cwordBits)
	}
	for i := from; i < to; i++ {
		selected := proofs[0]
		if r.choices[i] {
			selected = proofs[1]
		}
		if !bytes.Equal(blindRows.Row(i)[:Consistency], selected.row(i)) {
			r.config.Debugf("%s: %v: message bit %d not zero", r, ctype, i)
			return false, nil
		}
	}

	return r.verifyTransposedDecommits(proofs, combined), nil
}

// computeShares sends a random challenge to the Sender and computes
// the numChecks byte random linear combinations of the record. If
// blind is set, the blinding record is added to the combinations. If
// values is set, the function also combines the first valueBits bits
// of the values with the same challenge.
func (r *Receiver) computeShares(record, blind, values *Buffer,
	valueBits, numChecks int, rand io.Reader, conn *p2p.Conn) (
	combined, valueCombined *proof, err error) {

	alpha, err := sendChallenge(rand, conn)
	if err != nil {
		return nil, nil, err
	}
	cwordBits := r.params.CwordBits

	combined = linearCombination(record, cwordBits, alpha, numChecks)
	if blind != nil {
		combined.xorBlind(transposeBlind(blind, cwordBits))
	}
	if values != nil {
		valueCombined = linearCombination(values, valueBits, alpha,
			numChecks)
	}
	return combined, valueCombined, nil
}

// Decommit receives the Sender's shares and verifies them against
// record. The decommitted values are stored in values: 1-bit values
// are packed into ceil(n/8) bytes and 128-bit values take one 16
// byte entry each.
func (r *Receiver) Decommit(record, values *Buffer, conn *p2p.Conn) (
	bool, error) {

	if err := r.checkReady(); err != nil {
		return false, err
	}
	if err := r.checkRecord(record); err != nil {
		return false, err
	}
	n := record.NumEntries()
	if err := r.checkValues(values, n); err != nil {
		return false, err
	}
	decommits := Shares{r.NewRecord(n), r.NewRecord(n)}
	for _, share := range decommits {
		if err := conn.ReceiveDataInto(share.Data()); err != nil {
			return false, err
		}
	}
	return r.VerifyDecommits(decommits, record, values)
}

// VerifyDecommits verifies the decommitted shares against record and
// stores the values into values. The function returns false if any
// decommitment is invalid and values is not modified in that case.
func (r *Receiver) VerifyDecommits(decommits Shares, record, values *Buffer) (
	bool, error) {

	if err := r.checkReady(); err != nil {
		return false, err
	}
	if err := r.checkRecord(record); err != nil {
		return false, err
	}
	n := record.NumEntries()
	for b := 0; b < 2; b++ {
		if decommits[b] == nil ||
			decommits[b].EntrySize() != r.params.CwordBytes ||
			decommits[b].NumEntries() != n {
			return false, configError("%s: decommit share %d: %v, expected %v",
				r, b, decommits[b], record)
		}
	}
	if err := r.checkValues(values, n); err != nil {
		return false, err
	}

	params := r.params
	value := make([]byte, params.CwordBytes)
	parity := make([]byte, params.ParityBytes)

	for j := 0; j < n; j++ {
		d0 := decommits[0].Entry(j)
		d1 := decommits[1].Entry(j)
		rec := record.Entry(j)

		for i, c := range r.choiceBytes {
			if rec[i] != (d1[i]&c)^(d0[i]&^c) {
				r.config.Debugf("%s: decommit %d: share mismatch", r, j)
				return false, nil
			}
			value[i] = d0[i] ^ d1[i]
		}
		r.code.Encode(value[:params.MsgBytes], parity)
		if !bytes.Equal(parity, value[params.MsgOffset:]) {
			r.config.Debugf("%s: decommit %d: not a codeword", r, j)
			return false, nil
		}
	}

	// All decommitments are valid.
	if params.MsgBits == 1 {
		clear(values.Data())
	}
	for j := 0; j < n; j++ {
		d0 := decommits[0].Entry(j)
		d1 := decommits[1].Entry(j)
		if params.MsgBits == 1 {
			setBit(values.Data(), j, uint((d0[0]^d1[0])&1))
			continue
		}
		v := values.Entry(j)
		for i := range v {
			v[i] = d0[i] ^ d1[i]
		}
	}
	return true, nil
}

// unpackBits returns the n packed bits as n one-byte entries.
func unpackBits(packed []byte, n int) *Buffer {
	result := NewBuffer(n, 1)
	for i := 0; i < n; i++ {
		result.Data()[i] = byte(getBit(packed, i))
	}
	return result
}

// BatchDecommit receives the committed values into values and
// verifies them with random linear combinations of the shares. If
// valuesReceived is true, values already hold the values from an
// earlier exchange.
func (r *Receiver) BatchDecommit(record, values *Buffer, rand io.Reader,
	conn *p2p.Conn, valuesReceived bool) (bool, error) {

	if err := r.checkReady(); err != nil {
		return false, err
	}
	if err := r.checkRecord(record); err != nil {
		return false, err
	}
	n := record.NumEntries()
	if n == 0 {
		return false, configError("%s: empty decommit", r)
	}
	if err := r.checkValues(values, n); err != nil {
		return false, err
	}
	if !valuesReceived {
		if err := conn.ReceiveDataInto(values.Data()); err != nil {
			return false, err
		}
	}
	cwordBits := r.params.CwordBits
	msgBits := r.params.MsgBits

	vals := values
	if msgBits == 1 {
		vals = unpackBits(values.Data(), n)
	}
	combined, valueCombined, err := r.computeShares(record, nil, vals,
		msgBits, BatchDecommit, rand, conn)
	if err != nil {
		return false, err
	}
	proofs, err := receiveProofs(conn, cwordBits, BatchDecommit)
	if err != nil {
		return false, err
	}
	if !r.verifyTransposedDecommits(proofs, combined) {
		return false, nil
	}
	for i := 0; i < msgBits; i++ {
		if !equalXor(proofs[0].row(i), proofs[1].row(i),
			valueCombined.row(i)) {
			r.config.Debugf("%s: value bit %d mismatch", r, i)
			return false, nil
		}
	}
	return true, nil
}

// BatchDecommitLSB receives the LSBs of the committed values into
// values and verifies them. The values are packed into ceil(n/8)
// one-byte entries. The blind record must hold at least 40
// commitments of the AllRndLSBZero type.
func (r *Receiver) BatchDecommitLSB(record, values, blind *Buffer,
	rand io.Reader, conn *p2p.Conn, valuesReceived bool) (bool, error) {

	if err := r.checkReady(); err != nil {
		return false, err
	}
	if r.params.MsgBits != CSec {
		return false, configError("%s: LSB decommit with %d-bit messages",
			r, r.params.MsgBits)
	}
	if err := r.checkRecord(record); err != nil {
		return false, err
	}
	if err := r.checkRecord(blind); err != nil {
		return false, err
	}
	n := record.NumEntries()
	if n == 0 {
		return false, configError("%s: empty decommit", r)
	}
	if blind.NumEntries() < BatchDecommit*8 {
		return false, configError("%s: %d blinding commitments, need %d",
			r, blind.NumEntries(), BatchDecommit*8)
	}
	if err := r.checkLSBs(values, n); err != nil {
		return false, err
	}
	if !valuesReceived {
		if err := conn.ReceiveDataInto(values.Data()); err != nil {
			return false, err
		}
	}
	cwordBits := r.params.CwordBits
	combined, valueCombined, err := r.computeShares(record, blind,
		unpackBits(values.Data(), n), 1, BatchDecommit, rand, conn)
	if err != nil {
		return false, err
	}
	proofs, err := receiveProofs(conn, cwordBits, BatchDecommit)
	if err != nil {
		return false, err
	}
	if !r.verifyTransposedDecommits(proofs, combined) {
		return false, nil
	}
	if !equalXor(proofs[0].row(LSBIndex), proofs[1].row(LSBIndex),
		valueCombined.row(0)) {
		r.config.Debugf("%s: LSB mismatch", r)
		return false, nil
	}
	return true, nil
}

// equalXor tests if a⊕b equals c.
func equalXor(a, b, c []byte) bool {
	for i := range c {
		if a[i]^b[i] != c[i] {
			return false
		}
	}
	return true
}
