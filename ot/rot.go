//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//
// The random OT construction follows the EMP Toolkit's
// emp-ot/cot.h (MIT License, Copyright (c) 2018 Xiao Wang).

package ot

import (
	"errors"
	"io"
)

// The number of OTs hashed with one MITCCRH key batch.
const rotBatch = 8

var (
	_ OT = &ROT{}

	// ErrRole is returned when the ROT is used in the wrong role.
	ErrRole = errors.New("ot: invalid ROT role")
)

// ROT implements random OT as the OT interface. The ROT extends the
// base OT with IKNP and breaks the correlation of the extended labels
// with MITCCRH. Send ignores the input wire labels and overwrites
// them with random labels.
type ROT struct {
	base      OT
	r         io.Reader
	malicious bool
	shared    bool
	io        IO
	sender    *IKNPSender
	receiver  *IKNPReceiver
}

// NewROT creates an IKNP-based Random OT instance implementing the OT
// interface.
//
// The malicious flag enables the consistency checks of the OT
// extension, giving security against malicious adversaries with
// abort. If false, the protocol is semi-honest IKNP.
//
// If shared is true, the ROT is initialized only once and later
// InitSender and InitReceiver calls just synchronize the peers. The
// later calls must use the initial role.
func NewROT(base OT, r io.Reader, malicious, shared bool) *ROT {
	return &ROT{
		base:      base,
		r:         r,
		malicious: malicious,
		shared:    shared,
	}
}

func (rot *ROT) reinit(sender bool) (bool, error) {
	if rot.sender == nil && rot.receiver == nil {
		return false, nil
	}
	if (rot.sender != nil) != sender || !rot.shared {
		return true, ErrRole
	}
	return true, rot.io.Flush()
}

// InitSender implements OT.InitSender.
func (rot *ROT) InitSender(io IO) error {
	if done, err := rot.reinit(true); done {
		return err
	}
	if err := rot.base.InitSender(io); err != nil {
		return err
	}
	s, err := NewIKNPSender(rot.base, io, rot.r, nil)
	if err != nil {
		return err
	}
	rot.io = io
	rot.sender = s
	return nil
}

// InitReceiver implements OT.InitReceiver.
func (rot *ROT) InitReceiver(io IO) error {
	if done, err := rot.reinit(false); done {
		return err
	}
	if err := rot.base.InitReceiver(io); err != nil {
		return err
	}
	r, err := NewIKNPReceiver(rot.base, io, rot.r)
	if err != nil {
		return err
	}
	rot.io = io
	rot.receiver = r
	return nil
}

// Send implements OT.Send.
func (rot *ROT) Send(wires []Wire) error {
	if rot.sender == nil {
		return ErrRole
	}
	b0, err := rot.sender.Send(len(wires), rot.malicious)
	if err != nil {
		return err
	}
	seed, err := NewLabel(rot.r)
	if err != nil {
		return err
	}
	var ld LabelData
	if err := rot.io.SendLabel(seed, &ld); err != nil {
		return err
	}
	if err := rot.io.Flush(); err != nil {
		return err
	}

	// Each key hashes both labels of one OT.
	hash := NewMITCCRH(seed, rotBatch)
	var pad [2 * rotBatch]Label
	for ofs := 0; ofs < len(wires); ofs += rotBatch {
		batch := wires[ofs:min(ofs+rotBatch, len(wires))]
		for i := range batch {
			pad[2*i] = b0[ofs+i]
			pad[2*i+1] = b0[ofs+i]
			pad[2*i+1].Xor(rot.sender.Delta)
		}
		hash.Hash(pad[:], rotBatch, 2)
		for i := range batch {
			batch[i].L0 = pad[2*i]
			batch[i].L1 = pad[2*i+1]
		}
	}
	return nil
}

// Receive implements OT.Receive.
func (rot *ROT) Receive(flags []bool, result []Label) error {
	if rot.receiver == nil {
		return ErrRole
	}
	if err := rot.receiver.Receive(flags, result, rot.malicious); err != nil {
		return err
	}
	var seed Label
	var ld LabelData
	if err := rot.io.ReceiveLabel(&seed, &ld); err != nil {
		return err
	}

	hash := NewMITCCRH(seed, rotBatch)
	var pad [rotBatch]Label
	for ofs := 0; ofs < len(result); ofs += rotBatch {
		n := copy(pad[:], result[ofs:])
		hash.Hash(pad[:], rotBatch, 1)
		copy(result[ofs:ofs+n], pad[:n])
	}
	return nil
}
