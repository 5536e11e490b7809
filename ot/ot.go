//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

// Package ot implements the 1-out-of-2 oblivious transfer protocols
// used for the seed OTs of the commitment schemes: the Chou-Orlandi
// base OT, the IKNP OT extension with the KOS consistency check, and
// the random OT combining them.
package ot

// OT defines the 1-out-of-2 oblivious transfer protocol. The sender
// calls Send with the wire label pairs and the receiver calls Receive
// with one choice flag per wire. The receiver learns L1 for the set
// flags and L0 for the others, and the sender learns nothing about
// the flags. The caller must use matching array lengths on both
// sides. A random OT may ignore the sender's input labels and return
// fresh random pairs in wires instead.
type OT interface {
	// InitSender initializes the OT sender.
	InitSender(io IO) error

	// InitReceiver initializes the OT receiver.
	InitReceiver(io IO) error

	// Send transfers the wire labels.
	Send(wires []Wire) error

	// Receive receives the labels selected by flags into result.
	Receive(flags []bool, result []Label) error
}
