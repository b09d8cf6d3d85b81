//
// ot.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.

// Package ot implements 1-out-of-2 oblivious transfer for wire
// labels. The sender calls Send with a []Wire array where each wire
// has a zero and a one Label. The receiver calls Receive with a
// []bool array of choice bits and gets exactly one label per choice.
// The sender learns nothing about the choices and the receiver
// learns nothing about the unchosen labels. The higher level
// protocol must ensure that the []Wire and []bool array lengths
// match.
package ot

// OT defines the base 1-out-of-2 oblivious transfer protocol.
type OT interface {
	// InitSender initializes the OT sender.
	InitSender(io IO) error

	// InitReceiver initializes the OT receiver.
	InitReceiver(io IO) error

	// Send sends the wire labels with OT.
	Send(wires []Wire) error

	// Receive receives the wire labels with OT based on the choice
	// bits. The result array must have the same length as choices.
	Receive(choices []bool, result []Label) error
}
