//
// insecure.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.

package ot

import (
	"fmt"
)

var (
	_ OT = &Insecure{}
)

// AllowInsecure acknowledges that the Insecure transfer provides no
// privacy. Constructing an Insecure transfer requires the marker so
// that the insecure path can never be selected by default.
type AllowInsecure struct{}

// Insecure implements the OT interface without any cryptographic
// protection: the receiver's choice bits are sent to the sender in
// the clear. It exists only for tests exercising the protocol framing
// without the elliptic curve operations. UNSAFE for any real use.
type Insecure struct {
	io IO
}

// NewInsecure creates a new insecure transfer. The AllowInsecure
// marker must be passed explicitly.
func NewInsecure(AllowInsecure) *Insecure {
	return &Insecure{}
}

// InitSender initializes the OT sender.
func (in *Insecure) InitSender(io IO) error {
	in.io = io
	if err := SendString(io, "insecure"); err != nil {
		return err
	}
	return io.Flush()
}

// InitReceiver initializes the OT receiver.
func (in *Insecure) InitReceiver(io IO) error {
	in.io = io

	name, err := ReceiveString(io)
	if err != nil {
		return err
	}
	if name != "insecure" {
		return fmt.Errorf("ot: peer transfer is %q, not insecure", name)
	}
	return nil
}

// Send sends the wire labels based on the choice bits the receiver
// discloses.
func (in *Insecure) Send(wires []Wire) error {
	count, err := in.io.ReceiveUint32()
	if err != nil {
		return err
	}
	if count != len(wires) {
		return fmt.Errorf("ot: received %d choices for %d wires",
			count, len(wires))
	}
	flags, err := in.io.ReceiveData()
	if err != nil {
		return err
	}
	if len(flags) != count {
		return fmt.Errorf("ot: received %d choice bytes for %d wires",
			len(flags), count)
	}

	var data LabelData
	for i := 0; i < count; i++ {
		label := wires[i].L0
		if flags[i] != 0 {
			label = wires[i].L1
		}
		if err := in.io.SendData(label.Bytes(&data)); err != nil {
			return err
		}
	}
	return in.io.Flush()
}

// Receive receives the wire labels for the choice bits.
func (in *Insecure) Receive(choices []bool, result []Label) error {
	if len(choices) != len(result) {
		return fmt.Errorf("ot: %d choices for %d results",
			len(choices), len(result))
	}
	if err := in.io.SendUint32(len(choices)); err != nil {
		return err
	}
	flags := make([]byte, len(choices))
	for i, choice := range choices {
		if choice {
			flags[i] = 1
		}
	}
	if err := in.io.SendData(flags); err != nil {
		return err
	}
	if err := in.io.Flush(); err != nil {
		return err
	}

	for i := range result {
		data, err := in.io.ReceiveData()
		if err != nil {
			return err
		}
		if len(data) != 16 {
			return fmt.Errorf("ot: invalid label length %d", len(data))
		}
		result[i].SetBytes(data)
	}
	return nil
}
