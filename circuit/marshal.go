//
// marshal.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// File format magic and version for marshalled garbled circuits.
const (
	garbledMagic   = uint32(0x67636972)
	garbledVersion = uint32(1)
)

// Marshal encodes the circuit topology and the garbled tables into
// the writer. The wire labels are not serialized; the encoding is
// safe to send to the evaluator.
func (gc *Garbled) Marshal(w io.Writer) error {
	bw := bufio.NewWriter(w)

	var data [4]byte
	put := func(v uint32) error {
		bo.PutUint32(data[:], v)
		_, err := bw.Write(data[:])
		return err
	}

	c := gc.Circ
	header := []uint32{
		garbledMagic, garbledVersion,
		uint32(c.NumInputs), uint32(c.NumOutputs),
		uint32(c.NumGates), uint32(c.NumWires),
	}
	for _, v := range header {
		if err := put(v); err != nil {
			return err
		}
	}
	for _, wire := range c.OutputWires {
		if err := put(uint32(wire)); err != nil {
			return err
		}
	}
	for _, gate := range c.Gates {
		fields := []uint32{
			uint32(gate.Output), uint32(gate.Input0),
			uint32(gate.Input1), uint32(gate.Op),
		}
		for _, v := range fields {
			if err := put(v); err != nil {
				return err
			}
		}
	}
	for _, g := range gc.Gates {
		for slot := 0; slot < Slots; slot++ {
			if len(g[slot]) != entrySize {
				return GarblerError(fmt.Sprintf(
					"table entry size %d", len(g[slot])))
			}
			if _, err := bw.Write(g[slot]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Bytes returns the marshalled garbled circuit.
func (gc *Garbled) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gc.Marshal(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGarbled decodes a marshalled garbled circuit. The
// topology is validated with Verify before the tables are read.
func UnmarshalGarbled(r io.Reader) (*Circuit, []GarbledGate, error) {
	br := bufio.NewReader(r)

	var data [4]byte
	get := func() (uint32, error) {
		_, err := io.ReadFull(br, data[:])
		if err != nil {
			return 0, err
		}
		return bo.Uint32(data[:]), nil
	}

	var header [6]uint32
	for i := range header {
		v, err := get()
		if err != nil {
			return nil, nil, err
		}
		header[i] = v
	}
	if header[0] != garbledMagic {
		return nil, nil, validationErrorf("invalid magic %08x", header[0])
	}
	if header[1] != garbledVersion {
		return nil, nil, validationErrorf("unknown version %d", header[1])
	}

	c := &Circuit{
		NumInputs:  int(header[2]),
		NumOutputs: int(header[3]),
		NumGates:   int(header[4]),
		NumWires:   int(header[5]),
	}
	if c.NumInputs <= 0 || c.NumInputs > MaxWires ||
		c.NumOutputs <= 0 || c.NumOutputs > MaxWires ||
		c.NumGates < 0 || c.NumGates > MaxWires ||
		c.NumWires <= 0 || c.NumWires > MaxWires {
		return nil, nil, validationErrorf("invalid circuit header")
	}

	c.InputWires = make([]Wire, c.NumInputs)
	for i := 0; i < c.NumInputs; i++ {
		c.InputWires[i] = Wire(i + 1)
	}
	c.OutputWires = make([]Wire, c.NumOutputs)
	for i := range c.OutputWires {
		v, err := get()
		if err != nil {
			return nil, nil, err
		}
		c.OutputWires[i] = Wire(v)
	}
	c.Gates = make([]Gate, c.NumGates)
	for i := range c.Gates {
		var fields [4]uint32
		for j := range fields {
			v, err := get()
			if err != nil {
				return nil, nil, err
			}
			fields[j] = v
		}
		if fields[3] > uint32(NOT) {
			return nil, nil, validationErrorf(
				"gate %d: invalid operation %d", i, fields[3])
		}
		c.Gates[i] = Gate{
			Output: Wire(fields[0]),
			Input0: Wire(fields[1]),
			Input1: Wire(fields[2]),
			Op:     Operation(fields[3]),
		}
		c.Stats[c.Gates[i].Op]++
	}
	if err := c.Verify(); err != nil {
		return nil, nil, err
	}

	gates := make([]GarbledGate, c.NumGates)
	for i := range gates {
		for slot := 0; slot < Slots; slot++ {
			entry := make([]byte, entrySize)
			if _, err := io.ReadFull(br, entry); err != nil {
				return nil, nil, err
			}
			gates[i][slot] = entry
		}
	}
	return c, gates, nil
}
