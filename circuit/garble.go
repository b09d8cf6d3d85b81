//
// garble.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/markkurossi/yao/ot"
)

// Slots is the number of ciphertext slots in a garbled gate. Unary
// gates pad the unused slots with filler that is indistinguishable
// from real entries.
const Slots = 4

// GarbledGate contains the encrypted truth table of one gate. Slot
// positions carry no information about the truth table rows.
type GarbledGate [Slots][]byte

// GarblerError describes a garbling failure.
type GarblerError string

func (e GarblerError) Error() string {
	return "garbler: " + string(e)
}

// GarbleOptions control circuit garbling.
type GarbleOptions struct {
	// Rand is the label and permutation randomness source. It
	// defaults to crypto/rand.
	Rand io.Reader

	// PointAndPermute arranges table entries by the label select
	// bits instead of a random permutation, letting the evaluator
	// decrypt a single slot. Both parties must agree on the mode.
	PointAndPermute bool
}

// Garbled contains a garbled circuit. It is single use: one garbling
// must be consumed by exactly one protocol run, since label or
// ciphertext reuse across evaluations breaks the security of the
// scheme.
type Garbled struct {
	Circ  *Circuit
	Gates []GarbledGate

	// Wires holds both labels of every wire. It is private to the
	// garbler and never serialized.
	Wires []ot.Wire

	// OutputMapping holds the label-for-0 of every output wire, in
	// output wire order. It is safe to publish for result decoding.
	OutputMapping []ot.Label

	pointAndPermute bool
}

// Garble garbles the circuit: it draws two fresh random labels for
// every wire and encrypts each gate's truth table under its input
// label combinations, permuting the ciphertext slots uniformly at
// random.
func (c *Circuit) Garble(opts GarbleOptions) (*Garbled, error) {
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.Reader
	}

	wires := make([]ot.Wire, c.NumWires)
	for i := 0; i < c.NumWires; i++ {
		l0, err := ot.NewLabel(rnd)
		if err != nil {
			return nil, err
		}
		l1, err := ot.NewLabel(rnd)
		if err != nil {
			return nil, err
		}
		if opts.PointAndPermute {
			// Complementary select bits, chosen at random.
			s, err := randBit(rnd)
			if err != nil {
				return nil, err
			}
			l0.SetS(s)
			l1.SetS(!s)
		}
		wires[i] = ot.Wire{
			L0: l0,
			L1: l1,
		}
	}

	gc := &Garbled{
		Circ:            c,
		Gates:           make([]GarbledGate, c.NumGates),
		Wires:           wires,
		pointAndPermute: opts.PointAndPermute,
	}
	for id, gate := range c.Gates {
		g, err := gc.garbleGate(gate, uint32(id), rnd)
		if err != nil {
			return nil, err
		}
		gc.Gates[id] = g
	}

	gc.OutputMapping = make([]ot.Label, c.NumOutputs)
	for idx, w := range c.OutputWires {
		gc.OutputMapping[idx] = wires[w.ID()].L0
	}
	return gc, nil
}

func (gc *Garbled) garbleGate(gate Gate, id uint32, rnd io.Reader) (
	GarbledGate, error) {

	var g GarbledGate

	a := gc.Wires[gate.Input0.ID()]
	out := gc.Wires[gate.Output.ID()]

	pick := func(bit bool) ot.Label {
		if bit {
			return out.L1
		}
		return out.L0
	}

	var entries []entry

	if gate.Op == NOT {
		entries = []entry{
			{a: a.L0, b: zeroLabel, target: pick(gate.Op.Eval(false, false))},
			{a: a.L1, b: zeroLabel, target: pick(gate.Op.Eval(true, false))},
		}
	} else {
		b := gc.Wires[gate.Input1.ID()]
		entries = []entry{
			{a: a.L0, b: b.L0, target: pick(gate.Op.Eval(false, false))},
			{a: a.L0, b: b.L1, target: pick(gate.Op.Eval(false, true))},
			{a: a.L1, b: b.L0, target: pick(gate.Op.Eval(true, false))},
			{a: a.L1, b: b.L1, target: pick(gate.Op.Eval(true, true))},
		}
	}

	if gc.pointAndPermute {
		for _, e := range entries {
			g[slotIndex(gate.Op, e.a, e.b)] = encryptLabel(
				e.target, e.a, e.b, id)
		}
	} else {
		perm, err := permutation(rnd, Slots)
		if err != nil {
			return g, err
		}
		for idx, e := range entries {
			g[perm[idx]] = encryptLabel(e.target, e.a, e.b, id)
		}
	}

	// Unary gates fill the remaining slots with uniform filler the
	// same length as a real entry.
	for i := 0; i < Slots; i++ {
		if g[i] == nil {
			filler := make([]byte, entrySize)
			if _, err := io.ReadFull(rnd, filler); err != nil {
				return g, err
			}
			g[i] = filler
		}
	}
	return g, nil
}

type entry struct {
	a      ot.Label
	b      ot.Label
	target ot.Label
}

// slotIndex returns the point-and-permute slot for the input label
// select bits.
func slotIndex(op Operation, a, b ot.Label) int {
	if op == NOT {
		if a.S() {
			return 1
		}
		return 0
	}
	var idx int
	if a.S() {
		idx |= 0x2
	}
	if b.S() {
		idx |= 0x1
	}
	return idx
}

// EncodeInputs returns the labels for the input bits on the wires.
// The result is safe to disclose only for the garbler's own inputs.
func (gc *Garbled) EncodeInputs(bits []bool, wires []Wire) (
	[]ot.Label, error) {

	if len(bits) != len(wires) {
		return nil, GarblerError(fmt.Sprintf("%d bits for %d wires",
			len(bits), len(wires)))
	}
	labels := make([]ot.Label, len(bits))
	for idx, w := range wires {
		if w.ID() >= len(gc.Wires) {
			return nil, GarblerError(fmt.Sprintf("unknown wire %v", w))
		}
		if bits[idx] {
			labels[idx] = gc.Wires[w.ID()].L1
		} else {
			labels[idx] = gc.Wires[w.ID()].L0
		}
	}
	return labels, nil
}

// DecodeOutputs decodes output labels into bits: a label equal to
// the stored label-for-0 decodes as 0, anything else as 1. The
// labels are assumed valid; the semi-honest model does not
// re-verify them.
func (gc *Garbled) DecodeOutputs(labels []ot.Label) ([]bool, error) {
	if len(labels) != len(gc.OutputMapping) {
		return nil, GarblerError(fmt.Sprintf("%d labels for %d outputs",
			len(labels), len(gc.OutputMapping)))
	}
	bits := make([]bool, len(labels))
	for idx, label := range labels {
		bits[idx] = !label.Equal(gc.OutputMapping[idx])
	}
	return bits, nil
}

// OTInputPairs returns both labels of the wires. This is the only
// interface exposing both labels of a wire; the result must flow
// only into the oblivious transfer sender, never a direct send.
func (gc *Garbled) OTInputPairs(wires []Wire) ([]ot.Wire, error) {
	pairs := make([]ot.Wire, len(wires))
	for idx, w := range wires {
		if w.ID() >= len(gc.Wires) {
			return nil, GarblerError(fmt.Sprintf("unknown wire %v", w))
		}
		pairs[idx] = gc.Wires[w.ID()]
	}
	return pairs, nil
}

func randBit(rnd io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(rnd, b[:]); err != nil {
		return false, err
	}
	return b[0]&0x80 != 0, nil
}

// permutation returns a uniformly random permutation of n slots.
func permutation(rnd io.Reader, n int) ([]int, error) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j, err := randInt(rnd, i+1)
		if err != nil {
			return nil, err
		}
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}

// randInt returns a uniform integer in [0, n) by rejection sampling.
func randInt(rnd io.Reader, n int) (int, error) {
	max := 256 - 256%n
	var b [1]byte
	for {
		if _, err := io.ReadFull(rnd, b[:]); err != nil {
			return 0, err
		}
		if int(b[0]) < max {
			return int(b[0]) % n, nil
		}
	}
}
