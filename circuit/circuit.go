//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package circuit implements boolean circuits, their garbling with
// random wire labels, and garbled circuit evaluation with trial
// decryption.
package circuit

import (
	"fmt"
)

// Operation specifies gate function.
type Operation byte

// Gate functions.
const (
	AND Operation = iota
	OR
	XOR
	NAND
	NOR
	NOT
)

// Stats holds statistics about circuit operations.
type Stats [NOT + 1]int

func (op Operation) String() string {
	switch op {
	case AND:
		return "AND"
	case OR:
		return "OR"
	case XOR:
		return "XOR"
	case NAND:
		return "NAND"
	case NOR:
		return "NOR"
	case NOT:
		return "NOT"
	default:
		return fmt.Sprintf("{Operation %d}", op)
	}
}

// Arity returns the number of gate input wires.
func (op Operation) Arity() int {
	if op == NOT {
		return 1
	}
	return 2
}

// Eval computes the gate function on plaintext bits. For NOT the
// second argument is ignored.
func (op Operation) Eval(a, b bool) bool {
	switch op {
	case AND:
		return a && b
	case OR:
		return a || b
	case XOR:
		return a != b
	case NAND:
		return !(a && b)
	case NOR:
		return !(a || b)
	case NOT:
		return !a
	default:
		panic(fmt.Sprintf("unsupported gate type %s", op))
	}
}

// Wire specifies a wire ID.
type Wire uint32

// InvalidWire marks an unset wire reference, e.g. the second input
// of a NOT gate.
const InvalidWire = ^Wire(0)

// ID returns the wire ID as integer.
func (w Wire) ID() int {
	return int(w)
}

func (w Wire) String() string {
	return fmt.Sprintf("w%d", w)
}

// Gate specifies a boolean gate.
type Gate struct {
	Output Wire
	Input0 Wire
	Input1 Wire
	Op     Operation
}

func (g Gate) String() string {
	if g.Op == NOT {
		return fmt.Sprintf("[%v %v %v]", g.Input0, g.Op, g.Output)
	}
	return fmt.Sprintf("[%v %v %v %v]", g.Input0, g.Input1, g.Op, g.Output)
}

// Inputs returns the gate input wires.
func (g Gate) Inputs() []Wire {
	if g.Op == NOT {
		return []Wire{g.Input0}
	}
	return []Wire{g.Input0, g.Input1}
}

// Circuit specifies a boolean circuit. The gates are in evaluation
// order: every gate input is either a circuit input wire or the
// output of an earlier gate.
type Circuit struct {
	NumInputs   int
	NumOutputs  int
	NumGates    int
	NumWires    int
	InputWires  []Wire
	OutputWires []Wire
	Gates       []Gate
	Stats       Stats
}

func (c *Circuit) String() string {
	var stats string

	for k := AND; k <= NOT; k++ {
		v := c.Stats[k]
		if v == 0 {
			continue
		}
		if len(stats) > 0 {
			stats += " "
		}
		stats += fmt.Sprintf("%s=%d", k, v)
	}
	return fmt.Sprintf("#in=%d #out=%d #gates=%d (%s) #w=%d",
		c.NumInputs, c.NumOutputs, c.NumGates, stats, c.NumWires)
}

// ValidationError describes a malformed circuit.
type ValidationError string

func (e ValidationError) Error() string {
	return "circuit: " + string(e)
}

func validationErrorf(format string, a ...interface{}) ValidationError {
	return ValidationError(fmt.Sprintf(format, a...))
}

// MaxWires bounds the wire ID space of a circuit.
const MaxWires = 1 << 20

// Verify checks the circuit structure: positive counts, consistent
// gate count, declared evaluation order, gate arities, and defined
// wire references. The gate list must be in single static assignment
// form: each wire is assigned once and used only after assignment.
func (c *Circuit) Verify() error {
	if c.NumWires > MaxWires {
		return validationErrorf("%d wires exceeds maximum %d",
			c.NumWires, MaxWires)
	}
	if c.NumInputs <= 0 {
		return validationErrorf("number of inputs %d not positive",
			c.NumInputs)
	}
	if c.NumOutputs <= 0 {
		return validationErrorf("number of outputs %d not positive",
			c.NumOutputs)
	}
	if c.NumGates <= 0 {
		return validationErrorf("number of gates %d not positive", c.NumGates)
	}
	if len(c.Gates) != c.NumGates {
		return validationErrorf("%d gates declared, %d defined",
			c.NumGates, len(c.Gates))
	}
	if len(c.InputWires) != c.NumInputs {
		return validationErrorf("%d inputs declared, %d input wires",
			c.NumInputs, len(c.InputWires))
	}
	if len(c.OutputWires) != c.NumOutputs {
		return validationErrorf("%d outputs declared, %d output wires",
			c.NumOutputs, len(c.OutputWires))
	}

	defined := make([]bool, c.NumWires)

	assign := func(w Wire) error {
		if w.ID() >= c.NumWires {
			return validationErrorf("wire %v out of range", w)
		}
		if defined[w.ID()] {
			return validationErrorf("wire %v assigned twice", w)
		}
		defined[w.ID()] = true
		return nil
	}

	for _, w := range c.InputWires {
		if err := assign(w); err != nil {
			return err
		}
	}
	for idx, gate := range c.Gates {
		switch gate.Op {
		case AND, OR, XOR, NAND, NOR:
			if gate.Input1 == InvalidWire {
				return validationErrorf("gate %d: %s requires two inputs",
					idx, gate.Op)
			}
		case NOT:
			if gate.Input1 != InvalidWire {
				return validationErrorf("gate %d: %s takes one input",
					idx, gate.Op)
			}
		default:
			return validationErrorf("gate %d: unknown operation %s",
				idx, gate.Op)
		}
		for _, in := range gate.Inputs() {
			if in.ID() >= c.NumWires || !defined[in.ID()] {
				return validationErrorf("gate %d references undefined wire %v",
					idx, in)
			}
		}
		if err := assign(gate.Output); err != nil {
			return err
		}
	}
	for _, w := range c.OutputWires {
		if w.ID() >= c.NumWires || !defined[w.ID()] {
			return validationErrorf("output references undefined wire %v", w)
		}
	}
	return nil
}
