//
// eval.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

// Eval evaluates the circuit on plaintext input bits, ordered by the
// circuit input wires. It is used for testing and for verifying
// garbled evaluations.
func (c *Circuit) Eval(inputs []bool) ([]bool, error) {
	if len(inputs) != c.NumInputs {
		return nil, validationErrorf("%d input bits for %d input wires",
			len(inputs), c.NumInputs)
	}

	values := make([]bool, c.NumWires)
	for idx, w := range c.InputWires {
		values[w.ID()] = inputs[idx]
	}

	for _, gate := range c.Gates {
		var b bool
		if gate.Op.Arity() == 2 {
			b = values[gate.Input1.ID()]
		}
		values[gate.Output.ID()] = gate.Op.Eval(values[gate.Input0.ID()], b)
	}

	outputs := make([]bool, c.NumOutputs)
	for idx, w := range c.OutputWires {
		outputs[idx] = values[w.ID()]
	}
	return outputs, nil
}
