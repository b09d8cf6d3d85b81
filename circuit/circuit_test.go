//
// circuit_test.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"errors"
	"strings"
	"testing"
)

const halfAdder = `
# Half adder.
INPUTS 2
OUTPUTS 2
GATES 2
GATE 3 1 2 XOR
GATE 4 1 2 AND
OUTPUT_WIRES 3 4
`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(halfAdder))
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if c.NumInputs != 2 || c.NumOutputs != 2 || c.NumGates != 2 {
		t.Errorf("bad counts: %v", c)
	}
	if c.NumWires != 5 {
		t.Errorf("NumWires=%d, expected 5", c.NumWires)
	}
	if c.Stats[XOR] != 1 || c.Stats[AND] != 1 {
		t.Errorf("bad stats: %v", c.Stats)
	}
	if c.Gates[0].Op != XOR || c.Gates[0].Output != 3 {
		t.Errorf("bad gate: %v", c.Gates[0])
	}
	if c.OutputWires[0] != 3 || c.OutputWires[1] != 4 {
		t.Errorf("bad output wires: %v", c.OutputWires)
	}
}

func TestParseComments(t *testing.T) {
	input := `
INPUTS 2     # two inputs
OUTPUTS 1
GATES 1      # trailing comment
GATE 3 1 2 AND

OUTPUT_WIRES 3
`
	if _, err := Parse(strings.NewReader(input)); err != nil {
		t.Fatalf("Parse: %s", err)
	}
}

var parseErrorTests = []struct {
	name  string
	input string
}{
	{
		name: "missing output wires",
		input: `INPUTS 2
OUTPUTS 1
GATES 1
GATE 3 1 2 AND
`,
	},
	{
		name: "zero inputs",
		input: `INPUTS 0
OUTPUTS 1
GATES 1
GATE 1 0 0 AND
OUTPUT_WIRES 1
`,
	},
	{
		name: "gate count mismatch",
		input: `INPUTS 2
OUTPUTS 1
GATES 2
GATE 3 1 2 AND
OUTPUT_WIRES 3
`,
	},
	{
		name: "undefined input wire",
		input: `INPUTS 2
OUTPUTS 1
GATES 1
GATE 4 1 3 AND
OUTPUT_WIRES 4
`,
	},
	{
		name: "double assignment",
		input: `INPUTS 2
OUTPUTS 1
GATES 2
GATE 3 1 2 AND
GATE 3 1 2 OR
OUTPUT_WIRES 3
`,
	},
	{
		name: "assignment to input wire",
		input: `INPUTS 2
OUTPUTS 1
GATES 1
GATE 2 1 2 AND
OUTPUT_WIRES 2
`,
	},
	{
		name: "use before assignment",
		input: `INPUTS 2
OUTPUTS 1
GATES 2
GATE 3 1 4 AND
GATE 4 1 2 OR
OUTPUT_WIRES 3
`,
	},
	{
		name: "binary op with one input",
		input: `INPUTS 2
OUTPUTS 1
GATES 1
GATE 3 1 AND
OUTPUT_WIRES 3
`,
	},
	{
		name: "unary op with two inputs",
		input: `INPUTS 2
OUTPUTS 1
GATES 1
GATE 3 1 2 NOT
OUTPUT_WIRES 3
`,
	},
	{
		name: "unknown operation",
		input: `INPUTS 2
OUTPUTS 1
GATES 1
GATE 3 1 2 MUX
OUTPUT_WIRES 3
`,
	},
	{
		name: "unknown directive",
		input: `INPUTS 2
WIRES 4
OUTPUTS 1
GATES 1
GATE 3 1 2 AND
OUTPUT_WIRES 3
`,
	},
	{
		name: "undefined output wire",
		input: `INPUTS 2
OUTPUTS 1
GATES 1
GATE 3 1 2 AND
OUTPUT_WIRES 5
`,
	},
}

func TestParseErrors(t *testing.T) {
	for _, test := range parseErrorTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(test.input))
			if err == nil {
				t.Fatalf("Parse succeeded")
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error %T is not a ValidationError: %s", err, err)
			}
		})
	}
}

func TestEval(t *testing.T) {
	c, err := Parse(strings.NewReader(halfAdder))
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	for bits := 0; bits < 4; bits++ {
		a := bits&0x2 != 0
		b := bits&0x1 != 0

		result, err := c.Eval([]bool{a, b})
		if err != nil {
			t.Fatalf("Eval: %s", err)
		}
		if result[0] != (a != b) {
			t.Errorf("(%v,%v): sum=%v", a, b, result[0])
		}
		if result[1] != (a && b) {
			t.Errorf("(%v,%v): carry=%v", a, b, result[1])
		}
	}
}

func TestEvalBadInputCount(t *testing.T) {
	c, err := Parse(strings.NewReader(halfAdder))
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if _, err := c.Eval([]bool{true}); err == nil {
		t.Errorf("Eval succeeded with too few inputs")
	}
}

func TestOperations(t *testing.T) {
	for op := AND; op <= NOT; op++ {
		if len(op.String()) == 0 {
			t.Errorf("op %d: no name", op)
		}
	}
	if !AND.Eval(true, true) || AND.Eval(true, false) {
		t.Errorf("AND broken")
	}
	if NAND.Eval(true, true) || !NOR.Eval(false, false) {
		t.Errorf("NAND/NOR broken")
	}
	if !NOT.Eval(false, false) || NOT.Eval(true, false) {
		t.Errorf("NOT broken")
	}
	if AND.Arity() != 2 || NOT.Arity() != 1 {
		t.Errorf("bad arity")
	}
}
