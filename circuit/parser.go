//
// parser.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var reParts = regexp.MustCompilePOSIX("[[:space:]]+")

// Parse parses a circuit from the line-oriented text format:
//
//	INPUTS n
//	OUTPUTS n
//	OUTPUT_WIRES w1 ... wn
//	GATES n
//	GATE out in1 [in2] TYPE
//
// Input wires are numbered 1..n. Comments start with '#' and blank
// lines are ignored. The gate declaration order is the evaluation
// order. The output wires must be listed explicitly; there is no
// positional output convention.
func Parse(in io.Reader) (*Circuit, error) {
	c := new(Circuit)
	r := bufio.NewReader(in)

	var sawOutputWires bool
	var lineno int

	for {
		lineno++
		line, err := r.ReadString('\n')
		if len(line) == 0 && err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			if err == io.EOF {
				break
			}
			continue
		}
		parts := reParts.Split(line, -1)

		switch strings.ToUpper(parts[0]) {
		case "INPUTS":
			n, err := parseCount(parts, lineno)
			if err != nil {
				return nil, err
			}
			c.NumInputs = n
			for i := 1; i <= n; i++ {
				c.InputWires = append(c.InputWires, Wire(i))
			}

		case "OUTPUTS":
			n, err := parseCount(parts, lineno)
			if err != nil {
				return nil, err
			}
			c.NumOutputs = n

		case "OUTPUT_WIRES":
			sawOutputWires = true
			for _, part := range parts[1:] {
				w, err := parseWire(part, lineno)
				if err != nil {
					return nil, err
				}
				c.OutputWires = append(c.OutputWires, w)
			}

		case "GATES":
			n, err := parseCount(parts, lineno)
			if err != nil {
				return nil, err
			}
			c.NumGates = n

		case "GATE":
			gate, err := parseGate(parts, lineno)
			if err != nil {
				return nil, err
			}
			c.Gates = append(c.Gates, gate)
			c.Stats[gate.Op]++

		default:
			return nil, validationErrorf("line %d: unknown directive %q",
				lineno, parts[0])
		}
		if err == io.EOF {
			break
		}
	}

	if !sawOutputWires {
		return nil, ValidationError("missing OUTPUT_WIRES directive")
	}

	c.NumWires = maxWire(c) + 1
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseFile parses a circuit from the file.
func ParseFile(path string) (*Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

func parseCount(parts []string, lineno int) (int, error) {
	if len(parts) != 2 {
		return 0, validationErrorf("line %d: invalid %s directive",
			lineno, parts[0])
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, validationErrorf("line %d: invalid count %q",
			lineno, parts[1])
	}
	if n <= 0 {
		return 0, validationErrorf("line %d: %s count %d not positive",
			lineno, parts[0], n)
	}
	return n, nil
}

func parseWire(val string, lineno int) (Wire, error) {
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return 0, validationErrorf("line %d: invalid wire %q", lineno, val)
	}
	return Wire(n), nil
}

func parseGate(parts []string, lineno int) (Gate, error) {
	var gate Gate

	// GATE out in1 TYPE | GATE out in1 in2 TYPE
	if len(parts) != 4 && len(parts) != 5 {
		return gate, validationErrorf("line %d: invalid GATE directive",
			lineno)
	}
	out, err := parseWire(parts[1], lineno)
	if err != nil {
		return gate, err
	}
	in0, err := parseWire(parts[2], lineno)
	if err != nil {
		return gate, err
	}
	gate.Output = out
	gate.Input0 = in0
	gate.Input1 = InvalidWire

	if len(parts) == 5 {
		in1, err := parseWire(parts[3], lineno)
		if err != nil {
			return gate, err
		}
		gate.Input1 = in1
	}

	switch strings.ToUpper(parts[len(parts)-1]) {
	case "AND":
		gate.Op = AND
	case "OR":
		gate.Op = OR
	case "XOR":
		gate.Op = XOR
	case "NAND":
		gate.Op = NAND
	case "NOR":
		gate.Op = NOR
	case "NOT":
		gate.Op = NOT
	default:
		return gate, validationErrorf("line %d: invalid operation %q",
			lineno, parts[len(parts)-1])
	}

	if gate.Op.Arity() == 1 && gate.Input1 != InvalidWire {
		return gate, validationErrorf("line %d: %s takes one input",
			lineno, gate.Op)
	}
	if gate.Op.Arity() == 2 && gate.Input1 == InvalidWire {
		return gate, validationErrorf("line %d: %s requires two inputs",
			lineno, gate.Op)
	}
	return gate, nil
}

func maxWire(c *Circuit) int {
	var max int
	for _, w := range c.InputWires {
		if w.ID() > max {
			max = w.ID()
		}
	}
	for _, w := range c.OutputWires {
		if w != InvalidWire && w.ID() > max {
			max = w.ID()
		}
	}
	for _, gate := range c.Gates {
		if gate.Output.ID() > max {
			max = gate.Output.ID()
		}
		for _, in := range gate.Inputs() {
			if in.ID() > max {
				max = in.ID()
			}
		}
	}
	return max
}
