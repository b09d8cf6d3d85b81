//
// garble_test.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/markkurossi/yao/ot"
)

const comparator = `
# a > b for 2-bit a (wires 1,2) and b (wires 3,4).
INPUTS 4
OUTPUTS 1
GATES 8
GATE 5 3 NOT
GATE 6 1 5 AND
GATE 7 1 3 XOR
GATE 8 7 NOT
GATE 9 4 NOT
GATE 10 2 9 AND
GATE 11 8 10 AND
GATE 12 6 11 OR
OUTPUT_WIRES 12
`

func parseTest(t *testing.T, input string) *Circuit {
	c, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	return c
}

func inputBits(val, count int) []bool {
	bits := make([]bool, count)
	for i := 0; i < count; i++ {
		bits[i] = val&(1<<(count-1-i)) != 0
	}
	return bits
}

// garbleEval garbles the circuit, evaluates it with the labels of
// the input bits, and decodes the result.
func garbleEval(t *testing.T, c *Circuit, opts GarbleOptions, inputs []bool) (
	[]bool, *Evaluator) {

	garbled, err := c.Garble(opts)
	if err != nil {
		t.Fatalf("Garble: %s", err)
	}
	labels, err := garbled.EncodeInputs(inputs, c.InputWires)
	if err != nil {
		t.Fatalf("EncodeInputs: %s", err)
	}
	ev, err := NewEvaluator(c, garbled.Gates, opts.PointAndPermute)
	if err != nil {
		t.Fatalf("NewEvaluator: %s", err)
	}
	outputs, err := ev.Eval(labels)
	if err != nil {
		t.Fatalf("Eval: %s", err)
	}
	result, err := garbled.DecodeOutputs(outputs)
	if err != nil {
		t.Fatalf("DecodeOutputs: %s", err)
	}
	return result, ev
}

func testCircuitCorrectness(t *testing.T, input string, opts GarbleOptions) {
	c := parseTest(t, input)

	for val := 0; val < 1<<c.NumInputs; val++ {
		inputs := inputBits(val, c.NumInputs)

		expected, err := c.Eval(inputs)
		if err != nil {
			t.Fatalf("Eval: %s", err)
		}
		result, _ := garbleEval(t, c, opts, inputs)
		for i := range expected {
			if result[i] != expected[i] {
				t.Errorf("inputs %v: output %d: got %v, expected %v",
					inputs, i, result[i], expected[i])
			}
		}
	}
}

func TestGarbleEvaluate(t *testing.T) {
	testCircuitCorrectness(t, halfAdder, GarbleOptions{})
	testCircuitCorrectness(t, comparator, GarbleOptions{})
}

func TestGarbleEvaluatePointAndPermute(t *testing.T) {
	opts := GarbleOptions{
		PointAndPermute: true,
	}
	testCircuitCorrectness(t, halfAdder, opts)
	testCircuitCorrectness(t, comparator, opts)
}

func TestGarbleDeterministic(t *testing.T) {
	c := parseTest(t, halfAdder)

	g0, err := c.Garble(GarbleOptions{Rand: ot.NewPRG([32]byte{1})})
	if err != nil {
		t.Fatalf("Garble: %s", err)
	}
	g1, err := c.Garble(GarbleOptions{Rand: ot.NewPRG([32]byte{1})})
	if err != nil {
		t.Fatalf("Garble: %s", err)
	}
	for i := range g0.Gates {
		for slot := 0; slot < Slots; slot++ {
			if !bytes.Equal(g0.Gates[i][slot], g1.Gates[i][slot]) {
				t.Fatalf("gate %d slot %d differs", i, slot)
			}
		}
	}
}

// Fresh garblings of the same circuit must place the table rows in
// uniformly distributed slots. The distribution is checked with a
// chi-squared test over the slot of the (L0, L0) row.
func TestPermutationUniformity(t *testing.T) {
	c := parseTest(t, `
INPUTS 2
OUTPUTS 1
GATES 1
GATE 3 1 2 AND
OUTPUT_WIRES 3
`)
	const rounds = 400

	var counts [Slots]int
	prg := ot.NewPRG([32]byte{42})

	for round := 0; round < rounds; round++ {
		garbled, err := c.Garble(GarbleOptions{Rand: prg})
		if err != nil {
			t.Fatalf("Garble: %s", err)
		}
		a := garbled.Wires[1].L0
		b := garbled.Wires[2].L0

		found := -1
		for slot := 0; slot < Slots; slot++ {
			if _, err := decryptLabel(garbled.Gates[0][slot],
				a, b, 0); err == nil {
				found = slot
				break
			}
		}
		if found < 0 {
			t.Fatalf("round %d: no slot decrypted", round)
		}
		counts[found]++
	}

	expected := float64(rounds) / Slots
	var chi2 float64
	for _, count := range counts {
		d := float64(count) - expected
		chi2 += d * d / expected
	}
	// 3 degrees of freedom; p < 0.001 is 16.27.
	if chi2 > 16.27 {
		t.Errorf("slot distribution %v not uniform: chi2=%.2f", counts, chi2)
	}
}

func TestEncodeInputsErrors(t *testing.T) {
	c := parseTest(t, halfAdder)
	garbled, err := c.Garble(GarbleOptions{})
	if err != nil {
		t.Fatalf("Garble: %s", err)
	}
	if _, err := garbled.EncodeInputs([]bool{true},
		c.InputWires); err == nil {
		t.Errorf("EncodeInputs succeeded with count mismatch")
	}
	if _, err := garbled.EncodeInputs([]bool{true},
		[]Wire{Wire(100)}); err == nil {
		t.Errorf("EncodeInputs succeeded with unknown wire")
	}
}

func TestOTInputPairs(t *testing.T) {
	c := parseTest(t, halfAdder)
	garbled, err := c.Garble(GarbleOptions{})
	if err != nil {
		t.Fatalf("Garble: %s", err)
	}
	pairs, err := garbled.OTInputPairs(c.InputWires)
	if err != nil {
		t.Fatalf("OTInputPairs: %s", err)
	}
	for i, w := range c.InputWires {
		if !pairs[i].L0.Equal(garbled.Wires[w.ID()].L0) ||
			!pairs[i].L1.Equal(garbled.Wires[w.ID()].L1) {
			t.Errorf("wire %v: bad pair", w)
		}
	}
	if _, err := garbled.OTInputPairs([]Wire{Wire(100)}); err == nil {
		t.Errorf("OTInputPairs succeeded with unknown wire")
	}
}

func TestEvaluatorSingleUse(t *testing.T) {
	c := parseTest(t, halfAdder)
	garbled, err := c.Garble(GarbleOptions{})
	if err != nil {
		t.Fatalf("Garble: %s", err)
	}
	labels, err := garbled.EncodeInputs([]bool{true, true}, c.InputWires)
	if err != nil {
		t.Fatalf("EncodeInputs: %s", err)
	}
	ev, err := NewEvaluator(c, garbled.Gates, false)
	if err != nil {
		t.Fatalf("NewEvaluator: %s", err)
	}
	if ev.State() != EvalIdle {
		t.Errorf("state %s, expected %s", ev.State(), EvalIdle)
	}
	if _, err := ev.Eval(labels); err != nil {
		t.Fatalf("Eval: %s", err)
	}
	if ev.State() != EvalDone {
		t.Errorf("state %s, expected %s", ev.State(), EvalDone)
	}
	if _, err := ev.Eval(labels); err == nil {
		t.Errorf("second Eval succeeded")
	}
}

func TestEvaluatorStats(t *testing.T) {
	c := parseTest(t, comparator)
	_, ev := garbleEval(t, c, GarbleOptions{}, inputBits(5, 4))

	stats := ev.Stats()
	if stats.GatesEvaluated != c.NumGates {
		t.Errorf("GatesEvaluated=%d, expected %d",
			stats.GatesEvaluated, c.NumGates)
	}
	if stats.DecryptSuccesses != c.NumGates {
		t.Errorf("DecryptSuccesses=%d, expected %d",
			stats.DecryptSuccesses, c.NumGates)
	}
	if stats.DecryptAttempts < stats.DecryptSuccesses {
		t.Errorf("DecryptAttempts=%d < DecryptSuccesses=%d",
			stats.DecryptAttempts, stats.DecryptSuccesses)
	}
	if stats.DecryptAttempts > c.NumGates*Slots {
		t.Errorf("DecryptAttempts=%d > %d",
			stats.DecryptAttempts, c.NumGates*Slots)
	}
}

// Point-and-permute decrypts exactly one slot per gate.
func TestPointAndPermuteStats(t *testing.T) {
	c := parseTest(t, comparator)
	opts := GarbleOptions{
		PointAndPermute: true,
	}
	_, ev := garbleEval(t, c, opts, inputBits(9, 4))

	stats := ev.Stats()
	if stats.DecryptAttempts != c.NumGates {
		t.Errorf("DecryptAttempts=%d, expected %d",
			stats.DecryptAttempts, c.NumGates)
	}
}

func TestEvaluatorCorruptTable(t *testing.T) {
	c := parseTest(t, halfAdder)
	garbled, err := c.Garble(GarbleOptions{})
	if err != nil {
		t.Fatalf("Garble: %s", err)
	}
	labels, err := garbled.EncodeInputs([]bool{true, false}, c.InputWires)
	if err != nil {
		t.Fatalf("EncodeInputs: %s", err)
	}

	// Corrupt every slot of the first gate.
	for slot := 0; slot < Slots; slot++ {
		garbled.Gates[0][slot][0] ^= 0xff
	}
	ev, err := NewEvaluator(c, garbled.Gates, false)
	if err != nil {
		t.Fatalf("NewEvaluator: %s", err)
	}
	_, err = ev.Eval(labels)
	if err == nil {
		t.Fatalf("Eval succeeded with corrupt tables")
	}
	if _, ok := err.(EvaluatorError); !ok {
		t.Errorf("error %T is not an EvaluatorError", err)
	}
	if ev.State() != EvalFailed {
		t.Errorf("state %s, expected %s", ev.State(), EvalFailed)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	c := parseTest(t, comparator)
	garbled, err := c.Garble(GarbleOptions{})
	if err != nil {
		t.Fatalf("Garble: %s", err)
	}
	data, err := garbled.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %s", err)
	}

	c2, gates, err := UnmarshalGarbled(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("UnmarshalGarbled: %s", err)
	}
	if c2.NumInputs != c.NumInputs || c2.NumOutputs != c.NumOutputs ||
		c2.NumGates != c.NumGates || c2.NumWires != c.NumWires {
		t.Fatalf("bad counts: %v", c2)
	}

	inputs := inputBits(11, 4)
	labels, err := garbled.EncodeInputs(inputs, c.InputWires)
	if err != nil {
		t.Fatalf("EncodeInputs: %s", err)
	}
	ev, err := NewEvaluator(c2, gates, false)
	if err != nil {
		t.Fatalf("NewEvaluator: %s", err)
	}
	outputs, err := ev.Eval(labels)
	if err != nil {
		t.Fatalf("Eval: %s", err)
	}
	result, err := garbled.DecodeOutputs(outputs)
	if err != nil {
		t.Fatalf("DecodeOutputs: %s", err)
	}
	expected, err := c.Eval(inputs)
	if err != nil {
		t.Fatalf("Eval: %s", err)
	}
	if result[0] != expected[0] {
		t.Errorf("got %v, expected %v", result[0], expected[0])
	}
}

func TestUnmarshalErrors(t *testing.T) {
	c := parseTest(t, halfAdder)
	garbled, err := c.Garble(GarbleOptions{})
	if err != nil {
		t.Fatalf("Garble: %s", err)
	}
	data, err := garbled.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %s", err)
	}

	// Truncated streams.
	for _, l := range []int{0, 4, 23, len(data) - 1} {
		if _, _, err := UnmarshalGarbled(
			bytes.NewReader(data[:l])); err == nil {
			t.Errorf("UnmarshalGarbled succeeded with %d bytes", l)
		}
	}

	// Bad magic.
	bad := append([]byte{}, data...)
	bad[0] ^= 0xff
	if _, _, err := UnmarshalGarbled(bytes.NewReader(bad)); err == nil {
		t.Errorf("UnmarshalGarbled succeeded with bad magic")
	}
}

func BenchmarkGarble(b *testing.B) {
	c, err := Parse(strings.NewReader(comparator))
	if err != nil {
		b.Fatalf("Parse: %s", err)
	}
	for i := 0; i < b.N; i++ {
		if _, err := c.Garble(GarbleOptions{}); err != nil {
			b.Fatalf("Garble: %s", err)
		}
	}
}
