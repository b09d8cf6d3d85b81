//
// evaluate.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"
	"time"

	"github.com/markkurossi/yao/ot"
)

// EvalState describes the state of an Evaluator.
type EvalState byte

// Evaluator states.
const (
	EvalIdle EvalState = iota
	EvalRunning
	EvalDone
	EvalFailed
)

var evalStates = map[EvalState]string{
	EvalIdle:    "Idle",
	EvalRunning: "Running",
	EvalDone:    "Done",
	EvalFailed:  "Failed",
}

func (s EvalState) String() string {
	name, ok := evalStates[s]
	if ok {
		return name
	}
	return fmt.Sprintf("{EvalState %d}", s)
}

// EvaluatorError describes an evaluation failure. Trial decryption
// exhaustion is fatal: it means the tables or input labels are
// corrupt and the run cannot recover.
type EvaluatorError string

func (e EvaluatorError) Error() string {
	return "evaluator: " + string(e)
}

// EvalStats collects evaluation statistics.
type EvalStats struct {
	GatesEvaluated   int
	DecryptAttempts  int
	DecryptSuccesses int
	Elapsed          time.Duration
}

// Evaluator evaluates a garbled circuit gate by gate using trial
// decryption. An Evaluator is single use.
type Evaluator struct {
	circ            *Circuit
	gates           []GarbledGate
	state           EvalState
	stats           EvalStats
	pointAndPermute bool
}

// NewEvaluator creates an evaluator for the garbled tables. The
// tables must match the circuit's gate count.
func NewEvaluator(circ *Circuit, gates []GarbledGate, pointAndPermute bool) (
	*Evaluator, error) {

	if len(gates) != circ.NumGates {
		return nil, EvaluatorError(fmt.Sprintf(
			"%d garbled gates for %d circuit gates",
			len(gates), circ.NumGates))
	}
	return &Evaluator{
		circ:            circ,
		gates:           gates,
		pointAndPermute: pointAndPermute,
	}, nil
}

// State returns the evaluator state.
func (ev *Evaluator) State() EvalState {
	return ev.state
}

// Stats returns the evaluation statistics.
func (ev *Evaluator) Stats() EvalStats {
	return ev.stats
}

// Eval evaluates the circuit with the input wire labels and returns
// the output wire labels in output wire order. The evaluator learns
// one label per wire but not the bit it encodes.
func (ev *Evaluator) Eval(inputs []ot.Label) ([]ot.Label, error) {
	if ev.state != EvalIdle {
		return nil, EvaluatorError(fmt.Sprintf(
			"evaluator used in state %s", ev.state))
	}
	if len(inputs) != ev.circ.NumInputs {
		ev.state = EvalFailed
		return nil, EvaluatorError(fmt.Sprintf(
			"%d input labels for %d input wires",
			len(inputs), ev.circ.NumInputs))
	}
	ev.state = EvalRunning
	start := time.Now()

	labels := make([]ot.Label, ev.circ.NumWires)
	known := make([]bool, ev.circ.NumWires)
	for idx, w := range ev.circ.InputWires {
		labels[w.ID()] = inputs[idx]
		known[w.ID()] = true
	}

	for id, gate := range ev.circ.Gates {
		a := labels[gate.Input0.ID()]
		b := zeroLabel
		if gate.Op.Arity() == 2 {
			b = labels[gate.Input1.ID()]
		}
		out, err := ev.evalGate(ev.gates[id], gate.Op, a, b, uint32(id))
		if err != nil {
			ev.state = EvalFailed
			return nil, err
		}
		labels[gate.Output.ID()] = out
		known[gate.Output.ID()] = true
		ev.stats.GatesEvaluated++
	}

	result := make([]ot.Label, ev.circ.NumOutputs)
	for idx, w := range ev.circ.OutputWires {
		if !known[w.ID()] {
			ev.state = EvalFailed
			return nil, EvaluatorError(fmt.Sprintf(
				"output wire %v never assigned", w))
		}
		result[idx] = labels[w.ID()]
	}
	ev.stats.Elapsed = time.Since(start)
	ev.state = EvalDone
	return result, nil
}

// evalGate decrypts one garbled gate. Without point-and-permute the
// slots are tried in order until one yields a valid marker; the slot
// position carries no information so the trial order does not matter.
func (ev *Evaluator) evalGate(g GarbledGate, op Operation, a, b ot.Label,
	id uint32) (ot.Label, error) {

	if ev.pointAndPermute {
		ev.stats.DecryptAttempts++
		out, err := decryptLabel(g[slotIndex(op, a, b)], a, b, id)
		if err != nil {
			return out, EvaluatorError(fmt.Sprintf(
				"gate %d: %s", id, err))
		}
		ev.stats.DecryptSuccesses++
		return out, nil
	}
	for slot := 0; slot < Slots; slot++ {
		ev.stats.DecryptAttempts++
		out, err := decryptLabel(g[slot], a, b, id)
		if err == errInvalidMarker {
			continue
		}
		if err != nil {
			return out, EvaluatorError(fmt.Sprintf(
				"gate %d: %s", id, err))
		}
		ev.stats.DecryptSuccesses++
		return out, nil
	}
	return zeroLabel, EvaluatorError(fmt.Sprintf(
		"gate %d: no table entry decrypted", id))
}
