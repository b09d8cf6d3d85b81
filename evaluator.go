//
// evaluator.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package yao

import (
	"bytes"
	"fmt"

	"github.com/markkurossi/yao/circuit"
	"github.com/markkurossi/yao/ot"
	"github.com/markkurossi/yao/p2p"
)

// Evaluator runs the evaluator side of the protocol: it receives the
// garbled circuit and the garbler's input labels, transfers its own
// input labels obliviously, evaluates the circuit, and returns the
// output labels to the garbler. The evaluator owns the last
// len(inputs) input wires of the circuit. The result bits are
// decoded by the garbler; Evaluator returns the evaluation
// statistics.
func Evaluator(conn *p2p.Conn, oti ot.OT, inputs []bool, verbose bool) (
	circuit.EvalStats, error) {

	var stats circuit.EvalStats

	timing := circuit.NewTiming()
	s := &session{
		conn: conn,
	}

	peer, err := s.hello("evaluator", false)
	if err != nil {
		return stats, err
	}
	if verbose {
		fmt.Printf(" - Peer: %s\n", peer)
		fmt.Printf(" - Receiving garbled circuit...\n")
	}

	m, err := conn.ReceiveTyped(p2p.MsgCircuit)
	if err != nil {
		return stats, err
	}
	circ, gates, err := circuit.UnmarshalGarbled(bytes.NewReader(m.Payload))
	if err != nil {
		return stats, s.fail("%s", err)
	}
	s.state = SessionCircuitExchanged

	m, err = conn.ReceiveTyped(p2p.MsgInputLabels)
	if err != nil {
		return stats, err
	}
	garblerLabels, err := p2p.DecodeLabels(m.Payload)
	if err != nil {
		return stats, s.fail("%s", err)
	}
	if len(garblerLabels)+len(inputs) != circ.NumInputs {
		return stats, s.fail(
			"%d peer labels and %d inputs for %d input wires",
			len(garblerLabels), len(inputs), circ.NumInputs)
	}
	s.state = SessionInputLabelsExchanged

	ioStats := conn.Stats
	timing.Sample("Xfer", []string{
		circuit.FileSize(ioStats.Sum()).String(),
	})

	// Transfer one label per own input wire.
	if verbose {
		fmt.Printf(" - Oblivious transfer: %d labels...\n", len(inputs))
	}
	err = conn.SendMessage(p2p.Message{
		Type:    p2p.MsgOTRequest,
		Payload: p2p.EncodeCount(len(inputs)),
	})
	if err != nil {
		return stats, err
	}
	otio := p2p.NewOTIO(conn, p2p.MsgOTRequest, p2p.MsgOTResponse)
	if err := oti.InitReceiver(otio); err != nil {
		return stats, err
	}
	ownLabels := make([]ot.Label, len(inputs))
	if err := oti.Receive(inputs, ownLabels); err != nil {
		return stats, err
	}
	s.state = SessionOTComplete

	ioStats = conn.Stats.Sub(ioStats)
	timing.Sample("OT", []string{
		circuit.FileSize(ioStats.Sum()).String(),
	})

	if verbose {
		fmt.Printf(" - Evaluating...\n")
	}
	ev, err := circuit.NewEvaluator(circ, gates, false)
	if err != nil {
		return stats, err
	}
	outputs, err := ev.Eval(append(garblerLabels, ownLabels...))
	stats = ev.Stats()
	if err != nil {
		return stats, err
	}
	timing.Sample("Eval", nil)

	err = conn.SendMessage(p2p.Message{
		Type:    p2p.MsgResult,
		Payload: p2p.EncodeResult(outputs),
	})
	if err != nil {
		return stats, err
	}
	s.state = SessionResultExchanged

	if _, err := conn.ReceiveTyped(p2p.MsgGoodbye); err != nil {
		return stats, err
	}
	s.state = SessionClosed

	if verbose {
		timing.Print(conn.Stats)
	}
	return stats, nil
}
