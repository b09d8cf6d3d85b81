//
// garbler.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package yao

import (
	"fmt"

	"github.com/markkurossi/yao/circuit"
	"github.com/markkurossi/yao/ot"
	"github.com/markkurossi/yao/p2p"
)

// Garbler runs the garbler side of the protocol: it garbles the
// circuit, sends it with the labels of its own inputs, answers the
// evaluator's oblivious transfer, and decodes the result labels the
// evaluator returns. The garbler owns the first len(inputs) input
// wires of the circuit; the evaluator owns the rest. Garbler returns
// the decoded output bits in output wire order.
func Garbler(conn *p2p.Conn, oti ot.OT, circ *circuit.Circuit,
	inputs []bool, verbose bool) ([]bool, error) {

	if len(inputs) > circ.NumInputs {
		return nil, circuit.GarblerError(fmt.Sprintf(
			"%d inputs for circuit with %d input wires",
			len(inputs), circ.NumInputs))
	}
	timing := circuit.NewTiming()
	s := &session{
		conn: conn,
	}

	peer, err := s.hello("garbler", true)
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Printf(" - Peer: %s\n", peer)
		fmt.Printf(" - Garbling...\n")
	}

	garbled, err := circ.Garble(circuit.GarbleOptions{})
	if err != nil {
		return nil, err
	}
	timing.Sample("Garble", nil)

	if verbose {
		fmt.Printf(" - Sending garbled circuit...\n")
	}
	data, err := garbled.Bytes()
	if err != nil {
		return nil, err
	}
	err = conn.SendMessage(p2p.Message{
		Type:    p2p.MsgCircuit,
		Payload: data,
	})
	if err != nil {
		return nil, err
	}
	s.state = SessionCircuitExchanged

	// Our input labels are safe to disclose: one label per wire.
	labels, err := garbled.EncodeInputs(inputs,
		circ.InputWires[:len(inputs)])
	if err != nil {
		return nil, err
	}
	err = conn.SendMessage(p2p.Message{
		Type:    p2p.MsgInputLabels,
		Payload: p2p.EncodeLabels(labels),
	})
	if err != nil {
		return nil, err
	}
	s.state = SessionInputLabelsExchanged

	ioStats := conn.Stats
	timing.Sample("Xfer", []string{
		circuit.FileSize(ioStats.Sum()).String(),
	})

	// The evaluator may transfer exactly one label per input wire it
	// owns, nothing else.
	m, err := conn.ReceiveTyped(p2p.MsgOTRequest)
	if err != nil {
		return nil, err
	}
	count, err := p2p.DecodeCount(m.Payload)
	if err != nil {
		return nil, err
	}
	if count != circ.NumInputs-len(inputs) {
		return nil, s.fail("peer requested %d transfers, expected %d",
			count, circ.NumInputs-len(inputs))
	}
	pairs, err := garbled.OTInputPairs(circ.InputWires[len(inputs):])
	if err != nil {
		return nil, err
	}

	if verbose {
		fmt.Printf(" - Oblivious transfer: %d labels...\n", count)
	}
	otio := p2p.NewOTIO(conn, p2p.MsgOTResponse, p2p.MsgOTRequest)
	if err := oti.InitSender(otio); err != nil {
		return nil, err
	}
	if err := oti.Send(pairs); err != nil {
		return nil, err
	}
	s.state = SessionOTComplete

	ioStats = conn.Stats.Sub(ioStats)
	timing.Sample("OT", []string{
		circuit.FileSize(ioStats.Sum()).String(),
	})

	m, err = conn.ReceiveTyped(p2p.MsgResult)
	if err != nil {
		return nil, err
	}
	outputs, err := p2p.DecodeResult(m.Payload, circ.NumOutputs)
	if err != nil {
		return nil, s.fail("%s", err)
	}
	result, err := garbled.DecodeOutputs(outputs)
	if err != nil {
		return nil, err
	}
	s.state = SessionResultExchanged
	timing.Sample("Result", nil)

	err = conn.SendMessage(p2p.Message{
		Type: p2p.MsgGoodbye,
	})
	if err != nil {
		return nil, err
	}
	s.state = SessionClosed

	if verbose {
		timing.Print(conn.Stats)
	}
	return result, nil
}
