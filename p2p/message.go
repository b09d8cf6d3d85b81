//
// message.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"fmt"
	"io"

	"github.com/markkurossi/yao/ot"
)

// MaxPayload is the maximum accepted message payload length. A
// declared length above the limit is a fatal framing error and the
// payload is never read.
const MaxPayload = 1024 * 1024

// MsgType specifies the protocol message type.
type MsgType byte

// Protocol message types.
const (
	MsgHello MsgType = iota
	MsgCircuit
	MsgInputLabels
	MsgOTRequest
	MsgOTResponse
	MsgResult
	MsgError
	MsgGoodbye
)

func (t MsgType) String() string {
	switch t {
	case MsgHello:
		return "HELLO"
	case MsgCircuit:
		return "CIRCUIT"
	case MsgInputLabels:
		return "INPUT_LABELS"
	case MsgOTRequest:
		return "OT_REQUEST"
	case MsgOTResponse:
		return "OT_RESPONSE"
	case MsgResult:
		return "RESULT"
	case MsgError:
		return "ERROR"
	case MsgGoodbye:
		return "GOODBYE"
	default:
		return fmt.Sprintf("{MsgType %d}", byte(t))
	}
}

// Message implements a framed protocol message. On the wire a
// message is one type byte, a 4-byte big-endian payload length, and
// the payload.
type Message struct {
	Type    MsgType
	Payload []byte
}

func (m Message) String() string {
	return fmt.Sprintf("%s[%d]", m.Type, len(m.Payload))
}

// ProtocolError describes a fatal protocol violation: an unexpected
// message type for the session state, or a count mismatch. There is
// no recovery; the session aborts.
type ProtocolError string

func (e ProtocolError) Error() string {
	return "protocol: " + string(e)
}

// Errorf creates a new ProtocolError.
func Errorf(format string, a ...interface{}) ProtocolError {
	return ProtocolError(fmt.Sprintf(format, a...))
}

// SendMessage sends the message and flushes the connection.
func (c *Conn) SendMessage(m Message) error {
	if len(m.Payload) > MaxPayload {
		return Errorf("%s payload length %d exceeds maximum %d",
			m.Type, len(m.Payload), MaxPayload)
	}
	if err := c.SendByte(byte(m.Type)); err != nil {
		return err
	}
	if err := c.SendUint32(len(m.Payload)); err != nil {
		return err
	}
	if _, err := c.w.Write(m.Payload); err != nil {
		return err
	}
	c.Stats.Sent += uint64(len(m.Payload))
	return c.Flush()
}

// ReceiveMessage receives the next message from the connection.
func (c *Conn) ReceiveMessage() (Message, error) {
	var m Message

	t, err := c.ReceiveByte()
	if err != nil {
		return m, err
	}
	m.Type = MsgType(t)

	l, err := c.ReceiveUint32()
	if err != nil {
		return m, err
	}
	if l > MaxPayload {
		return m, Errorf("%s payload length %d exceeds maximum %d",
			m.Type, l, MaxPayload)
	}
	m.Payload = make([]byte, l)
	if _, err := io.ReadFull(c.r, m.Payload); err != nil {
		return m, err
	}
	c.Stats.Recvd += uint64(l)

	return m, nil
}

// ReceiveTyped receives the next message and checks that it has the
// expected type. An ERROR message from the peer is surfaced as a
// ProtocolError carrying the peer's diagnostic; any other unexpected
// type is a fatal protocol error.
func (c *Conn) ReceiveTyped(expected MsgType) (Message, error) {
	m, err := c.ReceiveMessage()
	if err != nil {
		return m, err
	}
	if m.Type == MsgError && expected != MsgError {
		return m, Errorf("peer error: %s", string(m.Payload))
	}
	if m.Type != expected {
		return m, Errorf("received %s, expected %s", m.Type, expected)
	}
	return m, nil
}

// SendError sends an ERROR message with the diagnostic. The error
// return is ignored by callers since the session is already aborting.
func (c *Conn) SendError(diag string) error {
	return c.SendMessage(Message{
		Type:    MsgError,
		Payload: []byte(diag),
	})
}

// EncodeCount encodes a transfer count as an OT_REQUEST payload.
func EncodeCount(count int) []byte {
	var buf [4]byte
	bo.PutUint32(buf[:], uint32(count))
	return buf[:]
}

// DecodeCount decodes an OT_REQUEST transfer count.
func DecodeCount(payload []byte) (int, error) {
	if len(payload) != 4 {
		return 0, Errorf("transfer count payload length %d", len(payload))
	}
	return int(bo.Uint32(payload)), nil
}

// EncodeLabels encodes labels as an INPUT_LABELS payload: a 4-byte
// count followed by the 128-bit labels.
func EncodeLabels(labels []ot.Label) []byte {
	buf := make([]byte, 4+len(labels)*16)
	bo.PutUint32(buf, uint32(len(labels)))

	var data ot.LabelData
	for i, label := range labels {
		label.GetData(&data)
		copy(buf[4+i*16:], data[:])
	}
	return buf
}

// DecodeLabels decodes an INPUT_LABELS payload.
func DecodeLabels(payload []byte) ([]ot.Label, error) {
	if len(payload) < 4 {
		return nil, Errorf("truncated label payload: %d bytes", len(payload))
	}
	count := int(bo.Uint32(payload))
	if len(payload) != 4+count*16 {
		return nil, Errorf("label payload length %d for %d labels",
			len(payload), count)
	}

	labels := make([]ot.Label, count)
	for i := range labels {
		labels[i].SetBytes(payload[4+i*16:])
	}
	return labels, nil
}

// EncodeResult encodes output labels as a RESULT payload: the
// 128-bit labels concatenated in output wire order.
func EncodeResult(labels []ot.Label) []byte {
	buf := make([]byte, len(labels)*16)

	var data ot.LabelData
	for i, label := range labels {
		label.GetData(&data)
		copy(buf[i*16:], data[:])
	}
	return buf
}

// DecodeResult decodes a RESULT payload for the expected number of
// output wires.
func DecodeResult(payload []byte, count int) ([]ot.Label, error) {
	if len(payload) != count*16 {
		return nil, Errorf("result payload length %d for %d outputs",
			len(payload), count)
	}
	labels := make([]ot.Label, count)
	for i := range labels {
		labels[i].SetBytes(payload[i*16:])
	}
	return labels, nil
}
