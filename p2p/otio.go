//
// otio.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"github.com/markkurossi/yao/ot"
)

var (
	_ ot.IO = &OTIO{}
)

// OTIO adapts the typed message stream into the ot.IO interface.
// Writes are collected into one message payload and sent as a single
// typed message on Flush; reads consume received messages of the
// peer's type. One OT protocol round thus maps to exactly one
// OT_REQUEST or OT_RESPONSE message.
type OTIO struct {
	conn     *Conn
	sendType MsgType
	recvType MsgType
	wBuf     []byte
	rBuf     []byte
	rOfs     int
}

// NewOTIO creates an OT message adapter that sends messages of type
// sendType and receives messages of type recvType.
func NewOTIO(conn *Conn, sendType, recvType MsgType) *OTIO {
	return &OTIO{
		conn:     conn,
		sendType: sendType,
		recvType: recvType,
	}
}

// SendData sends binary data.
func (io *OTIO) SendData(val []byte) error {
	io.SendUint32(len(val))
	io.wBuf = append(io.wBuf, val...)
	return nil
}

// SendUint32 sends an uint32 value.
func (io *OTIO) SendUint32(val int) error {
	var buf [4]byte
	bo.PutUint32(buf[:], uint32(val))
	io.wBuf = append(io.wBuf, buf[:]...)
	return nil
}

// Flush sends the collected data as one typed message.
func (io *OTIO) Flush() error {
	if len(io.wBuf) == 0 {
		return nil
	}
	err := io.conn.SendMessage(Message{
		Type:    io.sendType,
		Payload: io.wBuf,
	})
	io.wBuf = nil
	return err
}

func (io *OTIO) fill(n int) error {
	if io.rOfs+n <= len(io.rBuf) {
		return nil
	}
	if io.rOfs != len(io.rBuf) {
		return Errorf("%s payload with %d trailing bytes",
			io.recvType, len(io.rBuf)-io.rOfs)
	}
	m, err := io.conn.ReceiveTyped(io.recvType)
	if err != nil {
		return err
	}
	io.rBuf = m.Payload
	io.rOfs = 0
	if n > len(io.rBuf) {
		return Errorf("truncated %s payload: %d < %d",
			io.recvType, len(io.rBuf), n)
	}
	return nil
}

// ReceiveData receives binary data.
func (io *OTIO) ReceiveData() ([]byte, error) {
	l, err := io.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	if err := io.fill(l); err != nil {
		return nil, err
	}
	data := io.rBuf[io.rOfs : io.rOfs+l]
	io.rOfs += l
	return data, nil
}

// ReceiveUint32 receives an uint32 value.
func (io *OTIO) ReceiveUint32() (int, error) {
	if err := io.fill(4); err != nil {
		return 0, err
	}
	val := int(bo.Uint32(io.rBuf[io.rOfs:]))
	io.rOfs += 4
	return val, nil
}
