//
// conn.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package p2p implements the framed message connection between the
// garbler and the evaluator. All values are big-endian. The
// connection is single-threaded: the protocol phases are strictly
// sequential so reads and writes never overlap.
package p2p

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/markkurossi/yao/ot"
)

var (
	bo       = binary.BigEndian
	_  ot.IO = &Conn{}
)

// Conn implements a buffered protocol connection. It satisfies the
// ot.IO interface so oblivious transfers can run directly over the
// connection.
type Conn struct {
	conn  io.ReadWriter
	r     *bufio.Reader
	w     *bufio.Writer
	Stats IOStats
}

// IOStats implements I/O statistics.
type IOStats struct {
	Sent    uint64
	Recvd   uint64
	Flushed uint64
}

// Sub subtracts the argument stats from this IOStats.
func (stats IOStats) Sub(o IOStats) IOStats {
	return IOStats{
		Sent:    stats.Sent - o.Sent,
		Recvd:   stats.Recvd - o.Recvd,
		Flushed: stats.Flushed - o.Flushed,
	}
}

// Sum returns the sum of sent and received bytes.
func (stats IOStats) Sum() uint64 {
	return stats.Sent + stats.Recvd
}

// NewConn creates a new connection around the argument connection.
func NewConn(conn io.ReadWriter) *Conn {
	return &Conn{
		conn: conn,
		r:    bufio.NewReaderSize(conn, 1024*1024),
		w:    bufio.NewWriterSize(conn, 64*1024),
	}
}

// Flush flushes any pending data in the connection.
func (c *Conn) Flush() error {
	if c.w.Buffered() > 0 {
		c.Stats.Flushed++
	}
	return c.w.Flush()
}

// Close flushes any pending data and closes the connection.
func (c *Conn) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	closer, ok := c.conn.(io.Closer)
	if ok {
		return closer.Close()
	}
	return nil
}

// SendByte sends a byte value.
func (c *Conn) SendByte(val byte) error {
	if err := c.w.WriteByte(val); err != nil {
		return err
	}
	c.Stats.Sent++
	return nil
}

// SendUint32 sends an uint32 value.
func (c *Conn) SendUint32(val int) error {
	var buf [4]byte
	bo.PutUint32(buf[:], uint32(val))
	if _, err := c.w.Write(buf[:]); err != nil {
		return err
	}
	c.Stats.Sent += 4
	return nil
}

// SendData sends binary data.
func (c *Conn) SendData(val []byte) error {
	if err := c.SendUint32(len(val)); err != nil {
		return err
	}
	if _, err := c.w.Write(val); err != nil {
		return err
	}
	c.Stats.Sent += uint64(len(val))
	return nil
}

// ReceiveByte receives a byte value.
func (c *Conn) ReceiveByte() (byte, error) {
	val, err := c.r.ReadByte()
	if err != nil {
		return 0, err
	}
	c.Stats.Recvd++
	return val, nil
}

// ReceiveUint32 receives an uint32 value.
func (c *Conn) ReceiveUint32() (int, error) {
	var buf [4]byte
	if _, err := io.ReadFull(c.r, buf[:]); err != nil {
		return 0, err
	}
	c.Stats.Recvd += 4
	return int(bo.Uint32(buf[:])), nil
}

// ReceiveData receives binary data.
func (c *Conn) ReceiveData() ([]byte, error) {
	l, err := c.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	if l > MaxPayload {
		return nil, fmt.Errorf("p2p: data length %d exceeds maximum %d",
			l, MaxPayload)
	}
	result := make([]byte, l)
	if _, err := io.ReadFull(c.r, result); err != nil {
		return nil, err
	}
	c.Stats.Recvd += uint64(l)
	return result, nil
}
