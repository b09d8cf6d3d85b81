//
// network.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"fmt"
	"log"
	"net"
	"time"
)

// DialTimeout is the default connection establishment window. After
// the window expires Dial fails; established connections have no
// operation timeouts.
const DialTimeout = 15 * time.Second

const dialRetryDelay = time.Second

// Listen accepts one evaluator connection on the address.
func Listen(addr string) (*Conn, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer listener.Close()

	log.Printf("listening for evaluator at %s", addr)
	nc, err := listener.Accept()
	if err != nil {
		return nil, err
	}
	log.Printf("connection from %s", nc.RemoteAddr())

	return NewConn(nc), nil
}

// Dial connects to the garbler at the address, retrying until the
// timeout window expires.
func Dial(addr string, timeout time.Duration) (*Conn, error) {
	if timeout == 0 {
		timeout = DialTimeout
	}
	deadline := time.Now().Add(timeout)

	for {
		nc, err := net.Dial("tcp", addr)
		if err == nil {
			log.Printf("connected to %s", addr)
			return NewConn(nc), nil
		}
		if time.Now().Add(dialRetryDelay).After(deadline) {
			return nil, fmt.Errorf("connect to %s failed: %w", addr, err)
		}
		log.Printf("connect to %s failed, retrying in %s", addr,
			dialRetryDelay)
		<-time.After(dialRetryDelay)
	}
}
