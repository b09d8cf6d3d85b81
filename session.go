//
// session.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package yao

import (
	"fmt"

	"github.com/markkurossi/yao/p2p"
)

// SessionState describes the protocol phase of a party. The phases
// are strictly sequential; an unexpected message in any phase aborts
// the session.
type SessionState byte

// Session states.
const (
	SessionIdle SessionState = iota
	SessionHelloExchanged
	SessionCircuitExchanged
	SessionInputLabelsExchanged
	SessionOTComplete
	SessionResultExchanged
	SessionClosed
)

var sessionStates = map[SessionState]string{
	SessionIdle:                 "Idle",
	SessionHelloExchanged:       "HelloExchanged",
	SessionCircuitExchanged:     "CircuitExchanged",
	SessionInputLabelsExchanged: "InputLabelsExchanged",
	SessionOTComplete:           "OTComplete",
	SessionResultExchanged:      "ResultExchanged",
	SessionClosed:               "Closed",
}

func (s SessionState) String() string {
	name, ok := sessionStates[s]
	if ok {
		return name
	}
	return fmt.Sprintf("{SessionState %d}", s)
}

// session tracks one party's protocol run.
type session struct {
	conn  *p2p.Conn
	state SessionState
}

// hello exchanges party names. The argument order decides which
// party speaks first; the garbler initiates.
func (s *session) hello(name string, initiate bool) (string, error) {
	var peer string

	send := func() error {
		return s.conn.SendMessage(p2p.Message{
			Type:    p2p.MsgHello,
			Payload: []byte(name),
		})
	}
	receive := func() error {
		m, err := s.conn.ReceiveTyped(p2p.MsgHello)
		if err != nil {
			return err
		}
		peer = string(m.Payload)
		return nil
	}

	if initiate {
		if err := send(); err != nil {
			return "", err
		}
		if err := receive(); err != nil {
			return "", err
		}
	} else {
		if err := receive(); err != nil {
			return "", err
		}
		if err := send(); err != nil {
			return "", err
		}
	}
	s.state = SessionHelloExchanged
	return peer, nil
}

// fail sends a best-effort ERROR diagnostic to the peer and returns
// the violation as a ProtocolError. The session cannot continue.
func (s *session) fail(format string, a ...interface{}) error {
	err := p2p.Errorf("%s: %s", s.state, fmt.Sprintf(format, a...))
	s.conn.SendError(err.Error())
	return err
}
