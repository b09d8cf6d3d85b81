//
// yao.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package yao implements secure two-party computation with garbled
// circuits. The garbler garbles a boolean circuit and the evaluator
// evaluates it so that both parties learn the circuit output but
// neither learns the other party's inputs.
package yao

import (
	"fmt"
	"strings"
)

// ParseInputBits parses a party's input bits. The bits are 0 and 1
// characters, optionally separated by spaces or commas, first input
// wire first.
func ParseInputBits(val string) ([]bool, error) {
	var bits []bool

	for _, r := range val {
		switch r {
		case '0':
			bits = append(bits, false)
		case '1':
			bits = append(bits, true)
		case ' ', ',', '\t':

		default:
			return nil, fmt.Errorf("invalid input bit %q", r)
		}
	}
	if len(bits) == 0 {
		return nil, fmt.Errorf("no input bits")
	}
	return bits, nil
}

// FormatBits formats bits the way ParseInputBits parses them.
func FormatBits(bits []bool) string {
	var sb strings.Builder

	for _, bit := range bits {
		if bit {
			sb.WriteRune('1')
		} else {
			sb.WriteRune('0')
		}
	}
	return sb.String()
}
