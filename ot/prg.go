//
// prg.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.

package ot

import (
	"io"

	"golang.org/x/crypto/chacha20"
)

var (
	_ io.Reader = &PRG{}
)

// PRG is a deterministic pseudorandom generator. It implements
// io.Reader so it can replace crypto/rand as the label source when a
// garbling must be reproducible, e.g. in tests measuring permutation
// distributions. It must never be used for production garbling.
type PRG struct {
	cipher *chacha20.Cipher
}

// NewPRG creates a new pseudorandom generator from the seed.
func NewPRG(seed [32]byte) *PRG {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		// Key and nonce sizes are fixed above.
		panic(err)
	}
	return &PRG{
		cipher: c,
	}
}

// Read fills p with pseudorandom bytes. It never fails.
func (prg *PRG) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	prg.cipher.XORKeyStream(p, p)
	return len(p), nil
}
