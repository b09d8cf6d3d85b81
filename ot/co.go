//
// co.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//
// Chou-Orlandi OT - The Simplest Protocol for Oblivious Transfer.
//  - https://eprint.iacr.org/2015/267.pdf

package ot

import (
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"hash"
	"math/big"
)

var (
	_ OT = &CO{}
)

// CO implements the Chou-Orlandi oblivious transfer protocol over
// the NIST P-256 curve. A batch of transfers uses one blinding round:
// the sender's random point A is sent once and amortized over all
// wires of the batch.
type CO struct {
	curve  elliptic.Curve
	hash   hash.Hash
	digest []byte
	io     IO
}

// NewCO creates a new CO oblivious transfer.
func NewCO() *CO {
	return &CO{
		curve:  elliptic.P256(),
		hash:   sha256.New(),
		digest: make([]byte, 0, sha256.Size),
	}
}

// InitSender initializes the OT sender.
func (co *CO) InitSender(io IO) error {
	co.io = io
	if err := SendString(io, co.curve.Params().Name); err != nil {
		return err
	}
	return io.Flush()
}

// InitReceiver initializes the OT receiver.
func (co *CO) InitReceiver(io IO) error {
	co.io = io

	name, err := ReceiveString(io)
	if err != nil {
		return err
	}
	if name != co.curve.Params().Name {
		return fmt.Errorf("ot: invalid curve %s, expected %s",
			name, co.curve.Params().Name)
	}
	return nil
}

// Send sends the wire labels with OT.
func (co *CO) Send(wires []Wire) error {
	params := co.curve.Params()

	// a <- Zp, A = G^a
	a, err := rand.Int(rand.Reader, params.N)
	if err != nil {
		return err
	}
	aBytes := a.Bytes()
	Ax, Ay := co.curve.ScalarBaseMult(aBytes)

	if err := co.io.SendData(Ax.Bytes()); err != nil {
		return err
	}
	if err := co.io.SendData(Ay.Bytes()); err != nil {
		return err
	}
	if err := co.io.Flush(); err != nil {
		return err
	}

	// Aa = A^a, AaInv = {Aax, -Aay}
	Aax, Aay := co.curve.ScalarMult(Ax, Ay, aBytes)
	AaInvx := new(big.Int).Set(Aax)
	AaInvy := new(big.Int).Sub(params.P, Aay)

	// Receive the receiver's blinded points for all wires of the
	// batch before sending any encryptions.
	count := len(wires)
	kxs := make([]*big.Int, count)
	kys := make([]*big.Int, count)
	kaxs := make([]*big.Int, count)
	kays := make([]*big.Int, count)

	for i := 0; i < count; i++ {
		Bx, err := receiveBigInt(co.io)
		if err != nil {
			return err
		}
		By, err := receiveBigInt(co.io)
		if err != nil {
			return err
		}

		// k0 = B^a, k1 = (B/A)^a = B^a * Aa^-1
		kx, ky := co.curve.ScalarMult(Bx, By, aBytes)
		kax, kay := co.curve.Add(kx, ky, AaInvx, AaInvy)

		kxs[i], kys[i] = kx, ky
		kaxs[i], kays[i] = kax, kay
	}

	var labelData LabelData
	for i := 0; i < count; i++ {
		wires[i].L0.GetData(&labelData)
		e0 := xorBytes(co.kdf(kxs[i], kys[i], uint64(i)), labelData[:])
		if err := co.io.SendData(e0); err != nil {
			return err
		}
		wires[i].L1.GetData(&labelData)
		e1 := xorBytes(co.kdf(kaxs[i], kays[i], uint64(i)), labelData[:])
		if err := co.io.SendData(e1); err != nil {
			return err
		}
	}

	return co.io.Flush()
}

// Receive receives the wire labels with OT based on the choice bits.
func (co *CO) Receive(choices []bool, result []Label) error {
	if len(choices) != len(result) {
		return fmt.Errorf("ot: %d choices for %d results",
			len(choices), len(result))
	}
	params := co.curve.Params()

	Ax, err := receiveBigInt(co.io)
	if err != nil {
		return err
	}
	Ay, err := receiveBigInt(co.io)
	if err != nil {
		return err
	}

	count := len(choices)
	bs := make([][]byte, count)

	for i := 0; i < count; i++ {
		// b <- Zp, B = G^b, or B = A * G^b when the choice bit is set.
		b, err := rand.Int(rand.Reader, params.N)
		if err != nil {
			return err
		}
		bBytes := b.Bytes()

		Bx, By := co.curve.ScalarBaseMult(bBytes)
		if choices[i] {
			Bx, By = co.curve.Add(Bx, By, Ax, Ay)
		}
		if err := co.io.SendData(Bx.Bytes()); err != nil {
			return err
		}
		if err := co.io.SendData(By.Bytes()); err != nil {
			return err
		}

		bs[i] = bBytes
	}

	if err := co.io.Flush(); err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		// k = A^b decrypts the encryption for our choice bit.
		kx, ky := co.curve.ScalarMult(Ax, Ay, bs[i])
		key := co.kdf(kx, ky, uint64(i))

		e0, err := co.io.ReceiveData()
		if err != nil {
			return err
		}
		if !choices[i] {
			key = xorBytes(key, e0)
		}
		e1, err := co.io.ReceiveData()
		if err != nil {
			return err
		}
		if choices[i] {
			key = xorBytes(key, e1)
		}
		result[i].SetBytes(key)
	}

	return nil
}

func (co *CO) kdf(x, y *big.Int, id uint64) []byte {
	co.hash.Reset()
	co.hash.Write(x.Bytes())
	co.hash.Write(y.Bytes())

	var tmp [8]byte
	bo.PutUint64(tmp[:], id)
	co.hash.Write(tmp[:])

	return co.hash.Sum(co.digest[:0])
}

func receiveBigInt(io IO) (*big.Int, error) {
	data, err := io.ReceiveData()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(data), nil
}

func xorBytes(a, b []byte) []byte {
	l := len(a)
	if len(b) < l {
		l = len(b)
	}
	for i := 0; i < l; i++ {
		a[i] ^= b[i]
	}
	return a[:l]
}
