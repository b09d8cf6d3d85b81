//
// enc_test.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bytes"
	"testing"

	"github.com/markkurossi/yao/ot"
)

func testLabel(t *testing.T, prg *ot.PRG) ot.Label {
	label, err := ot.NewLabel(prg)
	if err != nil {
		t.Fatalf("NewLabel: %s", err)
	}
	return label
}

func TestEncryptDecrypt(t *testing.T) {
	prg := ot.NewPRG([32]byte{1})

	target := testLabel(t, prg)
	a := testLabel(t, prg)
	b := testLabel(t, prg)

	data := encryptLabel(target, a, b, 42)
	if len(data) != entrySize {
		t.Fatalf("entry size %d, expected %d", len(data), entrySize)
	}

	plain, err := decryptLabel(data, a, b, 42)
	if err != nil {
		t.Fatalf("decryptLabel: %s", err)
	}
	if !plain.Equal(target) {
		t.Errorf("decrypted %v, expected %v", plain, target)
	}
}

func TestEncryptDeterministic(t *testing.T) {
	prg := ot.NewPRG([32]byte{2})

	target := testLabel(t, prg)
	a := testLabel(t, prg)
	b := testLabel(t, prg)

	if !bytes.Equal(encryptLabel(target, a, b, 7),
		encryptLabel(target, a, b, 7)) {
		t.Errorf("encryption is not deterministic")
	}
}

func TestDecryptWrongKey(t *testing.T) {
	prg := ot.NewPRG([32]byte{3})

	target := testLabel(t, prg)
	a := testLabel(t, prg)
	b := testLabel(t, prg)
	wrong := testLabel(t, prg)

	data := encryptLabel(target, a, b, 0)

	if _, err := decryptLabel(data, wrong, b, 0); err != errInvalidMarker {
		t.Errorf("wrong first key: %v", err)
	}
	if _, err := decryptLabel(data, a, wrong, 0); err != errInvalidMarker {
		t.Errorf("wrong second key: %v", err)
	}
	if _, err := decryptLabel(data, b, a, 0); err != errInvalidMarker {
		t.Errorf("swapped keys: %v", err)
	}
}

// A wrong key must never decode to a valid entry across many trials.
func TestDecryptWrongKeyTrials(t *testing.T) {
	prg := ot.NewPRG([32]byte{7})

	target := testLabel(t, prg)
	a := testLabel(t, prg)
	b := testLabel(t, prg)

	data := encryptLabel(target, a, b, 0)
	for i := 0; i < 1000; i++ {
		wrong := testLabel(t, prg)
		if _, err := decryptLabel(data, wrong, b, 0); err == nil {
			t.Fatalf("trial %d: wrong key decrypted", i)
		}
		if _, err := decryptLabel(data, a, wrong, 0); err == nil {
			t.Fatalf("trial %d: wrong second key decrypted", i)
		}
	}
}

func TestDecryptWrongTweak(t *testing.T) {
	prg := ot.NewPRG([32]byte{4})

	target := testLabel(t, prg)
	a := testLabel(t, prg)
	b := testLabel(t, prg)

	data := encryptLabel(target, a, b, 1)
	if _, err := decryptLabel(data, a, b, 2); err != errInvalidMarker {
		t.Errorf("wrong gate index: %v", err)
	}
}

func TestDecryptTruncated(t *testing.T) {
	prg := ot.NewPRG([32]byte{5})

	target := testLabel(t, prg)
	a := testLabel(t, prg)
	b := testLabel(t, prg)

	data := encryptLabel(target, a, b, 0)
	if _, err := decryptLabel(data[:entrySize-1], a, b, 0); err == nil {
		t.Errorf("truncated entry decrypted")
	}
}

// Unary gates key on the input label and the zero label.
func TestEncryptZeroLabel(t *testing.T) {
	prg := ot.NewPRG([32]byte{6})

	target := testLabel(t, prg)
	a := testLabel(t, prg)

	data := encryptLabel(target, a, zeroLabel, 3)
	plain, err := decryptLabel(data, a, zeroLabel, 3)
	if err != nil {
		t.Fatalf("decryptLabel: %s", err)
	}
	if !plain.Equal(target) {
		t.Errorf("decrypted %v, expected %v", plain, target)
	}
}
