//
// enc.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/markkurossi/yao/ot"
)

var bo = binary.BigEndian

// Garbled table entries are the 128-bit output label followed by a
// 16-byte zero marker, encrypted with AES-CTR under a key derived
// from the input labels and the gate index. The marker makes a
// correct trial decryption recognizable: a wrong key produces a
// valid marker with probability 2^-128.
const (
	markerSize = 16
	entrySize  = 16 + markerSize
)

// errInvalidMarker reports a trial decryption under the wrong key
// pair. It is expected during evaluation and never escapes the
// package.
var errInvalidMarker = errors.New("invalid validity marker")

var zeroLabel ot.Label

// entryKey derives the AES key binding the input labels and the gate
// index. Unary gates pass the zero label as b. The gate index tweak
// makes table entries unusable across gates.
func entryKey(a, b ot.Label, tweak uint32) []byte {
	var data ot.LabelData
	var t [4]byte

	h := sha256.New()
	h.Write(a.Bytes(&data))
	h.Write(b.Bytes(&data))
	bo.PutUint32(t[:], tweak)
	h.Write(t[:])

	return h.Sum(nil)[:16]
}

// encryptLabel encrypts the target label under the input label pair
// and the gate index. The encryption is deterministic.
func encryptLabel(target, a, b ot.Label, tweak uint32) []byte {
	block, err := aes.NewCipher(entryKey(a, b, tweak))
	if err != nil {
		panic(err)
	}

	var plain [entrySize]byte
	var data ot.LabelData
	copy(plain[:], target.Bytes(&data))

	result := make([]byte, entrySize)
	var iv [aes.BlockSize]byte
	cipher.NewCTR(block, iv[:]).XORKeyStream(result, plain[:])

	return result
}

// decryptLabel is the pure inverse of encryptLabel. It returns
// errInvalidMarker when the entry was not encrypted under the key
// pair; trial decryption is deterministic so retrying cannot change
// the outcome.
func decryptLabel(data []byte, a, b ot.Label, tweak uint32) (ot.Label, error) {
	var label ot.Label

	if len(data) != entrySize {
		return label, errInvalidMarker
	}
	block, err := aes.NewCipher(entryKey(a, b, tweak))
	if err != nil {
		panic(err)
	}

	var plain [entrySize]byte
	var iv [aes.BlockSize]byte
	cipher.NewCTR(block, iv[:]).XORKeyStream(plain[:], data)

	for _, v := range plain[16:] {
		if v != 0 {
			return label, errInvalidMarker
		}
	}
	var labelData ot.LabelData
	copy(labelData[:], plain[:16])
	label.SetData(&labelData)

	return label, nil
}
