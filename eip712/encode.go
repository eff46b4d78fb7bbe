// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eip712

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eri-project/erid/fault"
)

// encoded size of every fixed size field
const wordLength = 32

// TypeHash - hash of a type string such as "Mail(address to,string contents)"
func TypeHash(typeString string) Digest {
	return Keccak256([]byte(typeString))
}

// HashString - a dynamic string field is encoded as its hash
func HashString(s string) []byte {
	d := Keccak256([]byte(s))
	return d[:]
}

// HashBytes - a dynamic bytes field is encoded as its hash
func HashBytes(b []byte) []byte {
	d := Keccak256(b)
	return d[:]
}

// EncodeUint256 - 32 byte big endian, nil is zero
func EncodeUint256(value *big.Int) ([]byte, error) {
	word := make([]byte, wordLength)
	if nil == value {
		return word, nil
	}
	if value.Sign() < 0 || value.BitLen() > 8*wordLength {
		return nil, fault.ErrInvalidUint256
	}
	return value.FillBytes(word), nil
}

// EncodeAddress - left padded to 32 bytes
func EncodeAddress(address common.Address) []byte {
	return common.LeftPadBytes(address.Bytes(), wordLength)
}
