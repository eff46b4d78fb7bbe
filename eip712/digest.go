// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eip712

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/eri-project/erid/fault"
)

// DigestLength - number of bytes in the digest
const DigestLength = 32

// Digest - a Keccak-256 value
//
// stored and printed big endian, text form is 0x prefixed hex
type Digest [DigestLength]byte

// Keccak256 - legacy Keccak-256 of the concatenation of all parts
func Keccak256(parts ...[]byte) Digest {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var d Digest
	h.Sum(d[:0])
	return d
}

// IsZero - true for the all zero digest
func (digest Digest) IsZero() bool {
	return Digest{} == digest
}

// String - hex for the fmt package (%s)
func (digest Digest) String() string {
	return "0x" + hex.EncodeToString(digest[:])
}

// GoString - hex for the fmt package (%#v)
func (digest Digest) GoString() string {
	return "<Keccak256:" + hex.EncodeToString(digest[:]) + ">"
}

// MarshalText - convert digest to 0x prefixed hex text
func (digest Digest) MarshalText() ([]byte, error) {
	return []byte(digest.String()), nil
}

// UnmarshalText - convert hex text, with or without 0x, into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	d, err := DigestFromHex(string(s))
	if nil != err {
		return err
	}
	*digest = d
	return nil
}

// DigestFromBytes - convert and validate a byte slice
func DigestFromBytes(digest *Digest, buffer []byte) error {
	if DigestLength != len(buffer) {
		return fault.ErrInvalidDigest
	}
	copy(digest[:], buffer)
	return nil
}

// DigestFromHex - convert and validate a hex string
func DigestFromHex(s string) (Digest, error) {
	var digest Digest
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if hex.EncodedLen(DigestLength) != len(s) {
		return digest, fault.ErrInvalidDigest
	}
	if _, err := hex.Decode(digest[:], []byte(s)); nil != err {
		return digest, fault.ErrInvalidDigest
	}
	return digest, nil
}
