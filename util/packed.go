// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"github.com/eri-project/erid/fault"
)

// Packed - a record in its stored binary form
//
// every field is a Varint64 or a Varint64(length) prefixed byte string
type Packed []byte

// AppendVarint64 - append an unsigned integer
func (p Packed) AppendVarint64(value uint64) Packed {
	return append(p, ToVarint64(value)...)
}

// AppendBytes - append a length prefixed byte string
func (p Packed) AppendBytes(data []byte) Packed {
	p = append(p, ToVarint64(uint64(len(data)))...)
	return append(p, data...)
}

// AppendString - append a length prefixed string
func (p Packed) AppendString(s string) Packed {
	p = append(p, ToVarint64(uint64(len(s)))...)
	return append(p, s...)
}

// Unpacker - sequential reader for a Packed record
//
// after the first failure every read returns a zero value and Err
// reports the failure
type Unpacker struct {
	record []byte
	n      int
	err    error
}

// NewUnpacker - start reading a record from its first byte
func NewUnpacker(record []byte) *Unpacker {
	return &Unpacker{
		record: record,
	}
}

// Varint64 - read an unsigned integer
func (u *Unpacker) Varint64() uint64 {
	if nil != u.err {
		return 0
	}
	value, count := FromVarint64(u.record[u.n:])
	if 0 == count {
		u.err = fault.ErrTruncatedRecord
		return 0
	}
	u.n += count
	return value
}

// Bytes - read a length prefixed byte string
//
// the result is a copy and may be retained
func (u *Unpacker) Bytes() []byte {
	length := u.Varint64()
	if nil != u.err {
		return nil
	}
	if length > uint64(len(u.record)-u.n) {
		u.err = fault.ErrTruncatedRecord
		return nil
	}
	data := make([]byte, length)
	copy(data, u.record[u.n:])
	u.n += int(length)
	return data
}

// String - read a length prefixed string
func (u *Unpacker) String() string {
	return string(u.Bytes())
}

// Err - the first failure, or ErrTrailingData if the record was not
// completely consumed
func (u *Unpacker) Err() error {
	if nil != u.err {
		return u.err
	}
	if u.n != len(u.record) {
		return fault.ErrTrailingData
	}
	return nil
}
