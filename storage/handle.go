// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	ldb_util "github.com/syndtr/goleveldb/leveldb/util"
)

// PoolHandle - the key space of one pool
type PoolHandle struct {
	prefix byte
	limit  []byte
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// Reader - read access shared by transactions and snapshots
type Reader interface {
	Get(*PoolHandle, []byte) []byte
	GetN(*PoolHandle, []byte) (uint64, bool)
	Has(*PoolHandle, []byte) bool
	Fetch(*PoolHandle, []byte) []Element
}

// Writer - a Reader that can also modify pools
type Writer interface {
	Reader
	Put(*PoolHandle, []byte, []byte)
	PutN(*PoolHandle, []byte, uint64)
	Delete(*PoolHandle, []byte)
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// key range covering every key in the pool that starts with keyPrefix
func (p *PoolHandle) prefixRange(keyPrefix []byte) *ldb_util.Range {
	if 0 == len(keyPrefix) {
		return &ldb_util.Range{
			Start: []byte{p.prefix}, // Start of key range, included in the range
			Limit: p.limit,          // Limit of key range, excluded from the range
		}
	}
	return ldb_util.BytesPrefix(p.prefixKey(keyPrefix))
}

// EncodeN - 8 byte big endian counter value
func EncodeN(n uint64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, n)
	return buffer
}

// decode the first 8 bytes of a record as big endian uint64
func decodeN(buffer []byte) (uint64, bool) {
	if len(buffer) < 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(buffer[:8]), true
}
