// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/eri-project/erid/fault"
)

// Snapshot - consistent read only view of committed data
type Snapshot struct {
	snapshot *leveldb.Snapshot
}

// Snapshot - capture the current committed state
//
// the caller must Release the result
func (d *Database) Snapshot() (*Snapshot, error) {
	d.Lock()
	defer d.Unlock()

	if nil == d.db {
		return nil, fault.ErrNotInitialised
	}
	s, err := d.db.GetSnapshot()
	if nil != err {
		return nil, err
	}
	return &Snapshot{snapshot: s}, nil
}

// Release - free the snapshot
func (s *Snapshot) Release() {
	s.snapshot.Release()
}

// Get - read a value, nil if not found
func (s *Snapshot) Get(p *PoolHandle, key []byte) []byte {
	value, err := s.snapshot.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	fault.PanicIfError("storage.Snapshot.Get", err)
	return value
}

// GetN - read a big endian uint64
func (s *Snapshot) GetN(p *PoolHandle, key []byte) (uint64, bool) {
	return getN(s, p, key)
}

// Has - check if a key exists
func (s *Snapshot) Has(p *PoolHandle, key []byte) bool {
	found, err := s.snapshot.Has(p.prefixKey(key), nil)
	fault.PanicIfError("storage.Snapshot.Has", err)
	return found
}

// Fetch - all elements whose key starts with keyPrefix, in key order
func (s *Snapshot) Fetch(p *PoolHandle, keyPrefix []byte) []Element {
	elements := make(map[string][]byte)

	iter := s.snapshot.NewIterator(p.prefixRange(keyPrefix), nil)
	for iter.Next() {
		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		elements[string(iter.Key())] = value
	}
	iter.Release()
	fault.PanicIfError("storage.Snapshot.Fetch", iter.Error())

	return sortedElements(elements)
}
