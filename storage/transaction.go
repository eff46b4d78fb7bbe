// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sort"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/eri-project/erid/fault"
)

// Transaction - buffered writes applied atomically on Commit
//
// reads see the database overlaid with every pending layer; a
// Savepoint starts a new layer that Rollback discards or Release
// folds into the layer below
type Transaction struct {
	d      *Database
	layers []*layer
}

// Begin - start the single write transaction
func (d *Database) Begin() (*Transaction, error) {
	d.Lock()
	defer d.Unlock()

	if nil == d.db {
		return nil, fault.ErrNotInitialised
	}
	if d.inUse {
		return nil, fault.ErrTransactionInUse
	}
	d.inUse = true

	return &Transaction{
		d:      d,
		layers: []*layer{newLayer()},
	}, nil
}

func (t *Transaction) top() *layer {
	if 0 == len(t.layers) {
		fault.Panic("storage: transaction is not active")
	}
	return t.layers[len(t.layers)-1]
}

// Depth - number of layers, 1 when no savepoint is open
func (t *Transaction) Depth() int {
	return len(t.layers)
}

// Savepoint - start a new layer
func (t *Transaction) Savepoint() {
	t.top()
	t.layers = append(t.layers, newLayer())
}

// Rollback - discard the newest layer
func (t *Transaction) Rollback() error {
	if len(t.layers) < 2 {
		return fault.ErrTransactionNotActive
	}
	t.layers = t.layers[:len(t.layers)-1]
	return nil
}

// Release - keep the newest layer by merging it into the one below
func (t *Transaction) Release() error {
	if len(t.layers) < 2 {
		return fault.ErrTransactionNotActive
	}
	n := len(t.layers)
	t.layers[n-1].mergeInto(t.layers[n-2])
	t.layers = t.layers[:n-1]
	return nil
}

// Put - store a key/value bytes pair
func (t *Transaction) Put(p *PoolHandle, key []byte, value []byte) {
	stored := make([]byte, len(value))
	copy(stored, value)
	t.top().set(dbPut, string(p.prefixKey(key)), stored)
}

// PutN - store a big endian uint64
func (t *Transaction) PutN(p *PoolHandle, key []byte, value uint64) {
	t.Put(p, key, EncodeN(value))
}

// Delete - remove a key
func (t *Transaction) Delete(p *PoolHandle, key []byte) {
	t.top().set(dbDelete, string(p.prefixKey(key)), nil)
}

// newest pending operation for a full key
func (t *Transaction) pending(fullKey string) (cacheData, bool) {
	for i := len(t.layers) - 1; i >= 0; i -= 1 {
		if data, found := t.layers[i].get(fullKey); found {
			return data, true
		}
	}
	return cacheData{}, false
}

// Get - read a value, nil if not found
func (t *Transaction) Get(p *PoolHandle, key []byte) []byte {
	fullKey := p.prefixKey(key)
	if data, found := t.pending(string(fullKey)); found {
		if dbDelete == data.op {
			return nil
		}
		return data.value
	}

	value, err := t.d.db.Get(fullKey, nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	fault.PanicIfError("storage.Transaction.Get", err)
	return value
}

// GetN - read a big endian uint64
func (t *Transaction) GetN(p *PoolHandle, key []byte) (uint64, bool) {
	return getN(t, p, key)
}

// Has - check if a key exists
func (t *Transaction) Has(p *PoolHandle, key []byte) bool {
	fullKey := p.prefixKey(key)
	if data, found := t.pending(string(fullKey)); found {
		return dbPut == data.op
	}
	found, err := t.d.db.Has(fullKey, nil)
	fault.PanicIfError("storage.Transaction.Has", err)
	return found
}

// Fetch - all elements whose key starts with keyPrefix, in key order
func (t *Transaction) Fetch(p *PoolHandle, keyPrefix []byte) []Element {
	merged := make(map[string][]byte)

	iter := t.d.db.NewIterator(p.prefixRange(keyPrefix), nil)
	for iter.Next() {
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		merged[string(iter.Key())] = value
	}
	iter.Release()
	fault.PanicIfError("storage.Transaction.Fetch", iter.Error())

	// apply layers oldest first so newer operations win
	scanPrefix := string(p.prefixKey(keyPrefix))
	for _, l := range t.layers {
		for _, key := range l.scan(scanPrefix) {
			data, _ := l.get(key)
			if dbDelete == data.op {
				delete(merged, key)
			} else {
				merged[key] = data.value
			}
		}
	}

	return sortedElements(merged)
}

// Commit - write every pending operation as one atomic batch
func (t *Transaction) Commit() error {
	if 1 != len(t.layers) {
		t.Abort()
		return fault.ErrTransactionNotActive
	}

	l := t.layers[0]
	batch := new(leveldb.Batch)
	for key, item := range l.cache.Items() {
		data := item.Object.(cacheData)
		if dbDelete == data.op {
			batch.Delete([]byte(key))
		} else {
			batch.Put([]byte(key), data.value)
		}
	}

	t.d.log.Debugf("commit: %d operations", l.count())

	err := t.d.db.Write(batch, nil)
	t.finish()
	return err
}

// Abort - discard every pending operation
func (t *Transaction) Abort() {
	if nil == t.layers {
		return
	}
	t.finish()
}

func (t *Transaction) finish() {
	t.layers = nil
	t.d.Lock()
	t.d.inUse = false
	t.d.Unlock()
}

// shared by transaction and snapshot
func getN(r Reader, p *PoolHandle, key []byte) (uint64, bool) {
	buffer := r.Get(p, key)
	if nil == buffer {
		return 0, false
	}
	n, ok := decodeN(buffer)
	if !ok {
		fault.Panicf("storage.GetN truncated record for: %x: %x", key, buffer)
	}
	return n, true
}

// strip pool prefix and order by key
func sortedElements(m map[string][]byte) []Element {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	elements := make([]Element, 0, len(keys))
	for _, key := range keys {
		elements = append(elements, Element{
			Key:   []byte(key[1:]),
			Value: m[key],
		})
	}
	return elements
}
