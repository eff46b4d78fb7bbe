// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/eri-project/erid/fault"
	"github.com/eri-project/erid/messagebus"
	"github.com/eri-project/erid/storage"
)

// MaximumCallDepth - deepest nesting of Call, the outermost context is 0
const MaximumCallDepth = 8

// Context - the view of one unit of work given to an operation
type Context struct {
	ledger *Ledger
	trx    *storage.Transaction
	caller common.Address
	now    time.Time
	depth  int
	events []messagebus.Message
}

// Caller - authenticated initiator of the current call
func (c *Context) Caller() common.Address {
	return c.caller
}

// Now - time of the unit of work, never earlier than any previous one
func (c *Context) Now() time.Time {
	return c.now
}

// Depth - 0 for the outermost call
func (c *Context) Depth() int {
	return c.depth
}

// Emit - buffer an event, broadcast only if the unit of work commits
func (c *Context) Emit(command string, parameters map[string]string) {
	c.events = append(c.events, messagebus.Message{
		ID:         uuid.New(),
		Command:    command,
		Timestamp:  c.now,
		Parameters: parameters,
	})
}

// Call - run fn as a nested call made by the component at self
//
// fn sees self as its caller; if fn fails its writes and events are
// discarded and the error is returned for the caller to handle
func (c *Context) Call(self common.Address, fn func(*Context) error) error {
	if c.depth+1 > MaximumCallDepth {
		return fault.ErrCallDepthExceeded
	}

	nested := &Context{
		ledger: c.ledger,
		trx:    c.trx,
		caller: self,
		now:    c.now,
		depth:  c.depth + 1,
	}

	c.trx.Savepoint()
	if err := fn(nested); nil != err {
		if rollbackErr := c.trx.Rollback(); nil != rollbackErr {
			fault.PanicIfError("ledger.Call rollback", rollbackErr)
		}
		return err
	}
	if err := c.trx.Release(); nil != err {
		fault.PanicIfError("ledger.Call release", err)
	}

	c.events = append(c.events, nested.events...)
	return nil
}

// Get - read a value, nil if not found
func (c *Context) Get(p *storage.PoolHandle, key []byte) []byte {
	return c.trx.Get(p, key)
}

// GetN - read a big endian uint64
func (c *Context) GetN(p *storage.PoolHandle, key []byte) (uint64, bool) {
	return c.trx.GetN(p, key)
}

// Has - check if a key exists
func (c *Context) Has(p *storage.PoolHandle, key []byte) bool {
	return c.trx.Has(p, key)
}

// Fetch - all elements whose key starts with keyPrefix
func (c *Context) Fetch(p *storage.PoolHandle, keyPrefix []byte) []storage.Element {
	return c.trx.Fetch(p, keyPrefix)
}

// Put - store a key/value pair
func (c *Context) Put(p *storage.PoolHandle, key []byte, value []byte) {
	c.trx.Put(p, key, value)
}

// PutN - store a big endian uint64
func (c *Context) PutN(p *storage.PoolHandle, key []byte, value uint64) {
	c.trx.PutN(p, key, value)
}

// Delete - remove a key
func (c *Context) Delete(p *storage.PoolHandle, key []byte) {
	c.trx.Delete(p, key)
}
