// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/ethereum/go-ethereum/common"

	"github.com/eri-project/erid/messagebus"
	"github.com/eri-project/erid/storage"
)

// Clock - source of the current time
type Clock func() time.Time

// Ledger - the execution environment shared by all components
type Ledger struct {
	sync.Mutex
	log   *logger.L
	db    *storage.Database
	bus   *messagebus.BroadcastQueue
	clock Clock
	last  time.Time
}

// New - create a ledger over an open database
//
// a nil clock uses the system time
func New(db *storage.Database, bus *messagebus.BroadcastQueue, clock Clock) *Ledger {
	if nil == clock {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Ledger{
		log:   logger.New("ledger"),
		db:    db,
		bus:   bus,
		clock: clock,
	}
}

// Pools - the storage pools for building keys
func (l *Ledger) Pools() *storage.Pools {
	return &l.db.Pool
}

// non-decreasing time, lock must be held
func (l *Ledger) now() time.Time {
	t := l.clock()
	if t.Before(l.last) {
		t = l.last
	}
	l.last = t
	return t
}

// Execute - run fn as one atomic unit of work on behalf of caller
func (l *Ledger) Execute(name string, caller common.Address, fn func(*Context) error) (err error) {
	l.Lock()
	defer l.Unlock()

	trx, err := l.db.Begin()
	if nil != err {
		return err
	}

	// storage failures panic; never leave the transaction open
	done := false
	defer func() {
		if !done {
			trx.Abort()
		}
	}()

	ctx := &Context{
		ledger: l,
		trx:    trx,
		caller: caller,
		now:    l.now(),
	}

	if err = fn(ctx); nil != err {
		done = true
		trx.Abort()
		l.log.Debugf("%s: caller: %s  rejected: %s", name, caller.Hex(), err)
		return err
	}

	done = true
	if err = trx.Commit(); nil != err {
		l.log.Criticalf("%s: commit error: %s", name, err)
		return err
	}

	l.log.Debugf("%s: caller: %s  committed with: %d events", name, caller.Hex(), len(ctx.events))

	if nil != l.bus {
		for _, m := range ctx.events {
			l.bus.Send(m)
		}
	}
	return nil
}

// View - run fn against a consistent read only snapshot
func (l *Ledger) View(fn func(storage.Reader) error) error {
	s, err := l.db.Snapshot()
	if nil != err {
		return err
	}
	defer s.Release()

	return fn(s)
}
