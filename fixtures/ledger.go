// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"testing"

	"github.com/eri-project/erid/ledger"
	"github.com/eri-project/erid/messagebus"
	"github.com/eri-project/erid/storage"
)

// Ledger - an in-memory ledger with a listener on its events
type Ledger struct {
	*ledger.Ledger
	DB     *storage.Database
	Bus    *messagebus.BroadcastQueue
	Events <-chan messagebus.Message
}

// NewLedger - logging, an in-memory database and an event listener
func NewLedger(t testing.TB) *Ledger {
	SetupTestLogger()
	db, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory error: %s", err)
	}
	bus := messagebus.New()
	return &Ledger{
		Ledger: ledger.New(db, bus, nil),
		DB:     db,
		Bus:    bus,
		Events: bus.Chan(1000),
	}
}

// Teardown - release everything created by NewLedger
func (l *Ledger) Teardown() {
	l.Bus.Release()
	l.DB.Close()
	TeardownTestLogger()
}

// Drain - all events received so far
func (l *Ledger) Drain() []messagebus.Message {
	messages := []messagebus.Message{}
	for {
		select {
		case m, ok := <-l.Events:
			if !ok {
				return messages
			}
			messages = append(messages, m)
		default:
			return messages
		}
	}
}

// Commands - the command names of all events received so far
func (l *Ledger) Commands() []string {
	commands := []string{}
	for _, m := range l.Drain() {
		commands = append(commands, m.Command)
	}
	return commands
}
