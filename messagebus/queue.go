// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// internal constants
const (
	defaultQueueSize = 1000
)

// Message - one event
type Message struct {
	ID         uuid.UUID
	Command    string
	Timestamp  time.Time
	Parameters map[string]string
}

// BroadcastQueue - fan out to every current listener
type BroadcastQueue struct {
	sync.RWMutex
	listeners []chan Message
	dropped   uint64
	closed    bool
}

// New - an empty broadcast queue
func New() *BroadcastQueue {
	return &BroadcastQueue{}
}

// Send - deliver to each listener that has room
//
// returns the number of listeners that received the message
func (q *BroadcastQueue) Send(m Message) int {
	q.Lock()
	defer q.Unlock()

	if q.closed {
		return 0
	}

	delivered := 0
	for _, listener := range q.listeners {
		select {
		case listener <- m:
			delivered += 1
		default:
			q.dropped += 1
		}
	}
	return delivered
}

// Chan - a new listener; messages sent before this call are not seen
//
// size < 1 selects the default queue size
func (q *BroadcastQueue) Chan(size int) <-chan Message {
	if size < 1 {
		size = defaultQueueSize
	}
	c := make(chan Message, size)

	q.Lock()
	defer q.Unlock()

	if q.closed {
		close(c)
		return c
	}
	q.listeners = append(q.listeners, c)
	return c
}

// Dropped - count of deliveries skipped because a listener was full
func (q *BroadcastQueue) Dropped() uint64 {
	q.RLock()
	defer q.RUnlock()
	return q.dropped
}

// Release - close every listener, later sends are ignored
func (q *BroadcastQueue) Release() {
	q.Lock()
	defer q.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	for _, listener := range q.listeners {
		close(listener)
	}
	q.listeners = nil
}
