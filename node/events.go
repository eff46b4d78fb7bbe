// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"github.com/eri-project/erid/messagebus"
)

// counts every committed event by command
type eventCounter struct {
	events <-chan messagebus.Message
}

func (c *eventCounter) Run(args interface{}, shutdown <-chan struct{}) {
	n := args.(*Node)
	log := n.log

	log.Info("event counter: starting…")
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case m, ok := <-c.events:
			if !ok {
				break loop
			}
			n.metrics.Event(m.Command)
			log.Debugf("event: %s  id: %s  parameters: %v", m.Command, m.ID, m.Parameters)
		}
	}
	log.Info("event counter: stopped")
}
