// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"github.com/bitmark-inc/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eri-project/erid/authenticity"
	"github.com/eri-project/erid/background"
	"github.com/eri-project/erid/configuration"
	"github.com/eri-project/erid/fault"
	"github.com/eri-project/erid/ledger"
	"github.com/eri-project/erid/manufacturer"
	"github.com/eri-project/erid/messagebus"
	"github.com/eri-project/erid/metrics"
	"github.com/eri-project/erid/ownership"
	"github.com/eri-project/erid/storage"
)

// Parameters - everything needed to assemble a node
type Parameters struct {
	Database     *storage.Database
	Authenticity authenticity.Configuration
	Deployer     common.Address // administers the ownership store
	Ownership    common.Address // informational only
	Registerer   prometheus.Registerer
	Clock        ledger.Clock
}

// Node - the wired set of components serving all operations
type Node struct {
	log        *logger.L
	db         *storage.Database
	bus        *messagebus.BroadcastQueue
	ledger     *ledger.Ledger
	metrics    *metrics.Metrics
	registry   *manufacturer.Registry
	store      *ownership.Store
	auth       *authenticity.Authenticity
	background *background.T
}

// Open - open the configured database and assemble a node
//
// the logger must already be initialised
func Open(conf *configuration.Configuration, reg prometheus.Registerer) (*Node, error) {
	db, err := storage.Open(conf.DatabaseFile(), false)
	if nil != err {
		return nil, err
	}

	n, err := New(Parameters{
		Database:     db,
		Authenticity: conf.AuthenticityConfiguration(),
		Deployer:     conf.Addresses.Deployer,
		Ownership:    conf.Addresses.Ownership,
		Registerer:   reg,
	})
	if nil != err {
		db.Close()
		return nil, err
	}
	return n, nil
}

// New - assemble a node over an open database, which the node then owns
//
// on first start the ownership store is linked to the authenticity
// address; a database linked to a different address or by a different
// deployer is rejected
func New(p Parameters) (*Node, error) {
	if (common.Address{}) == p.Authenticity.Address || (common.Address{}) == p.Deployer {
		return nil, fault.ErrAddressZero
	}
	if nil == p.Registerer {
		p.Registerer = prometheus.NewRegistry()
	}

	bus := messagebus.New()
	l := ledger.New(p.Database, bus, p.Clock)
	registry := manufacturer.New(l.Pools())
	store := ownership.New(l.Pools(), p.Deployer)

	n := &Node{
		log:      logger.New("node"),
		db:       p.Database,
		bus:      bus,
		ledger:   l,
		metrics:  metrics.New(p.Registerer),
		registry: registry,
		store:    store,
		auth:     authenticity.New(p.Authenticity, registry, store),
	}

	if err := n.link(p.Deployer); nil != err {
		bus.Release()
		return nil, err
	}

	n.metrics.DroppedEvents(bus.Dropped)

	n.background = background.Start(background.Processes{
		&eventCounter{events: bus.Chan(0)},
	}, n)

	domain := n.auth.Domain()
	n.log.Infof("authenticity: %s  chain id: %s  domain: %q/%q", p.Authenticity.Address.Hex(), domain.ChainID, domain.Name, domain.Version)
	n.log.Infof("deployer: %s  ownership: %s", p.Deployer.Hex(), p.Ownership.Hex())
	return n, nil
}

func (n *Node) link(deployer common.Address) error {
	var current, linkedBy common.Address
	var ownerErr error
	err := n.ledger.View(func(rd storage.Reader) error {
		var err error
		current, err = n.store.Authenticity(rd)
		if nil == err {
			linkedBy, ownerErr = n.store.LinkedOwner(rd)
		}
		return err
	})
	switch {
	case nil == err && current != n.auth.Address():
		n.log.Criticalf("database linked to: %s  configured: %s", current.Hex(), n.auth.Address().Hex())
		return fault.ErrAuthenticityAlreadySet
	case nil == err && (nil != ownerErr || linkedBy != deployer):
		n.log.Criticalf("database linked by: %s  configured deployer: %s", linkedBy.Hex(), deployer.Hex())
		return fault.ErrDeployerMismatch
	case nil == err:
		return nil
	case fault.ErrAuthenticityNotSet != err:
		return err
	}

	return n.ledger.Execute("link", deployer, func(ctx *ledger.Context) error {
		return n.store.SetAuthenticity(ctx, n.auth.Address())
	})
}

// Close - stop background work and close the database
func (n *Node) Close() {
	n.bus.Release()
	n.background.Stop()
	n.db.Close()
	n.log.Info("closed")
}

// Events - a new listener for committed events
func (n *Node) Events(size int) <-chan messagebus.Message {
	return n.bus.Chan(size)
}

// Authenticity - address of the authenticity component
func (n *Node) Authenticity() common.Address {
	return n.auth.Address()
}

// Deployer - administering address of the ownership store
func (n *Node) Deployer() common.Address {
	return n.store.Owner()
}
