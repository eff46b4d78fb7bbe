// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eri-project/erid/authenticity"
	"github.com/eri-project/erid/eip712"
	"github.com/eri-project/erid/ledger"
	"github.com/eri-project/erid/manufacturer"
	"github.com/eri-project/erid/ownership"
	"github.com/eri-project/erid/storage"
)

// one unit of work, counted under name
func (n *Node) execute(name string, caller common.Address, fn func(*ledger.Context) error) error {
	start := time.Now()
	err := n.ledger.Execute(name, caller, fn)
	n.metrics.Observe(name, start, err)
	return err
}

// one read, counted under name
func (n *Node) view(name string, fn func(storage.Reader) error) error {
	start := time.Now()
	err := n.ledger.View(fn)
	n.metrics.Observe(name, start, err)
	return err
}

// manufacturer registry
// ---------------------

// RegisterManufacturer - caller becomes the manufacturer called name
func (n *Node) RegisterManufacturer(caller common.Address, name string) error {
	return n.execute("register_manufacturer", caller, func(ctx *ledger.Context) error {
		return n.registry.Register(ctx, name)
	})
}

// ManufacturerByName - address registered under name
func (n *Node) ManufacturerByName(name string) (address common.Address, err error) {
	err = n.view("manufacturer_by_name", func(rd storage.Reader) error {
		address, err = n.registry.ByName(rd, name)
		return err
	})
	return
}

// Manufacturer - the manufacturer record of an address
func (n *Node) Manufacturer(address common.Address) (m manufacturer.Manufacturer, err error) {
	err = n.view("manufacturer", func(rd storage.Reader) error {
		m, err = n.registry.ByAddress(rd, address)
		return err
	})
	return
}

// ManufacturerAddress - address only if it is a registered manufacturer
func (n *Node) ManufacturerAddress(address common.Address) (exact common.Address, err error) {
	err = n.view("manufacturer_address", func(rd storage.Reader) error {
		exact, err = n.registry.Exact(rd, address)
		return err
	})
	return
}

// certificates
// ------------

// CertificateDigest - the value a manufacturer signs
func (n *Node) CertificateDigest(certificate authenticity.Certificate) (eip712.Digest, error) {
	return n.auth.Digest(certificate)
}

// VerifySignature - true only if signature is by the certificate's
// manufacturer
func (n *Node) VerifySignature(certificate authenticity.Certificate, signature []byte) (ok bool, err error) {
	err = n.view("verify", func(rd storage.Reader) error {
		ok, err = n.auth.Verify(rd, certificate, signature)
		return err
	})
	return
}

// VerifyAuthenticity - VerifySignature and the manufacturer's name
func (n *Node) VerifyAuthenticity(certificate authenticity.Certificate, signature []byte) (ok bool, name string, err error) {
	err = n.view("verify_authenticity", func(rd storage.Reader) error {
		ok, name, err = n.auth.VerifyAuthenticity(rd, certificate, signature)
		return err
	})
	return
}

// ClaimOwnership - create the certified item under caller
func (n *Node) ClaimOwnership(caller common.Address, certificate authenticity.Certificate, signature []byte) error {
	return n.execute("claim_ownership", caller, func(ctx *ledger.Context) error {
		return n.auth.ClaimOwnership(ctx, certificate, signature)
	})
}

// users and items
// ---------------

// RegisterUser - give caller a unique username
func (n *Node) RegisterUser(caller common.Address, username string) error {
	return n.execute("register_user", caller, func(ctx *ledger.Context) error {
		return n.store.RegisterUser(ctx, username)
	})
}

// User - profile of a registered address
func (n *Node) User(address common.Address) (profile ownership.UserProfile, err error) {
	err = n.view("user", func(rd storage.Reader) error {
		profile, err = n.store.User(rd, address)
		return err
	})
	return
}

// Item - an item by its id
func (n *Node) Item(itemID string) (item ownership.Item, err error) {
	err = n.view("item", func(rd storage.Reader) error {
		item, err = n.store.Item(rd, itemID)
		return err
	})
	return
}

// OwnerOf - current owner of an item id
func (n *Node) OwnerOf(itemID string) (owner common.Address, ok bool, err error) {
	err = n.view("owner_of", func(rd storage.Reader) error {
		owner, ok = n.store.OwnerOf(rd, itemID)
		return nil
	})
	return
}

// ItemsOf - items of owner in order of arrival
func (n *Node) ItemsOf(owner common.Address) (items []ownership.Item, err error) {
	err = n.view("items_of", func(rd storage.Reader) error {
		items = n.store.ItemsOf(rd, owner)
		return nil
	})
	return
}

// MyItems - items of a registered caller
func (n *Node) MyItems(caller common.Address) (items []ownership.Item, err error) {
	err = n.view("my_items", func(rd storage.Reader) error {
		items, err = n.store.MyItems(rd, caller)
		return err
	})
	return
}

// transfers
// ---------

// GenerateClaimCode - offer an item of caller to recipient
func (n *Node) GenerateClaimCode(caller common.Address, itemID string, recipient common.Address) (code eip712.Digest, err error) {
	err = n.execute("generate_claim_code", caller, func(ctx *ledger.Context) error {
		code, err = n.store.GenerateClaimCode(ctx, itemID, recipient)
		return err
	})
	return
}

// AcceptClaim - recipient takes the item offered under code
func (n *Node) AcceptClaim(caller common.Address, code eip712.Digest) error {
	return n.execute("accept_claim", caller, func(ctx *ledger.Context) error {
		return n.store.AcceptClaim(ctx, code)
	})
}

// RevokeClaim - the offering owner withdraws code
func (n *Node) RevokeClaim(caller common.Address, code eip712.Digest) error {
	return n.execute("revoke_claim", caller, func(ctx *ledger.Context) error {
		return n.store.RevokeClaim(ctx, code)
	})
}

// PendingRecipient - recipient of an outstanding code, zero if none
func (n *Node) PendingRecipient(code eip712.Digest) (recipient common.Address, err error) {
	err = n.view("pending_recipient", func(rd storage.Reader) error {
		recipient = n.store.PendingRecipient(rd, code)
		return nil
	})
	return
}
