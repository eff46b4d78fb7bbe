// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ownership

import (
	"github.com/bitmark-inc/logger"
	"github.com/ethereum/go-ethereum/common"

	"github.com/eri-project/erid/fault"
	"github.com/eri-project/erid/ledger"
	"github.com/eri-project/erid/storage"
)

// events
const (
	EventAuthenticitySet  = "AuthenticitySet"
	EventUserRegistered   = "UserRegistered"
	EventItemCreated      = "ItemCreated"
	EventOwnershipCode    = "OwnershipCode"
	EventOwnershipClaimed = "OwnershipClaimed"
	EventCodeRevoked      = "CodeRevoked"
)

// settings keys
var (
	authenticityKey = []byte("authenticity")
	ownerKey        = []byte("owner")
)

// Store - the item ownership ledger
type Store struct {
	log   *logger.L
	pools *storage.Pools
	owner common.Address
}

// New - store administered by owner, the only address allowed to
// designate the authenticity component
func New(pools *storage.Pools, owner common.Address) *Store {
	return &Store{
		log:   logger.New("ownership"),
		pools: pools,
		owner: owner,
	}
}

// Owner - the administering address
func (s *Store) Owner() common.Address {
	return s.owner
}

// SetAuthenticity - designate the only address allowed to create items
//
// may only be done once
func (s *Store) SetAuthenticity(ctx *ledger.Context, address common.Address) error {
	if ctx.Caller() != s.owner {
		return fault.ErrOnlyOwner
	}
	if (common.Address{}) == address {
		return fault.ErrAddressZero
	}
	if ctx.Has(s.pools.Settings, authenticityKey) {
		return fault.ErrAuthenticityAlreadySet
	}

	ctx.Put(s.pools.Settings, authenticityKey, address.Bytes())
	ctx.Put(s.pools.Settings, ownerKey, s.owner.Bytes())
	ctx.Emit(EventAuthenticitySet, map[string]string{
		"authenticity": address.Hex(),
	})

	s.log.Infof("authenticity: %s", address.Hex())
	return nil
}

// Authenticity - the designated authenticity address
func (s *Store) Authenticity(rd storage.Reader) (common.Address, error) {
	return s.authenticity(rd)
}

// LinkedOwner - the administering address recorded when the
// authenticity component was designated
func (s *Store) LinkedOwner(rd storage.Reader) (common.Address, error) {
	address := rd.Get(s.pools.Settings, ownerKey)
	if nil == address {
		return common.Address{}, fault.ErrAuthenticityNotSet
	}
	if common.AddressLength != len(address) {
		fault.Panicf("ownership: corrupt owner address: %x", address)
	}
	return common.BytesToAddress(address), nil
}

func (s *Store) authenticity(rd storage.Reader) (common.Address, error) {
	address := rd.Get(s.pools.Settings, authenticityKey)
	if nil == address {
		return common.Address{}, fault.ErrAuthenticityNotSet
	}
	if common.AddressLength != len(address) {
		fault.Panicf("ownership: corrupt authenticity address: %x", address)
	}
	return common.BytesToAddress(address), nil
}
