// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ownership

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/eri-project/erid/eip712"
	"github.com/eri-project/erid/fault"
	"github.com/eri-project/erid/ledger"
	"github.com/eri-project/erid/storage"
)

// GenerateClaimCode - offer an owned item to recipient
//
// the code is the item's content hash; only one code may be
// outstanding for an unchanged item
func (s *Store) GenerateClaimCode(ctx *ledger.Context, itemID string, recipient common.Address) (eip712.Digest, error) {
	caller := ctx.Caller()

	if (common.Address{}) == caller || (common.Address{}) == recipient {
		return eip712.Digest{}, fault.ErrAddressZero
	}
	if _, err := s.authenticity(ctx); nil != err {
		return eip712.Digest{}, err
	}
	if !s.isRegistered(ctx, caller) {
		return eip712.Digest{}, fault.ErrNotRegistered
	}

	record := ctx.Get(s.pools.OwnerItems, ownerItemKey(caller, itemID))
	if nil == record {
		return eip712.Digest{}, fault.ErrOnlyOwner
	}
	if caller == recipient {
		return eip712.Digest{}, fault.ErrCannotGenerateForSelf
	}

	item := s.unpack(record)
	itemHash, err := item.Hash()
	if nil != err {
		return eip712.Digest{}, err
	}

	if ctx.Has(s.pools.ClaimRecipient, itemHash[:]) {
		return eip712.Digest{}, fault.ErrClaimAlreadyOutstanding
	}

	ctx.Put(s.pools.ClaimRecipient, itemHash[:], recipient.Bytes())
	ctx.Put(s.pools.ClaimItem, itemHash[:], record)

	ctx.Emit(EventOwnershipCode, map[string]string{
		"ownershipCode": itemHash.String(),
		"tempOwner":     recipient.Hex(),
	})

	s.log.Infof("claim code: %s  item: %q  recipient: %s", itemHash, itemID, recipient.Hex())
	return itemHash, nil
}

// AcceptClaim - the recipient of a claim code takes ownership
func (s *Store) AcceptClaim(ctx *ledger.Context, itemHash eip712.Digest) error {
	caller := ctx.Caller()

	if (common.Address{}) == caller {
		return fault.ErrAddressZero
	}
	if !s.isRegistered(ctx, caller) {
		return fault.ErrNotRegistered
	}

	recipient, snapshot, ok := s.pending(ctx, itemHash)
	if !ok {
		return fault.ErrUnauthorized
	}
	previousOwner := snapshot.Owner
	if (common.Address{}) == previousOwner {
		return fault.ErrUnauthorized
	}
	if caller != recipient {
		return fault.ErrUnauthorized
	}

	// the offering owner must still hold the item
	current, found := s.OwnerOf(ctx, snapshot.ItemID)
	if !found || current != previousOwner {
		return fault.ErrUnauthorized
	}
	record := ctx.Get(s.pools.OwnerItems, ownerItemKey(previousOwner, snapshot.ItemID))
	if nil == record {
		return fault.ErrUnauthorized
	}
	item := s.unpack(record)

	s.remove(ctx, previousOwner, item.ItemID)
	item.Owner = recipient
	s.create(ctx, item)
	ctx.Put(s.pools.ItemOwner, []byte(item.ItemID), recipient.Bytes())

	ctx.Delete(s.pools.ClaimRecipient, itemHash[:])
	ctx.Delete(s.pools.ClaimItem, itemHash[:])

	ctx.Emit(EventOwnershipClaimed, map[string]string{
		"ownershipCode": itemHash.String(),
		"itemId":        item.ItemID,
		"oldOwner":      previousOwner.Hex(),
		"newOwner":      recipient.Hex(),
	})

	s.log.Infof("claimed: %q  from: %s  to: %s", item.ItemID, previousOwner.Hex(), recipient.Hex())
	return nil
}

// RevokeClaim - the offering owner withdraws a claim code
func (s *Store) RevokeClaim(ctx *ledger.Context, itemHash eip712.Digest) error {
	_, snapshot, ok := s.pending(ctx, itemHash)
	if !ok {
		return fault.ErrDoesNotExist
	}
	if ctx.Caller() != snapshot.Owner {
		return fault.ErrOnlyOwner
	}

	ctx.Delete(s.pools.ClaimRecipient, itemHash[:])
	ctx.Delete(s.pools.ClaimItem, itemHash[:])

	ctx.Emit(EventCodeRevoked, map[string]string{
		"ownershipCode": itemHash.String(),
	})

	s.log.Infof("revoked: %s  item: %q", itemHash, snapshot.ItemID)
	return nil
}

// PendingRecipient - recipient of an outstanding code, zero if none
func (s *Store) PendingRecipient(rd storage.Reader, itemHash eip712.Digest) common.Address {
	recipient, _, ok := s.pending(rd, itemHash)
	if !ok {
		return common.Address{}
	}
	return recipient
}

func (s *Store) pending(rd storage.Reader, itemHash eip712.Digest) (common.Address, Item, bool) {
	recipient := rd.Get(s.pools.ClaimRecipient, itemHash[:])
	if nil == recipient {
		return common.Address{}, Item{}, false
	}
	if common.AddressLength != len(recipient) {
		fault.Panicf("ownership: claim: %s  corrupt recipient: %x", itemHash, recipient)
	}
	record := rd.Get(s.pools.ClaimItem, itemHash[:])
	if nil == record {
		fault.Panicf("ownership: claim: %s  missing item snapshot", itemHash)
	}
	return common.BytesToAddress(recipient), s.unpack(record), true
}
