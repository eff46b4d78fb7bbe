// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ownership

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/eri-project/erid/fault"
	"github.com/eri-project/erid/ledger"
	"github.com/eri-project/erid/storage"
)

// owner ⧺ item id
func ownerItemKey(owner common.Address, itemID string) []byte {
	key := make([]byte, 0, common.AddressLength+len(itemID))
	key = append(key, owner.Bytes()...)
	return append(key, itemID...)
}

// CreateItem - record a newly claimed item under item.Owner
//
// only the designated authenticity address may call this
func (s *Store) CreateItem(ctx *ledger.Context, item Item) error {
	authenticity, err := s.authenticity(ctx)
	if nil != err {
		return err
	}
	if ctx.Caller() != authenticity {
		return fault.ErrUnauthorized
	}
	if (common.Address{}) == item.Owner {
		return fault.ErrAddressZero
	}
	if !s.isRegistered(ctx, item.Owner) {
		return fault.ErrNotRegistered
	}
	if ctx.Has(s.pools.ItemOwner, []byte(item.ItemID)) {
		return fault.ErrAlreadyClaimed
	}
	if len(item.Metadata) > MaximumMetadata {
		return fault.ErrTooMuchMetadata
	}

	s.create(ctx, item)
	ctx.Put(s.pools.ItemOwner, []byte(item.ItemID), item.Owner.Bytes())

	ctx.Emit(EventItemCreated, map[string]string{
		"owner":  item.Owner.Hex(),
		"itemId": item.ItemID,
	})

	s.log.Infof("created: %q  owner: %s", item.ItemID, item.Owner.Hex())
	return nil
}

// internal creation routine
// adds item to owner's list and primary map together
func (s *Store) create(ctx *ledger.Context, item Item) {
	owner := item.Owner

	// increment the count for owner
	count, _ := ctx.GetN(s.pools.OwnerNextCount, owner.Bytes())
	ctx.PutN(s.pools.OwnerNextCount, owner.Bytes(), count+1)

	countBytes := storage.EncodeN(count)

	// write to the owner list
	lKey := append(owner.Bytes(), countBytes...)
	ctx.Put(s.pools.OwnerList, lKey, []byte(item.ItemID))

	// write new index record
	dKey := ownerItemKey(owner, item.ItemID)
	ctx.Put(s.pools.OwnerIndex, dKey, countBytes)

	// save the item itself
	ctx.Put(s.pools.OwnerItems, dKey, item.Pack())
}

// internal removal routine
// deletes item from owner's list and primary map together
func (s *Store) remove(ctx *ledger.Context, owner common.Address, itemID string) {
	dKey := ownerItemKey(owner, itemID)
	count := ctx.Get(s.pools.OwnerIndex, dKey)
	if nil == count {
		s.log.Criticalf("remove: owner: %s  item: %q", owner.Hex(), itemID)
		fault.Panic("ownership.remove: OwnerIndex database corrupt")
	}

	lKey := append(owner.Bytes(), count...)
	ctx.Delete(s.pools.OwnerList, lKey)
	ctx.Delete(s.pools.OwnerIndex, dKey)
	ctx.Delete(s.pools.OwnerItems, dKey)
}

// Item - an item by its id
func (s *Store) Item(rd storage.Reader, itemID string) (Item, error) {
	owner, ok := s.OwnerOf(rd, itemID)
	if !ok {
		return Item{}, fault.ErrItemDoesNotExist
	}
	record := rd.Get(s.pools.OwnerItems, ownerItemKey(owner, itemID))
	if nil == record {
		return Item{}, fault.ErrItemDoesNotExist
	}
	return s.unpack(record), nil
}

// OwnerOf - current owner of an item id
func (s *Store) OwnerOf(rd storage.Reader, itemID string) (common.Address, bool) {
	owner := rd.Get(s.pools.ItemOwner, []byte(itemID))
	if nil == owner {
		return common.Address{}, false
	}
	if common.AddressLength != len(owner) {
		fault.Panicf("ownership.OwnerOf: item: %q  corrupt owner: %x", itemID, owner)
	}
	return common.BytesToAddress(owner), true
}

// ItemsOf - items of owner in order of arrival
//
// list entries whose item is no longer in the primary map are skipped
func (s *Store) ItemsOf(rd storage.Reader, owner common.Address) []Item {
	entries := rd.Fetch(s.pools.OwnerList, owner.Bytes())

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		record := rd.Get(s.pools.OwnerItems, ownerItemKey(owner, string(e.Value)))
		if nil == record {
			s.log.Warnf("items of: %s  stale list entry: %q", owner.Hex(), e.Value)
			continue
		}
		items = append(items, s.unpack(record))
	}
	return items
}

// MyItems - items of a registered caller
func (s *Store) MyItems(rd storage.Reader, caller common.Address) ([]Item, error) {
	if !s.isRegistered(rd, caller) {
		return nil, fault.ErrUserDoesNotExist
	}
	return s.ItemsOf(rd, caller), nil
}

func (s *Store) unpack(record []byte) Item {
	item, err := UnpackItem(record)
	if nil != err {
		fault.Panicf("ownership: corrupt item record: %s", err)
	}
	return item
}
