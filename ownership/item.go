// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ownership

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eri-project/erid/eip712"
	"github.com/eri-project/erid/fault"
	"github.com/eri-project/erid/util"
)

// MaximumMetadata - upper bound on metadata entries of an item
const MaximumMetadata = 1024

// Item - an owned item
type Item struct {
	Name         string         `json:"name"`
	ItemID       string         `json:"itemId"`
	Serial       string         `json:"serial"`
	Date         *big.Int       `json:"date"`
	Owner        common.Address `json:"owner"`
	Manufacturer string         `json:"manufacturer"`
	Metadata     []string       `json:"metadata"`
}

// Hash - content hash of the item, the key of a claim code
//
//	keccak256(keccak(item id) ⧺ keccak(name) ⧺ keccak(serial) ⧺
//	          uint256(date) ⧺ address(owner) ⧺ keccak(manufacturer))
//
// a change of owner gives a different hash
func (item Item) Hash() (eip712.Digest, error) {
	date, err := eip712.EncodeUint256(item.Date)
	if nil != err {
		return eip712.Digest{}, err
	}
	return eip712.Keccak256(
		eip712.HashString(item.ItemID),
		eip712.HashString(item.Name),
		eip712.HashString(item.Serial),
		date,
		eip712.EncodeAddress(item.Owner),
		eip712.HashString(item.Manufacturer),
	), nil
}

// Pack - stored form
func (item Item) Pack() util.Packed {
	date := []byte{}
	if nil != item.Date {
		date = item.Date.Bytes()
	}

	p := util.Packed{}.
		AppendString(item.Name).
		AppendString(item.ItemID).
		AppendString(item.Serial).
		AppendBytes(date).
		AppendBytes(item.Owner.Bytes()).
		AppendString(item.Manufacturer).
		AppendVarint64(uint64(len(item.Metadata)))
	for _, m := range item.Metadata {
		p = p.AppendString(m)
	}
	return p
}

// UnpackItem - decode a stored item
func UnpackItem(record []byte) (Item, error) {
	u := util.NewUnpacker(record)

	item := Item{
		Name:   u.String(),
		ItemID: u.String(),
		Serial: u.String(),
		Date:   new(big.Int).SetBytes(u.Bytes()),
	}
	owner := u.Bytes()
	item.Manufacturer = u.String()

	n := u.Varint64()
	if n > MaximumMetadata {
		return Item{}, fault.ErrTruncatedRecord
	}
	item.Metadata = make([]string, 0, n)
	for i := uint64(0); i < n; i += 1 {
		item.Metadata = append(item.Metadata, u.String())
	}

	if err := u.Err(); nil != err {
		return Item{}, err
	}
	if common.AddressLength != len(owner) {
		return Item{}, fault.ErrInvalidAddress
	}
	item.Owner = common.BytesToAddress(owner)
	return item, nil
}
