// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package manufacturer

import (
	"github.com/bitmark-inc/logger"
	"github.com/ethereum/go-ethereum/common"

	"github.com/eri-project/erid/fault"
	"github.com/eri-project/erid/ledger"
	"github.com/eri-project/erid/storage"
	"github.com/eri-project/erid/util"
)

// MinimumNameLength - shortest acceptable manufacturer name in bytes
const MinimumNameLength = 2

// EventRegistered - emitted on each new registration
const EventRegistered = "ManufacturerRegistered"

// Manufacturer - a registered identity
type Manufacturer struct {
	Address common.Address `json:"address"`
	Name    string         `json:"name"`
}

// Pack - stored form
func (m Manufacturer) Pack() util.Packed {
	return util.Packed{}.AppendBytes(m.Address.Bytes()).AppendString(m.Name)
}

// Unpack - decode a stored manufacturer
func Unpack(record []byte) (Manufacturer, error) {
	u := util.NewUnpacker(record)
	address := u.Bytes()
	name := u.String()
	if err := u.Err(); nil != err {
		return Manufacturer{}, err
	}
	if common.AddressLength != len(address) {
		return Manufacturer{}, fault.ErrInvalidAddress
	}
	return Manufacturer{
		Address: common.BytesToAddress(address),
		Name:    name,
	}, nil
}

// Registry - name ↔ manufacturer index
type Registry struct {
	log   *logger.L
	pools *storage.Pools
}

// New - registry over the manufacturer pools
func New(pools *storage.Pools) *Registry {
	return &Registry{
		log:   logger.New("manufacturer"),
		pools: pools,
	}
}

// Register - record the caller as the manufacturer called name
func (r *Registry) Register(ctx *ledger.Context, name string) error {
	caller := ctx.Caller()

	if (common.Address{}) == caller {
		return fault.ErrAddressZero
	}
	if ctx.Has(r.pools.Manufacturers, caller.Bytes()) {
		return fault.ErrAlreadyRegistered
	}
	if len(name) < MinimumNameLength {
		return fault.ErrInvalidName
	}
	if ctx.Has(r.pools.ManufacturerNames, []byte(name)) {
		return fault.ErrNameTaken
	}

	m := Manufacturer{
		Address: caller,
		Name:    name,
	}
	ctx.Put(r.pools.Manufacturers, caller.Bytes(), m.Pack())
	ctx.Put(r.pools.ManufacturerNames, []byte(name), caller.Bytes())

	ctx.Emit(EventRegistered, map[string]string{
		"manufacturer": caller.Hex(),
		"name":         name,
	})

	r.log.Infof("registered: %q  address: %s", name, caller.Hex())
	return nil
}

// ByName - address registered under name
func (r *Registry) ByName(rd storage.Reader, name string) (common.Address, error) {
	address := rd.Get(r.pools.ManufacturerNames, []byte(name))
	if nil == address {
		return common.Address{}, fault.ErrNotFound
	}
	if common.AddressLength != len(address) {
		fault.Panicf("manufacturer.ByName: name: %q  corrupt address: %x", name, address)
	}
	return common.BytesToAddress(address), nil
}

// ByAddress - the manufacturer record of an address
func (r *Registry) ByAddress(rd storage.Reader, address common.Address) (Manufacturer, error) {
	record := rd.Get(r.pools.Manufacturers, address.Bytes())
	if nil == record {
		return Manufacturer{}, fault.ErrNotFound
	}
	m, err := Unpack(record)
	if nil != err {
		fault.Panicf("manufacturer.ByAddress: address: %s  corrupt record: %s", address.Hex(), err)
	}
	return m, nil
}

// Exact - address only if it is itself the stored manufacturer address
// for its own key
//
// used to check that a certificate owner is a manufacturer before the
// recovered signer is compared with it
func (r *Registry) Exact(rd storage.Reader, address common.Address) (common.Address, error) {
	m, err := r.ByAddress(rd, address)
	if nil != err {
		return common.Address{}, err
	}
	if m.Address != address {
		return common.Address{}, fault.ErrNotFound
	}
	return m.Address, nil
}
