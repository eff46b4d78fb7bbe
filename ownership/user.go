// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ownership

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eri-project/erid/fault"
	"github.com/eri-project/erid/ledger"
	"github.com/eri-project/erid/storage"
	"github.com/eri-project/erid/util"
)

// MinimumUsernameLength - shortest acceptable username in bytes
const MinimumUsernameLength = 3

// UserProfile - a registered user
type UserProfile struct {
	Address      common.Address `json:"address"`
	Username     string         `json:"username"`
	Registered   bool           `json:"registered"`
	RegisteredAt time.Time      `json:"registeredAt"`
}

// Pack - stored form
func (u UserProfile) Pack() util.Packed {
	registered := uint64(0)
	if u.Registered {
		registered = 1
	}
	return util.Packed{}.
		AppendBytes(u.Address.Bytes()).
		AppendString(u.Username).
		AppendVarint64(registered).
		AppendVarint64(uint64(u.RegisteredAt.Unix()))
}

// UnpackUserProfile - decode a stored profile
func UnpackUserProfile(record []byte) (UserProfile, error) {
	u := util.NewUnpacker(record)
	address := u.Bytes()
	username := u.String()
	registered := u.Varint64()
	registeredAt := u.Varint64()
	if err := u.Err(); nil != err {
		return UserProfile{}, err
	}
	if common.AddressLength != len(address) {
		return UserProfile{}, fault.ErrInvalidAddress
	}
	return UserProfile{
		Address:      common.BytesToAddress(address),
		Username:     username,
		Registered:   1 == registered,
		RegisteredAt: time.Unix(int64(registeredAt), 0).UTC(),
	}, nil
}

// RegisterUser - give the caller a unique username
func (s *Store) RegisterUser(ctx *ledger.Context, username string) error {
	if _, err := s.authenticity(ctx); nil != err {
		return err
	}

	caller := ctx.Caller()
	if (common.Address{}) == caller {
		return fault.ErrAddressZero
	}
	if len(username) < MinimumUsernameLength {
		return fault.ErrBadUsername
	}
	if ctx.Has(s.pools.Users, []byte(username)) {
		return fault.ErrNotAvailable
	}
	if ctx.Has(s.pools.Usernames, caller.Bytes()) {
		return fault.ErrAlreadyRegistered
	}

	profile := UserProfile{
		Address:      caller,
		Username:     username,
		Registered:   true,
		RegisteredAt: ctx.Now(),
	}
	ctx.Put(s.pools.Users, []byte(username), profile.Pack())
	ctx.Put(s.pools.Usernames, caller.Bytes(), []byte(username))

	ctx.Emit(EventUserRegistered, map[string]string{
		"user":     caller.Hex(),
		"username": username,
	})

	s.log.Infof("user: %q  address: %s", username, caller.Hex())
	return nil
}

// User - the profile of an address
func (s *Store) User(rd storage.Reader, address common.Address) (UserProfile, error) {
	username := rd.Get(s.pools.Usernames, address.Bytes())
	if nil == username {
		return UserProfile{}, fault.ErrUserDoesNotExist
	}
	record := rd.Get(s.pools.Users, username)
	if nil == record {
		fault.Panicf("ownership.User: address: %s  username: %q  has no profile", address.Hex(), username)
	}
	profile, err := UnpackUserProfile(record)
	if nil != err {
		fault.Panicf("ownership.User: username: %q  corrupt profile: %s", username, err)
	}
	return profile, nil
}

// true if address has a profile
func (s *Store) isRegistered(rd storage.Reader, address common.Address) bool {
	return rd.Has(s.pools.Usernames, address.Bytes())
}
