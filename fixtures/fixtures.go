// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"crypto/ecdsa"
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/eri-project/erid/fault"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// Account - a test key and its address
type Account struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
}

// NewAccount - generate a fresh key pair
func NewAccount() Account {
	key, err := crypto.GenerateKey()
	if nil != err {
		panic(fmt.Sprintf("generate key error: %s", err))
	}
	return Account{
		Key:     key,
		Address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// Address - a deterministic address for tests that never sign
func Address(n byte) common.Address {
	var a common.Address
	a[0] = 0xee
	a[common.AddressLength-1] = n
	return a
}

func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
	_ = fault.Initialise()
}

func TeardownTestLogger() {
	fault.Finalise()
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
