// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"math/big"
)

// names of all chains
const (
	ArbitrumOne     = "arbitrum-one"
	ArbitrumSepolia = "arbitrum-sepolia"
	Local           = "local"
)

// chain ids as used in the signing domain
var chainIDs = map[string]int64{
	ArbitrumOne:     42161,
	ArbitrumSepolia: 421614,
	Local:           412346,
}

// Valid - validate a chain name
func Valid(name string) bool {
	_, ok := chainIDs[name]
	return ok
}

// ID - the numeric chain id for a chain name
//
// returns nil for an unknown chain
func ID(name string) *big.Int {
	id, ok := chainIDs[name]
	if !ok {
		return nil
	}
	return big.NewInt(id)
}
