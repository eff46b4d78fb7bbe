// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eip712

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// DomainType - the fixed domain schema
const DomainType = "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"

// DomainTypeHash - hash of DomainType
var DomainTypeHash = TypeHash(DomainType)

// Domain - scopes a signature to one deployment on one network
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// Separator - hash of the encoded domain
func (d Domain) Separator() (Digest, error) {
	chainID, err := EncodeUint256(d.ChainID)
	if nil != err {
		return Digest{}, err
	}
	return Keccak256(
		DomainTypeHash[:],
		HashString(d.Name),
		HashString(d.Version),
		chainID,
		EncodeAddress(d.VerifyingContract),
	), nil
}

// TypedDataDigest - the value that is actually signed:
//
//	keccak256(0x19 0x01 ‖ separator ‖ structHash)
func (d Domain) TypedDataDigest(structHash Digest) (Digest, error) {
	separator, err := d.Separator()
	if nil != err {
		return Digest{}, err
	}
	return Keccak256([]byte{0x19, 0x01}, separator[:], structHash[:]), nil
}
