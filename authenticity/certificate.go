// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package authenticity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eri-project/erid/eip712"
)

// DefaultCertificateType - the certificate schema, field order is fixed
const DefaultCertificateType = "Certificate(string name,string uniqueId,string serial,uint256 date,address owner,bytes32 metadataHash)"

// signing domain defaults
const (
	DefaultDomainName    = "CertificateAuth"
	DefaultDomainVersion = "1"
)

// Certificate - a manufacturer's signed statement about one item
//
// Owner is the issuing manufacturer's address; Metadata is carried
// into the item but only MetadataHash is signed
type Certificate struct {
	Name         string         `json:"name"`
	UniqueID     string         `json:"uniqueId"`
	Serial       string         `json:"serial"`
	Date         *big.Int       `json:"date"`
	Owner        common.Address `json:"owner"`
	MetadataHash eip712.Digest  `json:"metadataHash"`
	Metadata     []string       `json:"metadata"`
}

// StructHash - hash of the certificate under typeHash
func (c Certificate) StructHash(typeHash eip712.Digest) (eip712.Digest, error) {
	date, err := eip712.EncodeUint256(c.Date)
	if nil != err {
		return eip712.Digest{}, err
	}
	return eip712.Keccak256(
		typeHash[:],
		eip712.HashString(c.Name),
		eip712.HashString(c.UniqueID),
		eip712.HashString(c.Serial),
		date,
		eip712.EncodeAddress(c.Owner),
		c.MetadataHash[:],
	), nil
}
