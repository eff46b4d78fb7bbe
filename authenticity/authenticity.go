// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package authenticity

import (
	"math/big"

	"github.com/bitmark-inc/logger"
	"github.com/ethereum/go-ethereum/common"

	"github.com/eri-project/erid/eip712"
	"github.com/eri-project/erid/fault"
	"github.com/eri-project/erid/ledger"
	"github.com/eri-project/erid/manufacturer"
	"github.com/eri-project/erid/ownership"
	"github.com/eri-project/erid/storage"
)

//go:generate mockgen -destination=../mocks/item_creator.go -package=mocks github.com/eri-project/erid/authenticity ItemCreator

// ItemCreator - the ownership side of a claim
type ItemCreator interface {
	CreateItem(ctx *ledger.Context, item ownership.Item) error
}

// Configuration - deployment parameters
type Configuration struct {
	Address         common.Address
	ChainID         *big.Int
	DomainName      string
	DomainVersion   string
	CertificateType string
}

// Authenticity - certificate verification and claims
type Authenticity struct {
	log      *logger.L
	address  common.Address
	domain   eip712.Domain
	typeHash eip712.Digest
	registry *manufacturer.Registry
	items    ItemCreator
}

// New - blank domain and type fields take the defaults
func New(conf Configuration, registry *manufacturer.Registry, items ItemCreator) *Authenticity {
	if "" == conf.DomainName {
		conf.DomainName = DefaultDomainName
	}
	if "" == conf.DomainVersion {
		conf.DomainVersion = DefaultDomainVersion
	}
	if "" == conf.CertificateType {
		conf.CertificateType = DefaultCertificateType
	}

	return &Authenticity{
		log:     logger.New("authenticity"),
		address: conf.Address,
		domain: eip712.Domain{
			Name:              conf.DomainName,
			Version:           conf.DomainVersion,
			ChainID:           conf.ChainID,
			VerifyingContract: conf.Address,
		},
		typeHash: eip712.TypeHash(conf.CertificateType),
		registry: registry,
		items:    items,
	}
}

// Address - the component's own address, also the verifying contract
func (a *Authenticity) Address() common.Address {
	return a.address
}

// Domain - the signing domain
func (a *Authenticity) Domain() eip712.Domain {
	return a.domain
}

// Digest - the value a manufacturer signs for a certificate
func (a *Authenticity) Digest(certificate Certificate) (eip712.Digest, error) {
	structHash, err := certificate.StructHash(a.typeHash)
	if nil != err {
		return eip712.Digest{}, err
	}
	return a.domain.TypedDataDigest(structHash)
}

// Verify - true only if signature is by the manufacturer named as the
// certificate owner
func (a *Authenticity) Verify(rd storage.Reader, certificate Certificate, signature []byte) (bool, error) {
	digest, err := a.Digest(certificate)
	if nil != err {
		return false, err
	}

	signer, err := eip712.Recover(digest, signature)
	if nil != err {
		return false, fault.ErrInvalidSignature
	}

	m, err := a.registry.Exact(rd, certificate.Owner)
	if nil != err {
		return false, err
	}

	if signer != m {
		a.log.Debugf("signer: %s  manufacturer: %s", signer.Hex(), m.Hex())
		return false, fault.ErrInvalidSignature
	}
	return true, nil
}

// VerifyAuthenticity - Verify and the manufacturer's name, no state is changed
func (a *Authenticity) VerifyAuthenticity(rd storage.Reader, certificate Certificate, signature []byte) (bool, string, error) {
	if _, err := a.Verify(rd, certificate, signature); nil != err {
		return false, "", err
	}
	name, err := a.manufacturerName(rd, certificate.Owner)
	if nil != err {
		return false, "", err
	}
	return true, name, nil
}

// ClaimOwnership - create the certified item under the caller
//
// any failure to create the item is reported as ErrClaimFailed
func (a *Authenticity) ClaimOwnership(ctx *ledger.Context, certificate Certificate, signature []byte) error {
	caller := ctx.Caller()
	if (common.Address{}) == caller {
		return fault.ErrAddressZero
	}

	if _, err := a.Verify(ctx, certificate, signature); nil != err {
		return err
	}

	name, err := a.manufacturerName(ctx, certificate.Owner)
	if nil != err {
		return err
	}

	item := ownership.Item{
		Name:         certificate.Name,
		ItemID:       certificate.UniqueID,
		Serial:       certificate.Serial,
		Date:         certificate.Date,
		Owner:        caller,
		Manufacturer: name,
		Metadata:     certificate.Metadata,
	}

	err = ctx.Call(a.address, func(nested *ledger.Context) error {
		return a.items.CreateItem(nested, item)
	})
	if nil != err {
		a.log.Infof("claim: %q  by: %s  failed: %s", certificate.UniqueID, caller.Hex(), err)
		return fault.ErrClaimFailed
	}

	a.log.Infof("claim: %q  by: %s  manufacturer: %q", certificate.UniqueID, caller.Hex(), name)
	return nil
}

func (a *Authenticity) manufacturerName(rd storage.Reader, address common.Address) (string, error) {
	m, err := a.registry.ByAddress(rd, address)
	if nil != err {
		return "", err
	}
	if "" == m.Name {
		return "", fault.ErrNotFound
	}
	return m.Name, nil
}
