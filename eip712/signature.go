// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eip712

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/eri-project/erid/fault"
)

// SignatureLength - r ‖ s ‖ v
const SignatureLength = 65

// Recover - the address whose key produced signature over digest
//
// v may be 0/1 or 27/28; malleable (high s) signatures are rejected
func Recover(digest Digest, signature []byte) (common.Address, error) {
	if SignatureLength != len(signature) {
		return common.Address{}, fault.ErrInvalidSignature
	}

	v := signature[64]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return common.Address{}, fault.ErrInvalidSignature
	}

	r := new(big.Int).SetBytes(signature[0:32])
	s := new(big.Int).SetBytes(signature[32:64])
	if !crypto.ValidateSignatureValues(v, r, s, true) {
		return common.Address{}, fault.ErrInvalidSignature
	}

	normalised := make([]byte, SignatureLength)
	copy(normalised, signature)
	normalised[64] = v

	publicKey, err := crypto.SigToPub(digest[:], normalised)
	if nil != err || nil == publicKey {
		return common.Address{}, fault.ErrInvalidSignature
	}

	address := crypto.PubkeyToAddress(*publicKey)
	if (common.Address{}) == address {
		return common.Address{}, fault.ErrInvalidSignature
	}
	return address, nil
}

// Sign - sign a digest, v is returned as 27/28
func Sign(digest Digest, key *ecdsa.PrivateKey) ([]byte, error) {
	signature, err := crypto.Sign(digest[:], key)
	if nil != err {
		return nil, err
	}
	signature[64] += 27
	return signature, nil
}
