// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eip712_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"

	"github.com/eri-project/erid/eip712"
	"github.com/eri-project/erid/fault"
)

var testDomain = eip712.Domain{
	Name:              "CertificateAuth",
	Version:           "1",
	ChainID:           big.NewInt(42161),
	VerifyingContract: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
}

func TestKeccak256(t *testing.T) {
	expected, err := eip712.DigestFromHex("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
	assert.NoError(t, err)
	assert.Equal(t, expected, eip712.Keccak256(), "empty input")
	assert.Equal(t, expected, eip712.Keccak256([]byte{}, nil), "empty parts")

	assert.Equal(t, eip712.Keccak256([]byte("abcdef")), eip712.Keccak256([]byte("abc"), []byte("def")), "parts concatenate")
}

func TestDomainTypeHash(t *testing.T) {
	expected, err := eip712.DigestFromHex("0x8b73c3c69bb8fe3d512ecc4cf759cc79239f7b179b0ffacaa9a75d522b39400f")
	assert.NoError(t, err)
	assert.Equal(t, expected, eip712.DomainTypeHash)
}

func TestSeparatorMatchesReference(t *testing.T) {
	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
		},
		Domain: apitypes.TypedDataDomain{
			Name:              testDomain.Name,
			Version:           testDomain.Version,
			ChainId:           math.NewHexOrDecimal256(42161),
			VerifyingContract: testDomain.VerifyingContract.Hex(),
		},
	}
	reference, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	assert.NoError(t, err, "reference hash")

	separator, err := testDomain.Separator()
	assert.NoError(t, err, "separator")
	assert.Equal(t, []byte(reference), separator[:])
}

func TestSeparatorScopesDeployment(t *testing.T) {
	base, err := testDomain.Separator()
	assert.NoError(t, err)

	otherChain := testDomain
	otherChain.ChainID = big.NewInt(421614)
	s, err := otherChain.Separator()
	assert.NoError(t, err)
	assert.NotEqual(t, base, s, "chain id")

	otherContract := testDomain
	otherContract.VerifyingContract = common.HexToAddress("0x01")
	s, err = otherContract.Separator()
	assert.NoError(t, err)
	assert.NotEqual(t, base, s, "verifying contract")

	otherVersion := testDomain
	otherVersion.Version = "2"
	s, err = otherVersion.Separator()
	assert.NoError(t, err)
	assert.NotEqual(t, base, s, "version")
}

func TestTypedDataDigest(t *testing.T) {
	structHash := eip712.Keccak256([]byte("some struct"))
	separator, _ := testDomain.Separator()

	digest, err := testDomain.TypedDataDigest(structHash)
	assert.NoError(t, err)

	message := append([]byte{0x19, 0x01}, separator[:]...)
	message = append(message, structHash[:]...)
	assert.Equal(t, crypto.Keccak256(message), digest[:])
}

func TestEncodeUint256(t *testing.T) {
	word, err := eip712.EncodeUint256(nil)
	assert.NoError(t, err)
	assert.Equal(t, make([]byte, 32), word, "nil is zero")

	word, err = eip712.EncodeUint256(big.NewInt(0x0102))
	assert.NoError(t, err)
	assert.Equal(t, byte(0x01), word[30])
	assert.Equal(t, byte(0x02), word[31])

	_, err = eip712.EncodeUint256(big.NewInt(-1))
	assert.Equal(t, fault.ErrInvalidUint256, err, "negative")

	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err = eip712.EncodeUint256(tooBig)
	assert.Equal(t, fault.ErrInvalidUint256, err, "overflow")

	max := new(big.Int).Sub(tooBig, big.NewInt(1))
	_, err = eip712.EncodeUint256(max)
	assert.NoError(t, err, "maximum")
}

func TestEncodeAddress(t *testing.T) {
	address := common.HexToAddress("0x00000000000000000000000000000000000000ff")
	word := eip712.EncodeAddress(address)
	assert.Equal(t, 32, len(word))
	assert.Equal(t, byte(0xff), word[31])
	assert.Equal(t, make([]byte, 31), word[:31])
}

func TestSignRecover(t *testing.T) {
	key, err := crypto.GenerateKey()
	assert.NoError(t, err)
	expected := crypto.PubkeyToAddress(key.PublicKey)

	digest := eip712.Keccak256([]byte("message"))
	signature, err := eip712.Sign(digest, key)
	assert.NoError(t, err)
	assert.Equal(t, eip712.SignatureLength, len(signature))
	assert.True(t, 27 == signature[64] || 28 == signature[64], "v offset")

	actual, err := eip712.Recover(digest, signature)
	assert.NoError(t, err)
	assert.Equal(t, expected, actual)

	// raw 0/1 recovery id is also accepted
	raw := append([]byte{}, signature...)
	raw[64] -= 27
	actual, err = eip712.Recover(digest, raw)
	assert.NoError(t, err)
	assert.Equal(t, expected, actual)

	// a different digest recovers some other address
	other := eip712.Keccak256([]byte("massage"))
	actual, err = eip712.Recover(other, signature)
	if nil == err {
		assert.NotEqual(t, expected, actual)
	}
}

func TestRecoverRejects(t *testing.T) {
	key, _ := crypto.GenerateKey()
	digest := eip712.Keccak256([]byte("message"))
	signature, _ := eip712.Sign(digest, key)

	_, err := eip712.Recover(digest, signature[:64])
	assert.Equal(t, fault.ErrInvalidSignature, err, "short")

	_, err = eip712.Recover(digest, append(append([]byte{}, signature...), 0))
	assert.Equal(t, fault.ErrInvalidSignature, err, "long")

	badV := append([]byte{}, signature...)
	badV[64] = 29
	_, err = eip712.Recover(digest, badV)
	assert.Equal(t, fault.ErrInvalidSignature, err, "bad v")

	_, err = eip712.Recover(digest, make([]byte, eip712.SignatureLength))
	assert.Equal(t, fault.ErrInvalidSignature, err, "zero r and s")

	// the malleable twin (n - s, flipped v) must not be accepted
	n := crypto.S256().Params().N
	s := new(big.Int).SetBytes(signature[32:64])
	highS := new(big.Int).Sub(n, s)
	malleable := append([]byte{}, signature...)
	highS.FillBytes(malleable[32:64])
	malleable[64] = 55 - signature[64]
	_, err = eip712.Recover(digest, malleable)
	assert.Equal(t, fault.ErrInvalidSignature, err, "high s")
}

func TestDigestText(t *testing.T) {
	digest := eip712.Keccak256([]byte("text"))

	text, err := digest.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, digest.String(), string(text))
	assert.Equal(t, "0x", string(text[:2]))

	var decoded eip712.Digest
	assert.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, digest, decoded)

	assert.Equal(t, fault.ErrInvalidDigest, decoded.UnmarshalText([]byte("0x1234")), "short")
	assert.Equal(t, fault.ErrInvalidDigest, decoded.UnmarshalText([]byte("zz"+string(text[4:]))), "not hex")

	err = eip712.DigestFromBytes(&decoded, digest[:31])
	assert.Equal(t, fault.ErrInvalidDigest, err)
	assert.False(t, digest.IsZero())
	assert.True(t, eip712.Digest{}.IsZero())
}
