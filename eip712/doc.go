// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package eip712 - typed structured data hashing and signer recovery
//
// A struct hash is the Keccak-256 of its type hash followed by the
// encoding of each field in schema order: dynamic strings and bytes
// are replaced by their hash, integers and addresses are 32 byte
// words. The signed digest binds the struct hash to a Domain so a
// signature is valid for exactly one deployment on one chain.
package eip712
