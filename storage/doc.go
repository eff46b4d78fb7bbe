// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// This maintains a LevelDB database split into a series of pools.
// Each pool is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available pools.
//
// Notes:
//  1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
//  2. ++           = concatenation of byte data
//  3. address      = 20 byte account address
//  4. item id      = the certificate unique id as raw bytes
//  5. item hash    = 32 byte Keccak-256 content hash of an item
//  6. count        = successive index value as big endian uint64 (8 bytes)
//  7. *others*     = byte values of various length
//
// Manufacturers:
//
//	M ++ address               - manufacturer record
//	                             data: packed manufacturer
//	m ++ name                  - owner of a manufacturer name
//	                             data: address
//
// Users:
//
//	U ++ username              - user profile
//	                             data: packed profile
//	u ++ address               - username of an address
//	                             data: username
//
// Ownership:
//
//	I ++ owner ++ item id      - item owned by owner
//	                             data: packed item
//	N ++ owner                 - next count value to use for appending to owned items
//	                             data: count
//	L ++ owner ++ count        - list of owned items in order of arrival
//	                             data: item id
//	D ++ owner ++ item id      - position in list of owned items, for delete after transfer
//	                             data: count
//	O ++ item id               - current owner, never deleted so an id cannot be reused
//	                             data: address
//
// Claims:
//
//	C ++ item hash             - intended recipient of a pending transfer
//	                             data: address
//	S ++ item hash             - item as it was when the claim code was generated
//	                             data: packed item
//
// Settings:
//
//	X ++ name                  - single values, e.g. the authenticity address
//
// Writes are only made through a Transaction, which buffers them in a
// stack of overlay layers and applies them with one atomic batch on
// Commit. A Snapshot gives a consistent read only view.
package storage
