// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ownership - user profiles, owned items and claim codes
//
// from storage/doc.go:
//
//	I ⧺ owner ⧺ item id   - item owned by owner
//	                        data: packed item
//	N ⧺ owner             - next count value to use for appending to owned items
//	                        data: count
//	L ⧺ owner ⧺ count     - list of owned items
//	                        data: item id
//	D ⧺ owner ⧺ item id   - position in list of owned items, for delete after transfer
//	                        data: count
//	O ⧺ item id           - current owner (never deleted)
//	                        data: owner
//	C ⧺ item hash         - recipient of an outstanding claim code
//	S ⧺ item hash         - item as it was when the claim code was generated
//
// Items enter only through CreateItem, which accepts calls solely from
// the authenticity address, and change owner only through AcceptClaim.
package ownership
