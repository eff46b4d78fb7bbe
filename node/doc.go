// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package node - one registry instance: storage, ledger, registry,
// ownership store and authenticity wired together
//
// each operation runs as a single unit of work on the ledger and is
// counted in metrics; reads use a snapshot
package node
