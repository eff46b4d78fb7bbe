// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - serialised atomic execution of registry operations
//
// Every mutating operation runs inside Execute. Execute holds the
// ledger lock for the whole call, so no two operations interleave,
// and runs the operation against a storage transaction that is
// committed only if the operation returns nil. Any error or panic
// discards every write and every event of the call.
//
// A component calls another through Context.Call. The callee sees its
// caller as the calling component's own address and writes into a
// savepoint, so a failing callee leaves nothing behind even when the
// caller chooses to continue.
//
// Events are buffered and only broadcast after a successful commit.
package ledger
