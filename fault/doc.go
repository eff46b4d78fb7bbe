// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Every failure of a registry operation is one of the values declared
// here. Each value belongs to a class (exists, invalid, not found,
// permission, process) so callers can either compare the exact value
// with errors.Is or test the class with one of the IsErr functions.
//
// The panic helpers are for unrecoverable storage failures only.
package fault
