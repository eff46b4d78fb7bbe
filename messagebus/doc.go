// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - broadcast of committed registry events
//
// Delivery is best effort: a listener whose queue is full misses the
// message rather than stalling the sender.
package messagebus
