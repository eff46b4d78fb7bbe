// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eri-project/erid/fault"
	"github.com/eri-project/erid/util"
)

func TestPackUnpack(t *testing.T) {
	record := util.Packed{}.
		AppendString("Watch").
		AppendVarint64(1700000000).
		AppendBytes([]byte{0x01, 0x02, 0x03}).
		AppendString("")

	u := util.NewUnpacker(record)
	assert.Equal(t, "Watch", u.String())
	assert.Equal(t, uint64(1700000000), u.Varint64())
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, u.Bytes())
	assert.Equal(t, "", u.String())
	assert.NoError(t, u.Err())
}

func TestUnpackTruncated(t *testing.T) {
	record := util.Packed{}.AppendString("Serial-0001")

	u := util.NewUnpacker(record[:len(record)-1])
	assert.Equal(t, "", u.String())
	assert.Equal(t, fault.ErrTruncatedRecord, u.Err())

	// further reads keep the first failure
	assert.Equal(t, uint64(0), u.Varint64())
	assert.Equal(t, fault.ErrTruncatedRecord, u.Err())
}

func TestUnpackTrailing(t *testing.T) {
	record := util.Packed{}.AppendVarint64(5).AppendVarint64(6)

	u := util.NewUnpacker(record)
	assert.Equal(t, uint64(5), u.Varint64())
	assert.Equal(t, fault.ErrTrailingData, u.Err())
}
