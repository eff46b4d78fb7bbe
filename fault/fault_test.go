// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eri-project/erid/fault"
)

var (
	ErrExistsOne     = fault.ExistsError("exists one")
	ErrExistsTwo     = fault.ExistsError("exists two")
	ErrInvalidOne    = fault.InvalidError("invalid one")
	ErrInvalidTwo    = fault.InvalidError("invalid two")
	ErrNotFoundOne   = fault.NotFoundError("not found one")
	ErrNotFoundTwo   = fault.NotFoundError("not found two")
	ErrPermissionOne = fault.PermissionError("permission one")
	ErrPermissionTwo = fault.PermissionError("permission two")
	ErrProcessOne    = fault.ProcessError("process one")
	ErrProcessTwo    = fault.ProcessError("process two")
)

// test that errors can be subclassed
func TestClasses(t *testing.T) {
	errorList := []struct {
		err        error
		exists     bool
		invalid    bool
		notFound   bool
		permission bool
		process    bool
	}{
		{ErrExistsOne, true, false, false, false, false},
		{ErrExistsTwo, true, false, false, false, false},
		{ErrInvalidOne, false, true, false, false, false},
		{ErrInvalidTwo, false, true, false, false, false},
		{ErrNotFoundOne, false, false, true, false, false},
		{ErrNotFoundTwo, false, false, true, false, false},
		{ErrPermissionOne, false, false, false, true, false},
		{ErrPermissionTwo, false, false, false, true, false},
		{ErrProcessOne, false, false, false, false, true},
		{ErrProcessTwo, false, false, false, false, true},
		{fault.ErrClaimFailed, false, false, false, false, true},
		{fault.ErrOnlyOwner, false, false, false, true, false},
		{fault.ErrNameTaken, true, false, false, false, false},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrPermission(err) != e.permission {
			t.Errorf("%d: expected 'permission' == %v for err = %v", i, e.permission, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
	}
}

func TestWrappedClass(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", fault.ErrItemDoesNotExist)

	assert.True(t, fault.IsErrNotFound(wrapped), "wrapped class")
	assert.True(t, errors.Is(wrapped, fault.ErrItemDoesNotExist), "wrapped value")
	assert.False(t, errors.Is(wrapped, fault.ErrNotFound), "distinct value")
}

func TestPanicIfError(t *testing.T) {
	assert.NotPanics(t, func() { fault.PanicIfError("nothing", nil) })
	assert.Panics(t, func() { fault.PanicIfError("something", fault.ErrDatabaseVersion) })
}
