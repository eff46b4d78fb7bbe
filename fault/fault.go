// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type PermissionError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order within each class
var (
	ErrAlreadyClaimed          = ExistsError("item already claimed")
	ErrAlreadyRegistered       = ExistsError("already registered")
	ErrAuthenticityAlreadySet  = ExistsError("authenticity address already set")
	ErrClaimAlreadyOutstanding = ExistsError("claim code already outstanding")
	ErrNameTaken               = ExistsError("name already taken")
	ErrNotAvailable            = ExistsError("username not available")

	ErrAddressZero           = InvalidError("address is zero")
	ErrBadUsername           = InvalidError("username is too short")
	ErrCannotGenerateForSelf = InvalidError("cannot generate claim code for self")
	ErrInvalidDigest         = InvalidError("digest is invalid")
	ErrInvalidChain          = InvalidError("chain is not supported")
	ErrInvalidConfiguration  = InvalidError("configuration must return a table")
	ErrInvalidDataDirectory  = InvalidError("data directory is invalid")
	ErrInvalidDefine         = InvalidError("define must be name=value")
	ErrInvalidFileName       = InvalidError("file name is not a plain name")
	ErrInvalidAddress        = InvalidError("address is not valid hex")
	ErrInvalidLoggerChannel  = InvalidError("invalid logger channel")
	ErrInvalidName           = InvalidError("name is too short")
	ErrInvalidSignature      = InvalidError("invalid signature")
	ErrInvalidUint256        = InvalidError("value does not fit in uint256")
	ErrTooMuchMetadata       = InvalidError("too many metadata entries")
	ErrTrailingData          = InvalidError("record has trailing data")
	ErrTruncatedRecord       = InvalidError("record is truncated")

	ErrDoesNotExist     = NotFoundError("does not exist")
	ErrItemDoesNotExist = NotFoundError("item does not exist")
	ErrNotFound         = NotFoundError("not found")
	ErrUserDoesNotExist = NotFoundError("user does not exist")

	ErrNotRegistered = PermissionError("not registered")
	ErrOnlyOwner     = PermissionError("only owner")
	ErrUnauthorized  = PermissionError("unauthorized")

	ErrAlreadyInitialised   = ProcessError("already initialised")
	ErrAuthenticityNotSet   = ProcessError("authenticity address not set")
	ErrCallDepthExceeded    = ProcessError("nested call depth exceeded")
	ErrClaimFailed          = ProcessError("claim failed")
	ErrDatabaseIsNewer      = ProcessError("database version is newer than this program")
	ErrDatabaseVersion      = ProcessError("database version is incompatible")
	ErrDeployerMismatch     = ProcessError("database linked by a different deployer")
	ErrNotInitialised       = ProcessError("not initialised")
	ErrTransactionInUse     = ProcessError("transaction already in use")
	ErrTransactionNotActive = ProcessError("transaction is not active")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string     { return string(e) }
func (e InvalidError) Error() string    { return string(e) }
func (e NotFoundError) Error() string   { return string(e) }
func (e PermissionError) Error() string { return string(e) }
func (e ProcessError) Error() string    { return string(e) }

// determine the class of an error, unwrapping if necessary
func IsErrExists(e error) bool     { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool    { var t InvalidError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool   { var t NotFoundError; return errors.As(e, &t) }
func IsErrPermission(e error) bool { var t PermissionError; return errors.As(e, &t) }
func IsErrProcess(e error) bool    { var t ProcessError; return errors.As(e, &t) }
