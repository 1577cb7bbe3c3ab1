// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised    = ExistsError("already initialised")
	ErrConfigurationNotTable = InvalidError("configuration did not return a table")
	ErrDuplicateLeaf         = ExistsError("duplicate leaf in history tree")
	ErrInvalidCount          = InvalidError("invalid count")
	ErrInvalidDigest         = InvalidError("invalid digest")
	ErrInvalidLimits         = InvalidError("invalid queue limits")
	ErrInvalidLoggerChannel  = InvalidError("invalid logger channel")
	ErrInvalidPublicKey      = InvalidError("invalid public key")
	ErrInvalidStructPointer  = InvalidError("invalid struct pointer")
	ErrMissingSignature      = InvalidError("missing signature blob")
	ErrPrivateKeyNotFound    = NotFoundError("private key not found")
	ErrPublicKeyNotFound     = NotFoundError("public key not found")
	ErrQueueOverflow         = ProcessError("verification queue overflow")
	ErrQueueStopped          = ProcessError("verification queue stopped")
	ErrRecordTooLarge        = LengthError("trace record too large")
	ErrSpliceLeafNotEarlier  = InvalidError("splice leaf is not earlier than message leaf")
	ErrTraceNotOpen          = ProcessError("trace is not open")
	ErrWrongTree             = InvalidError("message does not belong to this tree")
	ErrZeroRate              = InvalidError("rate must be positive")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
