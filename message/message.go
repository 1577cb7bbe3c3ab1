// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package message

import (
	"time"
)

// Identity - an author or recipient
type Identity string

// Splice - reference from a later leaf to an earlier leaf of the same
// history tree
type Splice struct {
	Leaf   uint64
	Digest Digest
}

// SignatureBlob - the signature attached to a message
type SignatureBlob interface {
	TreeID() uint64
	Leaf() uint64
	Splices() []Splice
	Digest() Digest
	Signature() []byte
	PublicKey() []byte
}

// Message - accessors needed by the verification queue
//
// creation time is mutable: it is reset when the message becomes
// urgent, e.g. its recipient logs on
type Message interface {
	Author() Identity
	Recipient() Identity
	SignatureBlob() SignatureBlob
	CreationTime() time.Time
	ResetCreationTimeTo(time.Time)
	Payload() []byte
}

// IsControl - true for messages without payload, these are flush or
// login markers rather than user data
func IsControl(m Message) bool {
	return nil == m.Payload()
}
