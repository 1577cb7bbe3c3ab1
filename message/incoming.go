// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package message

import (
	"fmt"
	"time"
)

// Blob - concrete signature blob
type Blob struct {
	treeID    uint64
	leaf      uint64
	digest    Digest
	splices   []Splice
	signature []byte
	publicKey []byte
}

// NewBlob - create a signature blob
func NewBlob(treeID uint64, leaf uint64, digest Digest, splices []Splice, signature []byte, publicKey []byte) *Blob {
	return &Blob{
		treeID:    treeID,
		leaf:      leaf,
		digest:    digest,
		splices:   splices,
		signature: signature,
		publicKey: publicKey,
	}
}

func (b *Blob) TreeID() uint64    { return b.treeID }
func (b *Blob) Leaf() uint64      { return b.leaf }
func (b *Blob) Splices() []Splice { return b.splices }
func (b *Blob) Digest() Digest    { return b.digest }
func (b *Blob) Signature() []byte { return b.signature }
func (b *Blob) PublicKey() []byte { return b.publicKey }

// Incoming - a message received from the transport or a trace
type Incoming struct {
	author    Identity
	recipient Identity
	blob      SignatureBlob
	created   time.Time
	payload   []byte
}

// NewIncoming - create a message, a nil blob is allowed for control
// messages
func NewIncoming(author Identity, recipient Identity, blob SignatureBlob, payload []byte, created time.Time) *Incoming {
	return &Incoming{
		author:    author,
		recipient: recipient,
		blob:      blob,
		created:   created,
		payload:   payload,
	}
}

func (m *Incoming) Author() Identity             { return m.author }
func (m *Incoming) Recipient() Identity          { return m.recipient }
func (m *Incoming) SignatureBlob() SignatureBlob { return m.blob }
func (m *Incoming) CreationTime() time.Time      { return m.created }
func (m *Incoming) Payload() []byte              { return m.payload }

// ResetCreationTimeTo - the message became urgent at t
func (m *Incoming) ResetCreationTimeTo(t time.Time) {
	m.created = t
}

// String - for log output
func (m *Incoming) String() string {
	if nil == m.blob {
		return fmt.Sprintf("control[%s→%s]", m.author, m.recipient)
	}
	return fmt.Sprintf("msg[%s/%d:%d→%s]", m.author, m.blob.TreeID(), m.blob.Leaf(), m.recipient)
}
