// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trace

import (
	"time"

	"github.com/bitmark-inc/batchsig/fault"
	"github.com/bitmark-inc/batchsig/message"
)

// FromMessage - record for a message injected at offset from the
// start of the trace
func FromMessage(m message.Message, offset time.Duration) *Record {
	r := &Record{
		Clock:     int64(offset / time.Millisecond),
		Author:    string(m.Author()),
		Recipient: string(m.Recipient()),
		Payload:   m.Payload(),
		Control:   message.IsControl(m),
	}

	blob := m.SignatureBlob()
	if nil == blob {
		return r
	}

	digest := blob.Digest()
	r.TreeID = blob.TreeID()
	r.Leaf = blob.Leaf()
	r.Digest = digest[:]
	r.Signature = blob.Signature()
	r.PublicKey = blob.PublicKey()
	for _, s := range blob.Splices() {
		d := s.Digest
		r.Splices = append(r.Splices, &SpliceRecord{
			Leaf:   s.Leaf,
			Digest: d[:],
		})
	}
	return r
}

// Offset - injection time relative to the start of the trace
func (m *Record) Offset() time.Duration {
	return time.Duration(m.Clock) * time.Millisecond
}

// HasMessage - true unless the record only carries control data
func (m *Record) HasMessage() bool {
	return !m.Control && len(m.Signature) > 0
}

// Message - rebuild the recorded message
//
// a control record gives a message without signature blob and with a
// nil payload
func (m *Record) Message(created time.Time) (*message.Incoming, error) {
	author := message.Identity(m.Author)
	recipient := message.Identity(m.Recipient)

	if m.Control {
		return message.NewIncoming(author, recipient, nil, nil, created), nil
	}
	if 0 == len(m.Signature) {
		return nil, fault.ErrMissingSignature
	}

	var digest message.Digest
	err := message.DigestFromBytes(&digest, m.Digest)
	if nil != err {
		return nil, err
	}

	splices := make([]message.Splice, len(m.Splices))
	for i, s := range m.Splices {
		splices[i].Leaf = s.Leaf
		err := message.DigestFromBytes(&splices[i].Digest, s.Digest)
		if nil != err {
			return nil, err
		}
	}

	// a data message always has a non-nil payload
	payload := m.Payload
	if nil == payload {
		payload = []byte{}
	}

	blob := message.NewBlob(m.TreeID, m.Leaf, digest, splices, m.Signature, m.PublicKey)
	return message.NewIncoming(author, recipient, blob, payload, created), nil
}
