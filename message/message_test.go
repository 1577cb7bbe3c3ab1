// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package message_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/batchsig/fault"
	"github.com/bitmark-inc/batchsig/message"
)

func TestDigestText(t *testing.T) {
	d := message.NewDigest([]byte("leaf"), []byte("payload"))

	assert.Equal(t, d, message.NewDigest([]byte("leafpayload")), "parts are concatenated")

	text, err := d.MarshalText()
	assert.Nil(t, err, "marshal")
	assert.Equal(t, d.String(), string(text), "text form is hex")
	assert.Equal(t, "<SHA3-256:"+d.String()+">", fmt.Sprintf("%#v", d), "go string")

	var d2 message.Digest
	err = d2.UnmarshalText(text)
	assert.Nil(t, err, "unmarshal")
	assert.Equal(t, d, d2, "round trip")

	err = d2.UnmarshalText([]byte("abcd"))
	assert.Equal(t, fault.ErrInvalidDigest, err, "short text")
}

func TestDigestFromBytes(t *testing.T) {
	d := message.NewDigest([]byte("x"))

	var d2 message.Digest
	assert.Nil(t, message.DigestFromBytes(&d2, d[:]), "valid length")
	assert.Equal(t, d, d2, "copied")

	assert.Equal(t, fault.ErrInvalidDigest, message.DigestFromBytes(&d2, d[:5]), "short buffer")
}

func TestIncoming(t *testing.T) {
	now := time.Unix(1000, 0)
	blob := message.NewBlob(7, 3, message.Digest{}, []message.Splice{{Leaf: 1}}, []byte{1}, []byte{2})
	m := message.NewIncoming("alice", "bob", blob, []byte("hello"), now)

	assert.Equal(t, message.Identity("alice"), m.Author(), "author")
	assert.Equal(t, message.Identity("bob"), m.Recipient(), "recipient")
	assert.Equal(t, uint64(7), m.SignatureBlob().TreeID(), "tree")
	assert.Equal(t, uint64(3), m.SignatureBlob().Leaf(), "leaf")
	assert.Equal(t, 1, len(m.SignatureBlob().Splices()), "splices")
	assert.False(t, message.IsControl(m), "data message")
	assert.Equal(t, "msg[alice/7:3→bob]", m.String(), "string")

	later := now.Add(time.Hour)
	m.ResetCreationTimeTo(later)
	assert.Equal(t, later, m.CreationTime(), "reset time")

	c := message.NewIncoming("alice", "bob", nil, nil, now)
	assert.True(t, message.IsControl(c), "control message")
	assert.Equal(t, "control[alice→bob]", c.String(), "control string")
}
