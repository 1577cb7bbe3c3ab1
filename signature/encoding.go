// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signature

import (
	"encoding/binary"

	"github.com/bitmark-inc/batchsig/message"
)

// prefix of all signed data
const signingDomain = "batchsig:histtree:v1"

// LeafDigest - the digest of one history tree leaf
//
// covers the leaf's own splices, so a later leaf that splices this one
// also commits to everything this one splices
func LeafDigest(author message.Identity, recipient message.Identity, treeID uint64, leaf uint64, payload []byte, splices []message.Splice) message.Digest {
	header := make([]byte, 16, 16+4*binary.MaxVarintLen64)
	binary.BigEndian.PutUint64(header[0:8], treeID)
	binary.BigEndian.PutUint64(header[8:16], leaf)
	header = appendLength(header, len(author))
	header = appendLength(header, len(recipient))
	header = appendLength(header, len(payload))
	header = appendLength(header, len(splices))

	links := make([]byte, 0, len(splices)*(8+message.DigestLength))
	for _, s := range splices {
		links = appendUint64(links, s.Leaf)
		links = append(links, s.Digest[:]...)
	}
	return message.NewDigest(header, []byte(author), []byte(recipient), payload, links)
}

// digest recomputed from the message contents
func messageDigest(m message.Message) message.Digest {
	blob := m.SignatureBlob()
	return LeafDigest(m.Author(), m.Recipient(), blob.TreeID(), blob.Leaf(), m.Payload(), blob.Splices())
}

// the bytes covered by the ed25519 signature
func signedBytes(treeID uint64, leaf uint64, digest message.Digest, splices []message.Splice) []byte {
	n := len(signingDomain) + 8 + 8 + message.DigestLength + binary.MaxVarintLen64 + len(splices)*(8+message.DigestLength)
	buffer := make([]byte, 0, n)
	buffer = append(buffer, signingDomain...)
	buffer = appendUint64(buffer, treeID)
	buffer = appendUint64(buffer, leaf)
	buffer = append(buffer, digest[:]...)
	buffer = appendLength(buffer, len(splices))
	for _, s := range splices {
		buffer = appendUint64(buffer, s.Leaf)
		buffer = append(buffer, s.Digest[:]...)
	}
	return buffer
}

func appendUint64(buffer []byte, n uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	return append(buffer, b[:]...)
}

func appendLength(buffer []byte, n int) []byte {
	var b [binary.MaxVarintLen64]byte
	l := binary.PutUvarint(b[:], uint64(n))
	return append(buffer, b[:l]...)
}
