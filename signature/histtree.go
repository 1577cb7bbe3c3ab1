// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signature

import (
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/batchsig/message"
)

// HistTree - primitives for history tree signatures
type HistTree struct {
	keys *Keyring
}

// NewHistTree - primitives that take public keys from the keyring
func NewHistTree(keys *Keyring) *HistTree {
	return &HistTree{
		keys: keys,
	}
}

// VerifySignature - digest recomputation then one ed25519 verify
func (h *HistTree) VerifySignature(m message.Message) bool {
	blob := m.SignatureBlob()
	if nil == blob {
		return false
	}
	if ed25519.SignatureSize != len(blob.Signature()) {
		return false
	}
	digest := messageDigest(m)
	if digest != blob.Digest() {
		return false
	}
	for _, s := range blob.Splices() {
		if s.Leaf >= blob.Leaf() {
			return false
		}
	}

	publicKey, err := h.keys.Lookup(m.Author())
	if nil != err {
		return false
	}
	return ed25519.Verify(publicKey, signedBytes(blob.TreeID(), blob.Leaf(), digest, blob.Splices()), blob.Signature())
}

// VerifySplice - the digest later committed to for earlier's leaf must
// match earlier's contents
func (h *HistTree) VerifySplice(later message.Message, earlier message.Message) bool {
	lb := later.SignatureBlob()
	eb := earlier.SignatureBlob()
	if nil == lb || nil == eb {
		return false
	}
	if later.Author() != earlier.Author() || lb.TreeID() != eb.TreeID() {
		return false
	}
	for _, s := range lb.Splices() {
		if s.Leaf == eb.Leaf() {
			return s.Digest == messageDigest(earlier)
		}
	}
	return false
}
