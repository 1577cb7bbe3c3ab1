// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signature

import (
	"io"
	"time"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/batchsig/fault"
	"github.com/bitmark-inc/batchsig/message"
)

// Signer - produces signed messages for one author
//
// each new leaf splices the most recent `window` leaves of its tree
type Signer struct {
	author     message.Identity
	publicKey  ed25519.PublicKey
	privateKey ed25519.PrivateKey
	window     int
	trees      map[uint64]*signerTree
}

type signerTree struct {
	next   uint64
	recent []message.Splice // oldest first
}

// NewSigner - signer for an existing private key
func NewSigner(privateKey ed25519.PrivateKey, window int) (*Signer, error) {
	if ed25519.PrivateKeySize != len(privateKey) {
		return nil, fault.ErrPrivateKeyNotFound
	}
	if window < 0 {
		return nil, fault.ErrInvalidCount
	}
	publicKey := privateKey.Public().(ed25519.PublicKey)
	return &Signer{
		author:     IdentityFromKey(publicKey),
		publicKey:  publicKey,
		privateKey: privateKey,
		window:     window,
		trees:      make(map[uint64]*signerTree),
	}, nil
}

// GenerateSigner - signer with a fresh key pair
func GenerateSigner(rand io.Reader, window int) (*Signer, error) {
	_, privateKey, err := ed25519.GenerateKey(rand)
	if nil != err {
		return nil, err
	}
	return NewSigner(privateKey, window)
}

// Author - identity of the signer
func (s *Signer) Author() message.Identity {
	return s.author
}

// PublicKey - verification key
func (s *Signer) PublicKey() ed25519.PublicKey {
	return s.publicKey
}

// Sign - append a leaf to the tree and return the signed message
func (s *Signer) Sign(treeID uint64, recipient message.Identity, payload []byte, created time.Time) *message.Incoming {
	tree, ok := s.trees[treeID]
	if !ok {
		tree = &signerTree{}
		s.trees[treeID] = tree
	}

	leaf := tree.next
	tree.next += 1

	splices := make([]message.Splice, len(tree.recent))
	copy(splices, tree.recent)
	digest := LeafDigest(s.author, recipient, treeID, leaf, payload, splices)

	signature := ed25519.Sign(s.privateKey, signedBytes(treeID, leaf, digest, splices))
	blob := message.NewBlob(treeID, leaf, digest, splices, signature, s.publicKey)

	if s.window > 0 {
		tree.recent = append(tree.recent, message.Splice{Leaf: leaf, Digest: digest})
		if len(tree.recent) > s.window {
			tree.recent = tree.recent[len(tree.recent)-s.window:]
		}
	}

	return message.NewIncoming(s.author, recipient, blob, payload, created)
}
