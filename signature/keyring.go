// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signature

import (
	"bytes"
	"sync"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/batchsig/fault"
	"github.com/bitmark-inc/batchsig/message"
)

// IdentityFromKey - the author identity bound to a public key
func IdentityFromKey(publicKey ed25519.PublicKey) message.Identity {
	return message.Identity(base58.Encode(publicKey))
}

// KeyFromIdentity - recover the public key from an identity
func KeyFromIdentity(author message.Identity) (ed25519.PublicKey, error) {
	b, err := base58.Decode(string(author))
	if nil != err {
		return nil, fault.ErrInvalidPublicKey
	}
	if ed25519.PublicKeySize != len(b) {
		return nil, fault.ErrInvalidPublicKey
	}
	return ed25519.PublicKey(b), nil
}

// Keyring - public keys by author
type Keyring struct {
	sync.RWMutex
	keys map[message.Identity]ed25519.PublicKey
}

// NewKeyring - empty keyring
func NewKeyring() *Keyring {
	return &Keyring{
		keys: make(map[message.Identity]ed25519.PublicKey),
	}
}

// Add - store a key under its own identity
func (k *Keyring) Add(publicKey ed25519.PublicKey) (message.Identity, error) {
	if ed25519.PublicKeySize != len(publicKey) {
		return "", fault.ErrInvalidPublicKey
	}
	author := IdentityFromKey(publicKey)
	k.Lock()
	k.keys[author] = publicKey
	k.Unlock()
	return author, nil
}

// Load - preload the key carried in a message's signature blob
//
// the key must match the author identity
func (k *Keyring) Load(m message.Message) error {
	blob := m.SignatureBlob()
	if nil == blob {
		return fault.ErrMissingSignature
	}
	publicKey := ed25519.PublicKey(blob.PublicKey())
	if ed25519.PublicKeySize != len(publicKey) {
		return fault.ErrInvalidPublicKey
	}

	k.RLock()
	existing, ok := k.keys[m.Author()]
	k.RUnlock()
	if ok {
		if !bytes.Equal(existing, publicKey) {
			return fault.ErrInvalidPublicKey
		}
		return nil
	}

	if IdentityFromKey(publicKey) != m.Author() {
		return fault.ErrInvalidPublicKey
	}
	k.Lock()
	k.keys[m.Author()] = publicKey
	k.Unlock()
	return nil
}

// Lookup - key for an author, decoding the identity on a miss
func (k *Keyring) Lookup(author message.Identity) (ed25519.PublicKey, error) {
	k.RLock()
	publicKey, ok := k.keys[author]
	k.RUnlock()
	if ok {
		return publicKey, nil
	}

	publicKey, err := KeyFromIdentity(author)
	if nil != err {
		return nil, fault.ErrPublicKeyNotFound
	}
	k.Lock()
	k.keys[author] = publicKey
	k.Unlock()
	return publicKey, nil
}

// Count - number of keys held
func (k *Keyring) Count() int {
	k.RLock()
	defer k.RUnlock()
	return len(k.keys)
}
