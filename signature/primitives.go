// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signature

import (
	"github.com/bitmark-inc/batchsig/message"
)

// Primitives - the cryptographic operations the verification queue
// calls out to
type Primitives interface {
	// expensive public key check of a message's own signature
	VerifySignature(m message.Message) bool

	// cheap check that earlier is certified by later, only
	// meaningful once later's signature has been verified
	VerifySplice(later message.Message, earlier message.Message) bool
}
