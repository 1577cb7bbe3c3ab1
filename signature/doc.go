// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package signature - signing and verification primitives
//
// The verification queue only needs the Primitives interface. The
// HistTree implementation signs each leaf with ed25519 over its
// SHA3-256 digest plus the digests of the leaves it splices, so a
// splice check is a single hash recomputation.
//
// Author identities are the base58 encoding of the author's public
// key, so a key carried inside a signature blob can be checked
// against the author before it is trusted.
package signature
