// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package message - the unit of lazy verification
//
// A message is signed by its author as one leaf of the author's
// history tree. The signature blob names the tree and leaf and
// lists the splices: digests of earlier leaves of the same tree that
// the signature also commits to.
//
//	author ──┬── tree 1: leaf 0 ◄── leaf 1 ◄── leaf 2
//	         │                 ◄──────────────┘ (splice)
//	         └── tree 2: ...
//
// Verifying leaf 2's public key signature authenticates the digests
// it splices, so leaf 0 and leaf 1 can then be validated by
// recomputing their digests, no further public key work needed.
package message
