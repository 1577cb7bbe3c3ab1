// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package lazy - defer signature verification until a message is needed
//
// messages are grouped into one splice.Tree per (author, tree id).
// nothing is verified on arrival; a message is verified only when it is
// forced, either directly, through its recipient logging on, or because
// a memory limit was reached:
//
//   - a tree holding more than MaximumTreeSize messages has its oldest
//     message forced
//   - adding a tree beyond MaximumTrees forces every message of the
//     least recently touched tree
//
// forcing one message verifies the latest message that splices it with
// a single public key check and certifies the rest of the chain with
// hash checks, so each public key operation settles as many queued
// messages as possible.
//
// the queue is not safe for concurrent use, except for PeekSize
package lazy
