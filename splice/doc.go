// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package splice - pending messages of one (author, tree id) pair
//
// The tree keeps the splice graph of every message not yet
// validated. Nodes are slots in an arena addressed by index: a slot
// is either a pending message or a stub, a leaf that some pending
// message splices but which has not arrived (or was already
// resolved). A stub is upgraded in place when its message arrives so
// edges held by other slots stay valid.
//
// Forcing a message selects the latest pending message whose splice
// closure contains it, pays for one public key verification on that
// message and then walks the closure with splice checks, reporting
// each message to the callback as it is resolved. A message is never
// reported before the message that certified it.
//
// Not safe for concurrent use.
package splice
