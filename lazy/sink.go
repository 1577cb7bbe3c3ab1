// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lazy

import (
	"github.com/bitmark-inc/batchsig/message"
)

// Sink - receives every message once its verification outcome is known
type Sink interface {
	Validated(m message.Message, valid bool)
}

// Observer - optional notification of memory limit enforcement
type Observer interface {
	TreeEvicted()
	TreeOversize()
}
