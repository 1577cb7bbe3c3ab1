// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package replay

import (
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/batchsig/message"
)

// recipients currently logged on, a session lapses after timeout
// without a new login
type sessions struct {
	timeout time.Duration
	cache   *cache.Cache
}

// timeout <= 0 keeps sessions until the end of the replay
func newSessions(timeout time.Duration) *sessions {
	if timeout <= 0 {
		return &sessions{
			timeout: cache.NoExpiration,
			cache:   cache.New(cache.NoExpiration, 0),
		}
	}
	return &sessions{
		timeout: timeout,
		cache:   cache.New(timeout, 2*timeout),
	}
}

func (s *sessions) login(recipient message.Identity, timestamp time.Time) {
	s.cache.Set(string(recipient), timestamp, s.timeout)
}

func (s *sessions) loggedOn(recipient message.Identity) bool {
	_, found := s.cache.Get(string(recipient))
	return found
}

func (s *sessions) count() int {
	return s.cache.ItemCount()
}

func (s *sessions) clear() {
	s.cache.Flush()
}
