// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter

import (
	"sync/atomic"
)

// Counter - a signed 64 bit value that may be read from any goroutine
// while a single owner increments or decrements it
//
// a zero Counter is ready to use
type Counter int64

// Increment - add 1 to a counter, returns new value
func (c *Counter) Increment() int64 {
	return atomic.AddInt64((*int64)(c), 1)
}

// Decrement - subtract 1 from a counter, returns new value
func (c *Counter) Decrement() int64 {
	return atomic.AddInt64((*int64)(c), -1)
}

// Add - add n (which may be negative), returns new value
func (c *Counter) Add(n int64) int64 {
	return atomic.AddInt64((*int64)(c), n)
}

// Int64 - returns current value
func (c *Counter) Int64() int64 {
	return atomic.LoadInt64((*int64)(c))
}

// Int - current value truncated to the platform int
func (c *Counter) Int() int {
	return int(atomic.LoadInt64((*int64)(c)))
}

// Reset - set to zero, returns the value before the reset
func (c *Counter) Reset() int64 {
	return atomic.SwapInt64((*int64)(c), 0)
}

// IsZero - check if zero
func (c *Counter) IsZero() bool {
	return 0 == atomic.LoadInt64((*int64)(c))
}
