// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lazy

import (
	"github.com/bitmark-inc/batchsig/fault"
)

// default queue bounds
const (
	DefaultMaximumTrees    = 1000
	DefaultMaximumTreeSize = 1000
)

// Limits - memory bounds of a queue
type Limits struct {
	MaximumTrees    int `gluamapper:"maximum_trees" json:"maximum_trees"`
	MaximumTreeSize int `gluamapper:"maximum_tree_size" json:"maximum_tree_size"`
}

// DefaultLimits - the standard bounds
func DefaultLimits() Limits {
	return Limits{
		MaximumTrees:    DefaultMaximumTrees,
		MaximumTreeSize: DefaultMaximumTreeSize,
	}
}

// Validate - both bounds must be positive
func (l Limits) Validate() error {
	if l.MaximumTrees <= 0 || l.MaximumTreeSize <= 0 {
		return fault.ErrInvalidLimits
	}
	return nil
}
