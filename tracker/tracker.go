// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tracker

import (
	"github.com/bitmark-inc/batchsig/counter"
	"github.com/bitmark-inc/batchsig/message"
	"github.com/bitmark-inc/batchsig/signature"
)

// Tracker - verification statistics
//
// all counters are atomic, a Tracker may be read while the queue
// worker updates it
type Tracker struct {
	signatureChecks   counter.Counter
	signatureFailures counter.Counter
	spliceChecks      counter.Counter
	spliceFailures    counter.Counter
	idleForces        counter.Counter
	evictions         counter.Counter
	oversize          counter.Counter
}

// Snapshot - counter values at one instant
type Snapshot struct {
	SignatureChecks   int64 `json:"signatureChecks"`
	SignatureFailures int64 `json:"signatureFailures"`
	SpliceChecks      int64 `json:"spliceChecks"`
	SpliceFailures    int64 `json:"spliceFailures"`
	IdleForces        int64 `json:"idleForces"`
	Evictions         int64 `json:"evictions"`
	Oversize          int64 `json:"oversize"`
}

// New - zeroed statistics
func New() *Tracker {
	return &Tracker{}
}

// IdleForce - a message was forced because the queue was idle
func (t *Tracker) IdleForce() {
	t.idleForces.Increment()
}

// TreeEvicted - a tree was flushed to stay within the tree limit
func (t *Tracker) TreeEvicted() {
	t.evictions.Increment()
}

// TreeOversize - a tree exceeded the per tree limit
func (t *Tracker) TreeOversize() {
	t.oversize.Increment()
}

// Snapshot - read every counter
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		SignatureChecks:   t.signatureChecks.Int64(),
		SignatureFailures: t.signatureFailures.Int64(),
		SpliceChecks:      t.spliceChecks.Int64(),
		SpliceFailures:    t.spliceFailures.Int64(),
		IdleForces:        t.idleForces.Int64(),
		Evictions:         t.evictions.Int64(),
		Oversize:          t.oversize.Int64(),
	}
}

// Reset - zero every counter and return the values before the reset
func (t *Tracker) Reset() Snapshot {
	return Snapshot{
		SignatureChecks:   t.signatureChecks.Reset(),
		SignatureFailures: t.signatureFailures.Reset(),
		SpliceChecks:      t.spliceChecks.Reset(),
		SpliceFailures:    t.spliceFailures.Reset(),
		IdleForces:        t.idleForces.Reset(),
		Evictions:         t.evictions.Reset(),
		Oversize:          t.oversize.Reset(),
	}
}

// Primitives - wrap p so every check it performs is counted
func (t *Tracker) Primitives(p signature.Primitives) signature.Primitives {
	return &counting{
		t: t,
		p: p,
	}
}

type counting struct {
	t *Tracker
	p signature.Primitives
}

func (c *counting) VerifySignature(m message.Message) bool {
	c.t.signatureChecks.Increment()
	ok := c.p.VerifySignature(m)
	if !ok {
		c.t.signatureFailures.Increment()
	}
	return ok
}

func (c *counting) VerifySplice(later message.Message, earlier message.Message) bool {
	c.t.spliceChecks.Increment()
	ok := c.p.VerifySplice(later, earlier)
	if !ok {
		c.t.spliceFailures.Increment()
	}
	return ok
}
