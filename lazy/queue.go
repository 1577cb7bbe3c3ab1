// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lazy

import (
	"fmt"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/batchsig/counter"
	"github.com/bitmark-inc/batchsig/expiration"
	"github.com/bitmark-inc/batchsig/fault"
	"github.com/bitmark-inc/batchsig/message"
	"github.com/bitmark-inc/batchsig/signature"
	"github.com/bitmark-inc/batchsig/splice"
)

// identifies one splice tree
type treeKey struct {
	author message.Identity
	treeID uint64
}

func (k treeKey) String() string {
	return fmt.Sprintf("%s/%d", k.author, k.treeID)
}

type keySet map[treeKey]struct{}

// Queue - pending messages awaiting verification
//
// message values are used as map keys, so the concrete types behind
// message.Message must be comparable (normally pointers)
type Queue struct {
	log        *logger.L
	treeLog    *logger.L
	primitives signature.Primitives
	sink       Sink
	observer   Observer
	limits     Limits

	trees       map[treeKey]*splice.Tree
	expiry      *expiration.Tracker
	byRecipient map[message.Identity]map[message.Message]struct{}

	// trees to be settled by the next process pass
	forceAll keySet
	forceOne keySet

	pending counter.Counter
}

// adapter so the validation callback is not part of the public API
type validator struct {
	q *Queue
}

func (v validator) MessageValidated(m message.Message, valid bool) {
	v.q.messageValidated(m, valid)
}

// New - create an empty queue
func New(primitives signature.Primitives, sink Sink, limits Limits) (*Queue, error) {
	err := limits.Validate()
	if nil != err {
		return nil, err
	}

	expiry, err := expiration.New(limits.MaximumTrees)
	if nil != err {
		return nil, err
	}

	q := &Queue{
		log:         logger.New("lazy"),
		treeLog:     logger.New("splice"),
		primitives:  primitives,
		sink:        sink,
		limits:      limits,
		trees:       make(map[treeKey]*splice.Tree),
		expiry:      expiry,
		byRecipient: make(map[message.Identity]map[message.Message]struct{}),
		forceAll:    make(keySet),
		forceOne:    make(keySet),
	}
	return q, nil
}

// SetObserver - receive limit enforcement events, nil to disable
func (q *Queue) SetObserver(observer Observer) {
	q.observer = observer
}

// Limits - the bounds given to New
func (q *Queue) Limits() Limits {
	return q.limits
}

// Add - queue a message without verifying it
//
// may force older messages to keep within the limits, so the sink can
// be called before Add returns. a rejected message is not counted
func (q *Queue) Add(m message.Message) error {
	blob := m.SignatureBlob()
	if nil == blob {
		return fault.ErrMissingSignature
	}

	key := treeKey{
		author: m.Author(),
		treeID: blob.TreeID(),
	}

	tree, ok := q.trees[key]
	if !ok {
		tree = splice.New(key.author, key.treeID, q.primitives, validator{q: q}, q.treeLog)
	}
	err := tree.Add(m)
	if nil != err {
		q.log.Debugf("add: %s  leaf: %d  error: %s", key, blob.Leaf(), err)
		return err
	}
	if !ok {
		q.trees[key] = tree
	}
	q.pending.Increment()

	if tree.Size() > q.limits.MaximumTreeSize {
		q.forceOne[key] = struct{}{}
		if nil != q.observer {
			q.observer.TreeOversize()
		}
	}

	if victim, evicted := q.expiry.Touch(key); evicted {
		v := victim.(treeKey)
		q.log.Debugf("add: %s  evicts: %s", key, v)
		q.forceAll[v] = struct{}{}
		if nil != q.observer {
			q.observer.TreeEvicted()
		}
	}

	r := m.Recipient()
	set, ok := q.byRecipient[r]
	if !ok {
		set = make(map[message.Message]struct{})
		q.byRecipient[r] = set
	}
	set[m] = struct{}{}

	q.process()
	return nil
}

// settle the trees marked by Add
func (q *Queue) process() {
	for key := range q.forceAll {
		if tree, ok := q.trees[key]; ok {
			tree.ForceAll()
		}
		q.retire(key)
		delete(q.forceAll, key)
	}

	for key := range q.forceOne {
		delete(q.forceOne, key)
		tree, ok := q.trees[key]
		if !ok {
			continue
		}
		if tree.ForceOldest() {
			q.retire(key)
		}
	}
}

// Force - verify one message now
//
// no-op if the message is not queued
func (q *Queue) Force(m message.Message) {
	blob := m.SignatureBlob()
	if nil == blob {
		q.log.Warnf("force: %v  without signature", m)
		return
	}
	key := treeKey{
		author: m.Author(),
		treeID: blob.TreeID(),
	}
	tree, ok := q.trees[key]
	if !ok {
		q.log.Debugf("force: %s  leaf: %d  no such tree", key, blob.Leaf())
		return
	}
	tree.ForceMessage(m)
	if 0 == tree.Size() {
		q.retire(key)
	}
}

// ForceUser - verify every message queued for a recipient
//
// each message has its creation time reset to timestamp before it is
// forced, messages settled as a side effect keep their time
func (q *Queue) ForceUser(recipient message.Identity, timestamp time.Time) {
	for {
		set := q.byRecipient[recipient]
		if 0 == len(set) {
			return
		}
		var m message.Message
		for m = range set {
			break
		}
		m.ResetCreationTimeTo(timestamp)
		q.Force(m)

		if _, ok := q.byRecipient[recipient][m]; ok {
			fault.Panicf("lazy: recipient: %s  message: %v  still pending after force", recipient, m)
		}
	}
}

// ForceAll - verify everything, the queue is empty afterwards
func (q *Queue) ForceAll() {
	for key, tree := range q.trees {
		tree.ForceAll()
		delete(q.trees, key)
	}
	q.expiry.Clear()
	q.forceAll = make(keySet)
	q.forceOne = make(keySet)
}

// ForceOldest - verify the oldest message of the least recently touched tree
func (q *Queue) ForceOldest() {
	k, ok := q.expiry.Oldest()
	if !ok {
		return
	}
	key := k.(treeKey)
	tree, ok := q.trees[key]
	if !ok {
		fault.Panicf("lazy: tracked tree: %s  missing from registry", key)
	}
	if tree.ForceOldest() {
		q.retire(key)
	}
}

// PeekSize - count of queued messages, safe from any goroutine
func (q *Queue) PeekSize() int {
	return q.pending.Int()
}

// Trees - count of live splice trees
func (q *Queue) Trees() int {
	return len(q.trees)
}

// Recipients - count of recipients with queued messages
func (q *Queue) Recipients() int {
	return len(q.byRecipient)
}

func (q *Queue) retire(key treeKey) {
	delete(q.trees, key)
	q.expiry.Remove(key)
}

func (q *Queue) messageValidated(m message.Message, valid bool) {
	r := m.Recipient()
	if set, ok := q.byRecipient[r]; ok {
		delete(set, m)
		if 0 == len(set) {
			delete(q.byRecipient, r)
		}
	}
	q.pending.Decrement()
	q.sink.Validated(m, valid)
}
