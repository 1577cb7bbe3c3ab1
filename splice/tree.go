// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package splice

import (
	"container/list"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/batchsig/fault"
	"github.com/bitmark-inc/batchsig/message"
	"github.com/bitmark-inc/batchsig/signature"
)

// Callback - receives the outcome of every message the tree resolves
type Callback interface {
	MessageValidated(m message.Message, valid bool)
}

// Tree - pending messages for one author's history tree
type Tree struct {
	author     message.Identity
	treeID     uint64
	primitives signature.Primitives
	callback   Callback
	log        *logger.L

	slots   []slot
	free    []int
	byLeaf  map[uint64]int
	arrival *list.List // slot indices of pending messages, oldest first
	pending int
}

type slot struct {
	live      bool
	leaf      uint64
	msg       message.Message // nil for a stub
	arrival   *list.Element
	covers    []int // earlier slots spliced by this message
	coveredBy []int // later pending messages splicing this slot
}

// one unit of cascade work: check slot against its certifier
type step struct {
	certifier message.Message
	slot      int
	msg       message.Message
}

// New - empty tree
//
// log may be nil to disable debug output
func New(author message.Identity, treeID uint64, primitives signature.Primitives, callback Callback, log *logger.L) *Tree {
	return &Tree{
		author:     author,
		treeID:     treeID,
		primitives: primitives,
		callback:   callback,
		log:        log,
		byLeaf:     make(map[uint64]int),
		arrival:    list.New(),
	}
}

// Author - owner of the history tree
func (t *Tree) Author() message.Identity {
	return t.author
}

// TreeID - history tree id
func (t *Tree) TreeID() uint64 {
	return t.treeID
}

// Size - count of pending messages, stubs are not counted
func (t *Tree) Size() int {
	return t.pending
}

// Stubs - count of incomplete nodes
func (t *Tree) Stubs() int {
	live := len(t.slots) - len(t.free)
	return live - t.pending
}

// Add - insert a message and link it to the leaves it splices
//
// only builds the graph, nothing is verified here
func (t *Tree) Add(m message.Message) error {
	blob := m.SignatureBlob()
	if nil == blob {
		return fault.ErrMissingSignature
	}
	if m.Author() != t.author || blob.TreeID() != t.treeID {
		return fault.ErrWrongTree
	}
	leaf := blob.Leaf()
	splices := blob.Splices()
	for _, s := range splices {
		if s.Leaf >= leaf {
			return fault.ErrSpliceLeafNotEarlier
		}
	}

	n, ok := t.byLeaf[leaf]
	if ok {
		if nil != t.slots[n].msg {
			return fault.ErrDuplicateLeaf
		}
	} else {
		n = t.allocate(leaf)
	}

	t.slots[n].msg = m
	t.slots[n].arrival = t.arrival.PushBack(n)
	t.pending += 1

	for _, s := range splices {
		c, ok := t.byLeaf[s.Leaf]
		if !ok {
			c = t.allocate(s.Leaf)
		}
		t.link(n, c)
	}
	return nil
}

// ForceMessage - resolve m, a no-op if m is not pending here
func (t *Tree) ForceMessage(m message.Message) {
	for {
		n, ok := t.pendingSlot(m)
		if !ok {
			return
		}
		t.verifyFrom(t.bestCover(n))
	}
}

// ForceOldest - resolve the message that arrived first
//
// returns true if the tree is empty afterwards
func (t *Tree) ForceOldest() bool {
	e := t.arrival.Front()
	if nil != e {
		t.ForceMessage(t.slots[e.Value.(int)].msg)
	}
	return 0 == t.pending
}

// ForceAll - resolve every pending message
func (t *Tree) ForceAll() {
	for e := t.arrival.Front(); nil != e; e = t.arrival.Front() {
		t.ForceMessage(t.slots[e.Value.(int)].msg)
	}
}

// Contains - true if m is pending in this tree
func (t *Tree) Contains(m message.Message) bool {
	_, ok := t.pendingSlot(m)
	return ok
}

func (t *Tree) pendingSlot(m message.Message) (int, bool) {
	blob := m.SignatureBlob()
	if nil == blob || blob.TreeID() != t.treeID || m.Author() != t.author {
		return 0, false
	}
	n, ok := t.byLeaf[blob.Leaf()]
	if !ok || t.slots[n].msg != m {
		return 0, false
	}
	return n, true
}

// the latest pending message whose closure contains slot n
//
// splices only point backwards so the ancestor with the largest leaf
// has no pending parent. its closure contains slot n but need not
// contain every other ancestor, those stay pending
func (t *Tree) bestCover(n int) int {
	best := n
	seen := map[int]struct{}{n: {}}
	queue := []int{n}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if t.slots[i].leaf > t.slots[best].leaf {
			best = i
		}
		for _, p := range t.slots[i].coveredBy {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			queue = append(queue, p)
		}
	}
	return best
}

// one public key verification on root, then splice checks down its
// closure in depth first order
func (t *Tree) verifyFrom(root int) {
	rootMsg := t.slots[root].msg
	rootLeaf := t.slots[root].leaf

	if !t.primitives.VerifySignature(rootMsg) {
		if nil != t.log {
			t.log.Warnf("tree: %s/%d  leaf: %d  signature failed", t.author, t.treeID, rootLeaf)
		}
		t.resolve(root, false)
		return
	}

	stack := t.pushSteps(nil, rootMsg, t.resolve(root, true))
	validated := 1
	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// reached through another path already
		if !t.slots[st.slot].live || t.slots[st.slot].msg != st.msg {
			continue
		}

		if t.primitives.VerifySplice(st.certifier, st.msg) {
			stack = t.pushSteps(stack, st.msg, t.resolve(st.slot, true))
			validated += 1
			continue
		}
		if nil != t.log {
			t.log.Warnf("tree: %s/%d  leaf: %d  splice failed", t.author, t.treeID, t.slots[st.slot].leaf)
		}
		t.resolve(st.slot, false)
	}

	if nil != t.log {
		t.log.Debugf("tree: %s/%d  root leaf: %d  validated: %d", t.author, t.treeID, rootLeaf, validated)
	}
}

func (t *Tree) pushSteps(stack []step, certifier message.Message, children []int) []step {
	for _, c := range children {
		stack = append(stack, step{
			certifier: certifier,
			slot:      c,
			msg:       t.slots[c].msg,
		})
	}
	return stack
}

// remove a pending message, report it and return the pending
// messages it spliced
func (t *Tree) resolve(n int, valid bool) []int {
	s := &t.slots[n]
	m := s.msg

	children := make([]int, 0, len(s.covers))
	for _, c := range s.covers {
		if nil != t.slots[c].msg {
			children = append(children, c)
		}
	}

	t.arrival.Remove(s.arrival)
	t.pending -= 1
	t.release(n)

	t.callback.MessageValidated(m, valid)
	return children
}

// allocate a stub slot for leaf
func (t *Tree) allocate(leaf uint64) int {
	var n int
	if k := len(t.free); k > 0 {
		n = t.free[k-1]
		t.free = t.free[:k-1]
	} else {
		n = len(t.slots)
		t.slots = append(t.slots, slot{})
	}
	t.slots[n] = slot{
		live: true,
		leaf: leaf,
	}
	t.byLeaf[leaf] = n
	return n
}

// edge: parent splices child
func (t *Tree) link(parent int, child int) {
	for _, c := range t.slots[parent].covers {
		if c == child {
			return
		}
	}
	t.slots[parent].covers = append(t.slots[parent].covers, child)
	t.slots[child].coveredBy = append(t.slots[child].coveredBy, parent)
}

// drop a slot and every edge touching it, stubs left without
// referrers are dropped too
func (t *Tree) release(n int) {
	s := &t.slots[n]
	for _, c := range s.covers {
		t.slots[c].coveredBy = without(t.slots[c].coveredBy, n)
		if nil == t.slots[c].msg && 0 == len(t.slots[c].coveredBy) {
			t.drop(c)
		}
	}
	for _, p := range s.coveredBy {
		t.slots[p].covers = without(t.slots[p].covers, n)
	}
	t.drop(n)
}

func (t *Tree) drop(n int) {
	delete(t.byLeaf, t.slots[n].leaf)
	t.slots[n] = slot{}
	t.free = append(t.free, n)
}

func without(list []int, n int) []int {
	for i, v := range list {
		if v == n {
			last := len(list) - 1
			list[i] = list[last]
			return list[:last]
		}
	}
	return list
}
