// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lazy_test

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/batchsig/fault"
	"github.com/bitmark-inc/batchsig/lazy"
	"github.com/bitmark-inc/batchsig/message"
	"github.com/bitmark-inc/batchsig/mocks"
	"github.com/bitmark-inc/batchsig/signature"
)

func TestNewInvalidLimits(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	invalid := []lazy.Limits{
		{MaximumTrees: 0, MaximumTreeSize: 1},
		{MaximumTrees: 1, MaximumTreeSize: 0},
		{MaximumTrees: -1, MaximumTreeSize: 10},
	}
	for i, limits := range invalid {
		q, err := lazy.New(nil, &recorder{}, limits)
		assert.Equal(t, fault.ErrInvalidLimits, err, "%d: error", i)
		assert.Nil(t, q, "%d: queue", i)
	}

	q, err := lazy.New(nil, &recorder{}, lazy.DefaultLimits())
	assert.Nil(t, err, "default limits")
	assert.Equal(t, 1000, q.Limits().MaximumTrees, "maximum trees")
	assert.Equal(t, 1000, q.Limits().MaximumTreeSize, "maximum tree size")
	assert.Equal(t, 0, q.PeekSize(), "empty")
}

func TestThreeMessageSplice(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m1 := newMessage("A", 1, 1, "R")
	m2 := newMessage("A", 1, 2, "R", 1)
	m3 := newMessage("A", 1, 3, "R", 2)

	prims := mocks.NewMockPrimitives(ctl)
	gomock.InOrder(
		prims.EXPECT().VerifySignature(m3).Return(true).Times(1),
		prims.EXPECT().VerifySplice(m3, m2).Return(true).Times(1),
		prims.EXPECT().VerifySplice(m2, m1).Return(true).Times(1),
	)

	sink := mocks.NewMockSink(ctl)
	gomock.InOrder(
		sink.EXPECT().Validated(m3, true).Times(1),
		sink.EXPECT().Validated(m2, true).Times(1),
		sink.EXPECT().Validated(m1, true).Times(1),
	)

	q, err := lazy.New(prims, sink, lazy.DefaultLimits())
	require.Nil(t, err, "new")

	for _, m := range []message.Message{m1, m2, m3} {
		assert.Nil(t, q.Add(m), "add")
	}
	assert.Equal(t, 3, q.PeekSize(), "all pending")
	assert.Equal(t, 1, q.Trees(), "one tree")

	q.Force(m1)

	assert.Equal(t, 0, q.PeekSize(), "nothing pending")
	assert.Equal(t, 0, q.Trees(), "empty tree retired")
	assert.Equal(t, 0, q.Recipients(), "recipient index empty")
}

func TestForceUser(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	prims := mocks.NewMockPrimitives(ctl)
	prims.EXPECT().VerifySignature(gomock.Any()).Return(true).Times(3)

	r := &recorder{}
	q, err := lazy.New(prims, r, lazy.DefaultLimits())
	require.Nil(t, err, "new")

	// bob's messages are in separate trees so each one is forced
	// individually
	b1 := newMessage("A", 1, 7, "bob")
	b2 := newMessage("B", 1, 3, "bob")
	b3 := newMessage("C", 4, 9, "bob")
	c1 := newMessage("A", 2, 1, "carol")
	for _, m := range []message.Message{b1, c1, b2, b3} {
		assert.Nil(t, q.Add(m), "add")
	}
	assert.Equal(t, 2, q.Recipients(), "two recipients")

	loggedOn := epoch.Add(time.Hour)
	q.ForceUser("bob", loggedOn)

	assert.Equal(t, 3, len(r.results), "bob's messages only")
	for i, res := range r.results {
		assert.Equal(t, message.Identity("bob"), res.m.Recipient(), "%d: recipient", i)
		assert.True(t, res.valid, "%d: valid", i)
		assert.Equal(t, loggedOn, res.m.CreationTime(), "%d: timestamp rewritten", i)
	}
	assert.Equal(t, epoch, c1.CreationTime(), "other recipient untouched")
	assert.Equal(t, 1, q.PeekSize(), "carol's message remains")
	assert.Equal(t, 1, q.Recipients(), "bob removed from index")

	// nothing left for bob
	q.ForceUser("bob", loggedOn)
	q.ForceUser("nobody", loggedOn)
	assert.Equal(t, 3, len(r.results), "no further callbacks")
}

// only the message picked for forcing gets the new time, the other one
// is settled through the same chain and keeps its own
func TestForceUserSameChain(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	b1 := newMessage("A", 1, 1, "bob")
	b2 := newMessage("A", 1, 2, "bob", 1)

	prims := mocks.NewMockPrimitives(ctl)
	gomock.InOrder(
		prims.EXPECT().VerifySignature(b2).Return(true).Times(1),
		prims.EXPECT().VerifySplice(b2, b1).Return(true).Times(1),
	)

	r := &recorder{}
	q, err := lazy.New(prims, r, lazy.DefaultLimits())
	require.Nil(t, err, "new")

	assert.Nil(t, q.Add(b1), "add b1")
	assert.Nil(t, q.Add(b2), "add b2")

	loggedOn := epoch.Add(time.Hour)
	q.ForceUser("bob", loggedOn)

	require.Equal(t, 2, len(r.results), "both reported")
	assert.Equal(t, b2, r.results[0].m, "chain head first")
	assert.Equal(t, b1, r.results[1].m, "spliced message second")
	for i, res := range r.results {
		assert.True(t, res.valid, "%d: valid", i)
	}

	rewritten := 0
	for _, m := range []message.Message{b1, b2} {
		if m.CreationTime().Equal(loggedOn) {
			rewritten += 1
		} else {
			assert.Equal(t, epoch, m.CreationTime(), "settled message keeps its time")
		}
	}
	assert.Equal(t, 1, rewritten, "only the forced message is rewritten")
	assert.Equal(t, 0, q.PeekSize(), "nothing pending")
	assert.Equal(t, 0, q.Recipients(), "bob removed from index")
}

func TestPendingCount(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	prims := mocks.NewMockPrimitives(ctl)
	prims.EXPECT().VerifySignature(gomock.Any()).Return(true).AnyTimes()
	prims.EXPECT().VerifySplice(gomock.Any(), gomock.Any()).Return(true).AnyTimes()

	r := &recorder{}
	q, err := lazy.New(prims, r, lazy.DefaultLimits())
	require.Nil(t, err, "new")

	added := 0
	for _, author := range []message.Identity{"A", "B", "C"} {
		for leaf := uint64(1); leaf <= 4; leaf += 1 {
			spliced := []uint64{}
			if leaf > 1 {
				spliced = append(spliced, leaf-1)
			}
			assert.Nil(t, q.Add(newMessage(author, 1, leaf, "R", spliced...)), "add")
			added += 1
			assert.Equal(t, added, q.PeekSize(), "pending after add")
		}
	}

	err = q.Add(newMessage("A", 1, 2, "R"))
	assert.Equal(t, fault.ErrDuplicateLeaf, err, "duplicate leaf")
	err = q.Add(message.NewIncoming("A", "R", nil, nil, epoch))
	assert.Equal(t, fault.ErrMissingSignature, err, "no signature")
	err = q.Add(newMessage("D", 1, 2, "R", 3))
	assert.Equal(t, fault.ErrSpliceLeafNotEarlier, err, "bad splice")
	assert.Equal(t, added, q.PeekSize(), "rejected messages not counted")
	assert.Equal(t, 3, q.Trees(), "tree for rejected message not kept")

	q.Force(newMessage("B", 1, 1, "R"))
	assert.Equal(t, added, q.PeekSize(), "forcing an unknown message changes nothing")

	q.ForceAll()
	assert.Equal(t, 0, q.PeekSize(), "empty after force all")
	assert.Equal(t, 0, q.Trees(), "no trees")
	assert.Equal(t, 0, q.Recipients(), "no recipients")
	assert.Equal(t, added, len(r.results), "each message reported once")

	// the tracker was emptied too, nothing to force
	q.ForceOldest()
	assert.Equal(t, added, len(r.results), "no further callbacks")
}

func TestTreeSizeLimit(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m10 := newMessage("A", 1, 10, "R")
	m5 := newMessage("A", 1, 5, "R")
	m7 := newMessage("A", 1, 7, "R")
	m2 := newMessage("A", 1, 2, "R")

	prims := mocks.NewMockPrimitives(ctl)
	prims.EXPECT().VerifySignature(m10).Return(true).Times(1)

	sink := mocks.NewMockSink(ctl)
	sink.EXPECT().Validated(m10, true).Times(1)

	// a second live tree; the strict mocks fail on any verification or
	// report of its messages
	b1 := newMessage("B", 1, 1, "R")
	b2 := newMessage("B", 1, 2, "R", 1)

	q, err := lazy.New(prims, sink, lazy.Limits{MaximumTrees: 10, MaximumTreeSize: 3})
	require.Nil(t, err, "new")
	e := &events{}
	q.SetObserver(e)

	for _, m := range []message.Message{m10, b1, m5, b2, m7} {
		assert.Nil(t, q.Add(m), "add")
	}
	assert.Equal(t, 5, q.PeekSize(), "at the limit")
	assert.Equal(t, 0, e.oversize, "nothing forced yet")

	// oldest by arrival, not by leaf
	assert.Nil(t, q.Add(m2), "add over limit")
	assert.Equal(t, 5, q.PeekSize(), "one forced")
	assert.Equal(t, 1, e.oversize, "oversize event")
	assert.Equal(t, 0, e.evicted, "no eviction")
	assert.Equal(t, 2, q.Trees(), "both trees still live")
}

func TestTreeLimit(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	a1 := newMessage("alice", 1, 1, "R")
	b1 := newMessage("bob", 1, 1, "R")
	a2 := newMessage("alice", 1, 2, "R")
	c1 := newMessage("carol", 1, 1, "R")
	b2 := newMessage("bob", 1, 2, "R")

	prims := mocks.NewMockPrimitives(ctl)
	prims.EXPECT().VerifySignature(b1).Return(true).Times(1)
	prims.EXPECT().VerifySignature(a1).Return(true).Times(1)
	prims.EXPECT().VerifySignature(a2).Return(true).Times(1)

	sink := mocks.NewMockSink(ctl)
	gomock.InOrder(
		sink.EXPECT().Validated(b1, true).Times(1),
		sink.EXPECT().Validated(a1, true).Times(1),
		sink.EXPECT().Validated(a2, true).Times(1),
	)

	q, err := lazy.New(prims, sink, lazy.Limits{MaximumTrees: 2, MaximumTreeSize: 10})
	require.Nil(t, err, "new")
	e := &events{}
	q.SetObserver(e)

	assert.Nil(t, q.Add(a1), "add a1")
	assert.Nil(t, q.Add(b1), "add b1")
	assert.Nil(t, q.Add(a2), "add a2")
	assert.Equal(t, 0, e.evicted, "at the limit")

	// bob's tree is the least recently touched
	assert.Nil(t, q.Add(c1), "add c1")
	assert.Equal(t, 1, e.evicted, "bob evicted")
	assert.Equal(t, 2, q.Trees(), "alice and carol")
	assert.Equal(t, 3, q.PeekSize(), "a1 a2 c1")

	// alice was touched before carol
	assert.Nil(t, q.Add(b2), "add b2")
	assert.Equal(t, 2, e.evicted, "alice evicted")
	assert.Equal(t, 2, q.Trees(), "carol and bob")
	assert.Equal(t, 2, q.PeekSize(), "c1 b2")
}

func TestForceOldest(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	a5 := newMessage("alice", 1, 5, "R")
	a3 := newMessage("alice", 1, 3, "R")
	b1 := newMessage("bob", 1, 1, "R")

	prims := mocks.NewMockPrimitives(ctl)
	prims.EXPECT().VerifySignature(gomock.Any()).Return(true).Times(3)

	sink := mocks.NewMockSink(ctl)
	gomock.InOrder(
		sink.EXPECT().Validated(a5, true).Times(1),
		sink.EXPECT().Validated(a3, true).Times(1),
		sink.EXPECT().Validated(b1, true).Times(1),
	)

	q, err := lazy.New(prims, sink, lazy.DefaultLimits())
	require.Nil(t, err, "new")

	for _, m := range []message.Message{a5, a3, b1} {
		assert.Nil(t, q.Add(m), "add")
	}

	q.ForceOldest()
	assert.Equal(t, 2, q.Trees(), "alice still has a message")
	q.ForceOldest()
	assert.Equal(t, 1, q.Trees(), "alice retired")
	q.ForceOldest()
	assert.Equal(t, 0, q.Trees(), "bob retired")
	assert.Equal(t, 0, q.PeekSize(), "empty")

	// no-op when nothing is tracked
	q.ForceOldest()
}

// forged messages are reported invalid and do not prevent the genuine
// messages around them from validating
func TestSignedStreams(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	keys := signature.NewKeyring()
	r := &recorder{}
	q, err := lazy.New(signature.NewHistTree(keys), r, lazy.Limits{MaximumTrees: 2, MaximumTreeSize: 5})
	require.Nil(t, err, "new")
	e := &events{}
	q.SetObserver(e)

	signers := make([]*signature.Signer, 3)
	for i := range signers {
		signers[i], err = signature.GenerateSigner(rand.Reader, 2)
		require.Nil(t, err, "signer")
	}

	recipients := []message.Identity{"r1", "r2", "r3", "r4"}
	forged := make(map[message.Message]struct{})
	total := 0
	for i := 0; i < 45; i += 1 {
		// mostly the first signer so its tree grows, the others
		// alternate and force evictions
		s := signers[0]
		if 3 == i%4 {
			s = signers[1+(i/4)%2]
		}
		var m message.Message = s.Sign(1, recipients[i%len(recipients)], []byte{byte(i)}, epoch)
		if 0 == i%7 {
			m = message.NewIncoming(m.Author(), m.Recipient(), m.SignatureBlob(), []byte("forged"), epoch)
			forged[m] = struct{}{}
		}
		require.Nil(t, q.Add(m), "add: %d", i)
		total += 1
		assert.Equal(t, total-len(r.results), q.PeekSize(), "%d: pending count", i)
	}

	q.ForceUser("r2", epoch)
	q.ForceAll()

	assert.Equal(t, 0, q.PeekSize(), "nothing pending")
	assert.Equal(t, total, len(r.results), "every message reported")
	assert.True(t, e.evicted > 0, "trees evicted")
	assert.True(t, e.oversize > 0, "trees oversize")

	for m, valid := range r.outcome() {
		_, bad := forged[m]
		assert.Equal(t, !bad, valid, "message: %v", m)
	}
}

// a genuine message cannot vouch for a forged predecessor through a
// rewritten splice list on the message between them
func TestForgedSpliceList(t *testing.T) {
	setupTestLogger()
	defer teardownTestLogger()

	s, err := signature.GenerateSigner(rand.Reader, 1)
	require.Nil(t, err, "signer")

	m0 := s.Sign(1, "bob", []byte("genuine 0"), epoch)
	m1 := s.Sign(1, "bob", []byte("genuine 1"), epoch)
	m2 := s.Sign(1, "bob", []byte("genuine 2"), epoch)

	forged0 := message.NewIncoming(m0.Author(), m0.Recipient(), m0.SignatureBlob(), []byte("FORGED"), epoch)
	b1 := m1.SignatureBlob()
	splices := []message.Splice{
		{Leaf: 0, Digest: signature.LeafDigest(m0.Author(), m0.Recipient(), 1, 0, []byte("FORGED"), nil)},
	}
	forged1 := message.NewIncoming(m1.Author(), m1.Recipient(),
		message.NewBlob(1, 1, b1.Digest(), splices, b1.Signature(), b1.PublicKey()), m1.Payload(), epoch)

	r := &recorder{}
	q, err := lazy.New(signature.NewHistTree(signature.NewKeyring()), r, lazy.DefaultLimits())
	require.Nil(t, err, "new")

	for _, m := range []message.Message{forged0, forged1, m2} {
		require.Nil(t, q.Add(m), "add")
	}

	q.Force(forged0)

	outcome := r.outcome()
	assert.Equal(t, 3, len(outcome), "all reported")
	assert.True(t, outcome[m2], "genuine head")
	assert.False(t, outcome[forged1], "rewritten splice list")
	assert.False(t, outcome[forged0], "forged payload")
	assert.Equal(t, 0, q.PeekSize(), "nothing pending")
}
