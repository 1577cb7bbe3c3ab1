// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lazy_test

import (
	"os"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/batchsig/message"
)

const (
	testingDirName = "testing"
)

func setupTestLogger() {
	removeFiles()
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

func teardownTestLogger() {
	removeFiles()
}

func removeFiles() {
	_ = os.RemoveAll(testingDirName)
}

var epoch = time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

// unsigned message, only usable with mocked primitives
func newMessage(author message.Identity, treeID uint64, leaf uint64, recipient message.Identity, spliced ...uint64) *message.Incoming {
	splices := make([]message.Splice, len(spliced))
	for i, l := range spliced {
		splices[i] = message.Splice{Leaf: l}
	}
	blob := message.NewBlob(treeID, leaf, message.Digest{}, splices, nil, nil)
	return message.NewIncoming(author, recipient, blob, []byte("payload"), epoch)
}

type result struct {
	m     message.Message
	valid bool
}

// Sink recording every outcome in order
type recorder struct {
	results []result
}

func (r *recorder) Validated(m message.Message, valid bool) {
	r.results = append(r.results, result{m: m, valid: valid})
}

func (r *recorder) outcome() map[message.Message]bool {
	o := make(map[message.Message]bool, len(r.results))
	for _, res := range r.results {
		o[res.m] = res.valid
	}
	return o
}

// Observer counting limit events
type events struct {
	evicted  int
	oversize int
}

func (e *events) TreeEvicted()  { e.evicted += 1 }
func (e *events) TreeOversize() { e.oversize += 1 }
