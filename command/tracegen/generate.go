// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/bitmark-inc/batchsig/fault"
	"github.com/bitmark-inc/batchsig/message"
	"github.com/bitmark-inc/batchsig/signature"
	"github.com/bitmark-inc/batchsig/trace"
)

type parameters struct {
	authors     int
	recipients  int
	trees       int
	messages    int
	window      int
	payloadSize int
	interval    time.Duration
	loginEvery  int // 0 => no control records
	seed        int64
}

type generated struct {
	Authors  []message.Identity `json:"authors"`
	Messages int                `json:"messages"`
	Controls int                `json:"controls"`
	Records  int                `json:"records"`
	Duration string             `json:"duration"`
}

func (p parameters) validate() error {
	if p.authors <= 0 || p.recipients <= 0 || p.trees <= 0 {
		return fault.ErrInvalidCount
	}
	if p.messages < 0 || p.window < 0 || p.payloadSize < 0 || p.loginEvery < 0 {
		return fault.ErrInvalidCount
	}
	if p.interval < 0 {
		return fault.ErrInvalidCount
	}
	return nil
}

func recipientName(n int) message.Identity {
	return message.Identity(fmt.Sprintf("user-%d", n))
}

// write a synthetic trace: each message comes from a random author,
// tree and recipient; every loginEvery messages a control record logs
// a random recipient on
//
// the same seed always gives the same trace
func generate(w *trace.Writer, p parameters) (*generated, error) {
	err := p.validate()
	if nil != err {
		return nil, err
	}

	r := rand.New(rand.NewSource(p.seed))

	signers := make([]*signature.Signer, p.authors)
	result := &generated{
		Authors: make([]message.Identity, p.authors),
	}
	for i := range signers {
		s, err := signature.GenerateSigner(r, p.window)
		if nil != err {
			return nil, err
		}
		signers[i] = s
		result.Authors[i] = s.Author()
	}

	clock := time.Duration(0)
	start := time.Now()
	for i := 0; i < p.messages; i += 1 {
		clock += p.interval

		s := signers[r.Intn(p.authors)]
		treeID := uint64(r.Intn(p.trees))
		recipient := recipientName(r.Intn(p.recipients))

		payload := make([]byte, p.payloadSize)
		_, _ = r.Read(payload)

		m := s.Sign(treeID, recipient, payload, start.Add(clock))
		err := w.Write(trace.FromMessage(m, clock))
		if nil != err {
			return nil, err
		}
		result.Messages += 1

		if p.loginEvery > 0 && 0 == (i+1)%p.loginEvery {
			control := &trace.Record{
				Clock:        int64(clock / time.Millisecond),
				Control:      true,
				EndBuffering: []string{string(recipientName(r.Intn(p.recipients)))},
			}
			err := w.Write(control)
			if nil != err {
				return nil, err
			}
			result.Controls += 1
		}
	}

	result.Records = w.Count()
	result.Duration = clock.String()
	return result, nil
}
