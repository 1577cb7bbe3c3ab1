// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/bitmark-inc/batchsig/message"
	"github.com/bitmark-inc/batchsig/signature"
	"github.com/bitmark-inc/batchsig/trace"
)

type dumpedRecord struct {
	Record       int              `json:"record"`
	Clock        string           `json:"clock"`
	Author       message.Identity `json:"author,omitempty"`
	Recipient    message.Identity `json:"recipient,omitempty"`
	TreeID       uint64           `json:"tree_id"`
	Leaf         uint64           `json:"leaf"`
	Splices      []uint64         `json:"splices,omitempty"`
	PayloadSize  int              `json:"payload_size"`
	Control      bool             `json:"control,omitempty"`
	EndBuffering []string         `json:"end_buffering,omitempty"`
	Valid        *bool            `json:"valid,omitempty"`
}

type dumpTotals struct {
	Records  int `json:"records"`
	Messages int `json:"messages"`
	Controls int `json:"controls"`
	Invalid  int `json:"invalid"`
}

// print each record of a trace, with verify each data record's
// signature is checked against the key it carries
func dump(handle io.Writer, reader *trace.Reader, verify bool) (*dumpTotals, error) {
	totals := &dumpTotals{}

	keys := signature.NewKeyring()
	primitives := signature.NewHistTree(keys)

	for {
		record, err := reader.Read()
		if io.EOF == err {
			break
		}
		if nil != err {
			return totals, err
		}
		totals.Records += 1

		d := dumpedRecord{
			Record:       totals.Records,
			Clock:        record.Offset().String(),
			Author:       message.Identity(record.Author),
			Recipient:    message.Identity(record.Recipient),
			TreeID:       record.TreeID,
			Leaf:         record.Leaf,
			PayloadSize:  len(record.Payload),
			Control:      record.Control,
			EndBuffering: record.EndBuffering,
		}
		for _, s := range record.Splices {
			d.Splices = append(d.Splices, s.Leaf)
		}

		if record.HasMessage() {
			totals.Messages += 1
		} else {
			totals.Controls += 1
		}

		if verify && record.HasMessage() {
			valid := false
			m, err := record.Message(time.Now())
			if nil == err && nil == keys.Load(m) {
				valid = primitives.VerifySignature(m)
			}
			if !valid {
				totals.Invalid += 1
			}
			d.Valid = &valid
		}

		b, err := json.Marshal(d)
		if nil != err {
			return totals, err
		}
		fmt.Fprintf(handle, "%s\n", b)
	}
	return totals, nil
}
