// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package trace - recorded message streams
//
// a trace file is a sequence of protobuf encoded Record values, each
// prefixed by its length as a uvarint. a record is either a signed
// message (author, recipient, payload and signature blob) or a control
// record; either kind may carry the list of recipients whose buffering
// ended at that point, i.e. who just logged on.
//
// Clock is the record's offset from the start of the trace in
// milliseconds and is used to replay the trace in real time.
package trace
