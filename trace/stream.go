// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trace

import (
	"io"
	"os"

	"github.com/bitmark-inc/logger"
	protoio "github.com/gogo/protobuf/io"

	"github.com/bitmark-inc/batchsig/fault"
)

// largest record accepted by a reader
const (
	DefaultMaximumRecordSize = 1 << 20
)

// Writer - append records to a trace
type Writer struct {
	log   *logger.L
	w     protoio.WriteCloser
	count int
}

// Reader - sequential access to a trace
type Reader struct {
	log   *logger.L
	r     protoio.ReadCloser
	count int
}

// NewWriter - records are written to w, Close closes w if it is an
// io.Closer
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		log: logger.New("trace"),
		w:   protoio.NewDelimitedWriter(w),
	}
}

// CreateFile - create or truncate a trace file
func CreateFile(name string) (*Writer, error) {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if nil != err {
		return nil, err
	}
	w := NewWriter(f)
	w.log.Infof("create: %q", name)
	return w, nil
}

// Write - append one record
func (w *Writer) Write(record *Record) error {
	if nil == w.w {
		return fault.ErrTraceNotOpen
	}
	err := w.w.WriteMsg(record)
	if nil != err {
		return err
	}
	w.count += 1
	return nil
}

// Count - records written so far
func (w *Writer) Count() int {
	return w.count
}

// Close - flush and close
func (w *Writer) Close() error {
	if nil == w.w {
		return fault.ErrTraceNotOpen
	}
	err := w.w.Close()
	w.w = nil
	w.log.Infof("closed after: %d records", w.count)
	return err
}

// NewReader - records larger than maximumSize are rejected
func NewReader(r io.Reader, maximumSize int) *Reader {
	if maximumSize <= 0 {
		maximumSize = DefaultMaximumRecordSize
	}
	return &Reader{
		log: logger.New("trace"),
		r:   protoio.NewDelimitedReader(r, maximumSize),
	}
}

// OpenFile - open a trace file for reading
func OpenFile(name string, maximumSize int) (*Reader, error) {
	f, err := os.Open(name)
	if nil != err {
		return nil, err
	}
	r := NewReader(f, maximumSize)
	r.log.Infof("open: %q", name)
	return r, nil
}

// Read - next record, io.EOF at the end of the trace
func (r *Reader) Read() (*Record, error) {
	if nil == r.r {
		return nil, fault.ErrTraceNotOpen
	}
	record := &Record{}
	err := r.r.ReadMsg(record)
	if io.ErrShortBuffer == err {
		r.log.Errorf("record: %d  exceeds maximum size", r.count)
		return nil, fault.ErrRecordTooLarge
	}
	if nil != err {
		return nil, err
	}
	r.count += 1
	return record, nil
}

// Count - records read so far
func (r *Reader) Count() int {
	return r.count
}

// Close - close the underlying file
func (r *Reader) Close() error {
	if nil == r.r {
		return fault.ErrTraceNotOpen
	}
	err := r.r.Close()
	r.r = nil
	return err
}
