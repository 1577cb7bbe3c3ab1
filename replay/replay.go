// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package replay - feed a recorded trace to a verification queue in
// real time
//
// the trace is read twice: the first pass loads every author's public
// key, the second injects each record at its recorded offset from the
// start of the replay. recipients named in a record's end buffering
// list are logged on: their queued messages are forced at once and so
// is every later message addressed to them while the session lasts.
package replay

import (
	"io"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/batchsig/fault"
	"github.com/bitmark-inc/batchsig/message"
	"github.com/bitmark-inc/batchsig/signature"
	"github.com/bitmark-inc/batchsig/trace"
)

// Queue - the verification queue being driven
type Queue interface {
	Add(m message.Message) error
	ForceUser(recipient message.Identity, timestamp time.Time) error
	ForceAll() error
	PeekSize() int
}

// Configuration - replay settings from the configuration file
type Configuration struct {
	TraceFile         string  `gluamapper:"trace_file" json:"trace_file"`
	Speed             float64 `gluamapper:"speed" json:"speed"`                     // 0 => no delays
	SessionTimeout    int     `gluamapper:"session_timeout" json:"session_timeout"` // seconds, 0 => never
	OverflowLimit     int     `gluamapper:"overflow_limit" json:"overflow_limit"`   // 0 => unlimited
	MaximumRecordSize int     `gluamapper:"maximum_record_size" json:"maximum_record_size"`
}

// Summary - counts for one replay
type Summary struct {
	Records  int `json:"records"`
	Messages int `json:"messages"`
	Rejected int `json:"rejected"`
	Logins   int `json:"logins"`
	Forced   int `json:"forced"`
	Keys     int `json:"keys"`
}

// Replayer - drives one queue
type Replayer struct {
	log      *logger.L
	queue    Queue
	keys     *signature.Keyring
	conf     Configuration
	sessions *sessions

	done    chan struct{}
	summary Summary
	err     error
}

// New - keys receives the public keys found by the first pass
func New(queue Queue, keys *signature.Keyring, conf Configuration) (*Replayer, error) {
	if conf.Speed < 0 || conf.SessionTimeout < 0 || conf.OverflowLimit < 0 {
		return nil, fault.ErrInvalidCount
	}
	return &Replayer{
		log:      logger.New("replay"),
		queue:    queue,
		keys:     keys,
		conf:     conf,
		sessions: newSessions(time.Duration(conf.SessionTimeout) * time.Second),
		done:     make(chan struct{}),
	}, nil
}

// Preload - first pass, load the key of every signed record
//
// returns the number of records read
func (r *Replayer) Preload(reader *trace.Reader) (int, error) {
	n := 0
	for {
		record, err := reader.Read()
		if io.EOF == err {
			break
		}
		if nil != err {
			return n, err
		}
		n += 1
		if !record.HasMessage() {
			continue
		}
		m, err := record.Message(time.Now())
		if nil != err {
			r.log.Warnf("preload: record: %d  error: %s", n, err)
			continue
		}
		err = r.keys.Load(m)
		if nil != err {
			r.log.Warnf("preload: record: %d  author: %s  error: %s", n, m.Author(), err)
		}
	}
	r.log.Infof("preload: records: %d  keys: %d", n, r.keys.Count())
	return n, nil
}

// Replay - second pass, inject every record into the queue
//
// stops early on shutdown or when the queue grows beyond the overflow
// limit. on a complete replay everything still queued is forced
func (r *Replayer) Replay(reader *trace.Reader, shutdown <-chan struct{}) (Summary, error) {
	log := r.log
	summary := Summary{
		Keys: r.keys.Count(),
	}
	start := time.Now()

	for {
		record, err := reader.Read()
		if io.EOF == err {
			break
		}
		if nil != err {
			return summary, err
		}
		summary.Records += 1

		if !r.wait(start, record.Offset(), shutdown) {
			log.Info("shutdown during replay")
			return summary, nil
		}

		now := time.Now()
		if record.HasMessage() {
			err := r.inject(record, now, &summary)
			if nil != err {
				return summary, err
			}
		}

		for _, user := range record.EndBuffering {
			recipient := message.Identity(user)
			r.sessions.login(recipient, now)
			summary.Logins += 1
			err := r.queue.ForceUser(recipient, now)
			if nil != err {
				return summary, err
			}
			summary.Forced += 1
		}

		if r.conf.OverflowLimit > 0 && r.queue.PeekSize() > r.conf.OverflowLimit {
			log.Errorf("overflow: pending: %d  limit: %d", r.queue.PeekSize(), r.conf.OverflowLimit)
			return summary, fault.ErrQueueOverflow
		}
	}

	log.Infof("EOF  records: %d  messages: %d", summary.Records, summary.Messages)
	return summary, r.queue.ForceAll()
}

func (r *Replayer) inject(record *trace.Record, now time.Time, summary *Summary) error {
	m, err := record.Message(now)
	if nil != err {
		r.log.Warnf("record: %d  error: %s", summary.Records, err)
		summary.Rejected += 1
		return nil
	}

	err = r.queue.Add(m)
	if nil != err {
		return err
	}
	summary.Messages += 1

	if r.sessions.loggedOn(m.Recipient()) {
		err = r.queue.ForceUser(m.Recipient(), now)
		if nil != err {
			return err
		}
		summary.Forced += 1
	}
	return nil
}

// sleep until the record's injection time, false on shutdown
func (r *Replayer) wait(start time.Time, offset time.Duration, shutdown <-chan struct{}) bool {
	if 0 == r.conf.Speed {
		select {
		case <-shutdown:
			return false
		default:
			return true
		}
	}

	inject := start.Add(time.Duration(float64(offset) / r.conf.Speed))
	delay := time.Until(inject)
	if delay <= 0 {
		delay = 0
	}
	select {
	case <-shutdown:
		return false
	case <-time.After(delay):
		return true
	}
}

// ReplayFile - both passes over a trace file
func (r *Replayer) ReplayFile(name string, shutdown <-chan struct{}) (Summary, error) {
	reader, err := trace.OpenFile(name, r.conf.MaximumRecordSize)
	if nil != err {
		return Summary{}, err
	}
	_, err = r.Preload(reader)
	reader.Close()
	if nil != err {
		return Summary{}, err
	}

	reader, err = trace.OpenFile(name, r.conf.MaximumRecordSize)
	if nil != err {
		return Summary{}, err
	}
	defer reader.Close()

	defer r.sessions.clear()
	return r.Replay(reader, shutdown)
}

// Run - background.Process replaying the configured trace file
func (r *Replayer) Run(args interface{}, shutdown <-chan struct{}) {
	defer close(r.done)

	r.log.Infof("replay: %q", r.conf.TraceFile)
	r.summary, r.err = r.ReplayFile(r.conf.TraceFile, shutdown)
	if nil != r.err {
		r.log.Errorf("replay: %q  error: %s", r.conf.TraceFile, r.err)
		return
	}
	r.log.Infof("replay finished: %+v", r.summary)
}

// Done - closed when Run returns
func (r *Replayer) Done() <-chan struct{} {
	return r.done
}

// Result - outcome of Run, only valid after Done is closed
func (r *Replayer) Result() (Summary, error) {
	return r.summary, r.err
}
