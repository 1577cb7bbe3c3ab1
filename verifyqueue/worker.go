// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package verifyqueue - serialise access to a lazy queue
//
// every queue operation, and therefore every Sink callback, happens on
// the goroutine running Worker.Run. when no request arrives for the
// idle delay the oldest queued message is forced, at most IdleRate
// times per second
package verifyqueue

import (
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/batchsig/fault"
	"github.com/bitmark-inc/batchsig/lazy"
	"github.com/bitmark-inc/batchsig/message"
	"github.com/bitmark-inc/batchsig/tracker"
)

// defaults for an unset configuration
const (
	DefaultBacklog   = 1000
	DefaultIdleDelay = 100 // milliseconds
	DefaultIdleRate  = 50.0
	DefaultIdleBurst = 1
)

// Configuration - worker settings from the configuration file
type Configuration struct {
	Backlog   int     `gluamapper:"backlog" json:"backlog"`
	IdleDelay int     `gluamapper:"idle_delay" json:"idle_delay"`
	IdleRate  float64 `gluamapper:"idle_rate" json:"idle_rate"`
	IdleBurst int     `gluamapper:"idle_burst" json:"idle_burst"`
}

// DefaultConfiguration - standard worker settings
func DefaultConfiguration() Configuration {
	return Configuration{
		Backlog:   DefaultBacklog,
		IdleDelay: DefaultIdleDelay,
		IdleRate:  DefaultIdleRate,
		IdleBurst: DefaultIdleBurst,
	}
}

type command int

const (
	cmdAdd command = iota
	cmdForceUser
	cmdForceAll
	cmdSync
)

type request struct {
	command   command
	m         message.Message
	recipient message.Identity
	timestamp time.Time
	done      chan struct{}
}

// Worker - owner of a lazy queue
type Worker struct {
	log      *logger.L
	queue    *lazy.Queue
	stats    *tracker.Tracker
	limiter  *rate.Limiter
	idle     time.Duration
	requests chan request
	stopped  chan struct{}
}

// New - wrap a queue, stats may be nil
//
// the caller must not use the queue directly afterwards
func New(queue *lazy.Queue, configuration Configuration, stats *tracker.Tracker) (*Worker, error) {
	if configuration.IdleRate <= 0 {
		return nil, fault.ErrZeroRate
	}
	if configuration.Backlog < 0 || configuration.IdleDelay <= 0 {
		return nil, fault.ErrInvalidCount
	}
	burst := configuration.IdleBurst
	if burst <= 0 {
		burst = DefaultIdleBurst
	}

	w := &Worker{
		log:      logger.New("verifyqueue"),
		queue:    queue,
		stats:    stats,
		limiter:  rate.NewLimiter(rate.Limit(configuration.IdleRate), burst),
		idle:     time.Duration(configuration.IdleDelay) * time.Millisecond,
		requests: make(chan request, configuration.Backlog),
		stopped:  make(chan struct{}),
	}
	return w, nil
}

// Add - queue a message, the outcome is reported to the queue's Sink
func (w *Worker) Add(m message.Message) error {
	return w.send(request{
		command: cmdAdd,
		m:       m,
	})
}

// ForceUser - verify everything queued for recipient
func (w *Worker) ForceUser(recipient message.Identity, timestamp time.Time) error {
	return w.send(request{
		command:   cmdForceUser,
		recipient: recipient,
		timestamp: timestamp,
	})
}

// ForceAll - verify everything and wait until done
func (w *Worker) ForceAll() error {
	return w.wait(cmdForceAll)
}

// Sync - wait until all earlier requests were handled
func (w *Worker) Sync() error {
	return w.wait(cmdSync)
}

// PeekSize - count of queued messages
func (w *Worker) PeekSize() int {
	return w.queue.PeekSize()
}

func (w *Worker) wait(c command) error {
	done := make(chan struct{})
	err := w.send(request{
		command: c,
		done:    done,
	})
	if nil != err {
		return err
	}
	select {
	case <-done:
		return nil
	case <-w.stopped:
		return fault.ErrQueueStopped
	}
}

func (w *Worker) send(r request) error {
	select {
	case <-w.stopped:
		return fault.ErrQueueStopped
	default:
	}
	select {
	case w.requests <- r:
		return nil
	case <-w.stopped:
		return fault.ErrQueueStopped
	}
}

// Run - background.Process loop
//
// requests still buffered when shutdown closes are discarded
func (w *Worker) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	defer close(w.stopped)

	log.Info("starting…")

	delay := time.After(w.idle)
loop:
	for {
		select {
		case <-shutdown:
			break loop

		case r := <-w.requests:
			w.handle(r)
			delay = time.After(w.idle)

		case <-delay:
			delay = time.After(w.idleForce())
		}
	}

	log.Infof("stopped  pending: %d", w.queue.PeekSize())
}

func (w *Worker) handle(r request) {
	switch r.command {
	case cmdAdd:
		err := w.queue.Add(r.m)
		if nil != err {
			w.log.Warnf("add: %v  error: %s", r.m, err)
		}
	case cmdForceUser:
		w.queue.ForceUser(r.recipient, r.timestamp)
	case cmdForceAll:
		w.queue.ForceAll()
	case cmdSync:
	default:
		w.log.Errorf("unknown command: %d", r.command)
	}
	if nil != r.done {
		close(r.done)
	}
}

// force one message if allowed, returns the delay until the next try
func (w *Worker) idleForce() time.Duration {
	if 0 == w.queue.PeekSize() {
		return w.idle
	}

	r := w.limiter.Reserve()
	if !r.OK() {
		return w.idle
	}
	if d := r.Delay(); d > 0 {
		r.Cancel()
		return d
	}

	w.queue.ForceOldest()
	if nil != w.stats {
		w.stats.IdleForce()
	}
	w.log.Debugf("idle force  pending: %d", w.queue.PeekSize())
	return w.idle
}
