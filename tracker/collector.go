// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tracker

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "batchsig"

// Collector - export a Tracker to prometheus
type Collector struct {
	tracker *Tracker
	pending func() int

	signatureChecks   *prometheus.Desc
	signatureFailures *prometheus.Desc
	spliceChecks      *prometheus.Desc
	spliceFailures    *prometheus.Desc
	idleForces        *prometheus.Desc
	evictions         *prometheus.Desc
	oversize          *prometheus.Desc
	pendingMessages   *prometheus.Desc
}

// NewCollector - pending may be nil if no queue size is available
func NewCollector(tracker *Tracker, pending func() int) *Collector {
	desc := func(name string, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}
	return &Collector{
		tracker:           tracker,
		pending:           pending,
		signatureChecks:   desc("signature_checks_total", "public key verifications performed"),
		signatureFailures: desc("signature_failures_total", "public key verifications that failed"),
		spliceChecks:      desc("splice_checks_total", "splice hash checks performed"),
		spliceFailures:    desc("splice_failures_total", "splice hash checks that failed"),
		idleForces:        desc("idle_forces_total", "messages forced while the queue was idle"),
		evictions:         desc("tree_evictions_total", "trees flushed to stay within the tree limit"),
		oversize:          desc("tree_oversize_total", "messages forced to stay within the tree size limit"),
		pendingMessages:   desc("pending_messages", "messages awaiting verification"),
	}
}

// Describe - prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.signatureChecks
	ch <- c.signatureFailures
	ch <- c.spliceChecks
	ch <- c.spliceFailures
	ch <- c.idleForces
	ch <- c.evictions
	ch <- c.oversize
	if nil != c.pending {
		ch <- c.pendingMessages
	}
}

// Collect - prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.tracker.Snapshot()

	counter := func(d *prometheus.Desc, v int64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	counter(c.signatureChecks, s.SignatureChecks)
	counter(c.signatureFailures, s.SignatureFailures)
	counter(c.spliceChecks, s.SpliceChecks)
	counter(c.spliceFailures, s.SpliceFailures)
	counter(c.idleForces, s.IdleForces)
	counter(c.evictions, s.Evictions)
	counter(c.oversize, s.Oversize)

	if nil != c.pending {
		ch <- prometheus.MustNewConstMetric(c.pendingMessages, prometheus.GaugeValue, float64(c.pending()))
	}
}
