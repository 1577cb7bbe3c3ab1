// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitmark-inc/batchsig/tracker"
)

// periodic log line with the current statistics
type statisticsLogger struct {
	log      *logger.L
	tracker  *tracker.Tracker
	pending  func() int
	interval time.Duration
}

func (s *statisticsLogger) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log

	log.Info("starting…")
	delay := time.After(s.interval)
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-delay:
			delay = time.After(s.interval)
			s.report()
		}
	}
	s.report()
	log.Info("stopped")
}

func (s *statisticsLogger) report() {
	text, err := json.Marshal(s.tracker.Snapshot())
	if nil != err {
		s.log.Errorf("marshal error: %s", err)
		return
	}
	s.log.Infof("pending: %d  stats: %s", s.pending(), text)
}

// serves /metrics until shutdown
type metricsServer struct {
	log    *logger.L
	server *http.Server
}

func newMetricsServer(listen string, collector prometheus.Collector) (*metricsServer, error) {
	registry := prometheus.NewRegistry()
	err := registry.Register(collector)
	if nil != err {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &metricsServer{
		log: logger.New("metrics"),
		server: &http.Server{
			Addr:    listen,
			Handler: mux,
		},
	}, nil
}

func (m *metricsServer) Run(args interface{}, shutdown <-chan struct{}) {
	log := m.log

	go func() {
		log.Infof("listen: %s", m.server.Addr)
		err := m.server.ListenAndServe()
		if nil != err && http.ErrServerClosed != err {
			log.Errorf("listen: %s  error: %s", m.server.Addr, err)
		}
	}()

	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := m.server.Shutdown(ctx)
	if nil != err {
		log.Errorf("shutdown error: %s", err)
	}
}
