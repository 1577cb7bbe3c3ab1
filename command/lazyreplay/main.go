// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/batchsig/background"
	"github.com/bitmark-inc/batchsig/fault"
	"github.com/bitmark-inc/batchsig/lazy"
	"github.com/bitmark-inc/batchsig/message"
	"github.com/bitmark-inc/batchsig/replay"
	"github.com/bitmark-inc/batchsig/signature"
	"github.com/bitmark-inc/batchsig/tracker"
	"github.com/bitmark-inc/batchsig/verifyqueue"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["help"]) > 0 || len(arguments) > 0 {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE", program)
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Infof("queue: %+v", theConfiguration.Queue)
	log.Infof("worker: %+v", theConfiguration.Worker)
	log.Infof("replay: %+v", theConfiguration.Replay)

	keys := signature.NewKeyring()
	stats := tracker.New()

	sink := &outcomes{
		log: logger.New("outcome"),
	}
	queue, err := lazy.New(stats.Primitives(signature.NewHistTree(keys)), sink, theConfiguration.Queue)
	if nil != err {
		log.Criticalf("queue initialise error: %s", err)
		exitwithstatus.Message("queue initialise error: %s", err)
	}
	queue.SetObserver(stats)

	worker, err := verifyqueue.New(queue, theConfiguration.Worker, stats)
	if nil != err {
		log.Criticalf("worker initialise error: %s", err)
		exitwithstatus.Message("worker initialise error: %s", err)
	}

	replayer, err := replay.New(worker, keys, theConfiguration.Replay)
	if nil != err {
		log.Criticalf("replay initialise error: %s", err)
		exitwithstatus.Message("replay initialise error: %s", err)
	}

	processes := background.Processes{worker}

	if theConfiguration.Statistics.Interval > 0 {
		processes = append(processes, &statisticsLogger{
			log:      logger.New("statistics"),
			tracker:  stats,
			pending:  worker.PeekSize,
			interval: time.Duration(theConfiguration.Statistics.Interval) * time.Second,
		})
	}

	if "" != theConfiguration.Statistics.Listen {
		server, err := newMetricsServer(theConfiguration.Statistics.Listen, tracker.NewCollector(stats, worker.PeekSize))
		if nil != err {
			log.Criticalf("metrics initialise error: %s", err)
			exitwithstatus.Message("metrics initialise error: %s", err)
		}
		processes = append(processes, server)
	}

	services := background.Start(processes, nil)
	defer services.Stop()

	// the replay stops separately so the worker is still running
	// while the final force all completes
	replaying := background.Start(background.Processes{replayer}, nil)

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-ch:
		log.Infof("received signal: %v", sig)
		if 0 == len(options["quiet"]) {
			fmt.Printf("\nreceived signal: %v\n", sig)
			fmt.Printf("\nshutting down…\n")
		}
	case <-replayer.Done():
	}
	replaying.Stop()
	services.Stop()

	summary, err := replayer.Result()
	if 0 == len(options["quiet"]) {
		fmt.Printf("records: %d  messages: %d  rejected: %d  logins: %d  forced: %d  keys: %d\n",
			summary.Records, summary.Messages, summary.Rejected, summary.Logins, summary.Forced, summary.Keys)
	}
	if len(options["verbose"]) > 0 {
		s := stats.Snapshot()
		fmt.Printf("signature checks: %d  splice checks: %d  idle forces: %d  evictions: %d  oversize: %d\n",
			s.SignatureChecks, s.SpliceChecks, s.IdleForces, s.Evictions, s.Oversize)
		fmt.Printf("valid: %d  invalid: %d\n", sink.valid, sink.invalid)
	}
	if nil != err {
		log.Errorf("replay error: %s", err)
		exitwithstatus.Message("%s: replay error: %s", program, err)
	}

	log.Info("shutting down…")
}

// final destination of every verified message
//
// only called from the worker goroutine
type outcomes struct {
	log     *logger.L
	valid   int
	invalid int
}

func (o *outcomes) Validated(m message.Message, valid bool) {
	if valid {
		o.valid += 1
		o.log.Debugf("valid: %v  created: %s", m, m.CreationTime().Format(time.RFC3339Nano))
		return
	}
	o.invalid += 1
	o.log.Warnf("invalid: %v", m)
}
