// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/batchsig/configuration"
	"github.com/bitmark-inc/batchsig/lazy"
	"github.com/bitmark-inc/batchsig/replay"
	"github.com/bitmark-inc/batchsig/trace"
	"github.com/bitmark-inc/batchsig/verifyqueue"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultTraceFile      = "messages.trace"
	defaultSpeed          = 1.0
	defaultSessionTimeout = 0 // sessions never expire
	defaultOverflowLimit  = 100000

	defaultStatisticsInterval = 60 // seconds

	defaultLogDirectory = "log"
	defaultLogFile      = "lazyreplay.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// StatisticsType - where and how often statistics are published
type StatisticsType struct {
	Listen   string `gluamapper:"listen" json:"listen"`     // blank => no metrics endpoint
	Interval int    `gluamapper:"interval" json:"interval"` // seconds, 0 => no log output
}

// Configuration - contents of the Lua configuration file
type Configuration struct {
	DataDirectory string                    `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                    `gluamapper:"pidfile" json:"pidfile"`
	Queue         lazy.Limits               `gluamapper:"queue" json:"queue"`
	Worker        verifyqueue.Configuration `gluamapper:"worker" json:"worker"`
	Replay        replay.Configuration      `gluamapper:"replay" json:"replay"`
	Statistics    StatisticsType            `gluamapper:"statistics" json:"statistics"`
	Logging       logger.Configuration      `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Queue:         lazy.DefaultLimits(),
		Worker:        verifyqueue.DefaultConfiguration(),
		Replay: replay.Configuration{
			TraceFile:         defaultTraceFile,
			Speed:             defaultSpeed,
			SessionTimeout:    defaultSessionTimeout,
			OverflowLimit:     defaultOverflowLimit,
			MaximumRecordSize: trace.DefaultMaximumRecordSize,
		},
		Statistics: StatisticsType{
			Interval: defaultStatisticsInterval,
		},
		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	if err := options.Queue.Validate(); nil != err {
		return nil, fmt.Errorf("queue: %s", err)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Replay.TraceFile,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = configuration.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	if "" != options.PidFile {
		options.PidFile = configuration.EnsureAbsolute(options.DataDirectory, options.PidFile)
	}

	// log file must be a plain name
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, fmt.Errorf("Files: %q is not plain name", options.Logging.File)
	}

	// create the log directory if it does not already exist
	if err := os.MkdirAll(options.Logging.Directory, 0700); nil != err {
		return nil, err
	}

	// done
	return options, nil
}
