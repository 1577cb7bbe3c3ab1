// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testingDirName = "testing"
)

func writeConfiguration(t *testing.T, content []byte) string {
	require.Nil(t, os.MkdirAll(testingDirName, 0700), "mkdir")
	fileName := filepath.Join(testingDirName, "lazyreplay.conf")
	require.Nil(t, ioutil.WriteFile(fileName, content, 0600), "write")
	return fileName
}

func TestSampleConfiguration(t *testing.T) {
	defer os.RemoveAll(testingDirName)

	sample, err := ioutil.ReadFile("lazyreplay.conf.sample")
	require.Nil(t, err, "read sample")
	fileName := writeConfiguration(t, sample)

	c, err := getConfiguration(fileName)
	require.Nil(t, err, "configuration")

	directory, err := filepath.Abs(testingDirName)
	require.Nil(t, err, "abs")

	assert.Equal(t, directory, filepath.Clean(c.DataDirectory), "data directory")
	assert.Equal(t, filepath.Join(directory, "messages.trace"), c.Replay.TraceFile, "trace file")
	assert.Equal(t, filepath.Join(directory, "log"), c.Logging.Directory, "log directory")
	assert.Equal(t, "lazyreplay.log", c.Logging.File, "log file default")
	assert.Equal(t, "info", c.Logging.Levels["DEFAULT"], "log level")
	assert.Equal(t, 1000, c.Queue.MaximumTrees, "maximum trees")
	assert.Equal(t, 1000, c.Queue.MaximumTreeSize, "maximum tree size")
	assert.Equal(t, 100, c.Worker.IdleDelay, "idle delay")
	assert.Equal(t, float64(50), c.Worker.IdleRate, "idle rate")
	assert.Equal(t, float64(1), c.Replay.Speed, "speed")
	assert.Equal(t, 100000, c.Replay.OverflowLimit, "overflow limit")
	assert.Equal(t, "127.0.0.1:9180", c.Statistics.Listen, "metrics listen")
	assert.Equal(t, "", c.PidFile, "no pid file")

	info, err := os.Stat(c.Logging.Directory)
	require.Nil(t, err, "log directory created")
	assert.True(t, info.IsDir(), "log directory is a directory")
}

func TestConfigurationErrors(t *testing.T) {
	defer os.RemoveAll(testingDirName)

	fileName := writeConfiguration(t, []byte("return {}\n"))
	_, err := getConfiguration(fileName)
	assert.NotNil(t, err, "blank data directory")

	fileName = writeConfiguration(t, []byte(`return { data_directory = ".", queue = { maximum_trees = 0 } }`))
	_, err = getConfiguration(fileName)
	assert.NotNil(t, err, "invalid limits")

	fileName = writeConfiguration(t, []byte(`return { data_directory = "/nonexistent/lazyreplay" }`))
	_, err = getConfiguration(fileName)
	assert.True(t, os.IsNotExist(err), "missing data directory")

	fileName = writeConfiguration(t, []byte(`return { data_directory = ".", logging = { file = "sub/x.log" } }`))
	_, err = getConfiguration(fileName)
	assert.NotNil(t, err, "log file with a path")
}
