// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"
)

// hold a logger channel
var log *logger.L

// Initialise - setup a log channel for last attempt to log something
func Initialise() error {
	if nil != log {
		return ErrAlreadyInitialised
	}
	log = logger.New("PANIC")
	if nil == log {
		return ErrInvalidLoggerChannel
	}
	return nil
}

// Finalise - flush any data
func Finalise() {
	if nil != log {
		log.Flush()
		log = nil
	}
}

// Panicf - log the caller location and message then panic
//
// used when a queue structure is found to be inconsistent, the
// message is logged before the panic so it survives a recover
func Panicf(format string, arguments ...interface{}) {
	internalCriticalf(2, format, arguments...)
	Panic(fmt.Sprintf(format, arguments...))
}

// Panic - final panic
func Panic(message string) {
	internalCriticalf(0, "%s", message)
	if nil != log {
		time.Sleep(100 * time.Millisecond) // to allow logging output
	}
	panic(message)
}

// PanicIfError - conditional panic
func PanicIfError(message string, err error) {
	if nil == err {
		return
	}
	Panic(fmt.Sprintf("%s failed with error: %v", message, err))
}

// skip == 0 means no caller prefix
func internalCriticalf(skip int, format string, arguments ...interface{}) {
	if skip > 0 {
		if _, file, line, ok := runtime.Caller(skip); ok {
			a := make([]interface{}, 2, 2+len(arguments))
			a[0] = file
			a[1] = line
			arguments = append(a, arguments...)
			format = "(%q:%d) " + format
		}
	}
	if nil == log {
		fmt.Printf("*** "+format+"\n", arguments...)
	} else {
		log.Criticalf(format, arguments...)
		log.Flush() // make sure log file is saved
	}
}
