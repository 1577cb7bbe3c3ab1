// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of each error so that callers can
// compare with == or test the class of an error with the IsErr*
// functions instead of matching strings.
//
// Structural corruption of the verification queue is not an error
// value: it is reported through Panic/Panicf which log to the PANIC
// channel before aborting.
package fault
