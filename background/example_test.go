// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"fmt"

	"github.com/bitmark-inc/batchsig/background"
)

type worker struct {
	started chan struct{}
}

func Example() {
	w := &worker{
		started: make(chan struct{}),
	}

	p := background.Start(background.Processes{w}, "queue")
	<-w.started
	p.Stop()

	// Output:
	// start: queue
	// stop: queue
}

func (w *worker) Run(args interface{}, shutdown <-chan struct{}) {
	fmt.Printf("start: %s\n", args)
	close(w.started)
	<-shutdown
	fmt.Printf("stop: %s\n", args)
}
