// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/batchsig/trace"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "tracegen"
	app.Usage = "create and inspect message traces for lazyreplay"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "log-directory, l",
			Value: ".",
			Usage: " write tracegen.log to `DIR`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "write a synthetic signed trace",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "output, o",
					Value: "",
					Usage: "*trace `FILE` to create",
				},
				cli.IntFlag{
					Name:  "authors, a",
					Value: 4,
					Usage: " number of signing `AUTHORS`",
				},
				cli.IntFlag{
					Name:  "recipients, r",
					Value: 10,
					Usage: " number of `RECIPIENTS`",
				},
				cli.IntFlag{
					Name:  "trees, t",
					Value: 1,
					Usage: " history `TREES` per author",
				},
				cli.IntFlag{
					Name:  "messages, m",
					Value: 1000,
					Usage: " `COUNT` of data messages",
				},
				cli.IntFlag{
					Name:  "window, w",
					Value: 2,
					Usage: " each leaf splices the last `N` leaves",
				},
				cli.IntFlag{
					Name:  "payload-size, s",
					Value: 32,
					Usage: " payload `BYTES`",
				},
				cli.DurationFlag{
					Name:  "interval, i",
					Value: 10 * time.Millisecond,
					Usage: " clock step between messages `DURATION`",
				},
				cli.IntFlag{
					Name:  "login-every, e",
					Value: 50,
					Usage: " end buffering record after `N` messages, 0 for none",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: " random `SEED`",
				},
			},
			Action: runGenerate,
		},
		{
			Name:      "dump",
			Usage:     "print the records of a trace",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "input, f",
					Value: "",
					Usage: "*trace `FILE` to read",
				},
				cli.BoolFlag{
					Name:  "verify, c",
					Usage: " check every signature",
				},
			},
			Action: runDump,
		},
	}

	app.Before = func(c *cli.Context) error {
		logging := logger.Configuration{
			Directory: c.GlobalString("log-directory"),
			File:      "tracegen.log",
			Size:      1048576,
			Count:     10,
			Console:   false,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		}
		if c.GlobalBool("verbose") {
			logging.Levels[logger.DefaultTag] = "info"
		}
		return logger.Initialise(logging)
	}

	app.After = func(c *cli.Context) error {
		logger.Finalise()
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func runGenerate(c *cli.Context) error {

	output := c.String("output")
	if "" == output {
		return fmt.Errorf("output file is required")
	}

	p := parameters{
		authors:     c.Int("authors"),
		recipients:  c.Int("recipients"),
		trees:       c.Int("trees"),
		messages:    c.Int("messages"),
		window:      c.Int("window"),
		payloadSize: c.Int("payload-size"),
		interval:    c.Duration("interval"),
		loginEvery:  c.Int("login-every"),
		seed:        c.Int64("seed"),
	}

	w, err := trace.CreateFile(output)
	if nil != err {
		return err
	}

	result, err := generate(w, p)
	if nil != err {
		w.Close()
		return err
	}

	err = w.Close()
	if nil != err {
		return err
	}

	return printJson(c.App.Writer, result)
}

func runDump(c *cli.Context) error {

	input := c.String("input")
	if "" == input {
		return fmt.Errorf("input file is required")
	}

	r, err := trace.OpenFile(input, 0)
	if nil != err {
		return err
	}
	defer r.Close()

	totals, err := dump(c.App.Writer, r, c.Bool("verify"))
	if nil != err {
		return err
	}

	if c.GlobalBool("verbose") {
		return printJson(c.App.ErrWriter, totals)
	}
	return nil
}

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}
