// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command dogeverifyd is a thin operational shell around the verifier core:
// it parses network and logging configuration and hands off a constructed
// chaincfg.Params to whatever host environment embeds the core (an on-chain
// program, a bridge relay, a test harness). It performs no network I/O of
// its own; fetching headers and blocks from a remote indexer is the job of
// a separate client this package does not implement.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"

	"github.com/qedprotocol/doge-bridge-verifier/chaincfg"
	"github.com/qedprotocol/doge-bridge-verifier/log"
)

const (
	defaultLogFilename = "dogeverifyd.log"
	defaultLogLevel    = "info"
	defaultMaxLogRolls = 3
)

// config holds the command-line-configurable knobs for the verifier shell.
// Fields mirror the btcd-style daemon config pattern: a struct with
// `long`/`description` go-flags tags parsed straight from os.Args.
type config struct {
	Network    string `short:"n" long:"network" description:"Network to track (mainnet, testnet)" default:"mainnet"`
	LogDir     string `long:"logdir" description:"Directory to place log files in"`
	LogLevel   string `short:"l" long:"loglevel" description:"Logging level (trace, debug, info, warn, error, critical)" default:"info"`
	MaxLogFile int    `long:"maxlogrolls" description:"Maximum number of rotated log files to keep" default:"3"`
}

// loadConfig parses args with go-flags, falling back to built-in defaults
// for anything the caller omits.
func loadConfig(args []string) (*config, error) {
	cfg := config{
		Network:    "mainnet",
		LogLevel:   defaultLogLevel,
		MaxLogFile: defaultMaxLogRolls,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(os.TempDir(), "dogeverifyd")
	}

	return &cfg, nil
}

// networkParams resolves the configured network name to a chaincfg.Params.
func (c *config) networkParams() (*chaincfg.Params, error) {
	switch c.Network {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %q", c.Network)
	}
}

// logLevel resolves the configured level string, falling back to info with
// a warning written directly to stderr since the logger is not yet wired
// at the point this is called.
func (c *config) logLevel() log.Level {
	level, ok := log.LevelFromString(c.LogLevel)
	if !ok {
		fmt.Fprintf(os.Stderr, "unrecognized log level %q, defaulting to info\n", c.LogLevel)
	}
	return level
}
