// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/qedprotocol/doge-bridge-verifier/blockchain"
	"github.com/qedprotocol/doge-bridge-verifier/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	out, err := initLogRotator(cfg.LogDir, cfg.MaxLogFile)
	if err != nil {
		return fmt.Errorf("failed to init log rotator: %w", err)
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	backend := log.NewBackend(out)
	useLoggers(backend, cfg.logLevel())
	mainLog := backend.Logger("MAIN")

	params, err := cfg.networkParams()
	if err != nil {
		return err
	}

	mainLog.Infof("dogeverifyd starting, network=%s, capacity=%d, confirmations=%d",
		params.Name, params.BlockCacheCapacity, params.RequiredConfirmations)

	// A freshly constructed, empty chain state. A real deployment seeds
	// this from blockchain.FromInitData against a trusted checkpoint window
	// fetched by a separate network client; that client is outside this
	// shell's scope.
	tracker := blockchain.NewBlockDataTracker(params.BlockCacheCapacity, params.RequiredConfirmations, 0, 0,
		make([]blockchain.BlockDataRecord, params.BlockCacheCapacity))
	tree := blockchain.NewEmptyFixedAppendTree(params.BlockTreeHeight)
	state := blockchain.NewChainStateCore(params, tracker, tree)

	mainLog.Debugf("chain state ready at tip %d", state.GetTipBlockNumber())

	return nil
}
