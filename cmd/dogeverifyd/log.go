// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"

	"github.com/qedprotocol/doge-bridge-verifier/blockchain"
	"github.com/qedprotocol/doge-bridge-verifier/claims"
	"github.com/qedprotocol/doge-bridge-verifier/log"
	"github.com/qedprotocol/doge-bridge-verifier/merkleproof"
	"github.com/qedprotocol/doge-bridge-verifier/txscript"
)

// logRotator rotates dogeverifyd's on-disk log file once it exceeds a
// threshold, keeping the configured number of prior rolls. It is set by
// initLogRotator and kept open for the life of the process.
var logRotator *rotator.Rotator

// initLogRotator opens (creating if necessary) a rotating log file in
// logDir and returns an io.Writer that also tees to stdout, mirroring the
// btcd daemon convention of logging to both a console and a rotated file.
func initLogRotator(logDir string, maxRolls int) (io.Writer, error) {
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return nil, err
	}

	logFile := filepath.Join(logDir, defaultLogFilename)
	r, err := rotator.New(logFile, maxRolls)
	if err != nil {
		return nil, err
	}
	logRotator = r

	return io.MultiWriter(os.Stdout, r), nil
}

// useLoggers installs a single backend across every package in the verifier
// core that exposes a package-level UseLogger, so one -loglevel flag governs
// all of them together.
func useLoggers(backend *log.Backend, level log.Level) {
	loggers := []struct {
		subsystem string
		use       func(log.Logger)
	}{
		{"CHST", blockchain.UseLogger},
		{"CLMS", claims.UseLogger},
		{"MKLP", merkleproof.UseLogger},
		{"TXSC", txscript.UseLogger},
	}
	for _, l := range loggers {
		logger := backend.Logger(l.subsystem)
		logger.SetLevel(level)
		l.use(logger)
	}
}
