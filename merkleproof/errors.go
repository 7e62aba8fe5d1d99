// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package merkleproof parses and verifies the self-contained blob format a
// claimant submits to prove a transaction output exists in a finalized
// block: a Merkle sibling path into the block's transaction tree, followed
// by the raw transaction bytes.
package merkleproof

import "fmt"

// ErrorCode identifies a kind of transaction-in-block proof failure. Values
// mirror the bridge helper's own numeric error taxonomy (601-606) so a
// caller that already speaks that convention doesn't need a translation
// table.
type ErrorCode int

const (
	ErrInvalidTransactionProofBlob ErrorCode = 601 + iota
	ErrMismatchedTxMerkleRoots
	ErrInvalidProofTransactionData
	ErrInvalidProofTransactionVersion
	ErrInvalidProofTransactionLocktime
	ErrInvalidProofTransactionOutput
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidTransactionProofBlob:     "InvalidTransactionProofBlob",
	ErrMismatchedTxMerkleRoots:         "MismatchedTxMerkleRoots",
	ErrInvalidProofTransactionData:     "InvalidProofTransactionData",
	ErrInvalidProofTransactionVersion:  "InvalidProofTransactionVersion",
	ErrInvalidProofTransactionLocktime: "InvalidProofTransactionLocktime",
	ErrInvalidProofTransactionOutput:   "InvalidProofTransactionOutput",
}

func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(e))
}

// ProofError is a transaction-in-block proof failure carrying its stable
// numeric ErrorCode.
type ProofError struct {
	ErrorCode   ErrorCode
	Description string
}

func (e ProofError) Error() string { return e.Description }

func proofError(c ErrorCode, desc string) ProofError {
	return ProofError{ErrorCode: c, Description: desc}
}

// NewProofError builds a ProofError with the given code and description,
// for callers outside this package (notably claims) that need to surface
// one of this taxonomy's codes themselves.
func NewProofError(c ErrorCode, desc string) error {
	return proofError(c, desc)
}
