// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "fmt"

// ErrorCode identifies a kind of error returned by the chain-state and
// header-acceptance logic. Values are stable across versions since they are
// the verifier's externally-visible error taxonomy (see the AuxPoW family
// 601-617 and the chain-tracker family 701-727).
type ErrorCode int

const (
	// AuxPoW / header acceptance family.

	ErrAuxPowVersionBitsMismatch ErrorCode = 601 + iota
	ErrAuxPowChainIdMismatch
	ErrDifficultyBitsMismatch
	ErrStandardPoWCheckFailed
	ErrAuxPowParentBlockPoWCheckFailed
	ErrAuxPowCoinBaseBranchSideMaskNonZero
	ErrAuxPowChainMerkleBranchTooLong
	ErrAuxPowParentHasOurChainId
	ErrIncorrectAuxPowMerkleRoot
	ErrAuxPowCoinbaseNoInputs
	ErrAuxPowCoinbaseMissingChainMerkleRoot
	ErrMergedMiningHeaderFoundTwiceInCoinbase
	ErrMergedMiningHeaderNotFoundAtCoinbaseScriptStart
	ErrAuxPowChainMerkleRootTooLateInCoinbaseInputScript
	ErrAuxPowCoinbaseTransactionInputScriptTooShort
	ErrAuxPowCoinbaseScriptInvalidNSize
	ErrAuxPowCoinbaseScriptInvalidSideMask
)

const (
	// Chain-state / ring-tracker / append-tree family.

	ErrBlockNotInCache ErrorCode = 701 + iota
	ErrAttemptedToModifyFinalizedBlock
	ErrInsufficientBlocksProvidedForRollback
	ErrInsertBlockAlreadyInCache
	ErrInsertBlockNotAtTip
	ErrInvalidParentBlockHash
	ErrAuxPowMissing
	ErrAuxPowNotExpected
	ErrBlockTipSyncMismatch
	ErrRollbackBlockTreeRootMismatch
	ErrRollbackBlockTreeIndexMismatch
)

const (
	ErrDuplicateMerkleSubtree ErrorCode = 712 + iota
	ErrMismatchedTxMerkleRoot
)

const (
	ErrRevertIndexTooHigh ErrorCode = 724 + iota
	ErrNotEnoughChangedLeftSiblings
	ErrRevertIndexNotPrefix
	ErrTooManyChangedLeftSiblings
)

var errorCodeStrings = map[ErrorCode]string{
	ErrAuxPowVersionBitsMismatch:                        "AuxPowVersionBitsMismatch",
	ErrAuxPowChainIdMismatch:                             "AuxPowChainIdMismatch",
	ErrDifficultyBitsMismatch:                            "DifficultyBitsMismatch",
	ErrStandardPoWCheckFailed:                            "StandardPoWCheckFailed",
	ErrAuxPowParentBlockPoWCheckFailed:                   "AuxPowParentBlockPoWCheckFailed",
	ErrAuxPowCoinBaseBranchSideMaskNonZero:               "AuxPowCoinBaseBranchSideMaskNonZero",
	ErrAuxPowChainMerkleBranchTooLong:                    "AuxPowChainMerkleBranchTooLong",
	ErrAuxPowParentHasOurChainId:                         "AuxPowParentHasOurChainId",
	ErrIncorrectAuxPowMerkleRoot:                         "IncorrectAuxPowMerkleRoot",
	ErrAuxPowCoinbaseNoInputs:                            "AuxPowCoinbaseNoInputs",
	ErrAuxPowCoinbaseMissingChainMerkleRoot:              "AuxPowCoinbaseMissingChainMerkleRoot",
	ErrMergedMiningHeaderFoundTwiceInCoinbase:            "MergedMiningHeaderFoundTwiceInCoinbase",
	ErrMergedMiningHeaderNotFoundAtCoinbaseScriptStart:   "MergedMiningHeaderNotFoundAtCoinbaseScriptStart",
	ErrAuxPowChainMerkleRootTooLateInCoinbaseInputScript: "AuxPowChainMerkleRootTooLateInCoinbaseInputScript",
	ErrAuxPowCoinbaseTransactionInputScriptTooShort:      "AuxPowCoinbaseTransactionInputScriptTooShort",
	ErrAuxPowCoinbaseScriptInvalidNSize:                  "AuxPowCoinbaseScriptInvalidNSize",
	ErrAuxPowCoinbaseScriptInvalidSideMask:                "AuxPowCoinbaseScriptInvalidSideMask",

	ErrBlockNotInCache:                       "BlockNotInCache",
	ErrAttemptedToModifyFinalizedBlock:       "AttemptedToModifyFinalizedBlock",
	ErrInsufficientBlocksProvidedForRollback: "InsufficientBlocksProvidedForRollback",
	ErrInsertBlockAlreadyInCache:             "InsertBlockAlreadyInCache",
	ErrInsertBlockNotAtTip:                   "InsertBlockNotAtTip",
	ErrInvalidParentBlockHash:                "InvalidParentBlockHash",
	ErrAuxPowMissing:                         "AuxPowMissing",
	ErrAuxPowNotExpected:                     "AuxPowNotExpected",
	ErrBlockTipSyncMismatch:                  "BlockTipSyncMismatch",
	ErrRollbackBlockTreeRootMismatch:         "RollbackBlockTreeRootMismatch",
	ErrRollbackBlockTreeIndexMismatch:        "RollbackBlockTreeIndexMismatch",

	ErrDuplicateMerkleSubtree: "DuplicateMerkleSubtree",
	ErrMismatchedTxMerkleRoot: "MismatchedTxMerkleRoot",

	ErrRevertIndexTooHigh:           "RevertIndexTooHigh",
	ErrNotEnoughChangedLeftSiblings: "NotEnoughChangedLeftSiblings",
	ErrRevertIndexNotPrefix:         "RevertIndexNotPrefix",
	ErrTooManyChangedLeftSiblings:   "TooManyChangedLeftSiblings",
}

// String returns the stringized name of the ErrorCode, or a numeric
// fallback for any code not in the known taxonomy.
func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(e))
}

// RuleError identifies a rule violation surfaced by header acceptance or
// chain-state mutation. It carries the stable numeric ErrorCode alongside a
// human-readable description for logging.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// IsErrorCode reports whether err is a RuleError carrying the given code.
func IsErrorCode(err error, c ErrorCode) bool {
	rerr, ok := err.(RuleError)
	return ok && rerr.ErrorCode == c
}
