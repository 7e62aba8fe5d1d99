// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"

	"github.com/qedprotocol/doge-bridge-verifier/chaincfg"
	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
	"github.com/qedprotocol/doge-bridge-verifier/wire"
)

// translateAuxPowError maps a sentinel error from wire.AuxPowHeader.Check
// into this package's stable numeric RuleError taxonomy.
func translateAuxPowError(err error) error {
	switch {
	case errors.Is(err, wire.ErrAuxPowSideMaskNonZero):
		return ruleError(ErrAuxPowCoinBaseBranchSideMaskNonZero, err.Error())
	case errors.Is(err, wire.ErrAuxPowChainBranchTooLong):
		return ruleError(ErrAuxPowChainMerkleBranchTooLong, err.Error())
	case errors.Is(err, wire.ErrAuxPowCoinbaseNotInParentBranch):
		return ruleError(ErrIncorrectAuxPowMerkleRoot, err.Error())
	case errors.Is(err, wire.ErrAuxPowCoinbaseNoInputs):
		return ruleError(ErrAuxPowCoinbaseNoInputs, err.Error())
	case errors.Is(err, wire.ErrAuxPowHashNotInCoinbase):
		return ruleError(ErrAuxPowCoinbaseMissingChainMerkleRoot, err.Error())
	case errors.Is(err, wire.ErrAuxPowHeaderFoundTwice):
		return ruleError(ErrMergedMiningHeaderFoundTwiceInCoinbase, err.Error())
	case errors.Is(err, wire.ErrAuxPowHashWrongPosition):
		return ruleError(ErrMergedMiningHeaderNotFoundAtCoinbaseScriptStart, err.Error())
	case errors.Is(err, wire.ErrAuxPowHashTooLate):
		return ruleError(ErrAuxPowChainMerkleRootTooLateInCoinbaseInputScript, err.Error())
	case errors.Is(err, wire.ErrAuxPowNoRoomForParams):
		return ruleError(ErrAuxPowCoinbaseTransactionInputScriptTooShort, err.Error())
	case errors.Is(err, wire.ErrAuxPowInvalidMerkleSize):
		return ruleError(ErrAuxPowCoinbaseScriptInvalidNSize, err.Error())
	case errors.Is(err, wire.ErrAuxPowWrongChainIndex):
		return ruleError(ErrAuxPowCoinbaseScriptInvalidSideMask, err.Error())
	case errors.Is(err, wire.ErrAuxPowCoinbaseTooLarge):
		return ruleError(ErrAuxPowCoinbaseTransactionInputScriptTooShort, err.Error())
	default:
		return ruleError(ErrIncorrectAuxPowMerkleRoot, err.Error())
	}
}

// allowMinDifficultyForBlock reports whether params permits falling all the
// way back to the network's easiest target because currentBlockTime is more
// than two target-spacing intervals after lastBlockTime. Test networks only.
func allowMinDifficultyForBlock(params *chaincfg.Params, currentBlockTime, lastBlockTime int64) bool {
	return params.AllowMinDifficultyBlocks &&
		currentBlockTime > lastBlockTime+params.PowTargetSpacing*2
}

// GetNextWorkRequired computes the nBits a candidate header at lastHeight+1
// must carry, given the PoW context of the chain it extends.
func GetNextWorkRequired(params *chaincfg.Params, lastHeight uint32, lastBlockTime int64, lastBits uint32, firstBlockTime int64, currentBlockTime int64) uint32 {
	if allowMinDifficultyForBlock(params, currentBlockTime, lastBlockTime) {
		return params.PowLimitBits
	}
	return calcNextWorkRequiredFull(lastHeight, lastBlockTime, lastBits, firstBlockTime,
		params.PowTargetTimespan, NewBTCDifficultyFromBits(params.PowLimitBits), params.DigiShield)
}

// calcNextWorkRequiredFull reproduces Dogecoin's retarget formula: a
// DigiShield-style dampened per-block adjustment when digishield is set,
// else the legacy windowed formula with height-dependent clamp bounds.
func calcNextWorkRequiredFull(lastHeight uint32, lastBlockTime int64, lastBits uint32, firstBlockTime int64, powTargetTimespan int64, powLimit BTCDifficulty, digishield bool) uint32 {
	actualTimespan := lastBlockTime - firstBlockTime
	modulatedTimespan := actualTimespan
	minTimespan := powTargetTimespan / 16
	maxTimespan := powTargetTimespan * 4

	switch {
	case digishield:
		diff := (modulatedTimespan - powTargetTimespan) / 8
		modulatedTimespan = powTargetTimespan + diff
		minTimespan = powTargetTimespan - powTargetTimespan/4
		maxTimespan = powTargetTimespan + powTargetTimespan/2
	case lastHeight > 10000:
		minTimespan = powTargetTimespan / 4
		maxTimespan = powTargetTimespan * 4
	case lastHeight > 5000:
		minTimespan = powTargetTimespan / 8
		maxTimespan = powTargetTimespan * 4
	}

	if modulatedTimespan < minTimespan {
		modulatedTimespan = minTimespan
	} else if modulatedTimespan > maxTimespan {
		modulatedTimespan = maxTimespan
	}

	bnNew := NewBTCDifficultyFromBits(lastBits)
	bnNew = bnNew.AdjustForNextWork(modulatedTimespan, powTargetTimespan)

	if bnNew.IsGreaterThan(powLimit) {
		return powLimit.ToCompactBits()
	}
	return bnNew.ToCompactBits()
}

// CheckProofOfWork reports whether powHash (already in internal,
// little-endian-as-big-integer byte order) satisfies nBits under params,
// refusing both a zero target and one weaker than the network's PoW limit.
func CheckProofOfWork(params *chaincfg.Params, powHash chainhash.Hash, nBits uint32) bool {
	difficulty := NewBTCDifficultyFromBitsZeroOnOverflow(nBits)

	reversed := powHash
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	powHashDifficulty := NewBTCDifficultyFromHash(reversed)

	if difficulty.IsZero() || difficulty.IsGreaterThan(NewBTCDifficultyFromBits(params.PowLimitBits)) {
		return false
	}
	return powHashDifficulty.IsLessOrEqual(difficulty)
}

// CheckBlockHeader validates a single candidate header against the PoW
// context of the block it extends: AuxPoW presence matches the version bit,
// the chain id matches the network's policy, the retarget arithmetic
// matches, and the proof of work (parent header's, for an AuxPoW block)
// clears the required difficulty before the AuxPoW merge-mining proof
// itself is checked.
func CheckBlockHeader(params *chaincfg.Params, lastHeight uint32, header *wire.BlockHeader, lastBlockTime int64, lastBits uint32, firstBlockTime int64, knownPoWBlockHash *chainhash.Hash) error {
	if header.AuxPow() != (header.AuxPowHeader != nil) {
		return ruleError(ErrAuxPowVersionBitsMismatch, "header's AuxPoW version bit does not match AuxPoW header presence")
	}
	if params.StrictChainID && int32(params.AuxPowChainID) != header.GetChainID() {
		return ruleError(ErrAuxPowChainIdMismatch, "header chain id does not match network policy")
	}

	expectedBits := GetNextWorkRequired(params, lastHeight, lastBlockTime, lastBits, firstBlockTime, header.Timestamp.Unix())
	if expectedBits != header.Bits {
		return ruleError(ErrDifficultyBitsMismatch, "header bits do not match the retargeted difficulty")
	}

	if header.AuxPowHeader == nil {
		powHash := header.BlockPoWHash()
		if knownPoWBlockHash != nil {
			powHash = *knownPoWBlockHash
		}
		if !CheckProofOfWork(params, powHash, header.Bits) {
			return ruleError(ErrStandardPoWCheckFailed, "standard proof of work check failed")
		}
		return nil
	}

	powHash := header.AuxPowHeader.ParentBlockHeader.BlockPoWHash()
	if knownPoWBlockHash != nil {
		powHash = *knownPoWBlockHash
	}
	if !CheckProofOfWork(params, powHash, header.Bits) {
		return ruleError(ErrAuxPowParentBlockPoWCheckFailed, "AuxPoW parent block proof of work check failed")
	}
	if params.StrictChainID && header.AuxPowHeader.ParentBlockHeader.GetChainID() == header.GetChainID() {
		return ruleError(ErrAuxPowParentHasOurChainId, "AuxPoW parent block carries this network's chain id")
	}
	if err := header.AuxPowHeader.Check(header.BlockHash(), int32(header.GetChainID())); err != nil {
		return translateAuxPowError(err)
	}
	return nil
}
