// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qedprotocol/doge-bridge-verifier/chaincfg"
	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
	"github.com/qedprotocol/doge-bridge-verifier/wire"
)

// headerTestParams and the ht* constants give every CheckBlockHeader test a shared,
// hand-checked-by-arithmetic baseline: lastBits 0x1d0fffff retargets to
// itself exactly, since firstBlockTime sits precisely one powTargetTimespan
// before lastBlockTime (actual timespan == target timespan, ratio 1).
func headerTestParams() *chaincfg.Params {
	p := chaincfg.MainNetParams
	return &p
}

const (
	htLastHeight     = 100
	htLastBlockTime  = 1000
	htLastBits       = 0x1d0fffff
	htFirstBlockTime = 940
	htCurrentTime    = 1060
)

func baseTestHeader() *wire.BlockHeader {
	return &wire.BlockHeader{
		Version:   1,
		Timestamp: time.Unix(htCurrentTime, 0),
		Bits:      htLastBits,
	}
}

// Known-answer mainnet retarget at height 145001, carried over from the
// upstream DigiShield reference implementation's own regression test.
func TestCalcNextWorkRequiredFullMainnetDigiShield(t *testing.T) {
	const (
		lastHeight        = 145001
		lastBlockTime     = 1395094727
		lastBits          = 0x1b671062
		firstBlockTime    = 1395094679
		powTargetTimespan = 60
		expectedNextBits  = 0x1b6558a4
	)

	powLimit := NewBTCDifficultyFromBits(0x1d0fffff)

	got := calcNextWorkRequiredFull(lastHeight, lastBlockTime, lastBits, firstBlockTime,
		powTargetTimespan, powLimit, true)
	require.Equal(t, uint32(expectedNextBits), got)
}

func TestAllowMinDifficultyForBlock(t *testing.T) {
	params := &chaincfg.TestNetParams
	require.False(t, allowMinDifficultyForBlock(params, 1000, 1000))
	require.True(t, allowMinDifficultyForBlock(params, 1000+2*params.PowTargetSpacing+1, 1000))
}

// zeroPoWHash always satisfies CheckProofOfWork: its compact-difficulty
// encoding is zero, the smallest possible value, so it is <= any positive
// target.
var zeroPoWHash = chainhash.Hash{}

// maxPoWHash never satisfies CheckProofOfWork against a realistic target:
// its huge exponent makes it compare greater than any ordinary header bits.
var maxPoWHash = chainhash.Hash{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

func TestCheckBlockHeaderAuxPowVersionBitsMismatch(t *testing.T) {
	params := headerTestParams()
	params.StrictChainID = false

	// Version bit set, AuxPoW payload missing.
	h := baseTestHeader()
	h.Version |= wire.VersionAuxPow
	err := CheckBlockHeader(params, htLastHeight, h, htLastBlockTime, htLastBits, htFirstBlockTime, &zeroPoWHash)
	require.True(t, IsErrorCode(err, ErrAuxPowVersionBitsMismatch))

	// Version bit unset, AuxPoW payload present: the symmetric mismatch.
	h2 := baseTestHeader()
	h2.AuxPowHeader = &wire.AuxPowHeader{}
	err = CheckBlockHeader(params, htLastHeight, h2, htLastBlockTime, htLastBits, htFirstBlockTime, &zeroPoWHash)
	require.True(t, IsErrorCode(err, ErrAuxPowVersionBitsMismatch))
}

func TestCheckBlockHeaderChainIdMismatch(t *testing.T) {
	params := headerTestParams()
	require.True(t, params.StrictChainID)

	h := baseTestHeader()
	h.SetChainID(int32(params.AuxPowChainID) + 1)

	err := CheckBlockHeader(params, htLastHeight, h, htLastBlockTime, htLastBits, htFirstBlockTime, &zeroPoWHash)
	require.True(t, IsErrorCode(err, ErrAuxPowChainIdMismatch))
}

func TestCheckBlockHeaderDifficultyBitsMismatch(t *testing.T) {
	params := headerTestParams()
	params.StrictChainID = false

	h := baseTestHeader()
	h.Bits = htLastBits - 1

	err := CheckBlockHeader(params, htLastHeight, h, htLastBlockTime, htLastBits, htFirstBlockTime, &zeroPoWHash)
	require.True(t, IsErrorCode(err, ErrDifficultyBitsMismatch))
}

func TestCheckBlockHeaderStandardPoWSuccess(t *testing.T) {
	params := headerTestParams()
	params.StrictChainID = false

	h := baseTestHeader()
	err := CheckBlockHeader(params, htLastHeight, h, htLastBlockTime, htLastBits, htFirstBlockTime, &zeroPoWHash)
	require.NoError(t, err)
}

func TestCheckBlockHeaderStandardPoWCheckFailed(t *testing.T) {
	params := headerTestParams()
	params.StrictChainID = false

	h := baseTestHeader()
	err := CheckBlockHeader(params, htLastHeight, h, htLastBlockTime, htLastBits, htFirstBlockTime, &maxPoWHash)
	require.True(t, IsErrorCode(err, ErrStandardPoWCheckFailed))
}

func TestCheckBlockHeaderAuxPowParentPoWCheckFailed(t *testing.T) {
	params := headerTestParams()
	params.StrictChainID = false

	h := baseTestHeader()
	h.Version |= wire.VersionAuxPow
	h.AuxPowHeader = &wire.AuxPowHeader{}

	err := CheckBlockHeader(params, htLastHeight, h, htLastBlockTime, htLastBits, htFirstBlockTime, &maxPoWHash)
	require.True(t, IsErrorCode(err, ErrAuxPowParentBlockPoWCheckFailed))
}
