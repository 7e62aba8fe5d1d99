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

// newTwoBlockChainState bootstraps a ChainStateCore already holding two
// records (heights 0 and 1, one target-timespan apart with matching bits so
// a ratio-1 DigiShield retarget reproduces the same bits exactly), its
// append tree advanced in lockstep so EnsureInternalConsistency holds from
// the start.
func newTwoBlockChainState(t *testing.T) (*ChainStateCore, chainhash.Hash, chainhash.Hash) {
	t.Helper()

	params := chaincfg.MainNetParams
	params.StrictChainID = false

	const capacity = 16
	h0 := chainhash.Hash{0xaa}
	h1 := chainhash.Hash{0xbb}

	tree := NewEmptyFixedAppendTree(params.BlockTreeHeight)
	tree.Append(h0)
	rootAfter0 := tree.Root()
	tree.Append(h1)
	rootAfter1 := tree.Root()

	records := make([]BlockDataRecord, capacity)
	records[0] = BlockDataRecord{BlockHash: h0, BlockHashTreeRoot: rootAfter0, Timestamp: htFirstBlockTime, Bits: htLastBits}
	records[1] = BlockDataRecord{BlockHash: h1, BlockHashTreeRoot: rootAfter1, Timestamp: htLastBlockTime, Bits: htLastBits}

	tracker := NewBlockDataTracker(capacity, 4, 1, 1, records)
	state := NewChainStateCore(&params, tracker, tree)

	require.NoError(t, state.EnsureInternalConsistency())
	return state, h0, h1
}

func candidateHeaderExtending(tipHash chainhash.Hash) *wire.BlockHeader {
	return &wire.BlockHeader{
		Version:   1,
		PrevBlock: tipHash,
		Timestamp: time.Unix(htCurrentTime, 0),
		Bits:      htLastBits,
	}
}

func TestChainStateCoreAppendBlockSuccess(t *testing.T) {
	state, _, h1 := newTwoBlockChainState(t)

	header := candidateHeaderExtending(h1)
	err := state.AppendBlock(2, header, &zeroPoWHash)
	require.NoError(t, err)

	require.Equal(t, uint32(2), state.GetTipBlockNumber())
	require.Equal(t, header.BlockHash(), state.GetTipBlockHash())
	require.NoError(t, state.EnsureInternalConsistency())
}

func TestChainStateCoreAppendBlockAlreadyInCache(t *testing.T) {
	state, h0, _ := newTwoBlockChainState(t)

	header := candidateHeaderExtending(h0)
	err := state.AppendBlock(1, header, &zeroPoWHash)
	require.True(t, IsErrorCode(err, ErrInsertBlockAlreadyInCache))
}

func TestChainStateCoreAppendBlockNotAtTip(t *testing.T) {
	state, _, h1 := newTwoBlockChainState(t)

	header := candidateHeaderExtending(h1)
	err := state.AppendBlock(5, header, &zeroPoWHash)
	require.True(t, IsErrorCode(err, ErrInsertBlockNotAtTip))
}

func TestChainStateCoreAppendBlockInvalidParentHash(t *testing.T) {
	state, _, _ := newTwoBlockChainState(t)

	header := candidateHeaderExtending(chainhash.Hash{0xff})
	err := state.AppendBlock(2, header, &zeroPoWHash)
	require.True(t, IsErrorCode(err, ErrInvalidParentBlockHash))
}

func TestChainStateCoreAppendBlockAuxPowMissing(t *testing.T) {
	state, _, h1 := newTwoBlockChainState(t)

	header := candidateHeaderExtending(h1)
	header.Version |= wire.VersionAuxPow
	err := state.AppendBlock(2, header, &zeroPoWHash)
	require.True(t, IsErrorCode(err, ErrAuxPowMissing))
}

func TestChainStateCoreAppendBlockAuxPowNotExpected(t *testing.T) {
	state, _, h1 := newTwoBlockChainState(t)

	header := candidateHeaderExtending(h1)
	header.AuxPowHeader = &wire.AuxPowHeader{}
	err := state.AppendBlock(2, header, &zeroPoWHash)
	require.True(t, IsErrorCode(err, ErrAuxPowNotExpected))
}
