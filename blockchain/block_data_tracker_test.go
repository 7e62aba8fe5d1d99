// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func recordWithHash(i byte) BlockDataRecord {
	var h chainhash.Hash
	h[0] = i
	return BlockDataRecord{BlockHash: h}
}

func newFilledTracker(t *testing.T, capacity, requiredConfirmations uint32, numAppends int) *BlockDataTracker {
	tracker := NewBlockDataTracker(capacity, requiredConfirmations, 0, 0, make([]BlockDataRecord, capacity))
	for i := 0; i < numAppends; i++ {
		tracker.AddRecord(recordWithHash(byte(i + 1)))
	}
	return tracker
}

func TestBlockDataTrackerContainsBlockWindow(t *testing.T) {
	const capacity = 32
	tracker := newFilledTracker(t, capacity, 4, 40)

	require.True(t, tracker.ContainsBlock(40))
	require.True(t, tracker.ContainsBlock(9))
	require.False(t, tracker.ContainsBlock(8))
	require.False(t, tracker.ContainsBlock(41))
}

func TestBlockDataTrackerContainsBlockEarlyLife(t *testing.T) {
	// Before capacity blocks have ever been appended, the widened-arithmetic
	// check must not underflow and wrongly report old heights as live.
	tracker := newFilledTracker(t, 32, 0, 3)
	require.True(t, tracker.ContainsBlock(0))
	require.True(t, tracker.ContainsBlock(3))
	require.False(t, tracker.ContainsBlock(4))
}

func TestBlockDataTrackerRollbackBoundary(t *testing.T) {
	const capacity = 32
	const confirmations = 4
	tracker := newFilledTracker(t, capacity, confirmations, 40)

	// tip=40, finalized=36; rollback to tip-3=37 is within the
	// confirmation window and must succeed.
	err := tracker.RollbackInsert(37, []BlockDataRecord{recordWithHash(200), recordWithHash(201), recordWithHash(202)})
	require.NoError(t, err)
	require.Equal(t, uint32(40), tracker.TipBlockNumber())

	hash, err := tracker.GetBlockHash(40)
	require.NoError(t, err)
	require.Equal(t, byte(202), hash[0])
}

func TestBlockDataTrackerRollbackRefusesPastFinality(t *testing.T) {
	const capacity = 32
	const confirmations = 4
	tracker := newFilledTracker(t, capacity, confirmations, 40)

	// tip=40, finalized=36; rollback to tip-4=36 sits exactly at the
	// finalized height and must be refused.
	err := tracker.RollbackFirst(36, 4)
	require.Error(t, err)
	require.True(t, IsErrorCode(err, ErrAttemptedToModifyFinalizedBlock))
}

func TestBlockDataTrackerRollbackRefusesInsufficientReplacements(t *testing.T) {
	const capacity = 32
	const confirmations = 4
	tracker := newFilledTracker(t, capacity, confirmations, 40)

	err := tracker.RollbackFirst(37, 4)
	require.Error(t, err)
	require.True(t, IsErrorCode(err, ErrInsufficientBlocksProvidedForRollback))
}

func TestBlockDataTrackerGetPoWContext(t *testing.T) {
	tracker := NewBlockDataTracker(16, 0, 0, 0, make([]BlockDataRecord, 16))
	tracker.AddRecord(BlockDataRecord{Timestamp: 1000, Bits: 0x1d00ffff}) // becomes block 1
	tracker.AddRecord(BlockDataRecord{Timestamp: 1100, Bits: 0x1d00fffe}) // becomes block 2

	// Candidate block 3's PoW context is sourced from blocks 1 and 2.
	ctx, err := tracker.GetPoWContext(3)
	require.NoError(t, err)
	require.Equal(t, uint32(2), ctx.LastHeight)
	require.Equal(t, uint32(1100), ctx.LastBlockTime)
	require.Equal(t, uint32(0x1d00fffe), ctx.LastBits)
	require.Equal(t, uint32(1000), ctx.FirstBlockTime)
}

func TestBlockDataTrackerGetPoWContextNotInCache(t *testing.T) {
	tracker := NewBlockDataTracker(16, 0, 0, 0, make([]BlockDataRecord, 16))
	_, err := tracker.GetPoWContext(1)
	require.Error(t, err)
	require.True(t, IsErrorCode(err, ErrBlockNotInCache))
}
