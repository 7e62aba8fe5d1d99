// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"

// BlockDataRecord is the fixed-size per-height record held by the ring
// tracker: the append-tree root immediately after this block's hash was
// appended, the block hash itself, the block's own transaction Merkle root,
// and the header's timestamp/bits.
type BlockDataRecord struct {
	BlockHashTreeRoot chainhash.Hash
	BlockHash         chainhash.Hash
	TxTreeMerkleRoot  chainhash.Hash
	Timestamp         uint32
	Bits              uint32
}

// PoWBlockContext carries the retargeting inputs a candidate header at a
// given height must be checked against.
type PoWBlockContext struct {
	LastHeight     uint32
	LastBlockTime  uint32
	LastBits       uint32
	FirstBlockTime uint32
}

// BlockDataTracker is a fixed-capacity ring buffer of recent block records,
// indexed by block number modulo capacity, with rollback support. Capacity
// and required-confirmation count are runtime parameters here rather than
// Rust-style const generics since Go has no compile-time integer generics;
// callers construct one tracker per chain configuration (see
// chaincfg.Params).
type BlockDataTracker struct {
	capacity              uint32
	requiredConfirmations uint32

	tipBlockNumber    uint32
	tipInternalIndex  uint16
	records           []BlockDataRecord
}

// NewBlockDataTracker creates a tracker of the given capacity and
// confirmation depth over the caller-supplied records slice, with tip at
// tipBlockNumber/tipInternalIndex. Used by FromInitData to seed a tracker
// from an out-of-band initializer window.
func NewBlockDataTracker(capacity, requiredConfirmations uint32, tipBlockNumber uint32, tipInternalIndex uint16, records []BlockDataRecord) *BlockDataTracker {
	return &BlockDataTracker{
		capacity:              capacity,
		requiredConfirmations: requiredConfirmations,
		tipBlockNumber:        tipBlockNumber,
		tipInternalIndex:      tipInternalIndex,
		records:               records,
	}
}

// TipBlockNumber returns the height of the most recently appended block.
func (t *BlockDataTracker) TipBlockNumber() uint32 { return t.tipBlockNumber }

// TipInternalIndex returns the ring slot currently holding the tip.
func (t *BlockDataTracker) TipInternalIndex() uint16 { return t.tipInternalIndex }

// FinalizedBlockNumber returns tip - K: the highest height whose record is
// guaranteed immutable.
func (t *BlockDataTracker) FinalizedBlockNumber() uint32 {
	return t.tipBlockNumber - t.requiredConfirmations
}

// Capacity returns C, the ring's fixed slot count.
func (t *BlockDataTracker) Capacity() uint32 { return t.capacity }

// AddRecord appends record as the new tip, overwriting the oldest slot.
func (t *BlockDataTracker) AddRecord(record BlockDataRecord) {
	newTipIndex := (uint32(t.tipInternalIndex) + 1) % t.capacity
	t.records[newTipIndex] = record
	t.tipInternalIndex = uint16(newTipIndex)
	t.tipBlockNumber++
}

// ContainsBlock reports whether blockNumber's record is still live, using
// widened arithmetic so the check is correct even before C blocks have been
// observed (tip < C), per the design note on early-life underflow.
func (t *BlockDataTracker) ContainsBlock(blockNumber uint32) bool {
	tip := int64(t.tipBlockNumber)
	return int64(blockNumber) <= tip && int64(blockNumber) > tip-int64(t.capacity)
}

// ContainsBlockRange reports whether every height in
// [startInclusive, endInclusive] is live.
func (t *BlockDataTracker) ContainsBlockRange(startInclusive, endInclusive uint32) bool {
	tip := int64(t.tipBlockNumber)
	return int64(endInclusive) <= tip && int64(startInclusive) > tip-int64(t.capacity)
}

func (t *BlockDataTracker) getIndexForBlockUnchecked(blockNumber uint32) uint32 {
	offset := t.tipBlockNumber - blockNumber
	return (t.capacity + uint32(t.tipInternalIndex) - offset) % t.capacity
}

// GetPoWContext returns the retargeting inputs for a candidate at
// blockNumber, sourced from the records at blockNumber-1 and blockNumber-2.
func (t *BlockDataTracker) GetPoWContext(blockNumber uint32) (PoWBlockContext, error) {
	if blockNumber < 2 || !t.ContainsBlockRange(blockNumber-2, blockNumber-1) {
		return PoWBlockContext{}, ruleError(ErrBlockNotInCache, "block height out of cached range for PoW context")
	}
	lastIndex := t.getIndexForBlockUnchecked(blockNumber - 1)
	firstIndex := t.getIndexForBlockUnchecked(blockNumber - 2)
	return PoWBlockContext{
		LastHeight:     blockNumber - 1,
		LastBlockTime:  t.records[lastIndex].Timestamp,
		LastBits:       t.records[lastIndex].Bits,
		FirstBlockTime: t.records[firstIndex].Timestamp,
	}, nil
}

// GetRecord returns a copy of the record at blockNumber.
func (t *BlockDataTracker) GetRecord(blockNumber uint32) (BlockDataRecord, error) {
	if !t.ContainsBlock(blockNumber) {
		return BlockDataRecord{}, ruleError(ErrBlockNotInCache, "block not in cache")
	}
	return t.records[t.getIndexForBlockUnchecked(blockNumber)], nil
}

// GetBlockHash returns the block hash recorded at blockNumber.
func (t *BlockDataTracker) GetBlockHash(blockNumber uint32) (chainhash.Hash, error) {
	rec, err := t.GetRecord(blockNumber)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return rec.BlockHash, nil
}

// RollbackFirst moves the tip back to lastGoodBlockNumber, refusing to cross
// the finality threshold or to accept more replacement blocks
// (numBlocksToInsert) than the rollback removes.
func (t *BlockDataTracker) RollbackFirst(lastGoodBlockNumber uint32, numBlocksToInsert int) error {
	if lastGoodBlockNumber == t.tipBlockNumber {
		return nil
	}
	if !t.ContainsBlock(lastGoodBlockNumber) {
		return ruleError(ErrBlockNotInCache, "rollback target not in cache")
	}
	offset := t.tipBlockNumber - lastGoodBlockNumber
	if offset >= t.requiredConfirmations {
		return ruleError(ErrAttemptedToModifyFinalizedBlock, "rollback target is already finalized")
	}
	if uint32(numBlocksToInsert) > offset {
		return ruleError(ErrInsufficientBlocksProvidedForRollback, "not enough replacement blocks provided for rollback")
	}
	t.tipInternalIndex = uint16((t.capacity + uint32(t.tipInternalIndex) - offset) % t.capacity)
	t.tipBlockNumber = lastGoodBlockNumber
	return nil
}

// RollbackInsert rolls back to lastGoodBlockNumber then re-appends blocks in
// order.
func (t *BlockDataTracker) RollbackInsert(lastGoodBlockNumber uint32, blocks []BlockDataRecord) error {
	if err := t.RollbackFirst(lastGoodBlockNumber, len(blocks)); err != nil {
		return err
	}
	for _, b := range blocks {
		t.AddRecord(b)
	}
	return nil
}
