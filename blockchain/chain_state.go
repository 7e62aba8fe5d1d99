// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/davecgh/go-spew/spew"

	"github.com/qedprotocol/doge-bridge-verifier/chaincfg"
	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
	"github.com/qedprotocol/doge-bridge-verifier/wire"
)

// ChainStateCore ties the ring-buffered recent-block tracker together with
// the append-only tree of block hashes it is checkpointed against, and
// carries the network parameters used to validate any header before it is
// admitted. This is the top-level object a bridge contract or light client
// persists between updates.
type ChainStateCore struct {
	Params           *chaincfg.Params
	BlockDataTracker *BlockDataTracker
	BlockTreeTracker *FixedAppendTree
}

// NewChainStateCore wires a tracker and append tree together under params.
func NewChainStateCore(params *chaincfg.Params, blockDataTracker *BlockDataTracker, blockTreeTracker *FixedAppendTree) *ChainStateCore {
	return &ChainStateCore{Params: params, BlockDataTracker: blockDataTracker, BlockTreeTracker: blockTreeTracker}
}

// ContainsBlock reports whether blockNumber is still a live ring entry.
func (c *ChainStateCore) ContainsBlock(blockNumber uint32) bool {
	return c.BlockDataTracker.ContainsBlock(blockNumber)
}

// ContainsBlockRange reports whether every height in the inclusive range is
// a live ring entry.
func (c *ChainStateCore) ContainsBlockRange(startInclusive, endInclusive uint32) bool {
	return c.BlockDataTracker.ContainsBlockRange(startInclusive, endInclusive)
}

// GetBlockHash returns the block hash recorded at blockNumber.
func (c *ChainStateCore) GetBlockHash(blockNumber uint32) (chainhash.Hash, error) {
	return c.BlockDataTracker.GetBlockHash(blockNumber)
}

// GetFinalizedBlockNumber returns tip - K.
func (c *ChainStateCore) GetFinalizedBlockNumber() uint32 {
	return c.BlockDataTracker.FinalizedBlockNumber()
}

// GetRecord returns the full cached record for blockNumber, including its
// transaction tree root, so a caller can verify a transaction-in-block proof
// against a finalized block without reaching into BlockDataTracker directly.
func (c *ChainStateCore) GetRecord(blockNumber uint32) (BlockDataRecord, error) {
	return c.BlockDataTracker.GetRecord(blockNumber)
}

// GetTipBlockNumber returns the height of the most recently accepted block.
func (c *ChainStateCore) GetTipBlockNumber() uint32 {
	return c.BlockDataTracker.TipBlockNumber()
}

// GetTipBlockHash returns the block hash at the tip.
func (c *ChainStateCore) GetTipBlockHash() chainhash.Hash {
	hash, _ := c.BlockDataTracker.GetBlockHash(c.GetTipBlockNumber())
	return hash
}

// GetFinalizedBlockHash returns the block hash at the finalized height.
func (c *ChainStateCore) GetFinalizedBlockHash() chainhash.Hash {
	hash, _ := c.BlockDataTracker.GetBlockHash(c.GetFinalizedBlockNumber())
	return hash
}

// EnsureInternalConsistency checks the two invariants that must hold
// between the ring tracker and the append tree after every mutation: the
// tree's frontier sits exactly one past the ring's tip, and the tree's most
// recently appended leaf is the ring tip's block hash.
func (c *ChainStateCore) EnsureInternalConsistency() error {
	if c.GetTipBlockNumber()+1 != uint32(c.BlockTreeTracker.NextIndex()) {
		log.Criticalf("ring tip / append tree frontier desync: %s", spew.Sdump(c))
		return ruleError(ErrBlockTipSyncMismatch, "ring tip and append tree frontier are out of sync")
	}
	if c.GetTipBlockHash() != c.BlockTreeTracker.Value() {
		log.Criticalf("ring tip hash / append tree value desync: %s", spew.Sdump(c))
		return ruleError(ErrBlockTipSyncMismatch, "ring tip hash does not match append tree frontier value")
	}
	return nil
}

// AppendBlock validates header against the PoW context implied by the
// chain it extends, then admits it as the new tip: the ring tracker gets a
// new record and the append tree gets the header's hash as its newest leaf.
// knownPoWBlockHash, when non-nil, is a pre-verified hash to substitute for
// hashing the (AuxPoW parent or standard) header directly — used when the
// caller has already computed it via another path and wants to avoid
// redundant hashing.
func (c *ChainStateCore) AppendBlock(blockNumber uint32, header *wire.BlockHeader, knownPoWBlockHash *chainhash.Hash) error {
	if c.ContainsBlock(blockNumber) {
		return ruleError(ErrInsertBlockAlreadyInCache, "block is already present in the cache")
	}
	if c.GetTipBlockNumber()+1 != blockNumber {
		return ruleError(ErrInsertBlockNotAtTip, "block number does not extend the current tip")
	}
	if header.PrevBlock != c.GetTipBlockHash() {
		return ruleError(ErrInvalidParentBlockHash, "header's previous block hash does not match the current tip")
	}
	if header.AuxPow() && header.AuxPowHeader == nil {
		return ruleError(ErrAuxPowMissing, "header's version bit requires an AuxPoW header but none was provided")
	}
	if !header.AuxPow() && header.AuxPowHeader != nil {
		return ruleError(ErrAuxPowNotExpected, "header does not set the AuxPoW version bit but an AuxPoW header was provided")
	}

	if err := c.EnsureInternalConsistency(); err != nil {
		return err
	}

	powContext, err := c.BlockDataTracker.GetPoWContext(blockNumber)
	if err != nil {
		return err
	}

	if err := CheckBlockHeader(c.Params, powContext.LastHeight, header, int64(powContext.LastBlockTime),
		powContext.LastBits, int64(powContext.FirstBlockTime), knownPoWBlockHash); err != nil {
		return err
	}

	newBlockHash := header.BlockHash()

	c.BlockTreeTracker.Append(newBlockHash)
	blockHashTreeRoot := c.BlockTreeTracker.Root()

	c.BlockDataTracker.AddRecord(BlockDataRecord{
		BlockHashTreeRoot: blockHashTreeRoot,
		BlockHash:         newBlockHash,
		TxTreeMerkleRoot:  header.MerkleRoot,
		Timestamp:         uint32(header.Timestamp.Unix()),
		Bits:              header.Bits,
	})

	log.Debugf("accepted block %d, hash %s, bits %#x", blockNumber, newBlockHash, header.Bits)

	return c.EnsureInternalConsistency()
}

// RollbackInsertBlocks reverts the chain state to lastGoodBlockNumber and
// re-appends blocks in order, used to apply a reorg below the finality
// threshold. treeTrackerChangedLeftSiblings are the append tree's changed
// left-sibling hashes needed to roll its frontier back (see
// FixedAppendTree.RevertToIndex), and knownPoWBlockHashes lets the caller
// supply pre-verified AuxPoW parent hashes for each replacement block,
// positionally aligned with blocks.
func (c *ChainStateCore) RollbackInsertBlocks(lastGoodBlockNumber uint32, treeTrackerChangedLeftSiblings []chainhash.Hash, blocks []*wire.BlockHeader, knownPoWBlockHashes []*chainhash.Hash) error {
	if err := c.EnsureInternalConsistency(); err != nil {
		return err
	}
	if len(blocks) != len(knownPoWBlockHashes) {
		return ruleError(ErrAuxPowMissing, "blocks and known proof-of-work hashes must be positionally aligned")
	}

	// A failed rollback restores both trackers to their state on entry.
	treeSnapshot := *c.BlockTreeTracker
	treeSnapshot.levels = append([]appendTreeLevel(nil), c.BlockTreeTracker.levels...)
	dataSnapshot := *c.BlockDataTracker
	dataSnapshot.records = append([]BlockDataRecord(nil), c.BlockDataTracker.records...)
	committed := false
	defer func() {
		if !committed {
			*c.BlockTreeTracker, *c.BlockDataTracker = treeSnapshot, dataSnapshot
		}
	}()

	goodRecord, err := c.BlockDataTracker.GetRecord(lastGoodBlockNumber)
	if err != nil {
		return err
	}

	if err := c.BlockTreeTracker.RevertToIndex(uint64(lastGoodBlockNumber), treeTrackerChangedLeftSiblings, goodRecord.BlockHash); err != nil {
		return err
	}
	if c.BlockTreeTracker.Root() != goodRecord.BlockHashTreeRoot {
		return ruleError(ErrRollbackBlockTreeRootMismatch, "append tree root after revert does not match the cached record root")
	}
	if c.BlockTreeTracker.NextIndex() != uint64(lastGoodBlockNumber)+1 {
		return ruleError(ErrRollbackBlockTreeIndexMismatch, "append tree frontier after revert does not match the rollback target")
	}

	if err := c.BlockDataTracker.RollbackFirst(lastGoodBlockNumber, len(blocks)); err != nil {
		return err
	}
	for i, block := range blocks {
		if err := c.AppendBlock(lastGoodBlockNumber+uint32(i)+1, block, knownPoWBlockHashes[i]); err != nil {
			return err
		}
	}

	log.Infof("rolled back to block %d and replayed %d replacement blocks", lastGoodBlockNumber, len(blocks))

	if err := c.EnsureInternalConsistency(); err != nil {
		return err
	}
	committed = true
	return nil
}

// InitBlockData is the out-of-band window a chain state is seeded from:
// the tip height, the fixed-capacity window of records ending at the tip
// (oldest first), and the append tree sibling path needed to resume the
// tree at records[0]'s position without replaying every earlier leaf.
type InitBlockData struct {
	TipBlockNumber       uint32
	Records              []BlockDataRecord
	TreeTrackerSiblings  []chainhash.Hash
}

// FromInitData builds a ChainStateCore from an InitBlockData window,
// reconstructing both the ring tracker and the append tree's running state
// without needing any block history prior to the window.
func FromInitData(params *chaincfg.Params, initData *InitBlockData) *ChainStateCore {
	capacity := uint32(len(initData.Records))
	tipBlockNumber := initData.TipBlockNumber

	startBlock := uint32(0)
	if tipBlockNumber >= capacity-1 {
		startBlock = tipBlockNumber - (capacity - 1)
	}

	appendTree := NewFixedAppendTreeFromState(params.BlockTreeHeight, uint64(startBlock)+1,
		initData.TreeTrackerSiblings, initData.Records[0].BlockHash)

	records := make([]BlockDataRecord, capacity)
	copy(records, initData.Records)
	records[0].BlockHashTreeRoot = appendTree.Root()

	for i := uint32(1); i < capacity; i++ {
		delta := appendTree.AppendDeltaMerkleProof(records[i].BlockHash)
		records[i].BlockHashTreeRoot = delta.NewRoot
	}

	blockDataTracker := NewBlockDataTracker(capacity, params.RequiredConfirmations, tipBlockNumber, uint16(capacity-1), records)

	return NewChainStateCore(params, blockDataTracker, appendTree)
}
