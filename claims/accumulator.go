// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claims

import "github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"

// ClaimTreeHeight is the depth of the per-user claim accumulator: a sparse
// Merkle tree over 2^64 leaves, addressed by the combined index computed
// from a deposit's (block, tx, output) coordinates.
const ClaimTreeHeight = 64

// CombinedClaimIndex computes the claim accumulator's leaf index and the bit
// position within that leaf's 256-bit vector for a deposit at
// (blockNumber, txIndex, outputIndex). txIndex and outputIndex must each fit
// in 20 bits; callers are expected to reject transactions/outputs beyond
// that range long before reaching the claim accumulator.
func CombinedClaimIndex(blockNumber, txIndex, outputIndex uint32) (combinedIndex uint64, bitVectorIndex uint8) {
	bitVectorIndex = uint8(outputIndex)
	combinedIndex = uint64(blockNumber)<<32 | uint64(txIndex)<<12 | uint64(outputIndex)>>8
	return combinedIndex, bitVectorIndex
}

// BitVector is the 256-bit claimed-output vector stored at one claim
// accumulator leaf, one bit per output index sharing that leaf's
// (block, tx) coordinates.
type BitVector [32]byte

// IsSet reports whether bit is already marked claimed.
func (v BitVector) IsSet(bit uint8) bool {
	return v[bit>>3]&(1<<(bit&7)) != 0
}

// WithSet returns a copy of v with bit marked claimed.
func (v BitVector) WithSet(bit uint8) BitVector {
	out := v
	out[bit>>3] |= 1 << (bit & 7)
	return out
}

// computeClaimTreeRoot folds value up through siblings using the claim
// accumulator's plain single-sha256 combiner (distinct from the
// double-sha256 combiner the block header and transaction trees use).
func computeClaimTreeRoot(value chainhash.Hash, index uint64, siblings [ClaimTreeHeight]chainhash.Hash) chainhash.Hash {
	current := value
	idx := index
	for _, sibling := range siblings {
		if idx&1 == 1 {
			current = chainhash.Sha256TwoToOne(sibling, current)
		} else {
			current = chainhash.Sha256TwoToOne(current, sibling)
		}
		idx >>= 1
	}
	return current
}
