// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"

// appendTreeLevel holds the current left/right children at one level of a
// FixedAppendTree, plus the zero hash for this level (the hash of an empty
// right sibling when the level is only half full).
type appendTreeLevel struct {
	left      chainhash.Hash
	right     chainhash.Hash
	zeroHash  chainhash.Hash
}

func (l appendTreeLevel) hash() chainhash.Hash {
	return chainhash.Sha256TwoToOne(l.left, l.right)
}

// MerkleProof is a self-contained inclusion proof: value at index hashes up
// through siblings to root.
type MerkleProof struct {
	Root     chainhash.Hash
	Value    chainhash.Hash
	Index    uint64
	Siblings []chainhash.Hash
}

// Verify recomputes the root from Value/Index/Siblings and compares it
// against Root.
func (p MerkleProof) Verify() bool {
	return computeRootFromProof(p.Value, p.Index, p.Siblings) == p.Root
}

// VerifyBlockTxTree recomputes the root the way a Bitcoin-family block's
// transaction Merkle tree does: siblings combine in side-mask order rather
// than always left-then-right, and a right-path step whose left sibling
// equals the running hash is rejected (the CVE-2012-2459 duplicate-subtree
// guard).
func (p MerkleProof) VerifyBlockTxTree() bool {
	current := p.Value
	for i, sibling := range p.Siblings {
		if p.Index&(1<<uint(i)) == 0 {
			current = chainhash.TwoToOne(current, sibling)
		} else {
			if sibling == current {
				return false
			}
			current = chainhash.TwoToOne(sibling, current)
		}
	}
	return current == p.Root
}

// DeltaMerkleProof witnesses a single-leaf update: the tree's root moves
// from OldRoot to NewRoot by replacing the leaf at Index from OldValue to
// NewValue, using the same Siblings for both computations.
type DeltaMerkleProof struct {
	OldRoot  chainhash.Hash
	OldValue chainhash.Hash
	NewRoot  chainhash.Hash
	NewValue chainhash.Hash
	Index    uint64
	Siblings []chainhash.Hash
}

func newDeltaMerkleProof(index uint64, oldValue, newValue chainhash.Hash, siblings []chainhash.Hash) DeltaMerkleProof {
	return DeltaMerkleProof{
		OldRoot:  computeRootFromProof(oldValue, index, siblings),
		OldValue: oldValue,
		NewRoot:  computeRootFromProof(newValue, index, siblings),
		NewValue: newValue,
		Index:    index,
		Siblings: siblings,
	}
}

// Verify confirms both OldValue and NewValue fold to their claimed roots
// under the same sibling path.
func (p DeltaMerkleProof) Verify() bool {
	return computeRootFromProof(p.OldValue, p.Index, p.Siblings) == p.OldRoot &&
		computeRootFromProof(p.NewValue, p.Index, p.Siblings) == p.NewRoot
}

// ComputeBlockTxTreeRoot folds value up through siblings the way a
// Bitcoin-family block's transaction Merkle tree does, returning the
// resulting root. It rejects a right-path step whose left sibling equals
// the running hash (the CVE-2012-2459 duplicate-subtree guard), an addition
// over the plain fold a full node's historical Merkle code performs.
func ComputeBlockTxTreeRoot(value chainhash.Hash, index uint32, siblings []chainhash.Hash) (chainhash.Hash, error) {
	current := value
	for i, sibling := range siblings {
		if index&(1<<uint(i)) == 0 {
			current = chainhash.TwoToOne(current, sibling)
		} else {
			if sibling == current {
				return chainhash.Hash{}, ruleError(ErrDuplicateMerkleSubtree, "duplicate subtree in transaction Merkle path")
			}
			current = chainhash.TwoToOne(sibling, current)
		}
	}
	return current, nil
}

func computeRootFromProof(value chainhash.Hash, index uint64, siblings []chainhash.Hash) chainhash.Hash {
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

// FixedAppendTree is an append-only Merkle accumulator of a fixed height:
// new leaves can only be added at the current frontier (next_index), and
// each level keeps only its current {left, right} pair plus the level's
// zero hash, giving O(height) memory and O(height) work per append instead
// of materializing the whole tree.
type FixedAppendTree struct {
	height    uint32
	nextIndex uint64
	levels    []appendTreeLevel
}

// NewEmptyFixedAppendTree builds an empty tree of the given height, seeded
// with the canonical zero-hash ladder.
func NewEmptyFixedAppendTree(height uint32) *FixedAppendTree {
	zeroHashes := chainhash.Sha256ZeroHashes(int(height))
	levels := make([]appendTreeLevel, height)
	for i := range levels {
		levels[i] = appendTreeLevel{left: zeroHashes[i], right: zeroHashes[i], zeroHash: zeroHashes[i]}
	}
	return &FixedAppendTree{height: height, nextIndex: 0, levels: levels}
}

// NewFixedAppendTreeFromState reconstructs a tree at nextIndex from the
// sibling path of the most recently appended leaf (value), letting a
// verifier resume an append tree without replaying every prior leaf.
func NewFixedAppendTreeFromState(height uint32, nextIndex uint64, siblings []chainhash.Hash, value chainhash.Hash) *FixedAppendTree {
	zeroHashes := chainhash.Sha256ZeroHashes(int(height))
	levels := make([]appendTreeLevel, height)
	for i := range levels {
		levels[i] = appendTreeLevel{left: zeroHashes[i], right: zeroHashes[i], zeroHash: zeroHashes[i]}
	}
	t := &FixedAppendTree{height: height, nextIndex: 0, levels: levels}
	if nextIndex == 0 {
		return t
	}
	current := value
	currentIndex := nextIndex - 1
	for i := uint32(0); i < height; i++ {
		sibling := siblings[i]
		swap := currentIndex&1 == 1
		var newV chainhash.Hash
		if swap {
			t.levels[i].left = sibling
			t.levels[i].right = current
			newV = chainhash.Sha256TwoToOne(sibling, current)
		} else {
			t.levels[i].left = current
			t.levels[i].right = sibling
			newV = chainhash.Sha256TwoToOne(current, sibling)
		}
		current = newV
		currentIndex >>= 1
	}
	t.nextIndex = nextIndex
	return t
}

// NextIndex returns the index the next appended leaf will occupy.
func (t *FixedAppendTree) NextIndex() uint64 { return t.nextIndex }

// Height returns the tree's fixed height.
func (t *FixedAppendTree) Height() uint32 { return t.height }

// Root returns the tree's current root hash.
func (t *FixedAppendTree) Root() chainhash.Hash {
	return t.levels[len(t.levels)-1].hash()
}

// Value returns the most recently appended leaf value.
func (t *FixedAppendTree) Value() chainhash.Hash {
	if t.nextIndex&1 == 1 {
		return t.levels[0].left
	}
	return t.levels[0].right
}

// Append adds newValue at the current frontier, advancing NextIndex by one.
func (t *FixedAppendTree) Append(newValue chainhash.Hash) {
	current := newValue
	currentIndex := t.nextIndex
	for i := range t.levels {
		level := &t.levels[i]
		if currentIndex&1 == 1 {
			level.right = current
		} else {
			level.left = current
			level.right = level.zeroHash
		}
		current = level.hash()
		currentIndex >>= 1
	}
	t.nextIndex++
}

// AppendDeltaMerkleProof appends newValue and returns a delta proof
// witnessing the root transition caused by this single append (the new
// leaf's prior value is always the level-0 zero hash, since append only
// ever occupies a previously-empty slot).
func (t *FixedAppendTree) AppendDeltaMerkleProof(newValue chainhash.Hash) DeltaMerkleProof {
	t.Append(newValue)
	zeroLeaf := t.levels[0].zeroHash
	mpp := t.partialProofForCurrentIndex()
	return newDeltaMerkleProof(mpp.Index, zeroLeaf, newValue, mpp.Siblings)
}

type partialProof struct {
	Value    chainhash.Hash
	Index    uint64
	Siblings []chainhash.Hash
}

func (t *FixedAppendTree) partialProofForCurrentIndex() partialProof {
	if t.nextIndex == 0 {
		siblings := make([]chainhash.Hash, len(t.levels))
		for i, l := range t.levels {
			siblings[i] = l.zeroHash
		}
		return partialProof{Value: t.Value(), Index: 0, Siblings: siblings}
	}
	siblings := make([]chainhash.Hash, 0, len(t.levels))
	value := t.Value()
	index := t.nextIndex - 1
	currentIndex := index
	for _, l := range t.levels {
		if currentIndex&1 == 1 {
			siblings = append(siblings, l.left)
		} else {
			siblings = append(siblings, l.right)
		}
		currentIndex >>= 1
	}
	return partialProof{Value: value, Index: index, Siblings: siblings}
}

// MerkleProofForCurrentIndex returns a full, self-verifying proof for the
// most recently appended leaf.
func (t *FixedAppendTree) MerkleProofForCurrentIndex() MerkleProof {
	p := t.partialProofForCurrentIndex()
	return MerkleProof{
		Root:     computeRootFromProof(p.Value, p.Index, p.Siblings),
		Value:    p.Value,
		Index:    p.Index,
		Siblings: p.Siblings,
	}
}

// RevertToIndex rolls the tree's frontier back to index, given the sibling
// value at each level that changed on the way down from the current
// frontier. This supports reorg rollback without replaying the whole
// history: only the left-sibling hashes invalidated since index need to be
// supplied.
func (t *FixedAppendTree) RevertToIndex(index uint64, changedLeftSiblings []chainhash.Hash, value chainhash.Hash) error {
	if t.nextIndex == 0 || index >= t.nextIndex-1 {
		return ruleError(ErrRevertIndexTooHigh, "revert index must be strictly less than the current frontier")
	}

	currentIndex := t.nextIndex - 1
	revertIndex := index
	nextChangedLeftSiblingIndex := 0
	currentHash := value
	i := uint32(0)

	for i < t.height && currentIndex != revertIndex {
		if revertIndex&1 == 1 {
			if nextChangedLeftSiblingIndex == len(changedLeftSiblings) {
				return ruleError(ErrNotEnoughChangedLeftSiblings, "not enough changed left siblings supplied for revert")
			}
			t.levels[i].left = changedLeftSiblings[nextChangedLeftSiblingIndex]
			t.levels[i].right = currentHash
			nextChangedLeftSiblingIndex++
		} else {
			t.levels[i].left = currentHash
			t.levels[i].right = t.levels[i].zeroHash
		}
		currentHash = t.levels[i].hash()
		currentIndex >>= 1
		revertIndex >>= 1
		i++
	}

	if currentIndex != revertIndex {
		return ruleError(ErrRevertIndexNotPrefix, "revert index is not a prefix of the current frontier path")
	}
	if nextChangedLeftSiblingIndex != len(changedLeftSiblings) {
		return ruleError(ErrTooManyChangedLeftSiblings, "too many changed left siblings supplied for revert")
	}

	for i < t.height {
		if revertIndex&1 == 1 {
			t.levels[i].right = currentHash
		} else {
			t.levels[i].left = currentHash
			t.levels[i].right = t.levels[i].zeroHash
		}
		currentHash = t.levels[i].hash()
		revertIndex >>= 1
		i++
	}

	t.nextIndex = index + 1
	return nil
}
