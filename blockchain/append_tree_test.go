// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func leafHash(i byte) chainhash.Hash {
	var h chainhash.Hash
	h[0] = i
	return h
}

func TestFixedAppendTreeAppendAndProof(t *testing.T) {
	tree := NewEmptyFixedAppendTree(8)
	require.Equal(t, uint64(0), tree.NextIndex())

	for i := byte(0); i < 5; i++ {
		tree.Append(leafHash(i))
	}
	require.Equal(t, uint64(5), tree.NextIndex())
	require.Equal(t, leafHash(4), tree.Value())

	proof := tree.MerkleProofForCurrentIndex()
	require.True(t, proof.Verify())
	require.Equal(t, tree.Root(), proof.Root)
	require.Equal(t, uint64(4), proof.Index)
}

func TestFixedAppendTreeDeltaProof(t *testing.T) {
	tree := NewEmptyFixedAppendTree(4)
	for i := byte(0); i < 3; i++ {
		tree.Append(leafHash(i))
	}
	rootBefore := tree.Root()

	delta := tree.AppendDeltaMerkleProof(leafHash(9))
	require.True(t, delta.Verify())
	require.Equal(t, rootBefore, delta.OldRoot)
	require.Equal(t, tree.Root(), delta.NewRoot)
	require.Equal(t, leafHash(9), delta.NewValue)
}

func TestFixedAppendTreeFromStateMatchesReplay(t *testing.T) {
	height := uint32(6)
	original := NewEmptyFixedAppendTree(height)
	for i := byte(0); i < 10; i++ {
		original.Append(leafHash(i))
	}

	proof := original.MerkleProofForCurrentIndex()
	reconstructed := NewFixedAppendTreeFromState(height, original.NextIndex(), proof.Siblings, proof.Value)

	require.Equal(t, original.Root(), reconstructed.Root())
	require.Equal(t, original.NextIndex(), reconstructed.NextIndex())
	require.Equal(t, original.Value(), reconstructed.Value())
}

func TestFixedAppendTreeRevertToIndex(t *testing.T) {
	height := uint32(4)
	tree := NewEmptyFixedAppendTree(height)
	for i := byte(0); i < 6; i++ {
		tree.Append(leafHash(i))
	}

	// Reverting to index 0 needs no changed left siblings: every level
	// along a path whose target index is all-zero bits takes the "else"
	// (left-becomes-current, right-becomes-zero) branch, never the
	// sibling-consuming one.
	err := tree.RevertToIndex(0, nil, leafHash(0))
	require.NoError(t, err)
	require.Equal(t, uint64(1), tree.NextIndex())

	replay := NewEmptyFixedAppendTree(height)
	replay.Append(leafHash(0))
	require.Equal(t, replay.Root(), tree.Root())
}

func TestFixedAppendTreeRevertToIndexRejectsTooHigh(t *testing.T) {
	tree := NewEmptyFixedAppendTree(4)
	for i := byte(0); i < 3; i++ {
		tree.Append(leafHash(i))
	}
	err := tree.RevertToIndex(tree.NextIndex()-1, nil, leafHash(2))
	require.Error(t, err)
	require.True(t, IsErrorCode(err, ErrRevertIndexTooHigh))
}

func TestComputeBlockTxTreeRootRejectsDuplicateSubtree(t *testing.T) {
	value := leafHash(1)
	siblings := []chainhash.Hash{value}
	_, err := ComputeBlockTxTreeRoot(value, 1, siblings)
	require.Error(t, err)
	require.True(t, IsErrorCode(err, ErrDuplicateMerkleSubtree))
}

func TestMerkleProofVerifyBlockTxTree(t *testing.T) {
	left := leafHash(1)
	right := leafHash(2)
	root := chainhash.TwoToOne(left, right)

	proof := MerkleProof{Root: root, Value: left, Index: 0, Siblings: []chainhash.Hash{right}}
	require.True(t, proof.VerifyBlockTxTree())

	badProof := MerkleProof{Root: root, Value: right, Index: 1, Siblings: []chainhash.Hash{right}}
	require.False(t, badProof.VerifyBlockTxTree())
}
