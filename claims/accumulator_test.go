// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claims

import (
	"testing"

	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func TestCombinedClaimIndex(t *testing.T) {
	combined, bit := CombinedClaimIndex(7703182, 23, 5)
	require.Equal(t, uint64(0x00758a8e00017000), combined)
	require.Equal(t, uint8(5), bit)
}

func TestBitVectorSetIsSet(t *testing.T) {
	var v BitVector
	require.False(t, v.IsSet(200))

	v2 := v.WithSet(200)
	require.True(t, v2.IsSet(200))
	require.False(t, v.IsSet(200), "WithSet must not mutate the receiver")

	require.False(t, v2.IsSet(199))
	require.False(t, v2.IsSet(201))
}

func TestBitVectorBoundaryBits(t *testing.T) {
	var v BitVector
	v = v.WithSet(0)
	v = v.WithSet(255)
	require.True(t, v.IsSet(0))
	require.True(t, v.IsSet(255))
	require.Equal(t, byte(1), v[0])
	require.Equal(t, byte(0x80), v[31])
}

func TestComputeClaimTreeRootDiffersFromTxTreeCombiner(t *testing.T) {
	var value chainhash.Hash
	var siblings [ClaimTreeHeight]chainhash.Hash

	root := computeClaimTreeRoot(value, 0, siblings)
	alt := value
	for _, s := range siblings {
		alt = chainhash.TwoToOne(alt, s)
	}

	require.NotEqual(t, root, alt, "claim tree must fold with the plain single-sha256 combiner, not the double-sha256 one")
}

func TestComputeClaimTreeRootIsDeterministic(t *testing.T) {
	value := chainhash.Hash{0x01}
	var siblings [ClaimTreeHeight]chainhash.Hash
	for i := range siblings {
		siblings[i] = chainhash.Hash{byte(i + 1)}
	}

	root1 := computeClaimTreeRoot(value, 42, siblings)
	root2 := computeClaimTreeRoot(value, 42, siblings)
	require.Equal(t, root1, root2)

	rootOtherIndex := computeClaimTreeRoot(value, 43, siblings)
	require.NotEqual(t, root1, rootOtherIndex)
}
