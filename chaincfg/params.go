// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the network parameters the verifier needs to
// interpret a foreign chain's headers and run difficulty retargeting: PoW
// limit, retarget timing, AuxPoW chain-id policy, and the compile-time
// capacity/confirmation/tree-height constants of the chain-state tracker.
package chaincfg

// Params holds the per-network knobs consulted by blockchain.CheckBlockHeader and
// the difficulty retarget. Unlike a full node's chaincfg.Params, this carries
// no checkpoints, DNS seeds, or address-prefix tables: those concerns belong
// to the network client and address-encoding layers, both explicitly outside
// this verifier's scope.
type Params struct {
	// Name identifies the network for logging purposes only.
	Name string

	// PowLimitBits is the highest possible proof-of-work target (i.e. the
	// easiest allowed difficulty), expressed in compact ("nBits") form.
	PowLimitBits uint32

	// PowTargetTimespan is the desired amount of time, in seconds, that
	// should elapse before the difficulty retargets. For a per-block
	// DigiShield network this is the same as PowTargetSpacing.
	PowTargetTimespan int64

	// PowTargetSpacing is the target time, in seconds, between blocks.
	PowTargetSpacing int64

	// AllowMinDifficultyBlocks permits the easiest possible difficulty when
	// a block's timestamp exceeds twice the target spacing since the
	// previous block; used by test networks only.
	AllowMinDifficultyBlocks bool

	// DigiShield selects the dampened per-block retarget formula over the
	// legacy Dogecoin windowed formula with height-dependent clamp bounds.
	DigiShield bool

	// StrictChainID requires a header's chain id to equal AuxPowChainID and,
	// for an AuxPoW header, its parent block's chain id to differ from the
	// header's, as a merge-mining anti-confusion measure.
	StrictChainID bool

	// AuxPowChainID is the chain id this network claims for its own headers
	// and validates against when StrictChainID is set.
	AuxPowChainID uint32

	// RequiredConfirmations is K in the spec's terms: the number of blocks
	// behind the tip at which a block is considered finalized and its
	// ring-tracker record becomes immutable.
	RequiredConfirmations uint32

	// BlockCacheCapacity is C: the fixed number of recent block records the
	// ring tracker retains.
	BlockCacheCapacity uint32

	// BlockTreeHeight is H: the compile-time height of the block-hash
	// append tree. 2^H must be large enough that the tree never needs to
	// hold more entries than the verifier will ever append across its
	// lifetime, since append is one-way.
	BlockTreeHeight uint32

	// ClaimTreeHeight is the height of the sparse claim accumulator. The
	// spec's default is 64.
	ClaimTreeHeight uint32
}

// MainNetParams are Dogecoin mainnet's retarget and merge-mining parameters.
var MainNetParams = Params{
	Name:                     "mainnet",
	PowLimitBits:             0x1e0fffff,
	PowTargetTimespan:        60,
	PowTargetSpacing:         60,
	AllowMinDifficultyBlocks: false,
	DigiShield:               true,
	StrictChainID:            true,
	AuxPowChainID:            0x0062,
	RequiredConfirmations:    40,
	BlockCacheCapacity:       4096,
	BlockTreeHeight:          32,
	ClaimTreeHeight:          64,
}

// TestNetParams mirrors mainnet's merge-mining policy but relaxes the
// difficulty floor, matching the conventional "testnet allows min-difficulty
// blocks after a quiet period" pattern.
var TestNetParams = Params{
	Name:                     "testnet",
	PowLimitBits:             0x1e0fffff,
	PowTargetTimespan:        60,
	PowTargetSpacing:         60,
	AllowMinDifficultyBlocks: true,
	DigiShield:               true,
	StrictChainID:            true,
	AuxPowChainID:            0x0062,
	RequiredConfirmations:    10,
	BlockCacheCapacity:       1024,
	BlockTreeHeight:          28,
	ClaimTreeHeight:          64,
}
