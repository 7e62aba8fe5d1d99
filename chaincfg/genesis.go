// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
	"github.com/qedprotocol/doge-bridge-verifier/wire"
)

// genesisCoinbaseTx is the single transaction carried by the Dogecoin
// mainnet genesis block. The verifier never validates a genesis block
// directly (chain state is seeded from an InitBlockData window, see
// blockchain.FromInitData), but the hash it produces is a useful,
// independently checkable fixture for header-hashing tests.
func genesisCoinbaseTx() *wire.MsgTx {
	pszTimestamp := []byte("Nintondo")
	coinbaseScriptSig := append(
		[]byte{0x04, 0xff, 0xff, 0x00, 0x1d, 0x01, 0x04, byte(len(pszTimestamp))},
		pszTimestamp...,
	)

	outputScript := []byte{
		0x41, 0x04, 0x01, 0x84, 0x71, 0x0f, 0xa6, 0x89, 0xad, 0x50,
		0x23, 0x69, 0x0c, 0x80, 0xf3, 0xa4, 0x9c, 0x8f, 0x13, 0xf8,
		0xd4, 0x5b, 0x8c, 0x85, 0x7f, 0xbc, 0xbc, 0x8b, 0xc4, 0xa8,
		0xe4, 0xd3, 0xeb, 0x4b, 0x10, 0xf4, 0xd4, 0x60, 0x4f, 0xa0,
		0x8d, 0xce, 0x60, 0x1a, 0xaf, 0x0f, 0x47, 0x02, 0x16, 0xfe,
		0x1b, 0x51, 0x85, 0x0b, 0x4a, 0xcf, 0x21, 0xb1, 0x79, 0xc4,
		0x50, 0x70, 0xac, 0x7b, 0x03, 0xa9, 0xac,
	}

	return &wire.MsgTx{
		Version: 1,
		TxIn: []*wire.TxIn{
			{
				PreviousOutPoint: wire.OutPoint{
					Hash:  chainhash.Hash{},
					Index: 0xffffffff,
				},
				SignatureScript: coinbaseScriptSig,
				Sequence:        0xffffffff,
			},
		},
		TxOut: []*wire.TxOut{
			{
				Value:    int64(88 * 100000000),
				PkScript: outputScript,
			},
		},
		LockTime: 0,
	}
}

// DogeMainNetGenesisMerkleRoot is the Merkle root of DogeMainNetGenesisHeader,
// equal to genesisCoinbaseTx().TxHash() byte-for-byte.
var DogeMainNetGenesisMerkleRoot = chainhash.Hash([chainhash.HashSize]byte{
	0x69, 0x6a, 0xd2, 0x0e, 0x2d, 0xd4, 0x36, 0x5c,
	0x74, 0x59, 0xb4, 0xa4, 0xa5, 0xaf, 0x74, 0x3d,
	0x5e, 0x92, 0xc6, 0xda, 0x32, 0x29, 0xe6, 0x53,
	0x2c, 0xd6, 0x05, 0xf6, 0x53, 0x3f, 0x2a, 0x5b,
})

// DogeMainNetGenesisHeader is the Dogecoin mainnet genesis block header. It
// carries no AuxPoW payload (its version has the AuxPoW bit clear).
var DogeMainNetGenesisHeader = wire.BlockHeader{
	Version:    1,
	PrevBlock:  chainhash.Hash{},
	MerkleRoot: DogeMainNetGenesisMerkleRoot,
	Timestamp:  time.Unix(1386325540, 0),
	Bits:       0x1e0ffff0,
	Nonce:      99943,
}

// GenesisCoinbaseTx exposes the genesis coinbase transaction for tests that
// want to cross-check DogeMainNetGenesisMerkleRoot independently.
func GenesisCoinbaseTx() *wire.MsgTx {
	return genesisCoinbaseTx()
}
