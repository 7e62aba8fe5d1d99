// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claims

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/qedprotocol/doge-bridge-verifier/blockchain"
	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
	"github.com/qedprotocol/doge-bridge-verifier/txscript"
	"github.com/qedprotocol/doge-bridge-verifier/wire"
	"github.com/stretchr/testify/require"
)

func depositTx(userKey [32]byte, bridgeKeyHash [20]byte) *wire.MsgTx {
	addr := txscript.DepositAddressHash(userKey, bridgeKeyHash)
	script := append([]byte{txscript.OpHash160, txscript.OpPushBytes20}, addr[:]...)
	script = append(script, txscript.OpEqual)

	return &wire.MsgTx{
		Version: 1,
		TxIn: []*wire.TxIn{
			{
				PreviousOutPoint: wire.OutPoint{Index: 0xffffffff},
				SignatureScript:  bytes.Repeat([]byte{0x01}, 10),
				Sequence:         wire.MaxTxInSequenceNum,
			},
		},
		TxOut: []*wire.TxOut{
			{Value: 1234567, PkScript: script},
		},
		LockTime: 0,
	}
}

func mustSerializeTx(t *testing.T, tx *wire.MsgTx) []byte {
	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	return buf.Bytes()
}

// buildStateProofBlob builds a claim state proof for a single-transaction
// block (the tx-in-block proof carries zero siblings).
func buildStateProofBlob(t *testing.T, tx *wire.MsgTx, bitVector BitVector, siblings [ClaimTreeHeight]chainhash.Hash) []byte {
	txBytes := mustSerializeTx(t, tx)

	blob := []byte{0}
	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], uint32(len(txBytes)))
	blob = append(blob, sizeBuf[:]...)
	blob = append(blob, txBytes...)
	blob = append(blob, bitVector[:]...)
	for _, s := range siblings {
		blob = append(blob, s[:]...)
	}
	return blob
}

// chainStateAtHeight builds a ChainStateCore whose ring tracker's tip sits at
// height with the given record installed there, and requiredConfirmations
// confirmations deep.
func chainStateAtHeight(height, requiredConfirmations uint32, record blockchain.BlockDataRecord) *blockchain.ChainStateCore {
	tracker := blockchain.NewBlockDataTracker(32, requiredConfirmations, 0, 0, make([]blockchain.BlockDataRecord, 32))
	for i := uint32(1); i < height; i++ {
		tracker.AddRecord(blockchain.BlockDataRecord{})
	}
	tracker.AddRecord(record)
	return blockchain.NewChainStateCore(nil, tracker, nil)
}

func TestVerifyDepositAcceptsFreshClaim(t *testing.T) {
	var userKey [32]byte
	userKey[0] = 0x42
	var bridgeKeyHash [20]byte
	bridgeKeyHash[0] = 0x07

	tx := depositTx(userKey, bridgeKeyHash)
	const blockNumber = 10
	const txIndex = 0
	const outputIndex = 0

	var siblings [ClaimTreeHeight]chainhash.Hash
	var oldBitVector BitVector
	blob := buildStateProofBlob(t, tx, oldBitVector, siblings)

	record := blockchain.BlockDataRecord{TxTreeMerkleRoot: chainhash.DoubleHashH(mustSerializeTx(t, tx))}
	state := chainStateAtHeight(blockNumber, 0, record)

	combinedIndex, _ := CombinedClaimIndex(blockNumber, txIndex, outputIndex)
	oldRoot := computeClaimTreeRoot(chainhash.Hash(oldBitVector), combinedIndex, siblings)

	newRoot, amount, err := VerifyDeposit(state, userKey, bridgeKeyHash, blockNumber, txIndex, outputIndex, oldRoot, blob)
	require.NoError(t, err)
	require.Equal(t, uint64(1234567), amount)
	require.NotEqual(t, oldRoot, newRoot)
}

func TestVerifyDepositRejectsUnfinalizedBlock(t *testing.T) {
	state := chainStateAtHeight(3, 1, blockchain.BlockDataRecord{})

	_, _, err := VerifyDeposit(state, [32]byte{}, [20]byte{}, 10, 0, 0, chainhash.Hash{}, nil)
	require.Error(t, err)
	var cerr ClaimError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, ErrBlockNotFinalized, cerr.ErrorCode)
}

func TestVerifyDepositRejectsAlreadyClaimed(t *testing.T) {
	var userKey [32]byte
	var bridgeKeyHash [20]byte
	tx := depositTx(userKey, bridgeKeyHash)

	const blockNumber = 4
	var siblings [ClaimTreeHeight]chainhash.Hash
	_, bitPos := CombinedClaimIndex(blockNumber, 0, 0)
	oldBitVector := BitVector{}.WithSet(bitPos)
	blob := buildStateProofBlob(t, tx, oldBitVector, siblings)

	record := blockchain.BlockDataRecord{TxTreeMerkleRoot: chainhash.DoubleHashH(mustSerializeTx(t, tx))}
	state := chainStateAtHeight(blockNumber, 0, record)

	combinedIndex, _ := CombinedClaimIndex(blockNumber, 0, 0)
	oldRoot := computeClaimTreeRoot(chainhash.Hash(oldBitVector), combinedIndex, siblings)

	_, _, err := VerifyDeposit(state, userKey, bridgeKeyHash, blockNumber, 0, 0, oldRoot, blob)
	require.Error(t, err)
	var cerr ClaimError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, ErrBridgeTransactionAlreadyClaimed, cerr.ErrorCode)
}
