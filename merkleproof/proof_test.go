// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkleproof

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
	"github.com/qedprotocol/doge-bridge-verifier/wire"
	"github.com/stretchr/testify/require"
)

func sampleTx() *wire.MsgTx {
	return &wire.MsgTx{
		Version: 1,
		TxIn: []*wire.TxIn{
			{
				PreviousOutPoint: wire.OutPoint{Index: 0xffffffff},
				SignatureScript:  []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a},
				Sequence:         wire.MaxTxInSequenceNum,
			},
		},
		TxOut: []*wire.TxOut{
			{Value: 5_000_000_000, PkScript: []byte{0xa9, 0x14, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 0x87}},
		},
		LockTime: 0,
	}
}

func buildProofBlob(t *testing.T, tx *wire.MsgTx, siblings []chainhash.Hash) []byte {
	var txBuf bytes.Buffer
	require.NoError(t, tx.Serialize(&txBuf))

	buf := make([]byte, 0)
	buf = append(buf, byte(len(siblings)))
	for _, s := range siblings {
		buf = append(buf, s[:]...)
	}
	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], uint32(txBuf.Len()))
	buf = append(buf, sizeBuf[:]...)
	buf = append(buf, txBuf.Bytes()...)
	return buf
}

func TestParseTransactionInBlockProofRoundTrip(t *testing.T) {
	tx := sampleTx()
	siblings := []chainhash.Hash{{1}, {2}, {3}}
	blob := buildProofBlob(t, tx, siblings)

	proof, consumed, err := ParseTransactionInBlockProof(blob, 5)
	require.NoError(t, err)
	require.Equal(t, len(blob), consumed)
	require.Equal(t, siblings, proof.Siblings)
	require.Equal(t, uint32(5), proof.IndexInTree)

	decoded, err := proof.Decode()
	require.NoError(t, err)
	require.Equal(t, tx.Version, decoded.Version)
	require.Equal(t, len(tx.TxOut), len(decoded.TxOut))
	require.Equal(t, tx.TxOut[0].Value, decoded.TxOut[0].Value)
}

func TestParseTransactionInBlockProofRejectsTruncated(t *testing.T) {
	_, _, err := ParseTransactionInBlockProof([]byte{0x00}, 0)
	require.Error(t, err)

	var perr ProofError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, ErrInvalidTransactionProofBlob, perr.ErrorCode)
}

func TestParseTransactionInBlockProofRejectsIndexOutOfRange(t *testing.T) {
	tx := sampleTx()
	blob := buildProofBlob(t, tx, nil)
	_, _, err := ParseTransactionInBlockProof(blob, 1)
	require.Error(t, err)
}

func TestVerifyAgainstRootDetectsMismatch(t *testing.T) {
	tx := sampleTx()
	proof := &TransactionInBlockProof{RawTx: mustSerialize(t, tx), IndexInTree: 0}
	err := proof.VerifyAgainstRoot(chainhash.Hash{0xaa})
	require.Error(t, err)

	var perr ProofError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, ErrMismatchedTxMerkleRoots, perr.ErrorCode)
}

func TestVerifyAgainstRootAcceptsMatchingLeaf(t *testing.T) {
	tx := sampleTx()
	proof := &TransactionInBlockProof{RawTx: mustSerialize(t, tx), IndexInTree: 0}
	require.NoError(t, proof.VerifyAgainstRoot(proof.TxHash()))
}

func TestDepositOutputRejectsBadVersion(t *testing.T) {
	tx := sampleTx()
	tx.Version = 3
	_, err := DepositOutput(tx, 0)
	require.Error(t, err)
	var perr ProofError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, ErrInvalidProofTransactionVersion, perr.ErrorCode)
}

func TestDepositOutputRejectsNonZeroLocktime(t *testing.T) {
	tx := sampleTx()
	tx.LockTime = 500000
	_, err := DepositOutput(tx, 0)
	require.Error(t, err)
	var perr ProofError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, ErrInvalidProofTransactionLocktime, perr.ErrorCode)
}

func TestDepositOutputRejectsOutOfRangeIndex(t *testing.T) {
	tx := sampleTx()
	_, err := DepositOutput(tx, 7)
	require.Error(t, err)
	var perr ProofError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, ErrInvalidProofTransactionOutput, perr.ErrorCode)
}

func mustSerialize(t *testing.T, tx *wire.MsgTx) []byte {
	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	return buf.Bytes()
}
