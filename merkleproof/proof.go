// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkleproof

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/qedprotocol/doge-bridge-verifier/blockchain"
	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
	"github.com/qedprotocol/doge-bridge-verifier/wire"
)

// Size bounds on the raw transaction a proof blob may carry. A transaction
// below MinPossibleTxSize cannot hold even a minimal input and output, and
// one above MaxReasonableTxSize is rejected outright rather than paying the
// cost of decoding it.
const (
	MinPossibleTxSize  = 60
	MaxReasonableTxSize = 10 * 1024 * 1024

	// MaxSiblingsLen bounds the Merkle sibling path length a proof blob may
	// carry: the count must be below it, so at most 29 siblings, which cover
	// a tree of over 500 million transactions, far beyond any block this
	// verifier will ever see.
	MaxSiblingsLen = 30
)

// TransactionInBlockProof is the parsed form of the blob a claimant submits
// to prove a transaction exists at a given index in a finalized block's
// transaction tree: a Merkle sibling path, and the raw transaction bytes the
// path's leaf commits to.
type TransactionInBlockProof struct {
	Siblings    []chainhash.Hash
	RawTx       []byte
	IndexInTree uint32
}

// Bytes serializes the proof back to its wire blob form:
// [1-byte sibling count][siblings][4-byte LE tx size][tx bytes].
func (p *TransactionInBlockProof) Bytes() []byte {
	buf := make([]byte, 0, 1+len(p.Siblings)*chainhash.HashSize+4+len(p.RawTx))
	buf = append(buf, byte(len(p.Siblings)))
	for _, s := range p.Siblings {
		buf = append(buf, s[:]...)
	}
	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], uint32(len(p.RawTx)))
	buf = append(buf, sizeBuf[:]...)
	buf = append(buf, p.RawTx...)
	return buf
}

// ParseTransactionInBlockProof decodes a proof blob, returning the proof and
// the number of leading bytes of data it consumed so a caller embedding this
// blob inside a larger one (as the claim accumulator does) can find what
// follows it. indexInTree is supplied by the caller (it is not carried in
// the blob itself, mirroring the claim accumulator's combined index, which
// already pins a transaction's position) and is range-checked against the
// sibling count.
func ParseTransactionInBlockProof(data []byte, indexInTree uint32) (*TransactionInBlockProof, int, error) {
	if len(data) < 1 {
		return nil, 0, proofError(ErrInvalidTransactionProofBlob, "proof blob is empty")
	}
	siblingsLen := int(data[0])
	if siblingsLen >= MaxSiblingsLen {
		return nil, 0, proofError(ErrInvalidTransactionProofBlob, "proof blob declares too many siblings")
	}
	if indexInTree >= uint32(1)<<uint(siblingsLen) {
		return nil, 0, proofError(ErrInvalidTransactionProofBlob, "index in tree out of range for sibling count")
	}

	offset := 1
	siblingsEnd := offset + siblingsLen*chainhash.HashSize
	if len(data) < siblingsEnd+4 {
		return nil, 0, proofError(ErrInvalidTransactionProofBlob, "proof blob truncated before tx size")
	}

	siblings := make([]chainhash.Hash, siblingsLen)
	for i := 0; i < siblingsLen; i++ {
		copy(siblings[i][:], data[offset+i*chainhash.HashSize:offset+(i+1)*chainhash.HashSize])
	}

	txSize := binary.LittleEndian.Uint32(data[siblingsEnd : siblingsEnd+4])
	if txSize < MinPossibleTxSize || txSize > MaxReasonableTxSize {
		return nil, 0, proofError(ErrInvalidTransactionProofBlob, fmt.Sprintf("tx size %d out of bounds", txSize))
	}

	txStart := siblingsEnd + 4
	txEnd := txStart + int(txSize)
	if len(data) < txEnd {
		return nil, 0, proofError(ErrInvalidTransactionProofBlob, "proof blob truncated before end of tx bytes")
	}

	rawTx := make([]byte, txSize)
	copy(rawTx, data[txStart:txEnd])

	return &TransactionInBlockProof{
		Siblings:    siblings,
		RawTx:       rawTx,
		IndexInTree: indexInTree,
	}, txEnd, nil
}

// TxHash returns the double-sha256 hash of the proof's raw transaction
// bytes, the leaf value the Merkle path commits to.
func (p *TransactionInBlockProof) TxHash() chainhash.Hash {
	return chainhash.DoubleHashH(p.RawTx)
}

// VerifyAgainstRoot recomputes the transaction tree root from the proof's
// leaf and sibling path and compares it against knownRoot.
func (p *TransactionInBlockProof) VerifyAgainstRoot(knownRoot chainhash.Hash) error {
	root, err := blockchain.ComputeBlockTxTreeRoot(p.TxHash(), p.IndexInTree, p.Siblings)
	if err != nil {
		return proofError(ErrInvalidTransactionProofBlob, err.Error())
	}
	if root != knownRoot {
		return proofError(ErrMismatchedTxMerkleRoots, "recomputed transaction tree root does not match the known block root")
	}
	return nil
}

// Decode deserializes the proof's raw transaction bytes into a MsgTx.
func (p *TransactionInBlockProof) Decode() (*wire.MsgTx, error) {
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(p.RawTx)); err != nil {
		return nil, proofError(ErrInvalidProofTransactionData, fmt.Sprintf("failed to decode transaction: %s", err))
	}
	return &tx, nil
}

// DepositOutput verifies tx is a well-formed deposit transaction (version 1
// or 2, zero locktime) and returns the output at outputIndex. It does not
// check the output's script against any deposit address; that is the
// caller's concern, since only the caller knows which user/bridge key pair
// the deposit should be addressed to.
func DepositOutput(tx *wire.MsgTx, outputIndex uint32) (*wire.TxOut, error) {
	if tx.Version != 1 && tx.Version != 2 {
		return nil, proofError(ErrInvalidProofTransactionVersion, fmt.Sprintf("unexpected transaction version %d", tx.Version))
	}
	if tx.LockTime != 0 {
		return nil, proofError(ErrInvalidProofTransactionLocktime, fmt.Sprintf("unexpected transaction locktime %d", tx.LockTime))
	}
	if outputIndex >= uint32(len(tx.TxOut)) {
		return nil, proofError(ErrInvalidProofTransactionOutput, "output index out of range")
	}
	return tx.TxOut[outputIndex], nil
}
