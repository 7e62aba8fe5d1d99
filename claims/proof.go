// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claims

import (
	"github.com/qedprotocol/doge-bridge-verifier/blockchain"
	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
	"github.com/qedprotocol/doge-bridge-verifier/merkleproof"
	"github.com/qedprotocol/doge-bridge-verifier/txscript"
)

// StateProof is the blob a claimant submits alongside a deposit claim: a
// transaction-in-block proof, the claim accumulator's bit vector at the
// claim's leaf before this claim, and that leaf's sibling path.
type StateProof struct {
	TxInBlockProof      *merkleproof.TransactionInBlockProof
	OldClaimedBitVector BitVector
	ClaimTreeSiblings   [ClaimTreeHeight]chainhash.Hash
}

// ParseStateProof decodes data as
// [transaction-in-block proof][32-byte bit vector][64*32-byte sibling path].
// indexInBlock fixes the transaction's position in its block's transaction
// tree (not to be confused with the claim accumulator's combined index).
func ParseStateProof(data []byte, indexInBlock uint32) (*StateProof, error) {
	txProof, offset, err := merkleproof.ParseTransactionInBlockProof(data, indexInBlock)
	if err != nil {
		return nil, err
	}
	if len(data) < offset+32+ClaimTreeHeight*chainhash.HashSize {
		return nil, claimError(ErrMismatchedUserClaimDeltaMerkleProofOldRoot, "claim state proof blob truncated")
	}

	var bitVector BitVector
	copy(bitVector[:], data[offset:offset+32])
	offset += 32

	var siblings [ClaimTreeHeight]chainhash.Hash
	for i := 0; i < ClaimTreeHeight; i++ {
		copy(siblings[i][:], data[offset:offset+chainhash.HashSize])
		offset += chainhash.HashSize
	}

	return &StateProof{
		TxInBlockProof:      txProof,
		OldClaimedBitVector: bitVector,
		ClaimTreeSiblings:   siblings,
	}, nil
}

// VerifyDeposit checks that a deposit transaction output at
// (blockNumber, txIndex, outputIndex) pays userKey/bridgeKeyHash's deposit
// address in a finalized block, that it has not already been claimed
// against knownUserClaimMerkleHash, and returns the claim accumulator's new
// root together with the deposit amount. It does not mutate state; the
// caller is responsible for persisting the returned root as the user's new
// known claim hash.
func VerifyDeposit(
	state *blockchain.ChainStateCore,
	userKey [32]byte,
	bridgeKeyHash [20]byte,
	blockNumber, txIndex, outputIndex uint32,
	knownUserClaimMerkleHash chainhash.Hash,
	data []byte,
) (newRoot chainhash.Hash, amount uint64, err error) {
	if state.GetFinalizedBlockNumber() < blockNumber {
		return chainhash.Hash{}, 0, claimError(ErrBlockNotFinalized, "block is not yet finalized")
	}

	record, recordErr := state.GetRecord(blockNumber)
	if recordErr != nil {
		return chainhash.Hash{}, 0, claimError(ErrBlockNotInCache, "block is no longer cached")
	}

	combinedIndex, bitVectorIndex := CombinedClaimIndex(blockNumber, txIndex, outputIndex)

	proof, parseErr := ParseStateProof(data, txIndex)
	if parseErr != nil {
		return chainhash.Hash{}, 0, parseErr
	}

	if verifyErr := proof.TxInBlockProof.VerifyAgainstRoot(record.TxTreeMerkleRoot); verifyErr != nil {
		return chainhash.Hash{}, 0, verifyErr
	}

	tx, decodeErr := proof.TxInBlockProof.Decode()
	if decodeErr != nil {
		return chainhash.Hash{}, 0, decodeErr
	}

	out, outErr := merkleproof.DepositOutput(tx, outputIndex)
	if outErr != nil {
		return chainhash.Hash{}, 0, outErr
	}
	if !txscript.IsBridgeDepositOutputForUser(out, userKey, bridgeKeyHash) {
		return chainhash.Hash{}, 0, merkleproof.NewProofError(merkleproof.ErrInvalidProofTransactionOutput, "output is not a deposit to the claimed address")
	}

	if proof.OldClaimedBitVector.IsSet(bitVectorIndex) {
		return chainhash.Hash{}, 0, claimError(ErrBridgeTransactionAlreadyClaimed, "deposit has already been claimed")
	}

	oldVectorHash := chainhash.Hash(proof.OldClaimedBitVector)
	oldRoot := computeClaimTreeRoot(oldVectorHash, combinedIndex, proof.ClaimTreeSiblings)
	if oldRoot != knownUserClaimMerkleHash {
		return chainhash.Hash{}, 0, claimError(ErrMismatchedUserClaimDeltaMerkleProofOldRoot, "claim accumulator old root does not match known state")
	}

	newVectorHash := chainhash.Hash(proof.OldClaimedBitVector.WithSet(bitVectorIndex))
	newRoot = computeClaimTreeRoot(newVectorHash, combinedIndex, proof.ClaimTreeSiblings)

	log.Debugf("claimed deposit at block %d tx %d output %d, amount %d, new claim root %s",
		blockNumber, txIndex, outputIndex, out.Value, newRoot)

	return newRoot, uint64(out.Value), nil
}
