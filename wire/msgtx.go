// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
)

// MaxTxInSequenceNum is the maximum sequence number the sequence field of a
// transaction input can be.
const MaxTxInSequenceNum uint32 = 0xffffffff

// maxScriptSize caps the script length FlcDecode will read for any input or
// output; it is a read-side sanity bound, not a protocol constant.
// maxWitnessItemsPerInput is zero: this transaction format carries no
// witness data.
const (
	maxWitnessItemsPerInput = 0
	maxScriptSize           = 10 * 1024 * 1024
)

// OutPoint defines a txid and a output index, and is used to reference a
// previous transaction output.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// TxIn defines a transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// TxOut defines a transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// MsgTx represents a flokicoin/doge family transaction. This verifier uses
// it for the AuxPoW parent-chain coinbase and for a transaction proven by a
// TransactionInBlockProof: it never
// constructs, signs, or relays a transaction of its own.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// TxHash generates the Hash for the transaction, i.e. double_sha256 of its
// serialized form.
func (msg *MsgTx) TxHash() chainhash.Hash {
	return chainhash.DoubleHashRaw(func(w io.Writer) error {
		return msg.FlcEncode(w, 0, BaseEncoding)
	})
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction.
func (msg *MsgTx) SerializeSize() int {
	n := 8 // Version (4) + LockTime (4)
	n += VarIntSerializeSize(uint64(len(msg.TxIn)))
	for _, ti := range msg.TxIn {
		n += chainhash.HashSize + 4 + 4 // PreviousOutPoint.Hash + Index + Sequence
		n += VarIntSerializeSize(uint64(len(ti.SignatureScript)))
		n += len(ti.SignatureScript)
	}
	n += VarIntSerializeSize(uint64(len(msg.TxOut)))
	for _, to := range msg.TxOut {
		n += 8
		n += VarIntSerializeSize(uint64(len(to.PkScript)))
		n += len(to.PkScript)
	}
	return n
}

// FlcEncode encodes the receiver to w using the flokicoin/doge protocol
// encoding, which is identical to the classic Bitcoin non-segwit transaction
// format: version, vin, vout, locktime.
func (msg *MsgTx) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	if err := writeElement(w, msg.Version); err != nil {
		return err
	}

	if err := WriteVarInt(w, pver, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeElement(w, &ti.PreviousOutPoint.Hash); err != nil {
			return err
		}
		if err := writeElement(w, ti.PreviousOutPoint.Index); err != nil {
			return err
		}
		if err := writeVarBytes(w, pver, ti.SignatureScript); err != nil {
			return err
		}
		if err := writeElement(w, ti.Sequence); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, pver, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeElement(w, to.Value); err != nil {
			return err
		}
		if err := writeVarBytes(w, pver, to.PkScript); err != nil {
			return err
		}
	}

	return writeElement(w, msg.LockTime)
}

// FlcDecode decodes r using the flokicoin/doge protocol encoding into the
// receiver.
func (msg *MsgTx) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	if err := readElement(r, &msg.Version); err != nil {
		return err
	}

	inCount, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}
	msg.TxIn = make([]*TxIn, inCount)
	for i := range msg.TxIn {
		ti := &TxIn{}
		if err := readElement(r, &ti.PreviousOutPoint.Hash); err != nil {
			return err
		}
		if err := readElement(r, &ti.PreviousOutPoint.Index); err != nil {
			return err
		}
		script, err := readScript(r, pver, maxScriptSize, "transaction input signature script")
		if err != nil {
			return err
		}
		ti.SignatureScript = script
		if err := readElement(r, &ti.Sequence); err != nil {
			return err
		}
		msg.TxIn[i] = ti
	}

	outCount, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}
	msg.TxOut = make([]*TxOut, outCount)
	for i := range msg.TxOut {
		to := &TxOut{}
		if err := readElement(r, &to.Value); err != nil {
			return err
		}
		script, err := readScript(r, pver, maxScriptSize, "transaction output script")
		if err != nil {
			return err
		}
		to.PkScript = script
		msg.TxOut[i] = to
	}

	return readElement(r, &msg.LockTime)
}

// Deserialize decodes a transaction from r into the receiver.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	return msg.FlcDecode(r, 0, BaseEncoding)
}

// Serialize encodes the transaction to w.
func (msg *MsgTx) Serialize(w io.Writer) error {
	return msg.FlcEncode(w, 0, BaseEncoding)
}

// MsgBlock pairs a header with its transactions. Nothing in this module
// builds one: the verifier never walks a full block body on its own, only the single
// transaction proven by a TransactionInBlockProof (see package merkleproof).
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}
