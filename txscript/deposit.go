// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
	"github.com/qedprotocol/doge-bridge-verifier/wire"
)

// Opcodes used by the bridge deposit redeem script template. Only the
// handful this package actually emits or recognizes are named; a full
// opcode table belongs to a script interpreter, which this verifier does
// not implement.
const (
	OpPushBytes32 = 0x20
	OpDrop        = 0x75
	OpDup         = 0x76
	OpHash160     = 0xa9
	OpPushBytes20 = 0x14
	OpEqualVerify = 0x88
	OpCheckSig    = 0xac
	OpEqual       = 0x87
)

// DepositRedeemScriptSize is the fixed length of a bridge deposit's P2SH
// redeem script: 1 + 32 + 4 + 20 + 2.
const DepositRedeemScriptSize = 59

// BuildDepositRedeemScript constructs the 59-byte redeem script nominating
// userKey (32 bytes, typically a deposit-destination commitment on the
// other chain) as the spender's message and bridgeKeyHash (20 bytes, the
// bridge's P2PKH signing key hash) as the only key able to spend it:
//
//	OP_PUSHBYTES_32 <userKey(32)> OP_DROP
//	OP_DUP OP_HASH160 OP_PUSHBYTES_20 <bridgeKeyHash(20)> OP_EQUALVERIFY OP_CHECKSIG
func BuildDepositRedeemScript(userKey [32]byte, bridgeKeyHash [20]byte) [DepositRedeemScriptSize]byte {
	var script [DepositRedeemScriptSize]byte
	script[0] = OpPushBytes32
	copy(script[1:33], userKey[:])
	script[33] = OpDrop
	script[34] = OpDup
	script[35] = OpHash160
	script[36] = OpPushBytes20
	copy(script[37:57], bridgeKeyHash[:])
	script[57] = OpEqualVerify
	script[58] = OpCheckSig
	return script
}

// DepositAddressHash returns the P2SH address hash (ripemd160(sha256(.)))
// of the redeem script nominating userKey/bridgeKeyHash, the hash that
// appears in a deposit transaction's P2SH output.
func DepositAddressHash(userKey [32]byte, bridgeKeyHash [20]byte) chainhash.Hash160 {
	script := BuildDepositRedeemScript(userKey, bridgeKeyHash)
	return chainhash.NewHash160(script[:])
}

// p2shScriptSize is len(OP_HASH160 OP_PUSHBYTES_20 <hash160> OP_EQUAL).
const p2shScriptSize = 23

// IsP2SHOutput reports whether pkScript is a standard pay-to-script-hash
// output (OP_HASH160 <20-byte hash> OP_EQUAL).
func IsP2SHOutput(pkScript []byte) bool {
	return len(pkScript) == p2shScriptSize &&
		pkScript[0] == OpHash160 &&
		pkScript[1] == OpPushBytes20 &&
		pkScript[p2shScriptSize-1] == OpEqual
}

// ExtractP2SHHash160 returns the 20-byte script hash embedded in a P2SH
// output script, or false if pkScript is not a P2SH output.
func ExtractP2SHHash160(pkScript []byte) (chainhash.Hash160, bool) {
	if !IsP2SHOutput(pkScript) {
		return chainhash.Hash160{}, false
	}
	var h chainhash.Hash160
	copy(h[:], pkScript[2:22])
	return h, true
}

// IsBridgeDepositOutputForUser reports whether out is a P2SH output paying
// into the deposit address nominating userKey/bridgeKeyHash.
func IsBridgeDepositOutputForUser(out *wire.TxOut, userKey [32]byte, bridgeKeyHash [20]byte) bool {
	outAddr, ok := ExtractP2SHHash160(out.PkScript)
	if !ok {
		return false
	}
	return DepositAddressHash(userKey, bridgeKeyHash) == outAddr
}
