// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript recognizes the fixed P2SH redeem-script template a bridge
deposit transaction uses and builds the deposit address derived from it.

Unlike a full node's txscript package, this one does not interpret
arbitrary scripts: it only needs to build and recognize one template, a
pay-to-script-hash output nominating a user key and the bridge's signing
key hash, so there is no stack machine, no opcode execution, and no general
script engine here.

# Deposit template

The template BuildDepositRedeemScript emits is a fixed 59-byte
(DepositRedeemScriptSize) redeem script:

	OP_PUSHBYTES_32 <user key (32 bytes)> OP_DROP
	OP_DUP OP_HASH160 OP_PUSHBYTES_20 <bridge key hash (20 bytes)> OP_EQUALVERIFY OP_CHECKSIG

Its ripemd160(sha256(.)) is the P2SH address deposits are sent to.
*/
package txscript
