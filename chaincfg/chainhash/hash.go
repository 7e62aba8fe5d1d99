// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the hash primitives used throughout the
// verifier: double-sha256 ("btc-hash-256") for header and transaction
// identifiers, ripemd160(sha256(.)) ("btc-hash-160") for script hashes, and
// scrypt_1024_1_1_256 for the proof-of-work hash of a block header.
package chainhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck
	"golang.org/x/crypto/scrypt"
)

// HashSize is the number of bytes in a H256 hash.
const HashSize = 32

// Hash160Size is the number of bytes in a H160 hash.
const Hash160Size = 20

// MaxHashStringSize is the maximum length of a Hash hash string.
const MaxHashStringSize = HashSize * 2

// ErrHashStrSize describes an error that indicates the caller specified a
// hash string that has too many characters.
var ErrHashStrSize = fmt.Errorf("max hash string length is %v bytes", MaxHashStringSize)

// Hash is a 32-byte array used to represent the double sha256 of data, i.e.
// a H256 digest.
type Hash [HashSize]byte

// Hash160 is a 20-byte array used to represent a ripemd160-family digest,
// i.e. a H160 digest.
type Hash160 [Hash160Size]byte

// String returns the Hash as a hexadecimal string, in byte-reversed order
// to match the conventional display order of block and transaction hashes.
func (h Hash) String() string {
	for i := 0; i < HashSize/2; i++ {
		h[i], h[HashSize-1-i] = h[HashSize-1-i], h[i]
	}
	return hex.EncodeToString(h[:])
}

// CloneBytes returns a copy of the bytes which represent the hash as a byte
// slice.
func (h *Hash) CloneBytes() []byte {
	newHash := make([]byte, HashSize)
	copy(newHash, h[:])
	return newHash
}

// SetBytes sets the bytes which represent the hash. An error is returned if
// the number of bytes passed in is not HashSize.
func (h *Hash) SetBytes(newHash []byte) error {
	nhlen := len(newHash)
	if nhlen != HashSize {
		return fmt.Errorf("invalid hash length of %v, want %v", nhlen, HashSize)
	}
	copy(h[:], newHash)
	return nil
}

// IsEqual returns true if target is the same as the hash.
func (h *Hash) IsEqual(target *Hash) bool {
	if h == nil && target == nil {
		return true
	}
	if h == nil || target == nil {
		return false
	}
	return *h == *target
}

// NewHash returns a new Hash from a byte slice.
func NewHash(newHash []byte) (*Hash, error) {
	var sh Hash
	if err := sh.SetBytes(newHash); err != nil {
		return nil, err
	}
	return &sh, nil
}

// NewHashFromStr creates a Hash from a hash string. The string should be
// the canonical hex-reversed notation used by block explorers.
func NewHashFromStr(hash string) (*Hash, error) {
	ret := new(Hash)
	if err := Decode(ret, hash); err != nil {
		return nil, err
	}
	return ret, nil
}

// Decode decodes the byte-reversed hexadecimal string encoding of a Hash to
// a destination.
func Decode(dst *Hash, src string) error {
	if len(src) > MaxHashStringSize {
		return ErrHashStrSize
	}

	var srcBytes []byte
	if len(src)%2 == 0 {
		srcBytes = []byte(src)
	} else {
		srcBytes = make([]byte, 1+len(src))
		srcBytes[0] = '0'
		copy(srcBytes[1:], src)
	}

	var reversedHash Hash
	_, err := hex.Decode(reversedHash[HashSize-hex.DecodedLen(len(srcBytes)):], srcBytes)
	if err != nil {
		return err
	}

	for i, b := range reversedHash[:HashSize/2] {
		reversedHash[i], reversedHash[HashSize-1-i] = reversedHash[HashSize-1-i], b
	}
	*dst = reversedHash
	return nil
}

// String returns the Hash160 as a hexadecimal string.
func (h Hash160) String() string {
	return hex.EncodeToString(h[:])
}

// HashB calculates the sha256 hash of the given byte slice.
func HashB(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}

// HashH calculates the sha256 hash of the given byte slice and returns it as
// a Hash.
func HashH(b []byte) Hash {
	return Hash(sha256.Sum256(b))
}

// DoubleHashB calculates the double sha256 ("btc-hash-256") of the given
// byte slice and returns it as a byte slice.
func DoubleHashB(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// DoubleHashH calculates the double sha256 of the given byte slice and
// returns it as a Hash.
func DoubleHashH(b []byte) Hash {
	first := sha256.Sum256(b)
	return Hash(sha256.Sum256(first[:]))
}

// DoubleHashRaw calculates the double sha256 of the bytes that f writes to
// its writer argument. This is used to avoid materializing an intermediate
// byte slice when hashing a structure that only knows how to serialize
// itself to an io.Writer (e.g. a wire header).
func DoubleHashRaw(f func(w io.Writer) error) Hash {
	h := sha256.New()
	if err := f(h); err != nil {
		// The only callers of this helper write to an in-memory hasher,
		// which never returns an error; a failure here indicates a bug
		// in the caller's serialization routine.
		panic(err)
	}
	sum := h.Sum(nil)
	second := sha256.Sum256(sum)
	return Hash(second)
}

// Ripemd160H calculates the ripemd160 hash of the given byte slice.
func Ripemd160H(b []byte) Hash160 {
	h := ripemd160.New()
	h.Write(b)
	var out Hash160
	copy(out[:], h.Sum(nil))
	return out
}

// Hash160B calculates ripemd160(sha256(b)), the conventional "btc-hash-160"
// used to derive P2PKH/P2SH script hashes.
func Hash160B(b []byte) []byte {
	h := HashB(b)
	r := ripemd160.New()
	r.Write(h)
	return r.Sum(nil)
}

// NewHash160 calculates ripemd160(sha256(b)) and returns it as a Hash160.
func NewHash160(b []byte) Hash160 {
	var out Hash160
	copy(out[:], Hash160B(b))
	return out
}

// scryptN, scryptR, scryptP are the Dogecoin/Litecoin-family scrypt KDF
// parameters for the block proof-of-work hash: N=1024, r=1, p=1, 32-byte
// output, commonly written scrypt_1024_1_1_256.
const (
	scryptN = 1024
	scryptR = 1
	scryptP = 1
)

// ScryptSum computes scrypt_1024_1_1_256(b): the salt is the input itself,
// matching the self-salted construction used for Dogecoin-family block
// header proof-of-work hashing.
func ScryptSum(b []byte) Hash {
	sum, err := scrypt.Key(b, b, scryptN, scryptR, scryptP, HashSize)
	if err != nil {
		// Only returns an error for invalid N/r/p/keyLen parameters, all of
		// which are compile-time constants here.
		panic(err)
	}
	return Hash(sum)
}

// ScryptRaw computes the scrypt proof-of-work hash of the bytes that f
// writes to its writer argument.
func ScryptRaw(f func(w io.Writer) error) Hash {
	buf := &byteBuffer{}
	if err := f(buf); err != nil {
		panic(err)
	}
	return ScryptSum(buf.b)
}

// byteBuffer is a minimal growable io.Writer sink, used instead of
// bytes.Buffer to keep this package free of unnecessary imports.
type byteBuffer struct {
	b []byte
}

func (bb *byteBuffer) Write(p []byte) (int, error) {
	bb.b = append(bb.b, p...)
	return len(p), nil
}

// TwoToOne computes the btc-hash-256 Merkle combiner double_sha256(left ||
// right) used by a block's transaction Merkle tree and the
// transaction-in-block proof.
func TwoToOne(left, right Hash) Hash {
	var buf [HashSize * 2]byte
	copy(buf[:HashSize], left[:])
	copy(buf[HashSize:], right[:])
	return DoubleHashH(buf[:])
}

// Sha256TwoToOne computes the plain sha256(left || right) Merkle combiner
// used by the block-hash append tree and the claim accumulator.
func Sha256TwoToOne(left, right Hash) Hash {
	var buf [HashSize * 2]byte
	copy(buf[:HashSize], left[:])
	copy(buf[HashSize:], right[:])
	return HashH(buf[:])
}

// ZeroHashes returns the first count zero-hash-ladder entries for the
// btc-hash-256 combiner: zeroHashes[0] is 32 zero bytes, and
// zeroHashes[i] = TwoToOne(zeroHashes[i-1], zeroHashes[i-1]).
func ZeroHashes(count int) []Hash {
	hashes := make([]Hash, count)
	for i := 1; i < count; i++ {
		hashes[i] = TwoToOne(hashes[i-1], hashes[i-1])
	}
	return hashes
}

// Sha256ZeroHashes returns the analogous zero-hash ladder for the plain
// sha256 combiner used by the block-hash append tree and the claim
// accumulator.
func Sha256ZeroHashes(count int) []Hash {
	hashes := make([]Hash, count)
	for i := 1; i < count; i++ {
		hashes[i] = Sha256TwoToOne(hashes[i-1], hashes[i-1])
	}
	return hashes
}
