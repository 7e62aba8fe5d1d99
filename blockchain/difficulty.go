// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"math/big"

	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
)

// negativeFlag is the sign bit of a compact ("nBits") target: 0x00800000.
const negativeFlag = 0x00800000

// BTCDifficulty is a compact ("nBits") encoding of a 256-bit proof-of-work
// target: bits = (exponent << 24) | (sign_bit << 23) | significand_23. It
// never panics on malformed input; invalid encodings either saturate or
// normalize to zero, matching the host chain's own tolerant arithmetic.
type BTCDifficulty uint32

// NewBTCDifficultyFromBits wraps a raw compact value with no validation.
func NewBTCDifficultyFromBits(compact uint32) BTCDifficulty {
	return BTCDifficulty(compact)
}

// FromParts builds a BTCDifficulty from its exponent/significand/sign parts.
func FromParts(exponent, significand uint32, negative bool) BTCDifficulty {
	var signFlag uint32
	if negative {
		signFlag = negativeFlag
	}
	return BTCDifficulty((exponent << 24) | signFlag | significand)
}

// Exponent returns the top byte of the compact encoding.
func (d BTCDifficulty) Exponent() uint32 { return uint32(d) >> 24 }

// IsNegative reports whether the sign bit is set.
func (d BTCDifficulty) IsNegative() bool { return uint32(d)&negativeFlag != 0 }

func (d BTCDifficulty) negativeSignBitFlag() uint32 { return uint32(d) & negativeFlag }

// Significand returns the low 23 bits of the compact encoding.
func (d BTCDifficulty) Significand() uint32 { return uint32(d) & 0x007fffff }

// IsZero reports whether the significand is zero (the encoded target is
// zero regardless of exponent or sign).
func (d BTCDifficulty) IsZero() bool { return uint32(d)&0x007fffff == 0 }

// ToCompactBits returns the raw 32-bit compact encoding.
func (d BTCDifficulty) ToCompactBits() uint32 { return uint32(d) }

// ToLowestExponentForm renormalizes d so its significand occupies as many
// low-order bits as possible without colliding with the sign bit, the
// canonical form used by all comparisons.
func (d BTCDifficulty) ToLowestExponentForm() BTCDifficulty {
	current := uint32(d)
	if current == 0 || current&0x007f0000 != 0 || d.Exponent() == 0 {
		return BTCDifficulty(current)
	}

	exponent := d.Exponent()
	significand := d.Significand()
	signBitFlag := d.negativeSignBitFlag()
	low16 := significand & 0xffff

	if significand == 0 {
		return BTCDifficulty(signBitFlag)
	}
	if low16&0xff00 != 0 {
		if low16 == (low16 & 0x7fff) {
			return FromParts(exponent-1, significand<<8, d.IsNegative())
		}
		return BTCDifficulty(current)
	}

	lowByte := low16 & 0xff
	if lowByte == (lowByte&0x7f) && exponent >= 2 {
		return FromParts(exponent-2, significand<<16, d.IsNegative())
	}
	return FromParts(exponent-1, significand<<8, d.IsNegative())
}

// reduceExponentUnsigned shifts the significand left past its all-zero high
// bytes, lowering the exponent to match, so two difficulties at different
// exponents can be compared as plain (exponent, significand) tuples.
func reduceExponentUnsigned(exponent, significand uint32) (uint32, uint32) {
	switch {
	case exponent == 0 || significand == 0:
		return 0, significand
	case significand&0xff0000 != 0:
		return exponent, significand
	case significand&0x00ff00 != 0:
		return exponent - 1, significand << 8
	case significand&0x0000ff != 0:
		if exponent >= 2 {
			return exponent - 2, significand << 16
		}
		return exponent - 1, significand << 8
	default:
		return exponent, significand
	}
}

// IsGreaterThan compares d and other after normalizing sign and exponent.
func (d BTCDifficulty) IsGreaterThan(other BTCDifficulty) bool {
	switch {
	case d.IsNegative() && !other.IsNegative():
		return false
	case !d.IsNegative() && other.IsNegative():
		return true
	}

	selfExp, selfSig := reduceExponentUnsigned(d.Exponent(), d.Significand())
	otherExp, otherSig := reduceExponentUnsigned(other.Exponent(), other.Significand())
	if selfExp != otherExp {
		return selfExp > otherExp
	}
	return selfSig > otherSig
}

// IsEqualTo compares d and other in lowest-exponent form.
func (d BTCDifficulty) IsEqualTo(other BTCDifficulty) bool {
	return d.ToLowestExponentForm() == other.ToLowestExponentForm()
}

// IsLessOrEqual and IsGreaterOrEqual are the remaining comparison operators,
// built atop IsGreaterThan/IsEqualTo.
func (d BTCDifficulty) IsLessOrEqual(other BTCDifficulty) bool { return !d.IsGreaterThan(other) }
func (d BTCDifficulty) IsGreaterOrEqual(other BTCDifficulty) bool {
	return d.IsGreaterThan(other) || d.IsEqualTo(other)
}

// MulValue multiplies the target by a small positive integer, widening the
// significand to 64 bits and renormalizing.
func (d BTCDifficulty) MulValue(value uint32) BTCDifficulty {
	switch {
	case value == 0:
		return BTCDifficulty(0)
	case value == 1:
		return d
	case d.IsZero():
		return BTCDifficulty(0)
	}

	significand := d.Significand()
	exponent := d.Exponent()
	negative := d.IsNegative()
	nSig := uint64(significand) * uint64(value)
	if nSig <= 0x007fffff {
		return FromParts(exponent, uint32(nSig), negative).ToLowestExponentForm()
	}
	return FromParts(exponent+1, uint32(nSig>>8), negative).ToLowestExponentForm()
}

// DivValue divides the target by a small positive integer.
func (d BTCDifficulty) DivValue(value uint32) BTCDifficulty {
	switch {
	case value == 0:
		return BTCDifficulty(0)
	case value == 1:
		return d
	case d.IsZero():
		return BTCDifficulty(0)
	}

	significand := d.Significand()
	exponent := d.Exponent()
	negative := d.IsNegative()
	nSig := uint32((uint64(significand) << 32) / uint64(value) >> 32)
	if nSig <= 0x007fffff {
		return FromParts(exponent, nSig, negative).ToLowestExponentForm()
	}
	return FromParts(exponent+1, nSig>>8, negative).ToLowestExponentForm()
}

// numBitsAndFirstNonZero returns the bit-length of the big-endian 256-bit
// integer x and the index of its first non-zero byte, or (0, -1) if x is
// all-zero.
func numBitsAndFirstNonZero(x [32]byte) (int, int) {
	firstNonZero := -1
	for i := 0; i < 32; i++ {
		if x[i] != 0 {
			firstNonZero = i
			break
		}
	}
	if firstNonZero == -1 {
		return 0, -1
	}
	leadingZeros := 0
	b := x[firstNonZero]
	for mask := byte(0x80); mask != 0 && b&mask == 0; mask >>= 1 {
		leadingZeros++
	}
	bits := (32-firstNonZero)*8 - leadingZeros
	return bits, firstNonZero
}

// numBitsAndHighU32 additionally extracts the 32 most significant bits
// starting at the first non-zero byte, zero-padded on the right when fewer
// than 4 bytes remain.
func numBitsAndHighU32(x [32]byte) (int, uint32) {
	nBits, firstNonZero := numBitsAndFirstNonZero(x)
	if nBits == 0 {
		return 0, 0
	}
	var buf [4]byte
	switch {
	case firstNonZero < 28:
		copy(buf[:], x[firstNonZero:firstNonZero+4])
	case firstNonZero < 29:
		copy(buf[1:], x[firstNonZero:firstNonZero+3])
	case firstNonZero < 30:
		copy(buf[2:], x[firstNonZero:firstNonZero+2])
	default:
		buf[3] = x[firstNonZero]
	}
	high := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	return nBits, high
}

// NewBTCDifficultyFromHash encodes a big-endian 256-bit hash as a compact
// difficulty, applying the sign-bit-collision rule: if the would-be
// significand's top bit would read as the sign flag, the significand is
// shifted right by 8 bits and the exponent bumped.
func NewBTCDifficultyFromHash(hash chainhash.Hash) BTCDifficulty {
	nBits, highU32 := numBitsAndHighU32([32]byte(hash))

	nSize := uint32(nBits+7) / 8
	var nCompact uint32
	if nSize <= 3 {
		nCompact = highU32 << (8 * (3 - nSize))
	} else {
		nCompact = highU32 >> 8
	}
	if nCompact&negativeFlag != 0 {
		nCompact >>= 8
		nSize++
	}
	nCompact |= nSize << 24
	return BTCDifficulty(nCompact)
}

// NewBTCDifficultyFromBitsZeroOnOverflow decodes compact, returning the
// all-zero difficulty if it encodes a negative target or one whose
// magnitude would exceed 256 bits.
func NewBTCDifficultyFromBitsZeroOnOverflow(compact uint32) BTCDifficulty {
	nSize := compact >> 24
	var nWord uint32
	if nSize <= 3 {
		nWord = (compact & 0x007fffff) >> (8 * (3 - nSize))
	} else {
		nWord = compact & 0x007fffff
	}

	negative := nWord != 0 && compact&negativeFlag != 0
	overflow := nWord != 0 &&
		(nSize > 34 || (nWord > 0xff && nSize > 33) || (nWord > 0xffff && nSize > 32))

	if negative || overflow {
		return BTCDifficulty(0)
	}
	return BTCDifficulty(compact)
}

// getExtraPrecision64 renormalizes a 64-bit widened significand produced by
// AdjustForNextWork's exponent>0 path down to the 23-bit field, bumping the
// exponent as it rescales.
func getExtraPrecision64(exponent uint32, shiftedSignificand uint64, negative bool) BTCDifficulty {
	switch {
	case shiftedSignificand == 0:
		return FromParts(0, uint32(shiftedSignificand), negative).ToLowestExponentForm()
	case exponent == 0 && shiftedSignificand <= 0xffffffff:
		return FromParts(0, 0, negative).ToLowestExponentForm()
	}

	x := shiftedSignificand
	newExponent := exponent

	if x > 0x7fffffffffffffff {
		x >>= 8
		newExponent++
	}
	for x < 0x00ffffffffffffff && newExponent > 0 {
		x <<= 8
		newExponent--
	}
	if x > 0x7fffffffffffffff {
		x >>= 8
		newExponent++
	}

	baseP := x >> 32
	for baseP > 0x7fffff {
		baseP >>= 8
		newExponent++
	}
	return FromParts(newExponent, uint32(baseP), negative).ToLowestExponentForm()
}

// AdjustForNextWork computes self * modulatedTimespan / retargetTimespan,
// the core DigiShield retarget step. The exponent==0 path widens to 128
// bits via math/big to stay lossless (mirroring the reference
// implementation's u128 arithmetic); the general path widens to 64 bits and
// renormalizes through getExtraPrecision64.
func (d BTCDifficulty) AdjustForNextWork(modulatedTimespan, retargetTimespan int64) BTCDifficulty {
	exponent := d.Exponent()
	significand := d.Significand()
	negative := d.IsNegative()

	if exponent == 0 {
		num := new(big.Int).SetUint64(uint64(significand))
		num.Mul(num, big.NewInt(modulatedTimespan))
		num.Lsh(num, 32)
		num.Div(num, big.NewInt(retargetTimespan))
		num.Rsh(num, 32)
		mulRes := uint32(num.Uint64())

		if mulRes <= 0x007fffff {
			return FromParts(exponent, mulRes, negative).ToLowestExponentForm()
		}
		return FromParts(exponent+1, mulRes>>8, negative).ToLowestExponentForm()
	}

	sigMulRes := uint64(significand) * uint64(modulatedTimespan)
	if sigMulRes > 0xffffffff {
		smrShifted := sigMulRes
		shiftPositions := uint32(0)
		for smrShifted < 0x00ffffffffffffff && shiftPositions < 4 {
			smrShifted <<= 8
			shiftPositions++
		}
		sigDiv1 := smrShifted / uint64(retargetTimespan)
		return getExtraPrecision64(exponent+(4-shiftPositions), sigDiv1, negative)
	}

	sigDiv1 := (sigMulRes << 32) / uint64(retargetTimespan)
	return getExtraPrecision64(exponent, sigDiv1, negative)
}

// IntoAdjustForNextWork computes the next-work compact bits, clamped to
// powLimit.
func (d BTCDifficulty) IntoAdjustForNextWork(modulatedTimespan, retargetTimespan int64, powLimit BTCDifficulty) uint32 {
	res := d.AdjustForNextWork(modulatedTimespan, retargetTimespan)
	if res.IsGreaterOrEqual(powLimit) {
		return powLimit.ToCompactBits()
	}
	return res.ToCompactBits()
}

// GetStr renders a debug-only textual form; never used for comparisons.
func (d BTCDifficulty) GetStr() string {
	return fmt.Sprintf("exponent: %d, significand: %d, negative: %t", d.Exponent(), d.Significand(), d.IsNegative())
}
