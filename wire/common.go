// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/qedprotocol/doge-bridge-verifier/chaincfg/chainhash"
)

var littleEndian = binary.LittleEndian

// MessageEncoding represents the wire message encoding format to be used.
type MessageEncoding uint32

const (
	// BaseEncoding encodes all messages in the default format specified
	// for the network being used.
	BaseEncoding MessageEncoding = 1 << iota
)

// binaryFreeList is a free list of byte slices, used to reduce allocation
// pressure when reading and writing the small fixed-size fields that make
// up the header and transaction wire formats.
type binaryFreeList chan []byte

func newBinaryFreeList(size int) binaryFreeList {
	return make(binaryFreeList, size)
}

// Borrow returns a byte slice of length 8 from the free list, allocating a
// new one if none are available.
func (l binaryFreeList) Borrow() []byte {
	var buf []byte
	select {
	case buf = <-l:
	default:
		buf = make([]byte, 8)
	}
	return buf[:8]
}

// Return releases a byte slice back to the free list, discarding it if the
// free list is full.
func (l binaryFreeList) Return(buf []byte) {
	select {
	case l <- buf:
	default:
		// Let it be garbage collected.
	}
}

var binarySerializer = newBinaryFreeList(32)

var bufPool = sync.Pool{
	New: func() interface{} {
		return new([8]byte)
	},
}

// errNonCanonicalVarInt is returned when a variable length integer is
// encoded in a non-canonical way (using more bytes than necessary).
var errNonCanonicalVarInt = fmt.Errorf("non-canonical varint")

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64, following the standard Bitcoin-family compact size encoding:
// values below 0xfd are encoded in a single byte; 0xfd, 0xfe, and 0xff are
// prefix markers for 16-, 32-, and 64-bit values respectively.
func ReadVarInt(r io.Reader, pver uint32) (uint64, error) {
	buf := binarySerializer.Borrow()
	defer binarySerializer.Return(buf)

	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return 0, err
	}
	discriminant := buf[0]

	var rv uint64
	switch discriminant {
	case 0xff:
		if _, err := io.ReadFull(r, buf[:8]); err != nil {
			return 0, err
		}
		rv = littleEndian.Uint64(buf[:8])

		if rv < 0x100000000 {
			return 0, errNonCanonicalVarInt
		}

	case 0xfe:
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return 0, err
		}
		rv = uint64(littleEndian.Uint32(buf[:4]))

		if rv < 0x10000 {
			return 0, errNonCanonicalVarInt
		}

	case 0xfd:
		if _, err := io.ReadFull(r, buf[:2]); err != nil {
			return 0, err
		}
		rv = uint64(littleEndian.Uint16(buf[:2]))

		if rv < 0xfd {
			return 0, errNonCanonicalVarInt
		}

	default:
		rv = uint64(discriminant)
	}

	return rv, nil
}

// WriteVarInt writes val to w using the variable length integer encoding
// described in ReadVarInt.
func WriteVarInt(w io.Writer, pver uint32, val uint64) error {
	buf := binarySerializer.Borrow()
	defer binarySerializer.Return(buf)

	if val < 0xfd {
		buf[0] = uint8(val)
		_, err := w.Write(buf[:1])
		return err
	}

	if val <= 0xffff {
		buf[0] = 0xfd
		littleEndian.PutUint16(buf[1:3], uint16(val))
		_, err := w.Write(buf[:3])
		return err
	}

	if val <= 0xffffffff {
		buf[0] = 0xfe
		littleEndian.PutUint32(buf[1:5], uint32(val))
		_, err := w.Write(buf[:5])
		return err
	}

	buf[0] = 0xff
	littleEndian.PutUint64(buf[1:9], val)
	_, err := w.Write(buf[:9])
	return err
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	if val < 0xfd {
		return 1
	}
	if val <= 0xffff {
		return 3
	}
	if val <= 0xffffffff {
		return 5
	}
	return 9
}

// readElement reads a single fixed-size element from r into element, which
// must be a pointer to one of the supported wire primitive types.
func readElement(r io.Reader, element interface{}) error {
	buf := bufPool.Get().(*[8]byte)
	defer bufPool.Put(buf)

	switch e := element.(type) {
	case *int32:
		b := buf[:4]
		if _, err := io.ReadFull(r, b); err != nil {
			return err
		}
		*e = int32(littleEndian.Uint32(b))
		return nil

	case *uint32:
		b := buf[:4]
		if _, err := io.ReadFull(r, b); err != nil {
			return err
		}
		*e = littleEndian.Uint32(b)
		return nil

	case *int64:
		b := buf[:8]
		if _, err := io.ReadFull(r, b); err != nil {
			return err
		}
		*e = int64(littleEndian.Uint64(b))
		return nil

	case *uint64:
		b := buf[:8]
		if _, err := io.ReadFull(r, b); err != nil {
			return err
		}
		*e = littleEndian.Uint64(b)
		return nil

	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err
	}

	return fmt.Errorf("readElement: unsupported type %T", element)
}

// writeElement writes a single fixed-size element to w.
func writeElement(w io.Writer, element interface{}) error {
	buf := bufPool.Get().(*[8]byte)
	defer bufPool.Put(buf)

	switch e := element.(type) {
	case int32:
		littleEndian.PutUint32(buf[:4], uint32(e))
		_, err := w.Write(buf[:4])
		return err

	case uint32:
		littleEndian.PutUint32(buf[:4], e)
		_, err := w.Write(buf[:4])
		return err

	case int64:
		littleEndian.PutUint64(buf[:8], uint64(e))
		_, err := w.Write(buf[:8])
		return err

	case uint64:
		littleEndian.PutUint64(buf[:8], e)
		_, err := w.Write(buf[:8])
		return err

	case *chainhash.Hash:
		_, err := w.Write(e[:])
		return err
	}

	return fmt.Errorf("writeElement: unsupported type %T", element)
}

// readScript reads a variable length byte array (a script) that is prefixed
// with a compact-size length, enforcing maxAllowed as a sanity bound so a
// corrupt or hostile length prefix cannot trigger an unbounded allocation.
func readScript(r io.Reader, pver uint32, maxAllowed uint32, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r, pver)
	if err != nil {
		return nil, err
	}

	if count > uint64(maxAllowed) {
		return nil, fmt.Errorf("%s is larger than the max allowed size [count %d, max %d]",
			fieldName, count, maxAllowed)
	}

	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// writeVarBytes writes a compact-size length prefix followed by the bytes
// themselves.
func writeVarBytes(w io.Writer, pver uint32, b []byte) error {
	if err := WriteVarInt(w, pver, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}
