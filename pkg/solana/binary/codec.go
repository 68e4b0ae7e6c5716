package binary

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	ErrShortBuffer     = errors.New("buffer too short for field")
	ErrStringTooLong   = errors.New("string exceeds max length")
	ErrInvalidBoolByte = errors.New("invalid bool byte")
)

// StringSize is the fixed space taken by a length prefixed string with a
// max length of n bytes.
func StringSize(n int) int {
	return 4 + n
}

// Encoder writes little endian fields into a fixed size record.
//
// The first error is sticky and subsequent writes are no-ops.
type Encoder struct {
	buf    []byte
	offset int
	err    error
}

func NewEncoder(size int) *Encoder {
	return &Encoder{
		buf: make([]byte, size),
	}
}

func (e *Encoder) reserve(n int) []byte {
	if e.err != nil {
		return nil
	}
	if e.offset+n > len(e.buf) {
		e.err = ErrShortBuffer
		return nil
	}
	dst := e.buf[e.offset : e.offset+n]
	e.offset += n
	return dst
}

func (e *Encoder) PutBytes(v []byte) {
	if dst := e.reserve(len(v)); dst != nil {
		copy(dst, v)
	}
}

// PutKey32 writes a 32 byte key. A nil key is written as zeroes.
func (e *Encoder) PutKey32(v ed25519.PublicKey) {
	if dst := e.reserve(ed25519.PublicKeySize); dst != nil {
		copy(dst, v)
	}
}

func (e *Encoder) PutUint8(v uint8) {
	if dst := e.reserve(1); dst != nil {
		dst[0] = v
	}
}

func (e *Encoder) PutBool(v bool) {
	if v {
		e.PutUint8(1)
	} else {
		e.PutUint8(0)
	}
}

func (e *Encoder) PutUint16(v uint16) {
	if dst := e.reserve(2); dst != nil {
		binary.LittleEndian.PutUint16(dst, v)
	}
}

func (e *Encoder) PutUint32(v uint32) {
	if dst := e.reserve(4); dst != nil {
		binary.LittleEndian.PutUint32(dst, v)
	}
}

func (e *Encoder) PutUint64(v uint64) {
	if dst := e.reserve(8); dst != nil {
		binary.LittleEndian.PutUint64(dst, v)
	}
}

func (e *Encoder) PutInt64(v int64) {
	e.PutUint64(uint64(v))
}

// PutUint128 writes a 16 byte little endian value given as low and high
// 64 bit halves.
func (e *Encoder) PutUint128(lo, hi uint64) {
	e.PutUint64(lo)
	e.PutUint64(hi)
}

// PutString writes a u32 length prefix followed by the string, zero padded
// to max bytes.
func (e *Encoder) PutString(v string, max int) {
	if len(v) > max {
		if e.err == nil {
			e.err = ErrStringTooLong
		}
		return
	}

	e.PutUint32(uint32(len(v)))
	if dst := e.reserve(max); dst != nil {
		copy(dst, v)
	}
}

func (e *Encoder) Bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf, nil
}

// Decoder reads fields written by an Encoder.
type Decoder struct {
	buf    []byte
	offset int
	err    error
}

func NewDecoder(buf []byte) *Decoder {
	return &Decoder{
		buf: buf,
	}
}

func (d *Decoder) next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.offset+n > len(d.buf) {
		d.err = ErrShortBuffer
		return nil
	}
	src := d.buf[d.offset : d.offset+n]
	d.offset += n
	return src
}

func (d *Decoder) GetBytes(n int) []byte {
	src := d.next(n)
	if src == nil {
		return nil
	}
	dst := make([]byte, n)
	copy(dst, src)
	return dst
}

func (d *Decoder) GetKey32() ed25519.PublicKey {
	return d.GetBytes(ed25519.PublicKeySize)
}

func (d *Decoder) GetUint8() uint8 {
	src := d.next(1)
	if src == nil {
		return 0
	}
	return src[0]
}

func (d *Decoder) GetBool() bool {
	switch v := d.GetUint8(); v {
	case 0:
		return false
	case 1:
		return true
	default:
		if d.err == nil {
			d.err = ErrInvalidBoolByte
		}
		return false
	}
}

func (d *Decoder) GetUint16() uint16 {
	src := d.next(2)
	if src == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(src)
}

func (d *Decoder) GetUint32() uint32 {
	src := d.next(4)
	if src == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(src)
}

func (d *Decoder) GetUint64() uint64 {
	src := d.next(8)
	if src == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(src)
}

func (d *Decoder) GetInt64() int64 {
	return int64(d.GetUint64())
}

func (d *Decoder) GetUint128() (lo, hi uint64) {
	lo = d.GetUint64()
	hi = d.GetUint64()
	return lo, hi
}

func (d *Decoder) GetString(max int) string {
	length := d.GetUint32()
	src := d.next(max)
	if src == nil {
		return ""
	}
	if int(length) > max {
		d.err = ErrStringTooLong
		return ""
	}
	return string(src[:length])
}

func (d *Decoder) Err() error {
	return d.err
}
