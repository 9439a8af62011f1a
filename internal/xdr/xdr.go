// Package xdr provides big-endian binary encoding and decoding utilities
// for reading and writing FITS data units.
//
// FITS stores every multi-byte value in big-endian (network, XDR) byte
// order, with IEEE 754 floating-point samples. This package provides
// bounds-checked readers and writers for the primitive types used in FITS
// files, plus bulk helpers for whole sample arrays.
package xdr

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	// ErrShortBuffer is returned when a read or write operation cannot complete
	// because there isn't enough space in the buffer.
	ErrShortBuffer = errors.New("xdr: buffer too short")

	// ErrNegativeSize is returned when a size parameter is negative.
	ErrNegativeSize = errors.New("xdr: negative size")
)

// ByteOrder is the byte order used by FITS files.
var ByteOrder = binary.BigEndian

// Reader provides big-endian binary reading from a byte slice.
// It maintains a read position and provides bounds checking on all operations.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader from a byte slice.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	if r.pos >= len(r.data) {
		return 0
	}
	return len(r.data) - r.pos
}

// Pos returns the current read position.
func (r *Reader) Pos() int {
	return r.pos
}

// SetPos sets the read position. Returns an error if the position is out of bounds.
func (r *Reader) SetPos(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return ErrShortBuffer
	}
	r.pos = pos
	return nil
}

// Skip advances the read position by n bytes.
func (r *Reader) Skip(n int) error {
	if n < 0 {
		return ErrNegativeSize
	}
	if n > r.Len() {
		return ErrShortBuffer
	}
	r.pos += n
	return nil
}

// Peek returns the next n bytes without advancing. The returned slice
// aliases the reader's buffer.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeSize
	}
	if n > r.Len() {
		return nil, ErrShortBuffer
	}
	return r.data[r.pos : r.pos+n], nil
}

// Next returns the next n bytes and advances past them. The returned
// slice aliases the reader's buffer.
func (r *Reader) Next(n int) ([]byte, error) {
	b, err := r.Peek(n)
	if err != nil {
		return nil, err
	}
	r.pos += n
	return b, nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrShortBuffer
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadInt16 reads a signed 16-bit integer in big-endian order.
func (r *Reader) ReadInt16() (int16, error) {
	if r.Len() < 2 {
		return 0, ErrShortBuffer
	}
	v := ByteOrder.Uint16(r.data[r.pos:])
	r.pos += 2
	return int16(v), nil
}

// ReadUint32 reads an unsigned 32-bit integer in big-endian order.
func (r *Reader) ReadUint32() (uint32, error) {
	if r.Len() < 4 {
		return 0, ErrShortBuffer
	}
	v := ByteOrder.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadInt32 reads a signed 32-bit integer in big-endian order.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint64 reads an unsigned 64-bit integer in big-endian order.
func (r *Reader) ReadUint64() (uint64, error) {
	if r.Len() < 8 {
		return 0, ErrShortBuffer
	}
	v := ByteOrder.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadFloat32 reads a 32-bit IEEE 754 floating-point number.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFloat64 reads a 64-bit IEEE 754 floating-point number.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// BufferWriter is an append-only big-endian writer backed by a growing slice.
type BufferWriter struct {
	data []byte
}

// NewBufferWriter creates a BufferWriter with the given initial capacity.
func NewBufferWriter(capacity int) *BufferWriter {
	return &BufferWriter{data: make([]byte, 0, capacity)}
}

// Len returns the number of bytes written.
func (w *BufferWriter) Len() int {
	return len(w.data)
}

// Bytes returns the written bytes.
func (w *BufferWriter) Bytes() []byte {
	return w.data
}

// Reset discards everything written so far, keeping the allocation.
func (w *BufferWriter) Reset() {
	w.data = w.data[:0]
}

// WriteByte appends a single byte.
func (w *BufferWriter) WriteByte(b byte) {
	w.data = append(w.data, b)
}

// WriteBytes appends a byte slice.
func (w *BufferWriter) WriteBytes(b []byte) {
	w.data = append(w.data, b...)
}

// WriteUint32 appends an unsigned 32-bit integer in big-endian order.
func (w *BufferWriter) WriteUint32(v uint32) {
	w.data = ByteOrder.AppendUint32(w.data, v)
}

// WriteInt32 appends a signed 32-bit integer in big-endian order.
func (w *BufferWriter) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteUint64 appends an unsigned 64-bit integer in big-endian order.
func (w *BufferWriter) WriteUint64(v uint64) {
	w.data = ByteOrder.AppendUint64(w.data, v)
}

// WriteFloat32 appends a 32-bit IEEE 754 floating-point number.
func (w *BufferWriter) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 appends a 64-bit IEEE 754 floating-point number.
func (w *BufferWriter) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// Pad appends fill bytes until the length is a multiple of block.
func (w *BufferWriter) Pad(block int, fill byte) {
	if block <= 0 {
		return
	}
	for len(w.data)%block != 0 {
		w.data = append(w.data, fill)
	}
}

// DecodeInt32s decodes len(dst) big-endian int32 values from src.
func DecodeInt32s(dst []int32, src []byte) error {
	if len(src) < len(dst)*4 {
		return ErrShortBuffer
	}
	for i := range dst {
		dst[i] = int32(ByteOrder.Uint32(src[i*4:]))
	}
	return nil
}

// DecodeFloat32s decodes len(dst) big-endian float32 values from src.
func DecodeFloat32s(dst []float32, src []byte) error {
	if len(src) < len(dst)*4 {
		return ErrShortBuffer
	}
	for i := range dst {
		dst[i] = math.Float32frombits(ByteOrder.Uint32(src[i*4:]))
	}
	return nil
}

// DecodeFloat64s decodes len(dst) big-endian float64 values from src.
func DecodeFloat64s(dst []float64, src []byte) error {
	if len(src) < len(dst)*8 {
		return ErrShortBuffer
	}
	for i := range dst {
		dst[i] = math.Float64frombits(ByteOrder.Uint64(src[i*8:]))
	}
	return nil
}
