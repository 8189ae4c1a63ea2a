package sds

import (
	"bytes"
	"encoding/binary"
	"math"
	"reflect"
)

// Fixed is the set of types ReadValue and WriteValue transfer.
type Fixed interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 |
		~float32 | ~float64
}

// byteOrder is the layout of every multi-byte value written by the typed
// helpers, string length prefixes included.
var byteOrder = binary.LittleEndian

// stringChunk bounds the allocation made for a single read of string
// payload, so a corrupt length prefix cannot allocate gigabytes up front.
const stringChunk = 64 * 1024

// ReadValue reads binary.Size(*out) little-endian bytes into out and returns
// the number of bytes read. out is left untouched on a short read.
func ReadValue[T Fixed](s *Stream, out *T) int {
	var buf [8]byte
	size := binary.Size(*out)
	n := s.Read(buf[:size])
	if n == size {
		decodeFixed(buf[:size], reflect.ValueOf(out).Elem())
	}
	return n
}

// ReadAs reads a T, returning the zero value on a short read.
func ReadAs[T Fixed](s *Stream) T {
	var v T
	ReadValue(s, &v)
	return v
}

// WriteValue writes v little-endian and returns the number of bytes written.
func WriteValue[T Fixed](s *Stream, v T) int {
	var buf [8]byte
	size := binary.Size(v)
	encodeFixed(buf[:size], reflect.ValueOf(v))
	return s.Write(buf[:size])
}

// encodeFixed stores v, of a Fixed kind, into buf sized to match it.
func encodeFixed(buf []byte, v reflect.Value) {
	switch v.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		putUint(buf, uint64(v.Int()))
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		putUint(buf, v.Uint())
	case reflect.Float32:
		byteOrder.PutUint32(buf, math.Float32bits(float32(v.Float())))
	case reflect.Float64:
		byteOrder.PutUint64(buf, math.Float64bits(v.Float()))
	}
}

// decodeFixed is the inverse of encodeFixed. Integer setters truncate to
// the width of v, which restores the sign of narrow signed values.
func decodeFixed(buf []byte, v reflect.Value) {
	switch v.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(getUint(buf)))
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(getUint(buf))
	case reflect.Float32:
		v.SetFloat(float64(math.Float32frombits(byteOrder.Uint32(buf))))
	case reflect.Float64:
		v.SetFloat(math.Float64frombits(byteOrder.Uint64(buf)))
	}
}

func putUint(buf []byte, u uint64) {
	switch len(buf) {
	case 1:
		buf[0] = byte(u)
	case 2:
		byteOrder.PutUint16(buf, uint16(u))
	case 4:
		byteOrder.PutUint32(buf, uint32(u))
	case 8:
		byteOrder.PutUint64(buf, u)
	}
}

func getUint(buf []byte) uint64 {
	switch len(buf) {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(byteOrder.Uint16(buf))
	case 4:
		return uint64(byteOrder.Uint32(buf))
	}
	return byteOrder.Uint64(buf)
}

// ReadBool reads a single byte; any non-zero value is true.
func (s *Stream) ReadBool() (bool, int) {
	var v uint8
	n := ReadValue(s, &v)
	return v != 0, n
}

// WriteBool writes true as 0x01 and false as 0x00.
func (s *Stream) WriteBool(v bool) int {
	var b uint8
	if v {
		b = 1
	}
	return WriteValue(s, b)
}

// ReadString8 reads a string with an 8-bit length prefix.
func (s *Stream) ReadString8() string {
	return s.readString(uint64(ReadAs[uint8](s)))
}

// ReadString32 reads a string with a 32-bit length prefix.
func (s *Stream) ReadString32() string {
	return s.readString(uint64(ReadAs[uint32](s)))
}

// readString reads up to length bytes. The result is shorter than length
// only when the stream ended first, in which case EOF is set.
func (s *Stream) readString(length uint64) string {
	if length == 0 {
		return ""
	}

	var out bytes.Buffer
	chunk := make([]byte, min(length, stringChunk))
	for remaining := length; remaining > 0; {
		want := min(remaining, uint64(len(chunk)))
		n := s.Read(chunk[:want])
		out.Write(chunk[:n])
		if uint64(n) < want {
			break
		}
		remaining -= want
	}
	return out.String()
}

// WriteString8 writes v with an 8-bit length prefix. Content beyond 255
// bytes is silently dropped. It returns the number of bytes written,
// prefix included.
func (s *Stream) WriteString8(v string) int {
	length := min(len(v), math.MaxUint8)
	n := WriteValue(s, uint8(length))
	return n + s.Write([]byte(v[:length]))
}

// WriteString32 writes v with a 32-bit length prefix. Content beyond
// 2^32-1 bytes is silently dropped.
func (s *Stream) WriteString32(v string) int {
	length := uint64(len(v))
	if length > math.MaxUint32 {
		length = math.MaxUint32
	}
	n := WriteValue(s, uint32(length))
	return n + s.Write([]byte(v[:length]))
}
