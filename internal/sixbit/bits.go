// Package sixbit implements the AIS six-bit ASCII payload encoding: unarmoring
// of payload bytes into a bit stream, and bit-field extraction from that stream.
package sixbit

import (
	"errors"
	"fmt"
)

// ErrRange is returned when a requested bit field extends past the end of the
// stream. Reads never zero-pad or truncate.
var ErrRange = errors.New("bit range out of bounds")

// Bits is an immutable, ordered bit stream produced by unarmoring an AIS
// payload. The zero value is an empty stream.
type Bits struct {
	b []byte // one byte per bit, values 0 or 1
}

// Len returns the number of bits in the stream.
func (bs Bits) Len() int {
	return len(bs.b)
}

// Uint extracts an unsigned integer from the given bit range. Bit start is the
// most significant bit of the field. Fields up to 64 bits are supported.
func (bs Bits) Uint(start, length int) (uint64, error) {
	if length < 1 || length > 64 {
		return 0, fmt.Errorf("%w: field width %d", ErrRange, length)
	}
	if start < 0 || start+length > len(bs.b) {
		return 0, fmt.Errorf("%w: bits [%d,%d) of %d", ErrRange, start, start+length, len(bs.b))
	}
	var v uint64
	for _, bit := range bs.b[start : start+length] {
		v = v<<1 | uint64(bit)
	}
	return v, nil
}

// Int extracts a signed integer from the given bit range, interpreting the
// field as two's complement over length bits.
func (bs Bits) Int(start, length int) (int64, error) {
	v, err := bs.Uint(start, length)
	if err != nil {
		return 0, err
	}
	if length < 64 && v&(1<<(length-1)) != 0 {
		return int64(v) - 1<<length, nil
	}
	return int64(v), nil
}

// Text extracts an AIS six-bit text field: each 6-bit group is one character,
// values below 32 map to '@'..'_', the rest map to ' '..'?'. Decoding stops at
// the '@' terminator and trailing spaces are trimmed.
func (bs Bits) Text(start, length int) (string, error) {
	if start < 0 || length < 0 || start+length > len(bs.b) {
		return "", fmt.Errorf("%w: bits [%d,%d) of %d", ErrRange, start, start+length, len(bs.b))
	}
	out := make([]byte, 0, length/6)
	for off := start; off+6 <= start+length; off += 6 {
		c, err := bs.Uint(off, 6)
		if err != nil {
			return "", err
		}
		if c == 0 {
			break
		}
		if c < 32 {
			out = append(out, byte(c)+64)
		} else {
			out = append(out, byte(c))
		}
	}
	for len(out) > 0 && out[len(out)-1] == ' ' {
		out = out[:len(out)-1]
	}
	return string(out), nil
}

// String renders the stream as a textual bit string ("0101...").
func (bs Bits) String() string {
	out := make([]byte, len(bs.b))
	for i, bit := range bs.b {
		out[i] = '0' + bit
	}
	return string(out)
}

// Concat returns a fresh stream holding the bits of each input in order.
// The inputs are left unmodified.
func Concat(streams ...Bits) Bits {
	n := 0
	for _, s := range streams {
		n += len(s.b)
	}
	out := make([]byte, 0, n)
	for _, s := range streams {
		out = append(out, s.b...)
	}
	return Bits{b: out}
}
