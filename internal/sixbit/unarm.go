package sixbit

import (
	"errors"
	"fmt"
)

// ErrPayloadByte is returned when a payload byte falls outside the AIS
// six-bit armoring table.
var ErrPayloadByte = errors.New("byte outside six-bit table")

// Unarm converts an armored AIS payload into its bit stream. Each payload byte
// carries six data bits: v = b - 0x30, then v -= 8 when v > 40, and the low
// six bits of v are appended MSB-first. Valid payload bytes are 0x30-0x57 and
// 0x60-0x77; anything else fails.
func Unarm(payload []byte) (Bits, error) {
	bits := make([]byte, 0, len(payload)*6)
	for i, b := range payload {
		if b < 0x30 || b > 0x77 || (b > 0x57 && b < 0x60) {
			return Bits{}, fmt.Errorf("%w: 0x%02X at offset %d", ErrPayloadByte, b, i)
		}
		v := b - 0x30
		if v > 40 {
			v -= 8
		}
		for shift := 5; shift >= 0; shift-- {
			bits = append(bits, (v>>shift)&1)
		}
	}
	return Bits{b: bits}, nil
}
