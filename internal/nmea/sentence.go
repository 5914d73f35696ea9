package nmea

import (
	"bytes"
	"fmt"
	"strconv"

	"ais_parser/internal/sixbit"
)

// Sentence is one parsed AIVDM/AIVDO sentence. A Sentence only exists if its
// declared checksum matched the computed one; construction fails otherwise.
type Sentence struct {
	Raw           []byte      // the sentence as received
	Talker        string      // 2-char talker id, e.g. "AI"
	Formatter     string      // sentence formatter, e.g. "VDM" or "VDO"
	FragmentCount int         // total fragments in the logical message
	FragmentIndex int         // 1-based index of this fragment
	SeqID         string      // sequential message id, empty for single-part
	Channel       string      // VHF channel designator, 'A' or 'B'
	Payload       []byte      // six-bit-armored payload bytes
	PadBits       int         // declared fill bits in the trailing field
	Checksum      byte        // declared checksum, validated at parse time
	Bits          sixbit.Bits // unarmored payload
	TypeID        uint8       // AIS message type discriminator, bits [0,6)
}

// Parse parses one raw sentence. Input whose lead byte is not '!' returns
// ErrIgnored so non-AIS NMEA lines pass through without failing. All other
// errors are fatal to the sentence.
func Parse(raw []byte) (*Sentence, error) {
	if len(raw) == 0 || raw[0] != '!' {
		return nil, ErrIgnored
	}

	fields := bytes.Split(raw, []byte(","))
	if len(fields) != 7 {
		return nil, fmt.Errorf("%w: %d comma-separated fields, want 7", ErrFraming, len(fields))
	}

	head := fields[0]
	if len(head) < 4 {
		return nil, fmt.Errorf("%w: header %q too short", ErrFraming, head)
	}

	count, err := strconv.Atoi(string(fields[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: fragment count %q", ErrNumericField, fields[1])
	}
	index, err := strconv.Atoi(string(fields[2]))
	if err != nil {
		return nil, fmt.Errorf("%w: fragment index %q", ErrNumericField, fields[2])
	}
	if count < 1 || index < 1 || index > count {
		return nil, fmt.Errorf("%w: fragment %d of %d", ErrFraming, index, count)
	}

	// The trailing field combines the pad-bit count and the checksum:
	// "<padCount>*<checksumHex>". The declared checksum is the two hex
	// digits after '*'.
	trailer := fields[6]
	star := bytes.IndexByte(trailer, '*')
	if star < 0 || len(trailer) < star+3 {
		return nil, fmt.Errorf("%w: trailer %q", ErrFraming, trailer)
	}
	padBits, err := strconv.Atoi(string(trailer[:star]))
	if err != nil {
		return nil, fmt.Errorf("%w: pad count %q", ErrNumericField, trailer[:star])
	}
	declared, err := strconv.ParseUint(string(trailer[star+1:star+3]), 16, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: checksum %q", ErrNumericField, trailer[star+1:star+3])
	}

	if computed := Checksum(raw); byte(declared) != computed {
		return nil, fmt.Errorf("%w: declared %02X, computed %02X", ErrChecksum, declared, computed)
	}

	payload := append([]byte(nil), fields[5]...)
	bits, err := sixbit.Unarm(payload)
	if err != nil {
		return nil, fmt.Errorf("unarmor payload: %w", err)
	}
	typeID, err := bits.Uint(0, 6)
	if err != nil {
		return nil, fmt.Errorf("read type discriminator: %w", err)
	}

	return &Sentence{
		Raw:           append([]byte(nil), raw...),
		Talker:        string(head[1:3]),
		Formatter:     string(head[3:]),
		FragmentCount: count,
		FragmentIndex: index,
		SeqID:         string(fields[3]),
		Channel:       string(fields[4]),
		Payload:       payload,
		PadBits:       padBits,
		Checksum:      byte(declared),
		Bits:          bits,
		TypeID:        uint8(typeID),
	}, nil
}

// IsSingle reports whether the sentence carries a complete logical message on
// its own: one fragment, index one, no sequential message id.
func (s *Sentence) IsSingle() bool {
	return s.FragmentCount == 1 && s.FragmentIndex == 1 && s.SeqID == ""
}

// IsMulti reports whether the sentence is part of a multi-fragment message.
func (s *Sentence) IsMulti() bool {
	return !s.IsSingle()
}
