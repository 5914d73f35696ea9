package nmea

import (
	"fmt"

	"ais_parser/internal/sixbit"
)

// Packet is one complete logical AIS message: either a single sentence or the
// ordered concatenation of all fragments of a multi-part message. Framing
// metadata comes from the first fragment.
type Packet struct {
	Raw           []byte      // concatenated raw bytes of all fragments
	Payload       []byte      // concatenated armored payload bytes
	Bits          sixbit.Bits // concatenated unarmored bits
	Talker        string
	Formatter     string
	SeqID         string
	Channel       string
	FragmentCount int
	TypeID        uint8
}

// Single wraps a single-fragment sentence as a complete Packet.
func Single(s *Sentence) *Packet {
	return &Packet{
		Raw:           s.Raw,
		Payload:       s.Payload,
		Bits:          s.Bits,
		Talker:        s.Talker,
		Formatter:     s.Formatter,
		SeqID:         s.SeqID,
		Channel:       s.Channel,
		FragmentCount: s.FragmentCount,
		TypeID:        s.TypeID,
	}
}

// Assemble combines the fragments of one multi-part message into a fresh
// Packet, leaving every input sentence unmodified. The fragments must share
// talker and sequential message id and arrive in strictly increasing index
// order 1..FragmentCount with no gaps or duplicates; violations fail with
// ErrAssembly.
func Assemble(fragments []*Sentence) (*Packet, error) {
	if len(fragments) == 0 {
		return nil, fmt.Errorf("%w: no fragments", ErrAssembly)
	}

	first := fragments[0]
	if len(fragments) != first.FragmentCount {
		return nil, fmt.Errorf("%w: %d fragments, sentence declares %d",
			ErrAssembly, len(fragments), first.FragmentCount)
	}

	var raw, payload []byte
	streams := make([]sixbit.Bits, 0, len(fragments))
	for i, f := range fragments {
		if f.Talker != first.Talker || f.SeqID != first.SeqID {
			return nil, fmt.Errorf("%w: fragment %d has framing %s/%q, want %s/%q",
				ErrAssembly, i+1, f.Talker, f.SeqID, first.Talker, first.SeqID)
		}
		if f.FragmentCount != first.FragmentCount {
			return nil, fmt.Errorf("%w: fragment %d declares count %d, want %d",
				ErrAssembly, i+1, f.FragmentCount, first.FragmentCount)
		}
		if f.FragmentIndex != i+1 {
			return nil, fmt.Errorf("%w: fragment index %d at position %d",
				ErrAssembly, f.FragmentIndex, i+1)
		}
		raw = append(raw, f.Raw...)
		payload = append(payload, f.Payload...)
		streams = append(streams, f.Bits)
	}

	bits := sixbit.Concat(streams...)
	typeID, err := bits.Uint(0, 6)
	if err != nil {
		return nil, fmt.Errorf("read type discriminator: %w", err)
	}

	return &Packet{
		Raw:           raw,
		Payload:       payload,
		Bits:          bits,
		Talker:        first.Talker,
		Formatter:     first.Formatter,
		SeqID:         first.SeqID,
		Channel:       first.Channel,
		FragmentCount: first.FragmentCount,
		TypeID:        uint8(typeID),
	}, nil
}
