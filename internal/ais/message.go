// Package ais wraps a complete logical AIS message: it extracts the type
// discriminator, dispatches to the field-decoder registry, and exposes field
// lookup and structured export.
package ais

import (
	"encoding/json"
	"fmt"

	"ais_parser/internal/nmea"
	"ais_parser/internal/registry"
)

// Message is a decoded AIS message together with the packet it came from.
// The field mapping is owned by the message and lives only as long as it does.
type Message struct {
	Packet *nmea.Packet
	TypeID uint8
	Fields registry.Fields
}

// Decode decodes a packet using the default registry.
func Decode(pkt *nmea.Packet) (*Message, error) {
	return DecodeWith(registry.Default(), pkt)
}

// DecodeWith reads the 6-bit type discriminator at bit offset 0 and dispatches
// the packet's bit stream to the given registry.
func DecodeWith(reg *registry.Registry, pkt *nmea.Packet) (*Message, error) {
	typeID, err := pkt.Bits.Uint(0, 6)
	if err != nil {
		return nil, fmt.Errorf("read type discriminator: %w", err)
	}

	fields, err := reg.Decode(uint8(typeID), pkt.Bits)
	if err != nil {
		return nil, err
	}

	return &Message{
		Packet: pkt,
		TypeID: uint8(typeID),
		Fields: fields,
	}, nil
}

// Field looks up a decoded field by name. The second return value reports
// whether the field is present; a missing field is never an error.
func (m *Message) Field(name string) (any, bool) {
	v, ok := m.Fields[name]
	return v, ok
}

// String renders the decoded field mapping.
func (m *Message) String() string {
	return fmt.Sprintf("%v", map[string]any(m.Fields))
}

// Export returns the framing metadata and the decoded fields as one
// serializable structure. Binary buffers are rendered as text: the raw
// sentence and payload as strings, the unarmored payload as a "01" bit string.
func (m *Message) Export() map[string]any {
	return map[string]any{
		"nmea": map[string]any{
			"raw":            string(m.Packet.Raw),
			"talker":         m.Packet.Talker,
			"formatter":      m.Packet.Formatter,
			"fragment_count": m.Packet.FragmentCount,
			"seq_id":         m.Packet.SeqID,
			"channel":        m.Packet.Channel,
			"payload":        string(m.Packet.Payload),
			"bits":           m.Packet.Bits.String(),
			"type":           m.TypeID,
		},
		"decoded": map[string]any(m.Fields),
	}
}

// JSON serializes the export with stable two-space indentation.
func (m *Message) JSON() ([]byte, error) {
	return json.MarshalIndent(m.Export(), "", "  ")
}
