package storage

import (
	"time"

	"ais_parser/internal/ais"
)

func fieldU64(m *ais.Message, name string) uint64 {
	if v, ok := m.Field(name); ok {
		if u, ok := v.(uint64); ok {
			return u
		}
	}
	return 0
}

func fieldF64(m *ais.Message, name string) float64 {
	if v, ok := m.Field(name); ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}

func fieldStr(m *ais.Message, name string) string {
	if v, ok := m.Field(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func fieldBool(m *ais.Message, name string) bool {
	if v, ok := m.Field(name); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// ExtractPosition builds a ClickHouse position row from a decoded message.
// It returns false for message types that carry no position.
func ExtractPosition(m *ais.Message, receivedAt time.Time) (Position, bool) {
	switch m.TypeID {
	case 1, 2, 3, 18, 19:
	default:
		return Position{}, false
	}

	return Position{
		MMSI:       uint32(fieldU64(m, "mmsi")),
		ReceivedAt: receivedAt,
		TypeID:     m.TypeID,
		Channel:    m.Packet.Channel,
		Latitude:   fieldF64(m, "lat"),
		Longitude:  fieldF64(m, "lon"),
		Speed:      float32(fieldF64(m, "speed")),
		Course:     float32(fieldF64(m, "course")),
		Heading:    uint16(fieldU64(m, "heading")),
		Status:     uint8(fieldU64(m, "status")), // zero for Class B types
		Second:     uint8(fieldU64(m, "second")),
		RAIM:       fieldBool(m, "raim"),
		Raw:        string(m.Packet.Raw),
	}, true
}

// ExtractVessel builds a vessel registry row from a decoded static report.
// It returns false for message types that carry no static data.
func ExtractVessel(m *ais.Message) (Vessel, bool) {
	switch m.TypeID {
	case 5, 19, 24:
	default:
		return Vessel{}, false
	}

	return Vessel{
		MMSI:        int64(fieldU64(m, "mmsi")),
		Name:        fieldStr(m, "shipname"),
		Callsign:    fieldStr(m, "callsign"),
		IMO:         int64(fieldU64(m, "imo")),
		ShipType:    int(fieldU64(m, "shiptype")),
		ToBow:       int(fieldU64(m, "to_bow")),
		ToStern:     int(fieldU64(m, "to_stern")),
		ToPort:      int(fieldU64(m, "to_port")),
		ToStarboard: int(fieldU64(m, "to_starboard")),
		Destination: fieldStr(m, "destination"),
		Draught:     fieldF64(m, "draught"),
	}, true
}
