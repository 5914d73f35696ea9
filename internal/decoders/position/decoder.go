// Package position decodes Class A position reports (message types 1-3).
package position

import (
	"ais_parser/internal/registry"
	"ais_parser/internal/sixbit"
)

// Decoder decodes the common navigation block shared by types 1, 2, and 3.
type Decoder struct{}

func init() {
	registry.Register(&Decoder{})
}

func (d *Decoder) Name() string   { return "position" }
func (d *Decoder) Types() []uint8 { return []uint8{1, 2, 3} }

func (d *Decoder) Decode(bits sixbit.Bits) (registry.Fields, error) {
	r := sixbit.NewReader(bits)
	fields := registry.Fields{
		"type":     r.Uint(0, 6),
		"repeat":   r.Uint(6, 2),
		"mmsi":     r.Uint(8, 30),
		"status":   r.Uint(38, 4),
		"turn":     r.Int(42, 8),
		"speed":    float64(r.Uint(50, 10)) / 10.0,
		"accuracy": r.Uint(60, 1) == 1,
		"lon":      float64(r.Int(61, 28)) / 600000.0,
		"lat":      float64(r.Int(89, 27)) / 600000.0,
		"course":   float64(r.Uint(116, 12)) / 10.0,
		"heading":  r.Uint(128, 9),
		"second":   r.Uint(137, 6),
		"maneuver": r.Uint(143, 2),
		"raim":     r.Uint(148, 1) == 1,
		"radio":    r.Uint(149, 19),
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}
