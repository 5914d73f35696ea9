// Package shipstatic decodes static and voyage related data (type 5).
package shipstatic

import (
	"ais_parser/internal/registry"
	"ais_parser/internal/sixbit"
)

type Decoder struct{}

func init() {
	registry.Register(&Decoder{})
}

func (d *Decoder) Name() string   { return "ship_static" }
func (d *Decoder) Types() []uint8 { return []uint8{5} }

func (d *Decoder) Decode(bits sixbit.Bits) (registry.Fields, error) {
	r := sixbit.NewReader(bits)
	fields := registry.Fields{
		"type":         r.Uint(0, 6),
		"repeat":       r.Uint(6, 2),
		"mmsi":         r.Uint(8, 30),
		"ais_version":  r.Uint(38, 2),
		"imo":          r.Uint(40, 30),
		"callsign":     r.Text(70, 42),
		"shipname":     r.Text(112, 120),
		"shiptype":     r.Uint(232, 8),
		"to_bow":       r.Uint(240, 9),
		"to_stern":     r.Uint(249, 9),
		"to_port":      r.Uint(258, 6),
		"to_starboard": r.Uint(264, 6),
		"epfd":         r.Uint(270, 4),
		"month":        r.Uint(274, 4),
		"day":          r.Uint(278, 5),
		"hour":         r.Uint(283, 5),
		"minute":       r.Uint(288, 6),
		"draught":      float64(r.Uint(294, 8)) / 10.0,
		"destination":  r.Text(302, 120),
		"dte":          r.Uint(422, 1) == 1,
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}
