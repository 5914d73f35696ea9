// Package basestation decodes base station reports (type 4) and UTC/date
// responses (type 11), which share one layout.
package basestation

import (
	"ais_parser/internal/registry"
	"ais_parser/internal/sixbit"
)

type Decoder struct{}

func init() {
	registry.Register(&Decoder{})
}

func (d *Decoder) Name() string   { return "base_station" }
func (d *Decoder) Types() []uint8 { return []uint8{4, 11} }

func (d *Decoder) Decode(bits sixbit.Bits) (registry.Fields, error) {
	r := sixbit.NewReader(bits)
	fields := registry.Fields{
		"type":     r.Uint(0, 6),
		"repeat":   r.Uint(6, 2),
		"mmsi":     r.Uint(8, 30),
		"year":     r.Uint(38, 14),
		"month":    r.Uint(52, 4),
		"day":      r.Uint(56, 5),
		"hour":     r.Uint(61, 5),
		"minute":   r.Uint(66, 6),
		"second":   r.Uint(72, 6),
		"accuracy": r.Uint(78, 1) == 1,
		"lon":      float64(r.Int(79, 28)) / 600000.0,
		"lat":      float64(r.Int(107, 27)) / 600000.0,
		"epfd":     r.Uint(134, 4),
		"raim":     r.Uint(148, 1) == 1,
		"radio":    r.Uint(149, 19),
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}
