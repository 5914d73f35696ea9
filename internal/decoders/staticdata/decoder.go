// Package staticdata decodes static data reports (type 24, parts A and B).
package staticdata

import (
	"ais_parser/internal/registry"
	"ais_parser/internal/sixbit"
)

type Decoder struct{}

func init() {
	registry.Register(&Decoder{})
}

func (d *Decoder) Name() string   { return "static_data" }
func (d *Decoder) Types() []uint8 { return []uint8{24} }

func (d *Decoder) Decode(bits sixbit.Bits) (registry.Fields, error) {
	r := sixbit.NewReader(bits)
	fields := registry.Fields{
		"type":   r.Uint(0, 6),
		"repeat": r.Uint(6, 2),
		"mmsi":   r.Uint(8, 30),
	}
	partno := r.Uint(38, 2)
	fields["partno"] = partno
	if err := r.Err(); err != nil {
		return nil, err
	}

	if partno == 0 {
		fields["shipname"] = r.Text(40, 120)
	} else {
		fields["shiptype"] = r.Uint(40, 8)
		fields["vendorid"] = r.Text(48, 42)
		fields["callsign"] = r.Text(90, 42)
		fields["to_bow"] = r.Uint(132, 9)
		fields["to_stern"] = r.Uint(141, 9)
		fields["to_port"] = r.Uint(150, 6)
		fields["to_starboard"] = r.Uint(156, 6)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}
