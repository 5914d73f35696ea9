// Package classb decodes Class B position reports: the standard report
// (type 18) and the extended report with static data (type 19).
package classb

import (
	"ais_parser/internal/registry"
	"ais_parser/internal/sixbit"
)

type Decoder struct{}

func init() {
	registry.Register(&Decoder{})
}

func (d *Decoder) Name() string   { return "class_b" }
func (d *Decoder) Types() []uint8 { return []uint8{18, 19} }

func (d *Decoder) Decode(bits sixbit.Bits) (registry.Fields, error) {
	r := sixbit.NewReader(bits)

	// Types 18 and 19 share the navigation block up to bit 139.
	fields := registry.Fields{
		"type":     r.Uint(0, 6),
		"repeat":   r.Uint(6, 2),
		"mmsi":     r.Uint(8, 30),
		"speed":    float64(r.Uint(46, 10)) / 10.0,
		"accuracy": r.Uint(56, 1) == 1,
		"lon":      float64(r.Int(57, 28)) / 600000.0,
		"lat":      float64(r.Int(85, 27)) / 600000.0,
		"course":   float64(r.Uint(112, 12)) / 10.0,
		"heading":  r.Uint(124, 9),
		"second":   r.Uint(133, 6),
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	typeID, _ := bits.Uint(0, 6)
	if typeID == 18 {
		fields["regional"] = r.Uint(139, 2)
		fields["cs"] = r.Uint(141, 1) == 1
		fields["display"] = r.Uint(142, 1) == 1
		fields["dsc"] = r.Uint(143, 1) == 1
		fields["band"] = r.Uint(144, 1) == 1
		fields["msg22"] = r.Uint(145, 1) == 1
		fields["assigned"] = r.Uint(146, 1) == 1
		fields["raim"] = r.Uint(147, 1) == 1
		fields["radio"] = r.Uint(148, 20)
	} else {
		fields["regional"] = r.Uint(139, 4)
		fields["shipname"] = r.Text(143, 120)
		fields["shiptype"] = r.Uint(263, 8)
		fields["to_bow"] = r.Uint(271, 9)
		fields["to_stern"] = r.Uint(280, 9)
		fields["to_port"] = r.Uint(289, 6)
		fields["to_starboard"] = r.Uint(295, 6)
		fields["epfd"] = r.Uint(301, 4)
		fields["raim"] = r.Uint(305, 1) == 1
		fields["dte"] = r.Uint(306, 1) == 1
		fields["assigned"] = r.Uint(307, 1) == 1
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}
