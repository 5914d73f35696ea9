package shipstatic

import (
	"testing"

	"ais_parser/internal/nmea"
)

func TestDecode(t *testing.T) {
	// Captured two-fragment static and voyage data message.
	lines := []string{
		"!AIVDM,2,1,3,B,55P5TL01VIaAL@7WKO@mBplU@<PDhh000000001S;AJ::4A80?4i@E53,0*3E",
		"!AIVDM,2,2,3,B,1@0000000000000,2*55",
	}
	frags := make([]*nmea.Sentence, 0, len(lines))
	for _, line := range lines {
		s, err := nmea.Parse([]byte(line))
		if err != nil {
			t.Fatalf("Parse(%q): %v", line, err)
		}
		frags = append(frags, s)
	}
	pkt, err := nmea.Assemble(frags)
	if err != nil {
		t.Fatal(err)
	}

	d := &Decoder{}
	fields, err := d.Decode(pkt.Bits)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if fields["type"] != uint64(5) {
		t.Errorf("type = %v, want 5", fields["type"])
	}
	if fields["mmsi"] != uint64(369190000) {
		t.Errorf("mmsi = %v, want 369190000", fields["mmsi"])
	}
	if fields["ais_version"] != uint64(0) {
		t.Errorf("ais_version = %v, want 0", fields["ais_version"])
	}
	if fields["imo"] != uint64(6710932) {
		t.Errorf("imo = %v, want 6710932", fields["imo"])
	}
	if fields["callsign"] != "WDA9674" {
		t.Errorf("callsign = %q, want WDA9674", fields["callsign"])
	}
	if fields["shipname"] != "MT.MITCHELL" {
		t.Errorf("shipname = %q, want MT.MITCHELL", fields["shipname"])
	}
	if fields["shiptype"] != uint64(99) {
		t.Errorf("shiptype = %v, want 99", fields["shiptype"])
	}
	if fields["to_bow"] != uint64(90) || fields["to_stern"] != uint64(90) {
		t.Errorf("bow/stern = %v/%v, want 90/90", fields["to_bow"], fields["to_stern"])
	}
	if fields["to_port"] != uint64(10) || fields["to_starboard"] != uint64(10) {
		t.Errorf("port/starboard = %v/%v, want 10/10", fields["to_port"], fields["to_starboard"])
	}
	if fields["epfd"] != uint64(1) {
		t.Errorf("epfd = %v, want 1", fields["epfd"])
	}
	if fields["month"] != uint64(1) || fields["day"] != uint64(2) {
		t.Errorf("eta date = %v-%v, want 1-2", fields["month"], fields["day"])
	}
	if fields["hour"] != uint64(8) || fields["minute"] != uint64(0) {
		t.Errorf("eta time = %v:%v, want 8:0", fields["hour"], fields["minute"])
	}
	if fields["draught"] != 6.0 {
		t.Errorf("draught = %v, want 6.0", fields["draught"])
	}
	if fields["destination"] != "SEATTLE" {
		t.Errorf("destination = %q, want SEATTLE", fields["destination"])
	}
	if fields["dte"] != false {
		t.Errorf("dte = %v, want false", fields["dte"])
	}
}
