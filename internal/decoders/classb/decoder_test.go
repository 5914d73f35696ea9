package classb

import (
	"math"
	"testing"

	"ais_parser/internal/nmea"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	s, err := nmea.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse(%q): %v", raw, err)
	}
	d := &Decoder{}
	fields, err := d.Decode(s.Bits)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return fields
}

func TestDecodeType18(t *testing.T) {
	// Captured Class B report near New York harbor.
	fields := decode(t, "!AIVDM,1,1,,A,B52K>;h00Fc>jpUlNV@ikwpUoP06,0*4C")

	if fields["type"] != uint64(18) {
		t.Errorf("type = %v, want 18", fields["type"])
	}
	if fields["mmsi"] != uint64(338087471) {
		t.Errorf("mmsi = %v, want 338087471", fields["mmsi"])
	}
	if fields["speed"] != 0.1 {
		t.Errorf("speed = %v, want 0.1", fields["speed"])
	}
	if got := fields["lon"].(float64); math.Abs(got-(-74.07213166666666)) > 1e-9 {
		t.Errorf("lon = %v, want -74.072132", got)
	}
	if got := fields["lat"].(float64); math.Abs(got-40.68454) > 1e-9 {
		t.Errorf("lat = %v, want 40.68454", got)
	}
	if fields["course"] != 79.6 {
		t.Errorf("course = %v, want 79.6", fields["course"])
	}
	if fields["heading"] != uint64(511) {
		t.Errorf("heading = %v, want 511 (unavailable)", fields["heading"])
	}
	if fields["second"] != uint64(49) {
		t.Errorf("second = %v, want 49", fields["second"])
	}
	if fields["cs"] != true {
		t.Errorf("cs = %v, want true", fields["cs"])
	}
	if fields["display"] != false {
		t.Errorf("display = %v, want false", fields["display"])
	}
	if fields["dsc"] != true || fields["band"] != true || fields["msg22"] != true {
		t.Errorf("dsc/band/msg22 = %v/%v/%v, want true/true/true",
			fields["dsc"], fields["band"], fields["msg22"])
	}
	if fields["assigned"] != false {
		t.Errorf("assigned = %v, want false", fields["assigned"])
	}
	if fields["raim"] != true {
		t.Errorf("raim = %v, want true", fields["raim"])
	}
}

func TestDecodeType19(t *testing.T) {
	fields := decode(t, "!AIVDM,1,1,,B,C5N3SRP0EvJGG84>NFSAwwsP62PaLELTBJ:V00000000S0D:R220,0*02")

	if fields["type"] != uint64(19) {
		t.Errorf("type = %v, want 19", fields["type"])
	}
	if fields["mmsi"] != uint64(367059850) {
		t.Errorf("mmsi = %v, want 367059850", fields["mmsi"])
	}
	if fields["speed"] != 8.7 {
		t.Errorf("speed = %v, want 8.7", fields["speed"])
	}
	if got := fields["lon"].(float64); math.Abs(got-(-88.81)) > 1e-9 {
		t.Errorf("lon = %v, want -88.81", got)
	}
	if got := fields["lat"].(float64); math.Abs(got-29.543) > 1e-9 {
		t.Errorf("lat = %v, want 29.543", got)
	}
	if fields["course"] != 335.9 {
		t.Errorf("course = %v, want 335.9", fields["course"])
	}
	if fields["second"] != uint64(55) {
		t.Errorf("second = %v, want 55", fields["second"])
	}
	if fields["shipname"] != "CAPT.J.RIMES" {
		t.Errorf("shipname = %q, want CAPT.J.RIMES", fields["shipname"])
	}
	if fields["shiptype"] != uint64(70) {
		t.Errorf("shiptype = %v, want 70 (cargo)", fields["shiptype"])
	}
	if fields["to_bow"] != uint64(5) || fields["to_stern"] != uint64(21) {
		t.Errorf("bow/stern = %v/%v, want 5/21", fields["to_bow"], fields["to_stern"])
	}
	if fields["to_port"] != uint64(4) || fields["to_starboard"] != uint64(4) {
		t.Errorf("port/starboard = %v/%v, want 4/4", fields["to_port"], fields["to_starboard"])
	}
	if fields["epfd"] != uint64(1) {
		t.Errorf("epfd = %v, want 1", fields["epfd"])
	}
	if fields["dte"] != false || fields["assigned"] != false {
		t.Errorf("dte/assigned = %v/%v, want false/false", fields["dte"], fields["assigned"])
	}
}
