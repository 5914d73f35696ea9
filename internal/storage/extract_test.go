package storage

import (
	"math"
	"testing"
	"time"

	"ais_parser/internal/ais"
	_ "ais_parser/internal/decoders"
	"ais_parser/internal/nmea"
)

func decodeLines(t *testing.T, lines ...string) *ais.Message {
	t.Helper()
	frags := make([]*nmea.Sentence, 0, len(lines))
	for _, line := range lines {
		s, err := nmea.Parse([]byte(line))
		if err != nil {
			t.Fatalf("Parse(%q): %v", line, err)
		}
		frags = append(frags, s)
	}
	var pkt *nmea.Packet
	var err error
	if len(frags) == 1 {
		pkt = nmea.Single(frags[0])
	} else {
		pkt, err = nmea.Assemble(frags)
		if err != nil {
			t.Fatal(err)
		}
	}
	m, err := ais.Decode(pkt)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestExtractPosition(t *testing.T) {
	m := decodeLines(t, "!AIVDM,1,1,,B,177KQJ5000G?tO`K>RA1wUbN0TKH,0*5C")

	now := time.Now()
	pos, ok := ExtractPosition(m, now)
	if !ok {
		t.Fatal("type 1 message should yield a position")
	}
	if pos.MMSI != 477553000 {
		t.Errorf("MMSI = %d, want 477553000", pos.MMSI)
	}
	if pos.TypeID != 1 {
		t.Errorf("TypeID = %d, want 1", pos.TypeID)
	}
	if pos.Channel != "B" {
		t.Errorf("Channel = %q, want B", pos.Channel)
	}
	if math.Abs(pos.Longitude-(-122.34583333333333)) > 1e-9 {
		t.Errorf("Longitude = %v", pos.Longitude)
	}
	if math.Abs(pos.Latitude-47.582833333333335) > 1e-9 {
		t.Errorf("Latitude = %v", pos.Latitude)
	}
	if pos.Status != 5 {
		t.Errorf("Status = %d, want 5", pos.Status)
	}
	if !pos.ReceivedAt.Equal(now) {
		t.Errorf("ReceivedAt = %v, want %v", pos.ReceivedAt, now)
	}
	if pos.Raw != "!AIVDM,1,1,,B,177KQJ5000G?tO`K>RA1wUbN0TKH,0*5C" {
		t.Errorf("Raw = %q", pos.Raw)
	}
}

func TestExtractPositionWrongType(t *testing.T) {
	m := decodeLines(t, "!AIVDM,1,1,,B,H52KMeA<D60QDq@E80000000000,2*6D")
	if _, ok := ExtractPosition(m, time.Now()); ok {
		t.Error("static report should not yield a position")
	}
}

func TestExtractVessel(t *testing.T) {
	m := decodeLines(t,
		"!AIVDM,2,1,3,B,55P5TL01VIaAL@7WKO@mBplU@<PDhh000000001S;AJ::4A80?4i@E53,0*3E",
		"!AIVDM,2,2,3,B,1@0000000000000,2*55",
	)

	v, ok := ExtractVessel(m)
	if !ok {
		t.Fatal("type 5 message should yield a vessel")
	}
	if v.MMSI != 369190000 {
		t.Errorf("MMSI = %d, want 369190000", v.MMSI)
	}
	if v.Name != "MT.MITCHELL" {
		t.Errorf("Name = %q, want MT.MITCHELL", v.Name)
	}
	if v.Callsign != "WDA9674" {
		t.Errorf("Callsign = %q, want WDA9674", v.Callsign)
	}
	if v.IMO != 6710932 {
		t.Errorf("IMO = %d, want 6710932", v.IMO)
	}
	if v.ShipType != 99 {
		t.Errorf("ShipType = %d, want 99", v.ShipType)
	}
	if v.Destination != "SEATTLE" {
		t.Errorf("Destination = %q, want SEATTLE", v.Destination)
	}
	if v.Draught != 6.0 {
		t.Errorf("Draught = %v, want 6.0", v.Draught)
	}
}

func TestExtractVesselPartA(t *testing.T) {
	// Class B static report part A carries only the name.
	m := decodeLines(t, "!AIVDM,1,1,,B,H52KMeA<D60QDq@E80000000000,2*6D")

	v, ok := ExtractVessel(m)
	if !ok {
		t.Fatal("type 24 message should yield a vessel")
	}
	if v.Name != "SEA HUNTER" {
		t.Errorf("Name = %q, want SEA HUNTER", v.Name)
	}
	if v.Callsign != "" {
		t.Errorf("Callsign = %q, want empty for part A", v.Callsign)
	}
}

func TestExtractVesselWrongType(t *testing.T) {
	m := decodeLines(t, "!AIVDM,1,1,,B,177KQJ5000G?tO`K>RA1wUbN0TKH,0*5C")
	if _, ok := ExtractVessel(m); ok {
		t.Error("position report should not yield a vessel")
	}
}
