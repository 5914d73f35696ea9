package feed

import (
	"errors"
	"testing"

	"ais_parser/internal/nmea"
)

var multipart = []string{
	"!AIVDM,2,1,3,B,55P5TL01VIaAL@7WKO@mBplU@<PDhh000000001S;AJ::4A80?4i@E53,0*3E",
	"!AIVDM,2,2,3,B,1@0000000000000,2*55",
}

const single = "!AIVDM,1,1,,B,177KQJ5000G?tO`K>RA1wUbN0TKH,0*5C"

func parse(t *testing.T, raw string) *nmea.Sentence {
	t.Helper()
	s, err := nmea.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse(%q): %v", raw, err)
	}
	return s
}

func TestGrouperSingle(t *testing.T) {
	g := NewGrouper()
	pkt, err := g.Add(parse(t, single))
	if err != nil {
		t.Fatal(err)
	}
	if pkt == nil {
		t.Fatal("single-fragment sentence should complete immediately")
	}
	if pkt.TypeID != 1 {
		t.Errorf("TypeID = %d, want 1", pkt.TypeID)
	}
	if g.PendingGroups() != 0 {
		t.Errorf("PendingGroups = %d, want 0", g.PendingGroups())
	}
}

func TestGrouperMultipart(t *testing.T) {
	g := NewGrouper()

	pkt, err := g.Add(parse(t, multipart[0]))
	if err != nil {
		t.Fatal(err)
	}
	if pkt != nil {
		t.Fatal("first of two fragments should not complete a message")
	}
	if g.PendingGroups() != 1 {
		t.Errorf("PendingGroups = %d, want 1", g.PendingGroups())
	}

	pkt, err = g.Add(parse(t, multipart[1]))
	if err != nil {
		t.Fatal(err)
	}
	if pkt == nil {
		t.Fatal("last fragment should complete the message")
	}
	if pkt.TypeID != 5 || pkt.Bits.Len() != 426 {
		t.Errorf("packet type=%d bits=%d, want 5/426", pkt.TypeID, pkt.Bits.Len())
	}
	if g.PendingGroups() != 0 {
		t.Errorf("PendingGroups = %d, want 0", g.PendingGroups())
	}
}

func TestGrouperInterleavedWithSingles(t *testing.T) {
	g := NewGrouper()

	if _, err := g.Add(parse(t, multipart[0])); err != nil {
		t.Fatal(err)
	}
	pkt, err := g.Add(parse(t, single))
	if err != nil || pkt == nil {
		t.Fatalf("interleaved single: pkt=%v err=%v", pkt, err)
	}
	pkt, err = g.Add(parse(t, multipart[1]))
	if err != nil || pkt == nil {
		t.Fatalf("completing fragment after interleave: pkt=%v err=%v", pkt, err)
	}
}

func TestGrouperOutOfOrder(t *testing.T) {
	g := NewGrouper()

	// Continuation with no group in progress.
	if _, err := g.Add(parse(t, multipart[1])); !errors.Is(err, nmea.ErrAssembly) {
		t.Errorf("orphan continuation: error = %v, want ErrAssembly", err)
	}

	// A repeated first fragment restarts the group rather than failing.
	if _, err := g.Add(parse(t, multipart[0])); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Add(parse(t, multipart[0])); err != nil {
		t.Errorf("repeated first fragment: %v", err)
	}
	if g.PendingGroups() != 1 {
		t.Errorf("PendingGroups = %d, want 1", g.PendingGroups())
	}
	pkt, err := g.Add(parse(t, multipart[1]))
	if err != nil || pkt == nil {
		t.Fatalf("restarted group should still complete: pkt=%v err=%v", pkt, err)
	}
}
