package storage

import (
	"context"
	"os"
	"testing"
	"time"
)

// setupTestClickHouse creates a test database connection.
// Returns nil if no ClickHouse connection is available.
func setupTestClickHouse(t *testing.T) *ClickHouseDB {
	t.Helper()

	host := os.Getenv("CLICKHOUSE_HOST")
	if host == "" {
		host = "localhost"
	}
	database := os.Getenv("CLICKHOUSE_DB")
	if database == "" {
		database = "ais"
	}

	ctx := context.Background()
	ch, err := OpenClickHouse(ctx, ClickHouseConfig{
		Host:     host,
		Port:     9000,
		Database: database,
		User:     "default",
		Password: os.Getenv("CLICKHOUSE_PASSWORD"),
	})
	if err != nil {
		return nil
	}

	if err := ch.CreateSchema(ctx); err != nil {
		_ = ch.Close()
		return nil
	}

	return ch
}

func TestPositionArchive(t *testing.T) {
	ch := setupTestClickHouse(t)
	if ch == nil {
		t.Skip("No ClickHouse connection available")
	}
	defer ch.Close()

	ctx := context.Background()
	mmsi := uint32(time.Now().UnixNano() % 900_000_000)
	base := time.Now().UTC().Truncate(time.Millisecond)

	batch := []Position{
		{
			MMSI: mmsi, ReceivedAt: base, TypeID: 1, Channel: "B",
			Latitude: 47.582833, Longitude: -122.345833,
			Speed: 0, Course: 51.0, Heading: 181, Status: 5, Second: 15,
			Raw: "!AIVDM,1,1,,B,177KQJ5000G?tO`K>RA1wUbN0TKH,0*5C",
		},
		{
			MMSI: mmsi, ReceivedAt: base.Add(time.Minute), TypeID: 18, Channel: "A",
			Latitude: 40.68454, Longitude: -74.072132,
			Speed: 0.1, Course: 79.6, Heading: 511, Second: 49, RAIM: true,
			Raw: "!AIVDM,1,1,,A,B52K>;h00Fc>jpUlNV@ikwpUoP06,0*4C",
		},
	}
	if err := ch.InsertPositions(ctx, batch); err != nil {
		t.Fatal(err)
	}

	got, err := ch.QueryPositions(ctx, PositionQueryParams{MMSI: mmsi, OrderDesc: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d positions, want 2", len(got))
	}
	if got[0].TypeID != 18 || got[1].TypeID != 1 {
		t.Errorf("descending order gave types %d, %d; want 18, 1", got[0].TypeID, got[1].TypeID)
	}
	if got[1].Status != 5 || got[1].Heading != 181 {
		t.Errorf("class A row = %+v", got[1])
	}
	if !got[0].RAIM || got[0].Channel != "A" {
		t.Errorf("class B row = %+v", got[0])
	}

	count, err := ch.CountPositions(ctx, mmsi)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("CountPositions = %d, want 2", count)
	}

	// Time filter excludes the first report.
	got, err = ch.QueryPositions(ctx, PositionQueryParams{MMSI: mmsi, Since: base.Add(30 * time.Second)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].TypeID != 18 {
		t.Errorf("Since filter returned %d rows", len(got))
	}
}
