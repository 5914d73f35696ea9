package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/bbailey1024/geohash"
)

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseDB wraps a ClickHouse connection for position storage.
type ClickHouseDB struct {
	conn driver.Conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	// Test the connection.
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseDB) Close() error {
	return d.conn.Close()
}

// CreateSchema creates the ClickHouse tables.
func (d *ClickHouseDB) CreateSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS positions (
			mmsi            UInt32,
			received_at     DateTime64(3),
			type_id         UInt8,
			channel         LowCardinality(String),
			latitude        Float64,
			longitude       Float64,
			geohash         UInt64,
			speed           Float32,
			course          Float32,
			heading         UInt16,
			status          UInt8,
			second          UInt8,
			raim            Bool,
			raw             String
		)
		ENGINE = MergeTree()
		PARTITION BY toYYYYMM(received_at)
		ORDER BY (mmsi, received_at)
		SETTINGS index_granularity = 8192`,
	}

	for _, q := range queries {
		if err := d.conn.Exec(ctx, q); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	return nil
}

// Position is one vessel position report bound for ClickHouse.
type Position struct {
	MMSI       uint32
	ReceivedAt time.Time
	TypeID     uint8
	Channel    string
	Latitude   float64
	Longitude  float64
	Speed      float32
	Course     float32
	Heading    uint16
	Status     uint8
	Second     uint8
	RAIM       bool
	Raw        string
}

// InsertPosition stores a single position report.
func (d *ClickHouseDB) InsertPosition(ctx context.Context, p Position) error {
	gh := geohash.EncodeInt(p.Latitude, p.Longitude)

	err := d.conn.Exec(ctx, `
		INSERT INTO positions (mmsi, received_at, type_id, channel, latitude, longitude, geohash, speed, course, heading, status, second, raim, raw)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.MMSI, p.ReceivedAt, p.TypeID, p.Channel, p.Latitude, p.Longitude, gh,
		p.Speed, p.Course, p.Heading, p.Status, p.Second, p.RAIM, p.Raw)
	if err != nil {
		return fmt.Errorf("insert position: %w", err)
	}

	return nil
}

// InsertPositions stores multiple position reports in one batch.
func (d *ClickHouseDB) InsertPositions(ctx context.Context, positions []Position) error {
	if len(positions) == 0 {
		return nil
	}

	batch, err := d.conn.PrepareBatch(ctx, `
		INSERT INTO positions (mmsi, received_at, type_id, channel, latitude, longitude, geohash, speed, course, heading, status, second, raim, raw)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range positions {
		gh := geohash.EncodeInt(p.Latitude, p.Longitude)

		err = batch.Append(p.MMSI, p.ReceivedAt, p.TypeID, p.Channel, p.Latitude, p.Longitude, gh,
			p.Speed, p.Course, p.Heading, p.Status, p.Second, p.RAIM, p.Raw)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// PositionQueryParams contains filtering options for querying positions.
type PositionQueryParams struct {
	MMSI      uint32
	TypeID    uint8
	Since     time.Time
	Limit     int
	OrderDesc bool
}

// QueryPositions retrieves position reports matching the given parameters.
func (d *ClickHouseDB) QueryPositions(ctx context.Context, p PositionQueryParams) ([]Position, error) {
	var conditions []string
	var args []interface{}

	if p.MMSI != 0 {
		conditions = append(conditions, "mmsi = ?")
		args = append(args, p.MMSI)
	}
	if p.TypeID != 0 {
		conditions = append(conditions, "type_id = ?")
		args = append(args, p.TypeID)
	}
	if !p.Since.IsZero() {
		conditions = append(conditions, "received_at >= ?")
		args = append(args, p.Since)
	}

	query := `SELECT mmsi, received_at, type_id, channel, latitude, longitude, speed, course, heading, status, second, raim, raw FROM positions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	direction := "ASC"
	if p.OrderDesc {
		direction = "DESC"
	}
	query += " ORDER BY received_at " + direction

	limit := 100
	if p.Limit > 0 {
		limit = p.Limit
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := d.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var pos Position
		err := rows.Scan(&pos.MMSI, &pos.ReceivedAt, &pos.TypeID, &pos.Channel,
			&pos.Latitude, &pos.Longitude, &pos.Speed, &pos.Course,
			&pos.Heading, &pos.Status, &pos.Second, &pos.RAIM, &pos.Raw)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		positions = append(positions, pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return positions, nil
}

// CountPositions returns the number of stored positions, optionally for one vessel.
func (d *ClickHouseDB) CountPositions(ctx context.Context, mmsi uint32) (uint64, error) {
	var count uint64
	var err error
	if mmsi != 0 {
		row := d.conn.QueryRow(ctx, "SELECT count() FROM positions WHERE mmsi = ?", mmsi)
		err = row.Scan(&count)
	} else {
		row := d.conn.QueryRow(ctx, "SELECT count() FROM positions")
		err = row.Scan(&count)
	}
	return count, err
}
