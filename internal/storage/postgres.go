package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// PostgresDB wraps a PostgreSQL connection pool for the vessel registry.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Test the connection.
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (d *PostgresDB) Close() {
	d.pool.Close()
}

// CreateSchema creates the PostgreSQL tables.
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	schema := `
	-- Vessel registry, one row per MMSI, updated from static reports.
	CREATE TABLE IF NOT EXISTS vessels (
		mmsi            BIGINT PRIMARY KEY,
		name            TEXT,
		callsign        TEXT,
		imo             BIGINT,
		ship_type       INTEGER,
		to_bow          INTEGER,
		to_stern        INTEGER,
		to_port         INTEGER,
		to_starboard    INTEGER,
		destination     TEXT,
		draught         DOUBLE PRECISION,
		first_seen      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		msg_count       INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_vessels_name ON vessels(name);
	CREATE INDEX IF NOT EXISTS idx_vessels_ship_type ON vessels(ship_type);
	CREATE INDEX IF NOT EXISTS idx_vessels_last_seen ON vessels(last_seen);
	`

	if _, err := d.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Vessel is a row in the vessel registry.
type Vessel struct {
	MMSI        int64
	Name        string
	Callsign    string
	IMO         int64
	ShipType    int
	ToBow       int
	ToStern     int
	ToPort      int
	ToStarboard int
	Destination string
	Draught     float64
	FirstSeen   time.Time
	LastSeen    time.Time
	MsgCount    int
}

// UpsertVessel inserts or refreshes a vessel row. Static reports arrive in
// two parts on Class B, so empty incoming fields never clobber values a
// previous report filled in.
func (d *PostgresDB) UpsertVessel(ctx context.Context, v Vessel) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO vessels (mmsi, name, callsign, imo, ship_type, to_bow, to_stern, to_port, to_starboard, destination, draught)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (mmsi) DO UPDATE SET
			name         = COALESCE(NULLIF(EXCLUDED.name, ''), vessels.name),
			callsign     = COALESCE(NULLIF(EXCLUDED.callsign, ''), vessels.callsign),
			imo          = COALESCE(NULLIF(EXCLUDED.imo, 0), vessels.imo),
			ship_type    = COALESCE(NULLIF(EXCLUDED.ship_type, 0), vessels.ship_type),
			to_bow       = COALESCE(NULLIF(EXCLUDED.to_bow, 0), vessels.to_bow),
			to_stern     = COALESCE(NULLIF(EXCLUDED.to_stern, 0), vessels.to_stern),
			to_port      = COALESCE(NULLIF(EXCLUDED.to_port, 0), vessels.to_port),
			to_starboard = COALESCE(NULLIF(EXCLUDED.to_starboard, 0), vessels.to_starboard),
			destination  = COALESCE(NULLIF(EXCLUDED.destination, ''), vessels.destination),
			draught      = COALESCE(NULLIF(EXCLUDED.draught, 0), vessels.draught),
			last_seen    = NOW(),
			msg_count    = vessels.msg_count + 1
	`, v.MMSI, v.Name, v.Callsign, v.IMO, v.ShipType, v.ToBow, v.ToStern, v.ToPort, v.ToStarboard, v.Destination, v.Draught)
	if err != nil {
		return fmt.Errorf("upsert vessel %d: %w", v.MMSI, err)
	}
	return nil
}

// TouchVessel records a sighting of a vessel without static data.
func (d *PostgresDB) TouchVessel(ctx context.Context, mmsi int64) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO vessels (mmsi)
		VALUES ($1)
		ON CONFLICT (mmsi) DO UPDATE SET
			last_seen = NOW(),
			msg_count = vessels.msg_count + 1
	`, mmsi)
	if err != nil {
		return fmt.Errorf("touch vessel %d: %w", mmsi, err)
	}
	return nil
}

// GetVessel retrieves a vessel by MMSI. Returns nil if not found.
func (d *PostgresDB) GetVessel(ctx context.Context, mmsi int64) (*Vessel, error) {
	var v Vessel
	err := d.pool.QueryRow(ctx, `
		SELECT mmsi, COALESCE(name, ''), COALESCE(callsign, ''), COALESCE(imo, 0),
			COALESCE(ship_type, 0), COALESCE(to_bow, 0), COALESCE(to_stern, 0),
			COALESCE(to_port, 0), COALESCE(to_starboard, 0), COALESCE(destination, ''),
			COALESCE(draught, 0), first_seen, last_seen, msg_count
		FROM vessels WHERE mmsi = $1
	`, mmsi).Scan(&v.MMSI, &v.Name, &v.Callsign, &v.IMO, &v.ShipType,
		&v.ToBow, &v.ToStern, &v.ToPort, &v.ToStarboard, &v.Destination,
		&v.Draught, &v.FirstSeen, &v.LastSeen, &v.MsgCount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get vessel %d: %w", mmsi, err)
	}
	return &v, nil
}

// CountVessels returns the number of vessels in the registry.
func (d *PostgresDB) CountVessels(ctx context.Context) (int64, error) {
	var count int64
	err := d.pool.QueryRow(ctx, "SELECT COUNT(*) FROM vessels").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count vessels: %w", err)
	}
	return count, nil
}
