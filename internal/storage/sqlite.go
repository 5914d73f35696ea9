package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Record is a decoded message stored in the local SQLite archive.
type Record struct {
	ID         int64
	ReceivedAt time.Time
	Talker     string
	Channel    string
	TypeID     int
	MMSI       int64
	Raw        string
	FieldsJSON string
}

// SQLiteDB wraps a SQLite database used as a standalone local archive,
// for running without the ClickHouse and PostgreSQL pair.
type SQLiteDB struct {
	db *sql.DB
}

// OpenSQLite opens or creates a SQLite archive at the given path.
func OpenSQLite(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (d *SQLiteDB) Close() error {
	return d.db.Close()
}

func createSQLiteSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS ais_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		received_at TEXT NOT NULL,
		talker TEXT NOT NULL,
		channel TEXT,
		type_id INTEGER NOT NULL,
		mmsi INTEGER,
		raw TEXT NOT NULL,
		fields_json TEXT NOT NULL,
		created_at TEXT DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_ais_messages_type ON ais_messages(type_id);
	CREATE INDEX IF NOT EXISTS idx_ais_messages_mmsi ON ais_messages(mmsi);
	CREATE INDEX IF NOT EXISTS idx_ais_messages_received ON ais_messages(received_at);
	`

	_, err := db.Exec(schema)
	return err
}

// InsertParams contains the parameters for archiving one decoded message.
type InsertParams struct {
	ReceivedAt time.Time
	Talker     string
	Channel    string
	TypeID     int
	MMSI       int64
	Raw        string
	Fields     interface{}
}

// Insert stores a decoded message in the archive.
func (d *SQLiteDB) Insert(p InsertParams) (int64, error) {
	fieldsJSON, err := json.Marshal(p.Fields)
	if err != nil {
		return 0, fmt.Errorf("marshal decoded fields: %w", err)
	}

	result, err := d.db.Exec(`
		INSERT INTO ais_messages (received_at, talker, channel, type_id, mmsi, raw, fields_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ReceivedAt.UTC().Format(time.RFC3339), p.Talker, p.Channel, p.TypeID, p.MMSI, p.Raw, string(fieldsJSON))
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}

	return result.LastInsertId()
}

// QueryParams contains filtering options for querying the archive.
type QueryParams struct {
	TypeID    int   // Filter by message type (zero means no filter).
	MMSI      int64 // Filter by source MMSI.
	Limit     int   // Max results (default 100).
	Offset    int   // Pagination offset.
	OrderDesc bool  // Newest first.
}

// Query retrieves archived messages matching the given parameters.
func (d *SQLiteDB) Query(p QueryParams) ([]Record, error) {
	var conditions []string
	var args []interface{}

	if p.TypeID != 0 {
		conditions = append(conditions, "type_id = ?")
		args = append(args, p.TypeID)
	}
	if p.MMSI != 0 {
		conditions = append(conditions, "mmsi = ?")
		args = append(args, p.MMSI)
	}

	query := `SELECT id, received_at, talker, channel, type_id, mmsi, raw, fields_json FROM ais_messages`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	direction := "ASC"
	if p.OrderDesc {
		direction = "DESC"
	}
	query += " ORDER BY id " + direction

	limit := 100
	if p.Limit > 0 {
		limit = p.Limit
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, p.Offset)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		var ts, channel sql.NullString
		var mmsi sql.NullInt64

		err := rows.Scan(&r.ID, &ts, &r.Talker, &channel, &r.TypeID, &mmsi, &r.Raw, &r.FieldsJSON)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		if ts.Valid {
			r.ReceivedAt, _ = time.Parse(time.RFC3339, ts.String)
		}
		if channel.Valid {
			r.Channel = channel.String
		}
		if mmsi.Valid {
			r.MMSI = mmsi.Int64
		}

		records = append(records, r)
	}

	return records, rows.Err()
}

// ArchiveStats holds aggregate statistics about the archive.
type ArchiveStats struct {
	TotalMessages int
	ByType        map[int]int
	UniqueVessels int
}

// GetStats returns statistics about the archived messages.
func (d *SQLiteDB) GetStats() (*ArchiveStats, error) {
	stats := &ArchiveStats{
		ByType: make(map[int]int),
	}

	row := d.db.QueryRow("SELECT COUNT(*) FROM ais_messages")
	if err := row.Scan(&stats.TotalMessages); err != nil {
		return nil, err
	}

	rows, err := d.db.Query("SELECT type_id, COUNT(*) FROM ais_messages GROUP BY type_id ORDER BY COUNT(*) DESC")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var typ, count int
		if err := rows.Scan(&typ, &count); err != nil {
			_ = rows.Close()
			return nil, err
		}
		stats.ByType[typ] = count
	}
	_ = rows.Close()

	row = d.db.QueryRow("SELECT COUNT(DISTINCT mmsi) FROM ais_messages WHERE mmsi IS NOT NULL AND mmsi != 0")
	if err := row.Scan(&stats.UniqueVessels); err != nil {
		return nil, err
	}

	return stats, nil
}

// CountByType returns message counts grouped by message type.
func (d *SQLiteDB) CountByType() (map[int]int, error) {
	counts := make(map[int]int)
	rows, err := d.db.Query("SELECT type_id, COUNT(*) FROM ais_messages GROUP BY type_id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var typ, count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, err
		}
		counts[typ] = count
	}
	return counts, rows.Err()
}
