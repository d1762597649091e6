package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/randalmurphal/flowstore/artifact"
	_ "modernc.org/sqlite"
)

// ErrNoRecords is returned by Latest when an asset has never been materialized.
var ErrNoRecords = errors.New("no materializations recorded")

// SQLiteLog is an append-only materialization log backed by SQLite.
// Safe for concurrent use.
type SQLiteLog struct {
	db *sql.DB
}

// OpenSQLiteLog opens (or creates) the database at path and ensures the
// materializations table exists.
func OpenSQLiteLog(ctx context.Context, path string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("catalog: open sqlite: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: ping sqlite: %w", err)
	}

	l := &SQLiteLog{db: db}
	if err := l.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *SQLiteLog) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS materializations (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT NOT NULL UNIQUE,
			asset_key  TEXT NOT NULL,
			path       TEXT NOT NULL,
			strategy   TEXT NOT NULL,
			run_id     TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_materializations_asset ON materializations(asset_key, seq)`,
	}
	for _, stmt := range stmts {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("catalog: migrate: %w", err)
		}
	}
	return nil
}

// Record implements Recorder. Recording the same ID twice is an error.
func (l *SQLiteLog) Record(ctx context.Context, m artifact.Materialization) error {
	key, err := encodeKey(m.AssetKey)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx, `
		INSERT INTO materializations (id, asset_key, path, strategy, run_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, key, m.Path, string(m.Strategy), m.RunID, m.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("catalog: record %s: %w", m.ID, err)
	}
	return nil
}

// History returns every record for key, oldest first.
func (l *SQLiteLog) History(ctx context.Context, key artifact.AssetKey) ([]artifact.Materialization, error) {
	encoded, err := encodeKey(key)
	if err != nil {
		return nil, err
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, asset_key, path, strategy, run_id, created_at
		FROM materializations WHERE asset_key = ? ORDER BY seq`, encoded)
	if err != nil {
		return nil, fmt.Errorf("catalog: query history: %w", err)
	}
	defer rows.Close()

	var out []artifact.Materialization
	for rows.Next() {
		m, err := scanMaterialization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Latest returns the most recent record for key, or ErrNoRecords.
func (l *SQLiteLog) Latest(ctx context.Context, key artifact.AssetKey) (artifact.Materialization, error) {
	encoded, err := encodeKey(key)
	if err != nil {
		return artifact.Materialization{}, err
	}
	row := l.db.QueryRowContext(ctx, `
		SELECT id, asset_key, path, strategy, run_id, created_at
		FROM materializations WHERE asset_key = ? ORDER BY seq DESC LIMIT 1`, encoded)

	m, err := scanMaterialization(row)
	if errors.Is(err, sql.ErrNoRows) {
		return artifact.Materialization{}, fmt.Errorf("%w for %s", ErrNoRecords, key)
	}
	return m, err
}

// Close releases the database handle.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMaterialization(s scanner) (artifact.Materialization, error) {
	var (
		m        artifact.Materialization
		key      string
		strategy string
		created  string
	)
	if err := s.Scan(&m.ID, &key, &m.Path, &strategy, &m.RunID, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return m, err
		}
		return m, fmt.Errorf("catalog: scan: %w", err)
	}
	if err := json.Unmarshal([]byte(key), &m.AssetKey); err != nil {
		return m, fmt.Errorf("catalog: decode asset key: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return m, fmt.Errorf("catalog: parse timestamp: %w", err)
	}
	m.Strategy = artifact.Strategy(strategy)
	m.Timestamp = ts
	return m, nil
}

// encodeKey stores keys as JSON arrays so components containing "/" stay distinct.
func encodeKey(key artifact.AssetKey) (string, error) {
	if key == nil {
		key = artifact.AssetKey{}
	}
	b, err := json.Marshal([]string(key))
	if err != nil {
		return "", fmt.Errorf("catalog: encode asset key: %w", err)
	}
	return string(b), nil
}
