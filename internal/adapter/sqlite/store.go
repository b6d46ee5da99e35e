// Package sqlite persists coordination records in a local SQLite file. It
// is the fallback store when Postgres is unreachable and can carry the
// whole system standalone in the field. Tables keep the spreadsheet-era
// column names the gateway normalizes from.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver (no CGO required)

	"github.com/Naminiges/USU-Peduli/internal/domain"
	"github.com/Naminiges/USU-Peduli/internal/gateway"
)

// Store implements gateway.Store over a SQLite database.
type Store struct {
	db *sqlx.DB
}

var _ gateway.Store = (*Store)(nil)

// Open connects to the SQLite database at path, creating the schema when
// missing. A single connection avoids SQLITE_BUSY under concurrent writes.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Name identifies the store in logs and metrics.
func (s *Store) Name() string { return "sqlite" }

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// formatTime renders timestamps as second-precision UTC RFC 3339 text so
// lexicographic comparison matches chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// assessmentTable resolves the table holding one survey kind. Kind names
// are validated against the registry, never interpolated raw.
func assessmentTable(kind string) (string, error) {
	k, err := domain.KindByName(kind)
	if err != nil {
		return "", err
	}
	return "asesmen_" + k.Name, nil
}

func (s *Store) queryRows(ctx context.Context, query string, args ...any) ([]gateway.Row, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []gateway.Row
	for rows.Next() {
		row := make(gateway.Row)
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) (gateway.Row, error) {
	rows, err := s.queryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return rows[0], nil
}
