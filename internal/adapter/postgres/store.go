// Package postgres persists coordination records in PostgreSQL, the
// primary store. Tables use the newer column names (id_lokasi,
// nama_kabkota); the gateway normalizes them alongside the SQLite shapes.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/Naminiges/USU-Peduli/internal/domain"
	"github.com/Naminiges/USU-Peduli/internal/gateway"
)

// Store implements gateway.Store over a PostgreSQL database.
type Store struct {
	db *sqlx.DB
}

var _ gateway.Store = (*Store)(nil)

// Open connects to PostgreSQL with the given DSN, creating the schema when
// missing.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply postgres schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Name identifies the store in logs and metrics.
func (s *Store) Name() string { return "postgres" }

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

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
