// Package sorstore reads supplemental strength-of-record rows from SQL.
package sorstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite" // registers "sqlite"
	_ "github.com/lib/pq"             // registers "postgres"

	"github.com/okian/seedline/internal/domain/model"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const schema = `CREATE TABLE IF NOT EXISTS team_sor (
	team_name  TEXT PRIMARY KEY,
	sor_rank   INTEGER,
	conference TEXT
)`

const lookupQuery = `SELECT team_name, sor_rank, conference FROM team_sor ORDER BY team_name`

// Store is a read-only view over the team_sor table.
type Store struct {
	db     *sql.DB
	driver string
}

// Option configures a Store.
type Option func(*Store)

// WithMaxOpenConns caps the connection pool.
func WithMaxOpenConns(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.db.SetMaxOpenConns(n)
		}
	}
}

// WithConnMaxLifetime recycles pooled connections after d.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.db.SetConnMaxLifetime(d)
		}
	}
}

// Open connects to dsn with the named driver and pings it.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrEmptyDSN
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	s := &Store{db: db, driver: driver}
	for _, opt := range opts {
		opt(s)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return s, nil
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string { return s.driver }

// EnsureSchema creates team_sor when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Lookup returns every row. A null or non-positive rank is absent.
func (s *Store) Lookup(ctx context.Context) ([]model.SOREntry, error) {
	rows, err := s.db.QueryContext(ctx, lookupQuery)
	if err != nil {
		return nil, fmt.Errorf("query team_sor: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.SOREntry
	for rows.Next() {
		var (
			name string
			rank sql.NullInt64
			conf sql.NullString
		)
		if err := rows.Scan(&name, &rank, &conf); err != nil {
			return nil, fmt.Errorf("scan team_sor: %w", err)
		}
		e := model.SOREntry{TeamName: strings.TrimSpace(name), ConferenceHint: strings.TrimSpace(conf.String)}
		if rank.Valid && rank.Int64 > 0 {
			e.SORRank = model.OrdinalOf(int(rank.Int64))
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team_sor: %w", err)
	}
	return out, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
