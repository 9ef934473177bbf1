// Package contacts stores imported contacts in PostgreSQL and serves the
// directory that credential imports are cross-referenced against.
package contacts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/input-output-hk/atala-prism-sub004/internal/config"
	"github.com/input-output-hk/atala-prism-sub004/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the query surface shared by pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Schema creates the contacts table.
const Schema = `
CREATE TABLE IF NOT EXISTS contacts (
	external_id TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	import_id   UUID NOT NULL,
	attributes  JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const (
	selectDirectory = `SELECT external_id, name FROM contacts`

	insertContact = `
INSERT INTO contacts (external_id, name, import_id, attributes)
VALUES ($1, $2, $3, $4)`

	countContacts = `SELECT count(*) FROM contacts`
)

// Store is a core.ContactStore backed by a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ core.ContactStore = (*Store)(nil)

// NewStore wraps pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool for dbCfg.URL and checks it responds.
func Connect(ctx context.Context, dbCfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if dbCfg.MaxConns > 0 {
		cfg.MaxConns = int32(dbCfg.MaxConns)
	}
	if dbCfg.MinConns > 0 {
		cfg.MinConns = int32(dbCfg.MinConns)
	}
	if dbCfg.ConnectTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = dbCfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Migrate creates the contacts table when it does not exist.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create contacts table: %w", err)
	}
	return nil
}

// Directory returns every registered contact keyed by external ID.
func (s *Store) Directory(ctx context.Context) (core.Directory, error) {
	return loadDirectory(ctx, s.pool)
}

func loadDirectory(ctx context.Context, db DBTX) (core.Directory, error) {
	rows, err := db.Query(ctx, selectDirectory)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	dir := make(core.Directory)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		dir[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return dir, nil
}

// InsertContacts stores contacts in one transaction. Nothing is stored
// when any insert fails.
func (s *Store) InsertContacts(ctx context.Context, contacts []core.Contact) (int64, error) {
	if len(contacts) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, c := range contacts {
		args, err := insertArgs(c)
		if err != nil {
			return 0, err
		}
		batch.Queue(insertContact, args...)
	}

	results := tx.SendBatch(ctx, batch)
	var inserted int64
	for i := range contacts {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("insert contact %s: %w", contacts[i].ExternalID, err)
		}
		inserted += tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// Count returns the number of stored contacts.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, countContacts).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

// insertArgs converts a contact into the insertContact parameters.
func insertArgs(c core.Contact) ([]any, error) {
	attrs := c.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("encode attributes for %s: %w", c.ExternalID, err)
	}

	return []any{
		c.ExternalID,
		c.Name,
		pgtype.UUID{Bytes: c.ImportID, Valid: true},
		raw,
	}, nil
}
