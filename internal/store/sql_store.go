package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SQLCache is the sqlx-backed ResponseCache over the response_cache table.
type SQLCache struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLCache creates a new SQLCache. The schema must already be migrated.
func NewSQLCache(db *sqlx.DB) *SQLCache {
	return &SQLCache{db: db, now: time.Now}
}

// q rebinds ? placeholders to the driver's native format.
func (s *SQLCache) q(query string) string { return s.db.Rebind(query) }

// Get returns the body stored under key if it has not expired.
func (s *SQLCache) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.db.GetContext(ctx, &body, s.q(`
		SELECT body FROM response_cache WHERE cache_key = ? AND expires_at > ?
	`), key, s.now().UnixMilli())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cached response: %w", err)
	}
	return body, nil
}

// Set replaces any entry under key. Delete-then-insert keeps the statement
// portable across sqlite, mysql, postgres and sqlserver.
func (s *SQLCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	now := s.now()
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache write: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM response_cache WHERE cache_key = ?`), key); err != nil {
		return fmt.Errorf("replace cached response: %w", err)
	}
	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO response_cache (id, cache_key, body, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), uuid.New().String(), key, body, now.Add(ttl).UnixMilli(), now.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert cached response: %w", err)
	}
	return tx.Commit()
}

// Prune deletes expired rows.
func (s *SQLCache) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM response_cache WHERE expires_at <= ?`), s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune response cache: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (s *SQLCache) Close() error { return s.db.Close() }
