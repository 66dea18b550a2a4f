package migrations

// The response_cache column types differ by driver (BLOB for SQLite, BYTEA for
// PostgreSQL, LONGBLOB for MySQL, VARBINARY(MAX) for SQL Server), so this is a
// Go migration rather than a single SQL file.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateResponseCache, downCreateResponseCache)
}

func upCreateResponseCache(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS response_cache (
    cache_key  VARCHAR(64) PRIMARY KEY,
    id         VARCHAR(36) NOT NULL,
    body       BYTEA NOT NULL,
    expires_at BIGINT NOT NULL,
    created_at BIGINT NOT NULL
)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS response_cache (
    cache_key  VARCHAR(64) PRIMARY KEY,
    id         VARCHAR(36) NOT NULL,
    body       LONGBLOB NOT NULL,
    expires_at BIGINT NOT NULL,
    created_at BIGINT NOT NULL
)`
	case "mssql":
		ddl = `CREATE TABLE response_cache (
    cache_key  VARCHAR(64) NOT NULL PRIMARY KEY,
    id         VARCHAR(36) NOT NULL,
    body       VARBINARY(MAX) NOT NULL,
    expires_at BIGINT NOT NULL,
    created_at BIGINT NOT NULL
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS response_cache (
    cache_key  TEXT PRIMARY KEY,
    id         TEXT NOT NULL,
    body       BLOB NOT NULL,
    expires_at INTEGER NOT NULL,
    created_at INTEGER NOT NULL
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create response_cache table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX response_cache_expires_idx ON response_cache (expires_at)`)
	return err
}

func downCreateResponseCache(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE response_cache`)
	return err
}
