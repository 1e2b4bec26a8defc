// Package sqlite is the embedded report store used by default on the
// desktop. It mirrors the postgres adapter on top of database/sql and the
// pure-Go modernc driver, so no cgo toolchain is needed.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/samirrijal/siara/internal/core/domain"
)

//go:embed schema.sql
var schema string

// Fixed-width so lexical order in SQL matches time order.
const tsLayout = "2006-01-02 15:04:05.000000000"

// DB wraps a *sql.DB opened on a SQLite file.
type DB struct {
	SQL *sql.DB
}

// Open opens (creating if needed) the database file at path.
func Open(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps
	// transactions and plain queries from contending for locks.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &DB{SQL: db}, nil
}

// Close releases the database handle.
func (db *DB) Close() error {
	return db.SQL.Close()
}

// Migrate creates missing tables and indexes.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.SQL.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// WithTx runs fn inside a transaction. It commits when fn returns nil and
// rolls back on error or panic. fn must use tx for every statement.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(tsLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(tsLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrConflict
	}
	return err
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

// checkOwner verifies the row exists and belongs to userID.
func checkOwner(ctx context.Context, tx *sql.Tx, table, ownerCol, id, userID string) error {
	var owner sql.NullString
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, ownerCol, table)
	if err := tx.QueryRowContext(ctx, q, id).Scan(&owner); err != nil {
		return mapErr(err)
	}
	if !owner.Valid || owner.String != userID {
		return domain.ErrForbidden
	}
	return nil
}
