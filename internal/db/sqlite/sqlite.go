// Package sqlite opens the relational store on the cgo-free modernc driver
// and holds the helpers repositories share.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // cgo-free driver, registers "sqlite"
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens dsn, applies connection pragmas and the schema.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("dsn is required")
	}
	memory := strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")

	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if memory {
		// every connection to :memory: is a distinct database
		db.SetMaxOpenConns(1)
	}

	if !memory {
		for _, p := range []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
		} {
			if _, err := db.ExecContext(ctx, p); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("pragma failed: %w", err)
			}
		}
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("schema failed: %w", err)
	}
	return db, nil
}

// withPragmas appends per-connection pragmas in the driver's DSN syntax.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// InTx runs fn in a transaction, committing on success.
func InTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// IDSet is a subquery over the ids of an IDArray argument. The whole list
// binds as one variable, so its length is not capped by SQLITE_MAX_VARIABLE_NUMBER.
const IDSet = "(SELECT value FROM json_each(?))"

// IDArray encodes ids as the JSON array bound to IDSet.
func IDArray(ids []int64) string {
	b := make([]byte, 0, 2+len(ids)*8)
	b = append(b, '[')
	for i, id := range ids {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, id, 10)
	}
	return string(append(b, ']'))
}

// IsConstraint reports whether err is a constraint violation (foreign key,
// unique, not null).
func IsConstraint(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}

// ScanIDs drains rows holding a single integer column.
func ScanIDs(rows *sql.Rows) ([]int64, error) {
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// QueryIDs runs query and returns its single integer column.
func QueryIDs(ctx context.Context, q Querier, query string, args ...any) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return ScanIDs(rows)
}

// CreatedAt returns t as unix seconds. A zero t keeps the value stored for
// id in table, or takes the current time for a new row.
func CreatedAt(ctx context.Context, q Querier, table string, id int64, t time.Time) (int64, error) {
	if !t.IsZero() {
		return t.Unix(), nil
	}
	if id != 0 {
		var stored int64
		err := q.QueryRowContext(ctx, `SELECT created_at FROM `+table+` WHERE id = ?`, id).Scan(&stored)
		switch {
		case err == nil:
			return stored, nil
		case !errors.Is(err, sql.ErrNoRows):
			return 0, fmt.Errorf("created_at of %s %d: %w", table, id, err)
		}
	}
	return time.Now().Unix(), nil
}
