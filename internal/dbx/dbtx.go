// Package dbx holds the small database plumbing every repository shares: the
// DBTX interface that lets a repository run against either a plain connection
// or an open transaction, and WithTx for the few flows that need one (account
// signup bundles its uniqueness checks and insert this way).
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the execution surface repositories are written against. *sql.DB
// and *sql.Tx both satisfy it, so a repository never knows whether it is
// inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction on db. The transaction commits when fn
// returns nil and rolls back when it returns an error. A panic inside fn
// rolls back and is rethrown.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
