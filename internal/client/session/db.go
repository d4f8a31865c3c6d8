package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/snapline/internal/client/migrations"
	"github.com/pressly/goose/v3"
)

// OpenDatabase opens (creating if needed) the client's local SQLite database
// and applies pending migrations. The caller registers the driver by blank-
// importing modernc.org/sqlite.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
