package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

type DBOptions struct {
	DSN    string
	PingTO time.Duration
}

// OpenDB opens the report-history database through pgx's database/sql
// adapter and verifies connectivity.
func OpenDB(ctx context.Context, opt DBOptions) (*sql.DB, error) {
	if opt.DSN == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	db, err := sql.Open("pgx", opt.DSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, opt.PingTO)
	defer cancel()

	if err := db.PingContext(pctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}
