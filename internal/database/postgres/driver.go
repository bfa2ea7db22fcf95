// Package postgres opens PostgreSQL sessions through pgx or lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"

	"github.com/joacominatel/askdb/internal/database"
)

// Client names accepted by New.
const (
	ClientPgx = "pgx"
	ClientPq  = "pq"
)

// Driver implements the database.Driver interface for PostgreSQL.
type Driver struct {
	sqlDriver string
	schema    string
	readOnly  bool
}

// New creates a new PostgreSQL driver introspecting the given schema.
func New(client, schema string, readOnly bool) (*Driver, error) {
	d := &Driver{schema: schema, readOnly: readOnly}
	switch client {
	case "", ClientPgx:
		d.sqlDriver = "pgx"
	case ClientPq:
		d.sqlDriver = "postgres"
	default:
		return nil, fmt.Errorf("unknown postgres client %q", client)
	}
	if d.schema == "" {
		d.schema = "public"
	}
	return d, nil
}

// Name returns "postgres".
func (d *Driver) Name() string {
	return "postgres"
}

// Open connects and pings PostgreSQL. The handle holds a single connection.
func (d *Driver) Open(ctx context.Context, dsn string) (*database.Session, error) {
	db, err := sql.Open(d.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return database.NewSession(db, database.SessionOptions{
		Catalog:     queryCatalog,
		CatalogArgs: []any{d.schema},
		ReadOnly:    d.readOnly,
	}), nil
}

var _ database.Driver = (*Driver)(nil)
