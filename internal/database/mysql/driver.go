// Package mysql opens MySQL sessions through go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/joacominatel/askdb/internal/database"
)

// Driver implements the database.Driver interface for MySQL.
type Driver struct {
	readOnly bool
}

// New creates a new MySQL driver.
func New(readOnly bool) *Driver {
	return &Driver{readOnly: readOnly}
}

// Name returns "mysql".
func (d *Driver) Name() string {
	return "mysql"
}

// Open connects and pings MySQL.
func (d *Driver) Open(ctx context.Context, dsn string) (*database.Session, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return database.NewSession(db, database.SessionOptions{
		Catalog:  queryCatalog,
		ReadOnly: d.readOnly,
	}), nil
}

var _ database.Driver = (*Driver)(nil)
