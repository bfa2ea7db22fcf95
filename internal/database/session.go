package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotConnected is returned when a session is used after Close.
var ErrNotConnected = errors.New("not connected")

// SessionOptions configures a Session.
type SessionOptions struct {
	// Catalog is the catalog query returning, in order: table name, column
	// name, data type, is_nullable ('YES'/'NO'), FK table, FK column.
	Catalog     string
	CatalogArgs []any

	// ReadOnly runs executed statements inside a read-only transaction
	// that is always rolled back.
	ReadOnly bool
}

// Session is a single-use connection to the store.
type Session struct {
	db   *sql.DB
	opts SessionOptions
}

// NewSession wraps an open database handle.
func NewSession(db *sql.DB, opts SessionOptions) *Session {
	return &Session{db: db, opts: opts}
}

// Close closes the underlying handle.
func (s *Session) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Ping checks if the connection is alive.
func (s *Session) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrNotConnected
	}
	return s.db.PingContext(ctx)
}

// DescribeSchema reads tables, columns and foreign keys from the catalog.
func (s *Session) DescribeSchema(ctx context.Context) (*Schema, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}

	rows, err := s.db.QueryContext(ctx, s.opts.Catalog, s.opts.CatalogArgs...)
	if err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	schema := &Schema{}
	for rows.Next() {
		var (
			table, nullable string
			col             Column
			fkTable, fkCol  sql.NullString
		)
		if err := rows.Scan(&table, &col.Name, &col.DataType, &nullable, &fkTable, &fkCol); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		col.IsNullable = nullable == "YES"
		if fkTable.Valid && fkCol.Valid {
			col.ForeignKey = &ForeignKey{Table: fkTable.String, Column: fkCol.String}
		}
		schema.add(table, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog rows: %w", err)
	}

	return schema, nil
}

// ExecuteQuery runs a SQL query verbatim and returns the results.
func (s *Session) ExecuteQuery(ctx context.Context, query string) (*QueryResult, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}

	start := time.Now()

	if !s.opts.ReadOnly {
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("execute: %w", err)
		}
		return collect(rows, start)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin read-only: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	return collect(rows, start)
}

func collect(rows *sql.Rows, start time.Time) (*QueryResult, error) {
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	types := make([]string, len(columns))
	if colTypes, err := rows.ColumnTypes(); err == nil {
		for i, ct := range colTypes {
			if i < len(types) {
				types[i] = ct.DatabaseTypeName()
			}
		}
	}

	var resultRows [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		resultRows = append(resultRows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &QueryResult{
		Columns:     columns,
		ColumnTypes: types,
		Rows:        resultRows,
		RowCount:    len(resultRows),
		Duration:    time.Since(start),
	}, nil
}
