package database

import (
	"fmt"
	"time"
)

// Column represents a table column with its metadata.
type Column struct {
	Name       string
	DataType   string
	IsNullable bool
	ForeignKey *ForeignKey
}

// ForeignKey is the target of a foreign-key column.
type ForeignKey struct {
	Table  string
	Column string
}

// Table holds a table name and its columns in catalog order.
type Table struct {
	Name    string
	Columns []Column
}

// QueryResult holds the result of a SQL query execution.
type QueryResult struct {
	Columns []string
	// ColumnTypes holds the driver type name per column (e.g. "NUMERIC",
	// "VARCHAR"); entries are empty when the driver does not report them.
	ColumnTypes []string
	Rows        [][]any
	RowCount    int
	Duration    time.Duration
}

// Row returns row i as a column name to value mapping.
func (r *QueryResult) Row(i int) map[string]any {
	row := make(map[string]any, len(r.Columns))
	for j, col := range r.Columns {
		if j < len(r.Rows[i]) {
			row[col] = r.Rows[i][j]
		}
	}
	return row
}

// Strings returns every row with values formatted for display.
func (r *QueryResult) Strings() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatValue(v)
		}
		out[i] = cells
	}
	return out
}

// FormatValue renders a scalar result value as text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.DateTime)
	default:
		return fmt.Sprintf("%v", val)
	}
}
