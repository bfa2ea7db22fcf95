// Package chart picks chart axes from a result set and draws the chart.
package chart

import "strings"

// Keyword lists for guessing the measure (y) and dimension (x) columns.
var (
	measureKeywords   = []string{"total", "sum", "avg", "count", "amount", "revenue", "sales", "profit"}
	dimensionKeywords = []string{"name", "category", "region", "date", "month", "year", "id"}
)

// Axes names the x and y columns of a chart.
type Axes struct {
	X string
	Y string
}

// SelectAxes guesses the x and y columns from the column names.
//
// The first column whose name contains a measure keyword becomes y and the
// first containing a dimension keyword becomes x. Without a measure match a
// numeric last column is paired with the first column. Anything still
// unset falls back to first column for x and last column for y; x and y
// may end up equal.
func SelectAxes(columns []string, rows [][]any) Axes {
	return selectAxes(columns, nil, rows)
}

// selectAxes is SelectAxes with the driver type names of the columns, used
// to keep text columns out of the numeric fallback.
func selectAxes(columns, types []string, rows [][]any) Axes {
	var axes Axes
	if len(columns) == 0 {
		return axes
	}

	axes.Y = firstMatch(columns, measureKeywords)
	axes.X = firstMatch(columns, dimensionKeywords)

	last := len(columns) - 1
	lastType := ""
	if last < len(types) {
		lastType = types[last]
	}
	if axes.Y == "" && len(columns) >= 2 && isNumericColumn(rows, last, lastType) {
		axes.Y = columns[last]
		axes.X = columns[0]
	}

	if axes.Y == "" {
		axes.Y = columns[last]
	}
	if axes.X == "" {
		axes.X = columns[0]
	}
	return axes
}

func firstMatch(columns, keywords []string) string {
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return col
			}
		}
	}
	return ""
}
