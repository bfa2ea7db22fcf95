package chart

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/askdb/internal/database"
)

func TestSelectAxes(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		rows     [][]any
		expected Axes
	}{
		{
			name:     "measure and dimension keywords",
			columns:  []string{"region", "total_amt_usd"},
			rows:     [][]any{{"east", 10.0}},
			expected: Axes{X: "region", Y: "total_amt_usd"},
		},
		{
			name:     "numeric last column fallback",
			columns:  []string{"id", "value"},
			rows:     [][]any{{int64(1), int64(5)}, {int64(2), "7.5"}},
			expected: Axes{X: "id", Y: "value"},
		},
		{
			name:     "numeric fallback overrides dimension match",
			columns:  []string{"rep", "region", "score"},
			rows:     [][]any{{"a", "east", 1.0}},
			expected: Axes{X: "rep", Y: "score"},
		},
		{
			name:     "non-numeric last column keeps dimension match",
			columns:  []string{"rep", "region", "label"},
			rows:     [][]any{{"a", "east", "x"}},
			expected: Axes{X: "region", Y: "label"},
		},
		{
			name:     "first match wins in column order",
			columns:  []string{"month", "sales_count", "total"},
			rows:     [][]any{{"2023-01", 1, 2}},
			expected: Axes{X: "month", Y: "sales_count"},
		},
		{
			name:     "case-insensitive match",
			columns:  []string{"Category_Name", "AVG_deal"},
			expected: Axes{X: "Category_Name", Y: "AVG_deal"},
		},
		{
			name:     "final fallback may repeat the column",
			columns:  []string{"label"},
			rows:     [][]any{{"x"}},
			expected: Axes{X: "label", Y: "label"},
		},
		{
			name:     "all-null last column is not numeric",
			columns:  []string{"a", "b"},
			rows:     [][]any{{"x", nil}},
			expected: Axes{X: "a", Y: "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectAxes(tt.columns, tt.rows))
		})
	}
}

func salesResult() *database.QueryResult {
	return &database.QueryResult{
		Columns: []string{"region", "total_sales"},
		Rows: [][]any{
			{"east", "120.50"},
			{"west", int64(80)},
			{"north", nil},
		},
		RowCount: 3,
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		kind  string
		title string
	}{
		{"bar", "total_sales by region"},
		{"line", "total_sales over region"},
		{"scatter", "total_sales vs region"},
		{" BAR ", "total_sales by region"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			c, err := Render(salesResult(), tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.title, c.Title)
			assert.Equal(t, "Region", c.XLabel)
			assert.Equal(t, "Total Sales", c.YLabel)
			assert.Equal(t, []string{"east", "west", "north"}, c.Labels())
			assert.Equal(t, []Point{
				{Label: "east", Value: 120.5, Valid: true},
				{Label: "west", Value: 80, Valid: true},
				{Label: "north"},
			}, c.Points)
		})
	}
}

func TestRender_Errors(t *testing.T) {
	_, err := Render(&database.QueryResult{Columns: []string{"a", "b"}}, "pie")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Render(nil, "bar")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Render(&database.QueryResult{Columns: []string{"a"}, Rows: [][]any{{1}, {2}}}, "bar")
	assert.ErrorIs(t, err, ErrTooFewColumns)

	_, err = Render(salesResult(), "pie")
	require.ErrorIs(t, err, ErrUnsupportedKind)
	assert.Contains(t, err.Error(), "pie")
}

func TestWriteHTML(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			c, err := Render(salesResult(), string(kind))
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, c.WriteHTML(&buf))
			html := buf.String()
			assert.Contains(t, html, "echarts")
			assert.Contains(t, html, "east")
			assert.Contains(t, html, string(kind))
		})
	}
}

func TestText(t *testing.T) {
	c, err := Render(salesResult(), "bar")
	require.NoError(t, err)

	out := c.Text(60)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "total_sales by region", lines[0])
	assert.Contains(t, out, "east")
	assert.Contains(t, out, "120.50")
	assert.Contains(t, out, "80")
	assert.Contains(t, out, "north"+strings.Repeat(" ", 12)+"│ -")

	c, err = Render(salesResult(), "line")
	require.NoError(t, err)
	out = c.Text(60)
	assert.Contains(t, out, "total_sales over region")
	assert.Equal(t, 2, strings.Count(out, "●"))
	assert.Contains(t, out, "120.50")
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Scatter")
	require.NoError(t, err)
	assert.Equal(t, KindScatter, k)

	_, err = ParseKind("pie")
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestText_NonFiniteValues(t *testing.T) {
	values := map[string]any{
		"nan":        math.NaN(),
		"inf":        math.Inf(1),
		"neg inf":    math.Inf(-1),
		"nan string": "NaN",
	}

	for name, v := range values {
		for _, kind := range Kinds {
			t.Run(name+"/"+string(kind), func(t *testing.T) {
				result := &database.QueryResult{
					Columns:  []string{"region", "avg_price"},
					Rows:     [][]any{{"east", 1.5}, {"west", v}},
					RowCount: 2,
				}
				c, err := Render(result, string(kind))
				require.NoError(t, err)

				assert.True(t, c.Points[0].Valid)
				assert.False(t, c.Points[1].Valid)

				var text string
				require.NotPanics(t, func() { text = c.Text(72) })
				assert.Contains(t, text, "east")
			})
		}
	}
}

func TestText_AllNonFinite(t *testing.T) {
	result := &database.QueryResult{
		Columns: []string{"region", "avg_price"},
		Rows:    [][]any{{"east", math.NaN()}, {"west", math.Inf(1)}},
	}
	c, err := Render(result, "line")
	require.NoError(t, err)
	assert.Contains(t, c.Text(72), "(no numeric values)")
}

func TestRender_TextColumnTypeSkipsNumericFallback(t *testing.T) {
	result := &database.QueryResult{
		Columns:     []string{"rep", "region", "code"},
		ColumnTypes: []string{"TEXT", "TEXT", "VARCHAR"},
		Rows:        [][]any{{"a", "east", "00123"}, {"b", "west", "00456"}},
		RowCount:    2,
	}
	c, err := Render(result, "bar")
	require.NoError(t, err)
	assert.Equal(t, Axes{X: "region", Y: "code"}, c.Axes)

	result.ColumnTypes = []string{"TEXT", "TEXT", "NUMERIC"}
	c, err = Render(result, "bar")
	require.NoError(t, err)
	assert.Equal(t, Axes{X: "rep", Y: "code"}, c.Axes)
}
