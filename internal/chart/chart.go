package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joacominatel/askdb/internal/database"
)

// Kind is a chart type offered by the form.
type Kind string

const (
	KindBar     Kind = "bar"
	KindLine    Kind = "line"
	KindScatter Kind = "scatter"
)

// Kinds lists the supported chart kinds in display order.
var Kinds = []Kind{KindBar, KindLine, KindScatter}

var (
	ErrNoData          = errors.New("no data available to generate chart")
	ErrTooFewColumns   = errors.New("insufficient columns for visualization, need at least 2 columns")
	ErrUnsupportedKind = errors.New("unsupported chart type")
)

// ParseKind validates a chart kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedKind, s)
}

// Point is one plotted value. Valid is false when the y value is not numeric.
type Point struct {
	Label string
	Value float64
	Valid bool
}

// Chart is a rendered-on-demand plot of one result set.
type Chart struct {
	Kind   Kind
	Axes   Axes
	Title  string
	XLabel string
	YLabel string
	Points []Point
}

// Render builds a chart of the given kind from a query result.
func Render(result *database.QueryResult, kind string) (*Chart, error) {
	if result == nil || len(result.Rows) == 0 {
		return nil, ErrNoData
	}
	if len(result.Columns) < 2 {
		return nil, ErrTooFewColumns
	}
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}

	axes := selectAxes(result.Columns, result.ColumnTypes, result.Rows)
	xi, yi := indexOf(result.Columns, axes.X), indexOf(result.Columns, axes.Y)

	c := &Chart{
		Kind:   k,
		Axes:   axes,
		Title:  title(k, axes),
		XLabel: axisLabel(axes.X),
		YLabel: axisLabel(axes.Y),
		Points: make([]Point, 0, len(result.Rows)),
	}
	for _, row := range result.Rows {
		p := Point{Label: database.FormatValue(row[xi])}
		p.Value, p.Valid = toFloat(row[yi])
		c.Points = append(c.Points, p)
	}
	return c, nil
}

func title(k Kind, axes Axes) string {
	switch k {
	case KindLine:
		return fmt.Sprintf("%s over %s", axes.Y, axes.X)
	case KindScatter:
		return fmt.Sprintf("%s vs %s", axes.Y, axes.X)
	default:
		return fmt.Sprintf("%s by %s", axes.Y, axes.X)
	}
}

var titleCaser = cases.Title(language.English)

func axisLabel(column string) string {
	return titleCaser.String(strings.ReplaceAll(column, "_", " "))
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return 0
}

// Labels returns the x values in row order.
func (c *Chart) Labels() []string {
	labels := make([]string, len(c.Points))
	for i, p := range c.Points {
		labels[i] = p.Label
	}
	return labels
}

// values returns the y values; non-numeric ones become nil gaps.
func (c *Chart) values() []any {
	values := make([]any, len(c.Points))
	for i, p := range c.Points {
		if p.Valid {
			values[i] = p.Value
		}
	}
	return values
}

type renderer interface {
	Render(w io.Writer) error
}

// WriteHTML writes a standalone HTML page with the interactive chart.
func (c *Chart) WriteHTML(w io.Writer) error {
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{PageTitle: c.Title, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: c.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: c.YLabel}),
	}

	labels, values := c.Labels(), c.values()
	var r renderer
	switch c.Kind {
	case KindLine:
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		data := make([]opts.LineData, len(values))
		for i, v := range values {
			data[i] = opts.LineData{Value: v}
		}
		line.SetXAxis(labels).AddSeries(c.YLabel, data)
		r = line
	case KindScatter:
		scatter := charts.NewScatter()
		scatter.SetGlobalOptions(global...)
		data := make([]opts.ScatterData, len(values))
		for i, v := range values {
			data[i] = opts.ScatterData{Value: v}
		}
		scatter.SetXAxis(labels).AddSeries(c.YLabel, data)
		r = scatter
	default:
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		data := make([]opts.BarData, len(values))
		for i, v := range values {
			data[i] = opts.BarData{Value: v}
		}
		bar.SetXAxis(labels).AddSeries(c.YLabel, data)
		r = bar
	}
	return r.Render(w)
}
