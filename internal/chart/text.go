package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	labelWidth = 16
	plotHeight = 10
)

// Text draws the chart with unicode characters for a terminal of the given width.
func (c *Chart) Text(width int) string {
	if width < labelWidth+10 {
		width = labelWidth + 10
	}

	var b strings.Builder
	b.WriteString(c.Title)
	b.WriteString("\n\n")
	if c.Kind == KindBar {
		c.writeBars(&b, width)
	} else {
		c.writePlot(&b, width)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Chart) bounds() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range c.Points {
		if !p.Valid {
			continue
		}
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
		ok = true
	}
	return lo, hi, ok
}

func (c *Chart) writeBars(b *strings.Builder, width int) {
	_, hi, ok := c.bounds()
	if !ok {
		b.WriteString("(no numeric values)\n")
		return
	}
	if hi <= 0 {
		hi = 1
	}

	barSpace := width - labelWidth - 14
	for _, p := range c.Points {
		label := runewidth.FillRight(runewidth.Truncate(p.Label, labelWidth, "…"), labelWidth)
		if !p.Valid {
			fmt.Fprintf(b, "%s │ -\n", label)
			continue
		}
		n := 0
		if p.Value > 0 {
			n = int(math.Round(p.Value / hi * float64(barSpace)))
		}
		n = min(max(n, 0), max(barSpace, 0))
		fmt.Fprintf(b, "%s │%s %s\n", label, strings.Repeat("█", n), formatNumber(p.Value))
	}
	fmt.Fprintf(b, "%s   %s\n", strings.Repeat(" ", labelWidth), c.YLabel)
}

func (c *Chart) writePlot(b *strings.Builder, width int) {
	lo, hi, ok := c.bounds()
	if !ok {
		b.WriteString("(no numeric values)\n")
		return
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	cols := len(c.Points)
	if maxCols := width - 12; cols > maxCols {
		cols = maxCols
	}
	grid := make([][]rune, plotHeight)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}

	level := func(v float64) int {
		return min(max(int(math.Round((v-lo)/span*float64(plotHeight-1))), 0), plotHeight-1)
	}

	prev := -1
	for x := 0; x < cols; x++ {
		p := c.Points[x]
		if !p.Valid {
			prev = -1
			continue
		}
		y := level(p.Value)
		if c.Kind == KindLine && prev >= 0 {
			for l := min(prev, y) + 1; l < max(prev, y); l++ {
				grid[plotHeight-1-l][x] = '│'
			}
		}
		grid[plotHeight-1-y][x] = '●'
		prev = y
	}

	for i, row := range grid {
		axis := "          "
		switch i {
		case 0:
			axis = fmt.Sprintf("%10s", formatNumber(hi))
		case plotHeight - 1:
			axis = fmt.Sprintf("%10s", formatNumber(lo))
		}
		fmt.Fprintf(b, "%s ┤%s\n", axis, string(row))
	}
	fmt.Fprintf(b, "%s └%s\n", strings.Repeat(" ", 10), strings.Repeat("─", cols))

	first, last := c.Points[0].Label, c.Points[cols-1].Label
	gap := cols - runewidth.StringWidth(first) - runewidth.StringWidth(last)
	if gap < 1 {
		gap = 1
	}
	fmt.Fprintf(b, "%s  %s%s%s\n", strings.Repeat(" ", 10), first, strings.Repeat(" ", gap), last)
	fmt.Fprintf(b, "%s  %s\n", strings.Repeat(" ", 10), c.XLabel)
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
