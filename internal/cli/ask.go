package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/joacominatel/askdb/internal/app"
	"github.com/joacominatel/askdb/internal/chart"
)

const (
	maxPrintedRows = 50
	chartWidth     = 72
)

type askOptions struct {
	chart string
	html  string
}

func newAskCmd(flags *globalFlags) *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   `ask "<question>"`,
		Short: "Answer one question and print the SQL, rows and chart",
		Example: `  askdb ask "Show me total sales by region"
  askdb ask "What is the monthly revenue trend for 2023?" --chart line --html trend.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := chart.ParseKind(opts.chart); err != nil {
				return err
			}

			rt, err := setup(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer rt.log.Close()

			if err := rt.requireTarget(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("chart") && rt.cfg.Preferences.DefaultChart != "" {
				opts.chart = rt.cfg.Preferences.DefaultChart
			}

			answer, askErr := rt.service.Ask(cmd.Context(), strings.Join(args, " "), opts.chart)
			if answer != nil {
				if err := renderAnswer(cmd.OutOrStdout(), answer); err != nil {
					return err
				}
				if opts.html != "" && answer.Chart != nil {
					if err := writeChartFile(opts.html, answer.Chart); err != nil {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "chart written to %s\n", opts.html)
				}
			}
			if askErr != nil {
				return errors.New(app.Message(askErr))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.chart, "chart", "c", string(chart.KindBar), "Chart kind: bar, line or scatter")
	cmd.Flags().StringVar(&opts.html, "html", "", "Also write the chart as an HTML page to this file")
	return cmd
}

// renderAnswer prints the SQL, up to maxPrintedRows rows and the chart or message.
func renderAnswer(w io.Writer, answer *app.Answer) error {
	if answer.SQL != "" {
		fmt.Fprintf(w, "%s\n%s\n\n", text.Bold.Sprint("SQL"), answer.SQL)
	}

	if res := answer.Result; res != nil && len(res.Columns) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)

		header := make(table.Row, len(res.Columns))
		for i, col := range res.Columns {
			header[i] = col
		}
		t.AppendHeader(header)

		for i, row := range res.Strings() {
			if i == maxPrintedRows {
				break
			}
			r := make(table.Row, len(row))
			for j, cell := range row {
				r[j] = cell
			}
			t.AppendRow(r)
		}
		if res.RowCount > maxPrintedRows {
			t.AppendFooter(table.Row{fmt.Sprintf("%d of %d rows", maxPrintedRows, res.RowCount)})
		} else {
			t.AppendFooter(table.Row{fmt.Sprintf("%d row(s)", res.RowCount)})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	switch {
	case answer.Chart != nil:
		fmt.Fprintln(w, answer.Chart.Text(chartWidth))
	case answer.Message != "":
		fmt.Fprintln(w, answer.Message)
	}
	return nil
}

func writeChartFile(path string, c *chart.Chart) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return c.WriteHTML(f)
}
