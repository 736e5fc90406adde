package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"

	"github.com/salesight-labs/salesight/pkg/core"
)

// renderRows writes a titled table in the configured format. The table and
// csv renderers receive pre-formatted cells; json receives the raw value.
func renderRows(w io.Writer, format, title string, cols []string, rows [][]string, raw interface{}) error {
	switch format {
	case "json":
		return renderJSON(w, raw)
	case "csv":
		return renderCSV(w, cols, rows)
	default:
		return renderTable(w, title, cols, rows)
	}
}

func renderTable(w io.Writer, title string, cols []string, rows [][]string) error {
	if title != "" {
		_, _ = fmt.Fprintln(w, title)
	}
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, cells := range rows {
		row := make(table.Row, len(cells))
		for i, cell := range cells {
			row[i] = cell
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderCSV(w io.Writer, cols []string, rows [][]string) error {
	_, _ = fmt.Fprintln(w, strings.Join(cols, ","))
	for _, cells := range rows {
		escaped := make([]string, len(cells))
		for i, cell := range cells {
			escaped[i] = escapeCSV(cell)
		}
		_, _ = fmt.Fprintln(w, strings.Join(escaped, ","))
	}
	return nil
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// formatPercent renders a ratio KPI as a percentage. Sentinels stay textual:
// "N/A" and "inf" must be distinguishable from "0.0%".
func formatPercent(r core.Ratio) string {
	if v, ok := r.Value(); ok {
		return fmt.Sprintf("%.1f%%", v)
	}
	if r.IsInfinite() {
		return "inf"
	}
	return "N/A"
}

// formatDays renders coverage days, which are unbounded.
func formatDays(r core.Ratio) string {
	if v, ok := r.Value(); ok {
		return fmt.Sprintf("%.1f", v)
	}
	if r.IsInfinite() {
		return "inf"
	}
	return "N/A"
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatOptionalAmount(d *decimal.Decimal) string {
	if d == nil {
		return "N/A"
	}
	return d.StringFixed(2)
}
