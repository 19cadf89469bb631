package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/naka-gawa/pr-dashboard/internal/chart"
	"github.com/naka-gawa/pr-dashboard/internal/usecase"
)

// WriteTable prints the geometry of every chart as text tables.
func WriteTable(w io.Writer, v *usecase.View) error {
	for i, c := range viewCharts(v) {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s:\n%s\n", c.Title.Content, geometryTable(c)); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
	}
	return nil
}

func geometryTable(c chart.Chart) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Key", "Category", "Value", "Count", "X", "Y", "Width", "Height", "Fill"})

	rows := 0
	for _, r := range c.Bars {
		tbl.AppendRow(rectRow(r, ""))
		rows++
	}
	for _, l := range c.Layers {
		for _, s := range l.Segments {
			tbl.AppendRow(rectRow(s.Rect, l.Category))
			rows++
		}
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d items", rows), "", "Max", chart.FormatTick(c.Max)})
	return tbl.Render()
}

func rectRow(r chart.Rect, category string) table.Row {
	var key string
	var value, count float64
	if r.Tooltip != nil {
		key, value, count = r.Tooltip.Key, r.Tooltip.Value, r.Tooltip.Count
	}
	return table.Row{
		key,
		category,
		chart.FormatTick(value),
		chart.FormatTick(count),
		fmt.Sprintf("%.2f", r.X),
		fmt.Sprintf("%.2f", r.Y),
		fmt.Sprintf("%.2f", r.Width),
		fmt.Sprintf("%.2f", r.Height),
		r.Fill,
	}
}
