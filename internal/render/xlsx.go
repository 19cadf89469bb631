package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/naka-gawa/pr-dashboard/internal/chart"
	"github.com/naka-gawa/pr-dashboard/internal/domain"
	"github.com/naka-gawa/pr-dashboard/internal/usecase"
)

// Sheet names of the exported workbook.
const (
	SheetBar      = "bar_data"
	SheetStacked  = "stacked_data"
	SheetGeometry = "geometry"
)

// WriteXLSX writes a workbook with the parsed records and the chart
// geometry, one sheet each. Stacked rows carry their total in a last column.
func WriteXLSX(w io.Writer, v *usecase.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetBar); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for _, name := range []string{SheetStacked, SheetGeometry} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	payload := v.Payload
	if payload == nil {
		payload = &domain.Payload{}
	}
	if err := writeRows(f, SheetBar, barRows(payload)); err != nil {
		return err
	}
	if err := writeRows(f, SheetStacked, stackedRows(payload)); err != nil {
		return err
	}
	if err := writeRows(f, SheetGeometry, geometryRows(v)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func barRows(p *domain.Payload) [][]any {
	rows := [][]any{{domain.FieldPRRange, domain.FieldRepoCount}}
	for _, r := range p.BarData {
		rows = append(rows, []any{r.Category, r.Count})
	}
	return rows
}

func stackedRows(p *domain.Payload) [][]any {
	keyField := p.Schema.KeyField
	if keyField == "" {
		keyField = domain.FieldWeek
	}
	header := []any{keyField}
	for _, c := range p.Schema.Categories {
		header = append(header, c)
	}
	header = append(header, "total")
	rows := [][]any{header}
	for _, r := range p.StackedData {
		row := []any{r.Key}
		for _, c := range p.Schema.Categories {
			row = append(row, r.Values[c])
		}
		row = append(row, r.Total(p.Schema.Categories))
		rows = append(rows, row)
	}
	return rows
}

func geometryRows(v *usecase.View) [][]any {
	rows := [][]any{{"chart", "key", "category", "value", "count", "x", "y", "width", "height", "fill"}}
	for _, c := range viewCharts(v) {
		for _, r := range c.Bars {
			rows = append(rows, append([]any{string(c.Kind)}, rectCells(r)...))
		}
		for _, l := range c.Layers {
			for _, s := range l.Segments {
				rows = append(rows, append([]any{string(c.Kind)}, rectCells(s.Rect)...))
			}
		}
	}
	return rows
}

func rectCells(r chart.Rect) []any {
	var key, category string
	var value, count float64
	if r.Tooltip != nil {
		key, category = r.Tooltip.Key, r.Tooltip.Category
		value, count = r.Tooltip.Value, r.Tooltip.Count
	}
	return []any{key, category, value, count, r.X, r.Y, r.Width, r.Height, r.Fill}
}
