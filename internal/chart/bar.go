package chart

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/pr-dashboard/internal/domain"
)

// BuildBar lays out one bar per record, in input order. An empty record
// list yields the chart frame alone.
func BuildBar(records []domain.SimpleRecord, layout Layout) Chart {
	if len(records) == 0 {
		return Frame(KindBar, layout)
	}

	keys := make([]string, len(records))
	counts := make(stats.Float64Data, len(records))
	for i, r := range records {
		keys[i] = r.Category
		counts[i] = r.Count
	}
	// counts is non-empty here, which is the only error Max reports.
	max, _ := stats.Max(counts)

	band, linear := scales(keys, max, layout)
	c := frame(KindBar, layout, band, linear)
	c.Bars = make([]Rect, 0, len(records))
	for _, r := range records {
		x, _ := band.Band(r.Category)
		y := linear.Scale(r.Count)
		c.Bars = append(c.Bars, Rect{
			X:      x,
			Y:      y,
			Width:  band.Bandwidth(),
			Height: linear.Scale(0) - y,
			Fill:   layout.Fill,
			Tooltip: &Tooltip{
				Key:   r.Category,
				Value: r.Count,
				Count: r.Count,
			},
		})
	}
	return c
}
