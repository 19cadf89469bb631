package chart

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/pr-dashboard/internal/domain"
)

// Mode selects how a stacked chart scales its values.
type Mode int

const (
	// ModeRaw stacks the counts as they are.
	ModeRaw Mode = iota
	// ModePercent rescales every record so its categories sum to 100.
	ModePercent
)

func (m Mode) String() string {
	if m == ModePercent {
		return "percent"
	}
	return "raw"
}

// StackedValue is the position of one category within one record's stack.
type StackedValue struct {
	Key   string
	Start float64
	End   float64
	// Value is what the segment represents: the count in raw mode, the
	// percentage in percent mode.
	Value float64
	Count float64
}

// StackLayer is every record's value for one category.
type StackLayer struct {
	Category string
	Color    string
	Values   []StackedValue
}

// LegendItem pairs a category with its colour.
type LegendItem struct {
	Label string
	Color string
}

// StackResult is the normalized, stacked form of a multi-category data set.
type StackResult struct {
	Mode   Mode
	Keys   []string
	Totals []float64
	// Max is the top of the value domain.
	Max    float64
	Layers []StackLayer
	Legend []LegendItem
}

// RoundUpToTen returns the smallest multiple of ten not below v.
func RoundUpToTen(v float64) float64 {
	return math.Ceil(v/10) * 10
}

// Stack normalizes and stacks records following the schema's category
// order, the first category sitting at the bottom of every stack. The
// legend lists the categories top-down, i.e. in reverse schema order, and
// colours are assigned by position in that legend.
//
// In percent mode a record whose categories sum to zero is drawn as 0%
// for every category.
func Stack(records []domain.MultiRecord, schema domain.Schema, mode Mode) (*StackResult, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	n := len(schema.Categories)

	res := &StackResult{
		Mode:   mode,
		Keys:   make([]string, len(records)),
		Totals: make([]float64, len(records)),
		Layers: make([]StackLayer, n),
		Legend: make([]LegendItem, n),
	}
	for ci, c := range schema.Categories {
		legendPos := n - 1 - ci
		color := PaletteColor(legendPos)
		res.Layers[ci] = StackLayer{Category: c, Color: color, Values: make([]StackedValue, len(records))}
		res.Legend[legendPos] = LegendItem{Label: c, Color: color}
	}

	for ri, r := range records {
		row := make(stats.Float64Data, n)
		for ci, c := range schema.Categories {
			row[ci] = r.Values[c]
		}
		total, err := stats.Sum(row)
		if err != nil {
			return nil, fmt.Errorf("sum record %q: %w", r.Key, err)
		}
		res.Keys[ri] = r.Key
		res.Totals[ri] = total

		offset := 0.0
		for ci := range schema.Categories {
			value := row[ci]
			if mode == ModePercent {
				value = percentOf(row[ci], total)
			}
			res.Layers[ci].Values[ri] = StackedValue{
				Key:   r.Key,
				Start: offset,
				End:   offset + value,
				Value: value,
				Count: row[ci],
			}
			offset += value
		}
	}

	switch {
	case mode == ModePercent:
		res.Max = percentDomainUpper
	case len(records) > 0:
		maxTotal, err := stats.Max(stats.Float64Data(res.Totals))
		if err != nil {
			return nil, fmt.Errorf("max row total: %w", err)
		}
		res.Max = RoundUpToTen(maxTotal)
	}
	return res, nil
}

func percentOf(v, total float64) float64 {
	if total == 0 {
		return 0
	}
	return v / total * 100
}

// BuildStacked lays out a stacked or percent-stacked chart.
func BuildStacked(records []domain.MultiRecord, schema domain.Schema, mode Mode, layout Layout) (Chart, error) {
	kind := KindStacked
	if mode == ModePercent {
		kind = KindPercent
	}
	res, err := Stack(records, schema, mode)
	if err != nil {
		return Frame(kind, layout), err
	}
	if len(records) == 0 {
		return Frame(kind, layout), nil
	}

	band, linear := scales(res.Keys, res.Max, layout)
	c := frame(kind, layout, band, linear)
	c.Layers = make([]Layer, 0, len(res.Layers))
	for _, l := range res.Layers {
		layer := Layer{Category: l.Category, Fill: l.Color, Segments: make([]Segment, 0, len(l.Values))}
		for _, v := range l.Values {
			x, _ := band.Band(v.Key)
			top := linear.Scale(v.End)
			layer.Segments = append(layer.Segments, Segment{
				Rect: Rect{
					X:      x,
					Y:      top,
					Width:  band.Bandwidth(),
					Height: linear.Scale(v.Start) - top,
					Fill:   l.Color,
					Tooltip: &Tooltip{
						Key:      v.Key,
						Category: l.Category,
						Value:    v.Value,
						Count:    v.Count,
					},
				},
				Start: v.Start,
				End:   v.End,
			})
		}
		c.Layers = append(c.Layers, layer)
	}
	c.Legend = Legend(res.Legend, layout)
	return c, nil
}
