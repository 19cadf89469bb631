package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/naka-gawa/pr-dashboard/internal/chart"
	"github.com/naka-gawa/pr-dashboard/internal/usecase"
)

const stackName = "total"

// BuildECharts converts one chart's geometry into an interactive ECharts
// bar chart. Stacked layers become series sharing one stack, bottom layer
// first.
func BuildECharts(c chart.Chart) *charts.Bar {
	bar := charts.NewBar()

	yAxis := opts.YAxis{Name: c.YLabel.Content, Type: "value"}
	if c.Max > 0 {
		yAxis.Max = c.Max
	}
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  fmt.Sprintf("%dpx", int(c.Width)),
			Height: fmt.Sprintf("%dpx", int(c.Height)),
		}),
		charts.WithTitleOpts(opts.Title{Title: c.Title.Content}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(c.Layers) > 0), Right: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Name: c.XLabel.Content, Type: "category"}),
		charts.WithYAxisOpts(yAxis),
	)

	labels := make([]string, 0, len(c.XAxis.Ticks))
	for _, t := range c.XAxis.Ticks {
		labels = append(labels, t.Label)
	}
	bar.SetXAxis(labels)

	if len(c.Bars) > 0 {
		data := make([]opts.BarData, len(c.Bars))
		for i, r := range c.Bars {
			data[i] = opts.BarData{Value: tooltipValue(r.Tooltip)}
		}
		bar.AddSeries(c.XLabel.Content, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: c.Bars[0].Fill}))
	}
	for _, l := range c.Layers {
		data := make([]opts.BarData, len(l.Segments))
		for i, s := range l.Segments {
			data[i] = opts.BarData{Value: tooltipValue(s.Tooltip)}
		}
		bar.AddSeries(l.Category, data,
			charts.WithBarChartOpts(opts.BarChart{Stack: stackName}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: l.Fill}),
		)
	}
	return bar
}

func tooltipValue(t *chart.Tooltip) float64 {
	if t == nil {
		return 0
	}
	return t.Value
}

// WriteECharts writes an HTML page with one ECharts chart per dashboard
// chart.
func WriteECharts(w io.Writer, v *usecase.View) error {
	page := components.NewPage()
	page.PageTitle = PageTitle
	for _, c := range viewCharts(v) {
		page.AddCharts(BuildECharts(c))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render echarts page: %w", err)
	}
	return nil
}
