package usecase

import (
	"context"
	"log"

	"github.com/naka-gawa/pr-dashboard/internal/chart"
	"github.com/naka-gawa/pr-dashboard/internal/domain"
	"github.com/naka-gawa/pr-dashboard/internal/gateway"
)

// View is everything the dashboard page shows: the parsed data and the
// geometry of its three charts.
type View struct {
	Payload *domain.Payload
	Bar     chart.Chart
	Stacked chart.Chart
	Percent chart.Chart

	// LoadErr is set when the data set could not be fetched at all.
	LoadErr error
	// BarErr and StackedErr are set when a section was malformed and its
	// charts were left empty.
	BarErr     error
	StackedErr error
}

// Dashboard is the use case that loads the data set and lays out the charts.
type Dashboard struct {
	loader gateway.Loader
	logger *log.Logger
}

// NewDashboard creates a new Dashboard instance.
func NewDashboard(loader gateway.Loader, logger *log.Logger) *Dashboard {
	return &Dashboard{loader: loader, logger: logger}
}

// Build fetches the data set once and builds every chart. A failed fetch
// is logged and treated as an empty data set, so the page still renders.
func (d *Dashboard) Build(ctx context.Context) *View {
	raw, err := d.loader.Fetch(ctx)
	if err != nil {
		d.logger.Printf("Failed to load dashboard data: %v\n", err)
		v := BuildView(&domain.RawPayload{}, d.logger)
		v.LoadErr = err
		return v
	}
	return BuildView(raw, d.logger)
}

// BuildView lays out the charts of a raw data set. A malformed section
// leaves its charts without geometry instead of drawing part of it.
func BuildView(raw *domain.RawPayload, logger *log.Logger) *View {
	v := &View{Payload: &domain.Payload{}}

	bar, err := raw.ParseBar()
	if err != nil {
		logger.Printf("Skipping bar chart: %v\n", err)
		v.BarErr = err
		bar = nil
	}
	v.Payload.BarData = bar
	v.Bar = chart.BuildBar(bar, chart.BarLayout())

	stacked, schema, err := raw.ParseStacked()
	v.Payload.Schema = schema
	if err != nil {
		logger.Printf("Skipping stacked charts: %v\n", err)
		v.StackedErr = err
		v.Stacked = chart.Frame(chart.KindStacked, chart.StackedLayout())
		v.Percent = chart.Frame(chart.KindPercent, chart.PercentLayout())
		return v
	}
	v.Payload.StackedData = stacked
	if v.Payload.Empty() {
		logger.Println("Dashboard data set is empty")
	}

	if len(stacked) == 0 {
		v.Stacked = chart.Frame(chart.KindStacked, chart.StackedLayout())
		v.Percent = chart.Frame(chart.KindPercent, chart.PercentLayout())
		return v
	}
	if v.Stacked, err = chart.BuildStacked(stacked, schema, chart.ModeRaw, chart.StackedLayout()); err != nil {
		logger.Printf("Skipping stacked chart: %v\n", err)
		v.StackedErr = err
	}
	if v.Percent, err = chart.BuildStacked(stacked, schema, chart.ModePercent, chart.PercentLayout()); err != nil {
		logger.Printf("Skipping percent stacked chart: %v\n", err)
		v.StackedErr = err
	}
	return v
}

// Empty reports whether no chart has anything to draw.
func (v *View) Empty() bool {
	return v.Bar.Empty() && v.Stacked.Empty() && v.Percent.Empty()
}
