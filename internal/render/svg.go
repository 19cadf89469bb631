package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/naka-gawa/pr-dashboard/internal/chart"
	"github.com/naka-gawa/pr-dashboard/internal/usecase"
)

// PageTitle is the heading of the HTML dashboard.
const PageTitle = "PR Stats Dashboard"

const chartTemplate = `{{define "chart"}}<svg xmlns="http://www.w3.org/2000/svg" class="chart chart-{{.Kind}}" width="{{num .Width}}" height="{{num .Height}}" viewBox="0 0 {{num .Width}} {{num .Height}}">
{{template "text" .Title}}
{{- range .Bars}}
<rect x="{{num .X}}" y="{{num .Y}}" width="{{num .Width}}" height="{{num .Height}}" fill="{{.Fill}}"><title>{{tooltip .Tooltip}}</title></rect>
{{- end}}
{{- range .Layers}}
<g class="layer" data-category="{{.Category}}" fill="{{.Fill}}">
{{- range .Segments}}
<rect x="{{num .X}}" y="{{num .Y}}" width="{{num .Width}}" height="{{num .Height}}"><title>{{tooltip .Tooltip}}</title></rect>
{{- end}}
</g>
{{- end}}
<g class="axis axis-bottom" transform="translate(0,{{num .XAxis.Offset}})">
<line x1="{{num .XAxis.From}}" x2="{{num .XAxis.To}}" stroke="currentColor"/>
{{- range .XAxis.Ticks}}
<g class="tick" transform="translate({{num .Pos}},0)"><line y2="6" stroke="currentColor"/><text y="9" dy="0.71em" text-anchor="middle">{{.Label}}</text></g>
{{- end}}
</g>
<g class="axis axis-left" transform="translate({{num .YAxis.Offset}},0)">
<line y1="{{num .YAxis.From}}" y2="{{num .YAxis.To}}" stroke="currentColor"/>
{{- range .YAxis.Ticks}}
<g class="tick" transform="translate(0,{{num .Pos}})"><line x2="-6" stroke="currentColor"/><text x="-9" dy="0.32em" text-anchor="end">{{.Label}}</text></g>
{{- end}}
</g>
{{template "text" .XLabel}}
{{template "text" .YLabel}}
{{- range .Legend}}
<g class="legend"><rect x="{{num .X}}" y="{{num .Y}}" width="{{num .Size}}" height="{{num .Size}}" fill="{{.Fill}}"/><text x="{{num .TextX}}" y="{{num .TextY}}" dy="0.32em" text-anchor="{{.Anchor}}">{{.Label}}</text></g>
{{- end}}
</svg>{{end}}
{{define "text"}}{{if .Content}}<text x="{{num .X}}" y="{{num .Y}}" text-anchor="{{.Anchor}}"{{if .FontSize}} font-size="{{num .FontSize}}"{{end}}{{if .Rotate}} transform="rotate({{num .Rotate}})"{{end}}>{{.Content}}</text>{{end}}{{end}}`

const documentTemplate = `{{define "document"}}<svg xmlns="http://www.w3.org/2000/svg" width="{{num .Width}}" height="{{num .Height}}">
{{- range .Placed}}
<g transform="translate(0,{{num .Offset}})">{{template "chart" .Chart}}</g>
{{- end}}
</svg>
{{end}}`

const pageTemplate = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Notice}}
<p class="notice">{{.Notice}}</p>
{{- end}}
{{- range .Charts}}
<div class="chart-container">
{{template "chart" .}}
</div>
{{- end}}
</body>
</html>
{{end}}`

var svgTemplates = template.Must(template.New("svg").Funcs(template.FuncMap{
	"num":     chart.FormatTick,
	"tooltip": tooltipText,
}).Parse(chartTemplate + documentTemplate + pageTemplate))

type placedChart struct {
	Offset float64
	Chart  chart.Chart
}

type svgDocument struct {
	Width  float64
	Height float64
	Placed []placedChart
}

type htmlPage struct {
	Title  string
	Notice string
	Charts []chart.Chart
}

// tooltipText is the hover text of a rectangle.
func tooltipText(t *chart.Tooltip) string {
	if t == nil {
		return ""
	}
	if t.Category == "" {
		return fmt.Sprintf("%s: %s", t.Key, chart.FormatTick(t.Count))
	}
	return fmt.Sprintf("category: %s / count: %s", t.Category, chart.FormatTick(t.Count))
}

// WriteSVG writes one SVG document with the charts stacked vertically.
func WriteSVG(w io.Writer, v *usecase.View) error {
	doc := svgDocument{}
	for _, c := range viewCharts(v) {
		doc.Placed = append(doc.Placed, placedChart{Offset: doc.Height, Chart: c})
		doc.Height += c.Height
		if c.Width > doc.Width {
			doc.Width = c.Width
		}
	}
	if err := svgTemplates.ExecuteTemplate(w, "document", doc); err != nil {
		return fmt.Errorf("failed to render svg: %w", err)
	}
	return nil
}

// WriteHTML writes the dashboard page: a heading and one inline SVG per
// chart. A failed load is reported above the empty charts.
func WriteHTML(w io.Writer, v *usecase.View) error {
	page := htmlPage{Title: PageTitle, Charts: viewCharts(v)}
	if v.LoadErr != nil {
		page.Notice = "Dashboard data could not be loaded."
	}
	if err := svgTemplates.ExecuteTemplate(w, "page", page); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}
