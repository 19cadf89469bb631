// Package render writes a dashboard view in one of the supported output
// formats. Every renderer reads the declarative geometry built by the
// chart package and never recomputes it.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/naka-gawa/pr-dashboard/internal/chart"
	"github.com/naka-gawa/pr-dashboard/internal/usecase"
)

// Format names an output format.
type Format string

const (
	FormatSVG     Format = "svg"
	FormatHTML    Format = "html"
	FormatECharts Format = "echarts"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTable   Format = "table"
	FormatXLSX    Format = "xlsx"
)

// ErrUnknownFormat is returned for a format name no renderer handles.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists every supported format in the order the CLI shows them.
var Formats = []Format{FormatSVG, FormatHTML, FormatECharts, FormatJSON, FormatYAML, FormatTable, FormatXLSX}

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownFormat)
}

// ContentType returns the MIME type of the format's output.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml; charset=utf-8"
	case FormatHTML, FormatECharts:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Write renders the view in the given format.
func Write(w io.Writer, format Format, v *usecase.View) error {
	switch format {
	case FormatSVG:
		return WriteSVG(w, v)
	case FormatHTML:
		return WriteHTML(w, v)
	case FormatECharts:
		return WriteECharts(w, v)
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	case FormatTable:
		return WriteTable(w, v)
	case FormatXLSX:
		return WriteXLSX(w, v)
	default:
		return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

// viewCharts returns the view's charts in page order.
func viewCharts(v *usecase.View) []chart.Chart {
	return []chart.Chart{v.Bar, v.Stacked, v.Percent}
}
