package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/pr-dashboard/internal/chart"
	"github.com/naka-gawa/pr-dashboard/internal/usecase"
)

// Document is the serialized form of a view.
type Document struct {
	Charts []chart.Chart `json:"charts" yaml:"charts"`
	Errors []string      `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// NewDocument collects the charts and any load or parse errors of a view.
func NewDocument(v *usecase.View) Document {
	doc := Document{Charts: viewCharts(v)}
	for _, err := range []error{v.LoadErr, v.BarErr, v.StackedErr} {
		if err != nil {
			doc.Errors = append(doc.Errors, err.Error())
		}
	}
	return doc
}

// WriteJSON writes the view's geometry as indented JSON.
func WriteJSON(w io.Writer, v *usecase.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(v)); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// WriteYAML writes the view's geometry as YAML.
func WriteYAML(w io.Writer, v *usecase.View) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(v)); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
