// Package domain contains the core data structures of the dashboard:
// the records the API serves and the schema that describes them.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Wire field names used by the dashboard API.
const (
	FieldPRRange    = "pr_range"
	FieldRepoCount  = "repo_count"
	FieldWeek       = "week"
	FieldBarData    = "bar_data"
	FieldStacked    = "stacked_data"
	FieldCategories = "stacked_categories"
)

// Sentinel errors describing records that cannot be charted.
var (
	ErrMissingField  = errors.New("record is missing a required field")
	ErrNegativeValue = errors.New("record value is negative")
	ErrDuplicateKey  = errors.New("record key is not unique")
	ErrNotNumeric    = errors.New("record value is not numeric")
	ErrNoCategories  = errors.New("schema has no categories")
)

// SimpleRecord is one bar of a simple bar chart, e.g. a PR range bucket
// and the number of repositories that fall into it.
type SimpleRecord struct {
	Category string  `json:"pr_range" yaml:"pr_range"`
	Count    float64 `json:"repo_count" yaml:"repo_count"`
}

// MultiRecord is one column of a stacked chart: a key (a week) and the
// value of every category for that key.
type MultiRecord struct {
	Key    string
	Values map[string]float64
}

// Total returns the sum of the record's values for the given categories.
func (r MultiRecord) Total(categories []string) float64 {
	var total float64
	for _, c := range categories {
		total += r.Values[c]
	}
	return total
}

// Schema names the key field and the ordered category fields of a
// multi-category data set.
type Schema struct {
	KeyField   string   `json:"key_field" yaml:"key_field"`
	Categories []string `json:"categories" yaml:"categories"`
}

// Validate checks that the schema can describe a stacked chart.
func (s Schema) Validate() error {
	if len(s.Categories) == 0 {
		return ErrNoCategories
	}
	seen := make(map[string]struct{}, len(s.Categories))
	for _, c := range s.Categories {
		if c == s.KeyField {
			return fmt.Errorf("category %q collides with key field: %w", c, ErrDuplicateKey)
		}
		if _, ok := seen[c]; ok {
			return fmt.Errorf("category %q listed twice: %w", c, ErrDuplicateKey)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// Payload is the full data set served by the dashboard API.
type Payload struct {
	BarData     []SimpleRecord
	StackedData []MultiRecord
	Schema      Schema
}

// Empty reports whether the payload holds no records at all.
func (p *Payload) Empty() bool {
	return p == nil || (len(p.BarData) == 0 && len(p.StackedData) == 0)
}

// MarshalJSON writes the payload in the wire shape the dashboard API serves.
func (p Payload) MarshalJSON() ([]byte, error) {
	keyField := p.Schema.KeyField
	if keyField == "" {
		keyField = FieldWeek
	}
	stacked := make([]map[string]any, 0, len(p.StackedData))
	for _, r := range p.StackedData {
		row := make(map[string]any, len(p.Schema.Categories)+1)
		row[keyField] = r.Key
		for _, c := range p.Schema.Categories {
			row[c] = r.Values[c]
		}
		stacked = append(stacked, row)
	}
	bar := p.BarData
	if bar == nil {
		bar = []SimpleRecord{}
	}
	categories := p.Schema.Categories
	if categories == nil {
		categories = []string{}
	}
	return json.Marshal(map[string]any{
		FieldBarData:    bar,
		FieldStacked:    stacked,
		FieldCategories: categories,
	})
}

// ParseSimpleRecords converts decoded JSON rows into simple records. Every
// row must carry both fields; the first offending row is reported.
func ParseSimpleRecords(rows []map[string]any, categoryField, countField string) ([]SimpleRecord, error) {
	records := make([]SimpleRecord, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		rawCategory, ok := row[categoryField]
		if !ok {
			return nil, fmt.Errorf("row %d: %q: %w", i, categoryField, ErrMissingField)
		}
		rawCount, ok := row[countField]
		if !ok {
			return nil, fmt.Errorf("row %d: %q: %w", i, countField, ErrMissingField)
		}
		category := fmt.Sprint(rawCategory)
		if _, dup := seen[category]; dup {
			return nil, fmt.Errorf("row %d: %q: %w", i, category, ErrDuplicateKey)
		}
		seen[category] = struct{}{}
		count, err := toFloat(rawCount)
		if err != nil {
			return nil, fmt.Errorf("row %d: %q: %w", i, countField, err)
		}
		records = append(records, SimpleRecord{Category: category, Count: count})
	}
	return records, nil
}

// ParseMultiRecords converts decoded JSON rows into multi-category records
// following an explicit schema.
func ParseMultiRecords(rows []map[string]any, schema Schema) ([]MultiRecord, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	records := make([]MultiRecord, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		rawKey, ok := row[schema.KeyField]
		if !ok {
			return nil, fmt.Errorf("row %d: %q: %w", i, schema.KeyField, ErrMissingField)
		}
		key := fmt.Sprint(rawKey)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("row %d: %q: %w", i, key, ErrDuplicateKey)
		}
		seen[key] = struct{}{}
		values := make(map[string]float64, len(schema.Categories))
		for _, c := range schema.Categories {
			raw, ok := row[c]
			if !ok {
				return nil, fmt.Errorf("row %d: %q: %w", i, c, ErrMissingField)
			}
			v, err := toFloat(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: %q: %w", i, c, err)
			}
			values[c] = v
		}
		records = append(records, MultiRecord{Key: key, Values: values})
	}
	return records, nil
}

// DiscoverSchema builds a schema from the first row's fields when the
// payload does not name its categories. Categories are sorted so the
// result does not depend on map iteration order.
func DiscoverSchema(keyField string, rows []map[string]any) Schema {
	schema := Schema{KeyField: keyField}
	if len(rows) == 0 {
		return schema
	}
	for k := range rows[0] {
		if k != keyField {
			schema.Categories = append(schema.Categories, k)
		}
	}
	sort.Strings(schema.Categories)
	return schema
}

// SchemaFromFields builds a schema from a row's field names, keeping their
// order and dropping the key field.
func SchemaFromFields(keyField string, fields []string) Schema {
	schema := Schema{KeyField: keyField}
	for _, f := range fields {
		if f != keyField {
			schema.Categories = append(schema.Categories, f)
		}
	}
	return schema
}

func toFloat(raw any) (float64, error) {
	var v float64
	switch n := raw.(type) {
	case float64:
		v = n
	case int:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%v: %w", raw, ErrNotNumeric)
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", n, ErrNotNumeric)
		}
		v = f
	default:
		return 0, fmt.Errorf("%v: %w", raw, ErrNotNumeric)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%v: %w", raw, ErrNotNumeric)
	}
	if v < 0 {
		return 0, fmt.Errorf("%v: %w", v, ErrNegativeValue)
	}
	return v, nil
}
