package domain

import "fmt"

// RawPayload is a decoded but not yet validated API response. Each
// section is parsed on its own so one malformed section does not take
// the other charts down with it.
type RawPayload struct {
	BarRows     []map[string]any
	StackedRows []map[string]any
	Categories  []string

	// StackedFields lists the first stacked row's fields in wire order.
	StackedFields []string
}

// ParseBar parses the bar chart section.
func (r *RawPayload) ParseBar() ([]SimpleRecord, error) {
	if r == nil {
		return nil, nil
	}
	return ParseSimpleRecords(r.BarRows, FieldPRRange, FieldRepoCount)
}

// ParseStacked parses the stacked chart section. The schema comes from
// the payload's category list, or else from the first row's fields in
// wire order. When that order is unknown the fields are sorted.
func (r *RawPayload) ParseStacked() ([]MultiRecord, Schema, error) {
	if r == nil || len(r.StackedRows) == 0 {
		return nil, Schema{KeyField: FieldWeek, Categories: r.categories()}, nil
	}
	schema := Schema{KeyField: FieldWeek, Categories: r.categories()}
	if len(schema.Categories) == 0 {
		if len(r.StackedFields) > 0 {
			schema = SchemaFromFields(FieldWeek, r.StackedFields)
		} else {
			schema = DiscoverSchema(FieldWeek, r.StackedRows)
		}
	}
	records, err := ParseMultiRecords(r.StackedRows, schema)
	if err != nil {
		return nil, schema, err
	}
	return records, schema, nil
}

// Parse parses every section and fails on the first malformed one.
func (r *RawPayload) Parse() (*Payload, error) {
	bar, err := r.ParseBar()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", FieldBarData, err)
	}
	stacked, schema, err := r.ParseStacked()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", FieldStacked, err)
	}
	return &Payload{BarData: bar, StackedData: stacked, Schema: schema}, nil
}

func (r *RawPayload) categories() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.Categories...)
}
