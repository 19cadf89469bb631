package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleRecords(t *testing.T) {
	testCases := []struct {
		name        string
		rows        []map[string]any
		expected    []SimpleRecord
		expectedErr error
	}{
		{
			name: "happy path - keeps input order",
			rows: []map[string]any{
				{"pr_range": "2-3", "repo_count": 4.0},
				{"pr_range": "0-1", "repo_count": "10"},
			},
			expected: []SimpleRecord{
				{Category: "2-3", Count: 4},
				{Category: "0-1", Count: 10},
			},
		},
		{
			name:     "empty case - no rows",
			rows:     []map[string]any{},
			expected: []SimpleRecord{},
		},
		{
			name:        "error case - missing count",
			rows:        []map[string]any{{"pr_range": "0-1"}},
			expectedErr: ErrMissingField,
		},
		{
			name:        "error case - unexpected data set",
			rows:        []map[string]any{{"test": "0"}},
			expectedErr: ErrMissingField,
		},
		{
			name: "error case - duplicate category",
			rows: []map[string]any{
				{"pr_range": "0-1", "repo_count": 1.0},
				{"pr_range": "0-1", "repo_count": 2.0},
			},
			expectedErr: ErrDuplicateKey,
		},
		{
			name:        "error case - negative count",
			rows:        []map[string]any{{"pr_range": "0-1", "repo_count": -1.0}},
			expectedErr: ErrNegativeValue,
		},
		{
			name:        "error case - not a number",
			rows:        []map[string]any{{"pr_range": "0-1", "repo_count": "many"}},
			expectedErr: ErrNotNumeric,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := ParseSimpleRecords(tc.rows, FieldPRRange, FieldRepoCount)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, records)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, records)
		})
	}
}

func TestParseMultiRecords(t *testing.T) {
	schema := Schema{KeyField: FieldWeek, Categories: []string{"a", "b"}}

	records, err := ParseMultiRecords([]map[string]any{
		{"week": "w1", "a": 1.0, "b": 3.0},
		{"week": "w2", "a": json.Number("2"), "b": 0.0},
	}, schema)
	require.NoError(t, err)
	assert.Equal(t, []MultiRecord{
		{Key: "w1", Values: map[string]float64{"a": 1, "b": 3}},
		{Key: "w2", Values: map[string]float64{"a": 2, "b": 0}},
	}, records)
	assert.Equal(t, 4.0, records[0].Total(schema.Categories))

	_, err = ParseMultiRecords([]map[string]any{{"week": "w1", "a": 1.0}}, schema)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = ParseMultiRecords([]map[string]any{{"week": "w1"}}, Schema{KeyField: FieldWeek})
	assert.ErrorIs(t, err, ErrNoCategories)
}

func TestSchema_Validate(t *testing.T) {
	assert.NoError(t, Schema{KeyField: "week", Categories: []string{"a"}}.Validate())
	assert.ErrorIs(t, Schema{KeyField: "week", Categories: []string{"a", "a"}}.Validate(), ErrDuplicateKey)
	assert.ErrorIs(t, Schema{KeyField: "week", Categories: []string{"week"}}.Validate(), ErrDuplicateKey)
}

func TestDiscoverSchema(t *testing.T) {
	schema := DiscoverSchema(FieldWeek, []map[string]any{{"week": "w1", "zeta": 1.0, "alpha": 2.0}})
	assert.Equal(t, Schema{KeyField: "week", Categories: []string{"alpha", "zeta"}}, schema)

	assert.Empty(t, DiscoverSchema(FieldWeek, nil).Categories)
}

func TestSchemaFromFields(t *testing.T) {
	testCases := []struct {
		name     string
		fields   []string
		expected []string
	}{
		{name: "key first", fields: []string{"week", "zeta", "alpha"}, expected: []string{"zeta", "alpha"}},
		{name: "key in the middle", fields: []string{"zeta", "week", "alpha"}, expected: []string{"zeta", "alpha"}},
		{name: "key only", fields: []string{"week"}, expected: nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			schema := SchemaFromFields(FieldWeek, tc.fields)
			assert.Equal(t, FieldWeek, schema.KeyField)
			assert.Equal(t, tc.expected, schema.Categories)
		})
	}
}

func TestRawPayload_ParseStackedFieldOrder(t *testing.T) {
	raw := &RawPayload{
		StackedRows:   []map[string]any{{"week": "w1", "zeta": 1.0, "alpha": 2.0}},
		StackedFields: []string{"week", "zeta", "alpha"},
	}

	records, schema, err := raw.ParseStacked()
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, schema.Categories)
	assert.Equal(t, []MultiRecord{{Key: "w1", Values: map[string]float64{"zeta": 1, "alpha": 2}}}, records)

	raw.Categories = []string{"alpha", "zeta"}
	_, schema, err = raw.ParseStacked()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, schema.Categories)
}

func TestPayload_MarshalJSON(t *testing.T) {
	p := Payload{
		BarData:     []SimpleRecord{{Category: "0-1", Count: 10}},
		StackedData: []MultiRecord{{Key: "w1", Values: map[string]float64{"a": 1}}},
		Schema:      Schema{KeyField: FieldWeek, Categories: []string{"a"}},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"bar_data": [{"pr_range": "0-1", "repo_count": 10}],
		"stacked_data": [{"week": "w1", "a": 1}],
		"stacked_categories": ["a"]
	}`, string(data))

	assert.True(t, (&Payload{}).Empty())
	assert.False(t, p.Empty())
}

func TestRawPayload_Parse(t *testing.T) {
	raw := &RawPayload{
		BarRows:     []map[string]any{{"pr_range": "0-1", "repo_count": 3.0}},
		StackedRows: []map[string]any{{"week": "w1", "b": 1.0, "a": 2.0}},
	}

	p, err := raw.Parse()
	require.NoError(t, err)
	assert.Equal(t, []SimpleRecord{{Category: "0-1", Count: 3}}, p.BarData)
	assert.Equal(t, Schema{KeyField: "week", Categories: []string{"a", "b"}}, p.Schema)

	raw.Categories = []string{"b", "a"}
	_, schema, err := raw.ParseStacked()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, schema.Categories)

	raw.StackedRows = []map[string]any{{"week": "w1", "b": 1.0}}
	_, err = raw.Parse()
	assert.ErrorIs(t, err, ErrMissingField)

	var nilRaw *RawPayload
	bar, err := nilRaw.ParseBar()
	assert.NoError(t, err)
	assert.Nil(t, bar)
}
