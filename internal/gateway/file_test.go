package gateway

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/pr-dashboard/internal/domain"
)

func TestLoadDataFile_CSV(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		expected    []domain.SimpleRecord
		expectedErr error
	}{
		{
			name:    "happy path",
			content: "pr_range,repo_count\n0-1,10\n2-3,4\n",
			expected: []domain.SimpleRecord{
				{Category: "0-1", Count: 10},
				{Category: "2-3", Count: 4},
			},
		},
		{
			name:     "header with spaces",
			content:  "pr_range, repo_count\n0-1,10\n",
			expected: []domain.SimpleRecord{{Category: "0-1", Count: 10}},
		},
		{
			name:        "error case - wrong header",
			content:     "range,count\n0-1,10\n",
			expectedErr: domain.ErrMissingField,
		},
		{
			name:        "error case - empty file",
			content:     "",
			expectedErr: io.EOF,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bar.csv")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			p, err := LoadDataFile(path)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p.BarData)
		})
	}
}

func TestLoadDataFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "cap_pr_count.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("pr_range,repo_count\n0-1,10\n"), 0o600))
	p, err := LoadDataFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, []domain.SimpleRecord{{Category: "0-1", Count: 10}}, p.BarData)
	assert.Empty(t, p.StackedData)

	jsonPath := filepath.Join(dir, "out", "dashboard.json")
	want := &domain.Payload{
		BarData:     []domain.SimpleRecord{{Category: "0-1", Count: 2}},
		StackedData: []domain.MultiRecord{{Key: "2020-07-06", Values: map[string]float64{"approved": 1}}},
		Schema:      domain.Schema{KeyField: domain.FieldWeek, Categories: []string{"approved"}},
	}
	require.NoError(t, WriteDataFile(jsonPath, want))
	got, err := LoadDataFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = LoadDataFile(filepath.Join(dir, "data.txt"))
	assert.Error(t, err)

	txtPath := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o600))
	_, err = LoadDataFile(txtPath)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFileLoader_Fetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.json")
	// a malformed bar section must not hide the stacked rows
	body := `{"bar_data":[{"test":"0"}],"stacked_data":[{"week":"w1","a":1}],"stacked_categories":["a"]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	raw, err := NewFileLoader(path).Fetch(context.Background())
	require.NoError(t, err)

	_, err = raw.ParseBar()
	assert.ErrorIs(t, err, domain.ErrMissingField)
	stacked, schema, err := raw.ParseStacked()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, schema.Categories)
	assert.Len(t, stacked, 1)

	_, err = NewFileLoader(filepath.Join(dir, "missing.json")).Fetch(context.Background())
	assert.Error(t, err)
}
