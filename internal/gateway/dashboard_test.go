package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/pr-dashboard/internal/domain"
)

func TestHTTPLoader_Fetch(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		expected    *domain.RawPayload
		expectedErr error
	}{
		{
			name:   "happy path - double encoded sections",
			status: http.StatusOK,
			body:   `"{\"bar_data\": [{\"test\": \"0\"}], \"stacked_data\": [{\"test\": \"1\"}]}"`,
			expected: &domain.RawPayload{
				BarRows:       []map[string]any{{"test": "0"}},
				StackedRows:   []map[string]any{{"test": "1"}},
				StackedFields: []string{"test"},
			},
		},
		{
			name:   "happy path - double encoded list",
			status: http.StatusOK,
			body:   `"[{\"pr_range\": \"0-1\", \"repo_count\": 10}]"`,
			expected: &domain.RawPayload{
				BarRows: []map[string]any{{"pr_range": "0-1", "repo_count": json.Number("10")}},
			},
		},
		{
			name:   "happy path - plain JSON with categories",
			status: http.StatusOK,
			body:   `{"stacked_data": [{"week": "w1", "a": 1}], "stacked_categories": ["a"]}`,
			expected: &domain.RawPayload{
				StackedRows:   []map[string]any{{"week": "w1", "a": json.Number("1")}},
				Categories:    []string{"a"},
				StackedFields: []string{"week", "a"},
			},
		},
		{
			name:   "happy path - double encoded list with leading whitespace",
			status: http.StatusOK,
			body:   `"\n  [{\"pr_range\": \"0-1\", \"repo_count\": 3}]"`,
			expected: &domain.RawPayload{
				BarRows: []map[string]any{{"pr_range": "0-1", "repo_count": json.Number("3")}},
			},
		},
		{
			name:   "happy path - double encoded sections with surrounding whitespace",
			status: http.StatusOK,
			body:   `"\t{\"bar_data\": [{\"pr_range\": \"0-1\", \"repo_count\": 1}]}\n"`,
			expected: &domain.RawPayload{
				BarRows: []map[string]any{{"pr_range": "0-1", "repo_count": json.Number("1")}},
			},
		},
		{
			name:        "error case - double encoded blank string",
			status:      http.StatusOK,
			body:        `"  \n "`,
			expectedErr: ErrMalformedPayload,
		},
		{
			name:        "error case - server error",
			status:      http.StatusInternalServerError,
			body:        `{"message": "boom"}`,
			expectedErr: ErrUnexpectedStatus,
		},
		{
			name:        "error case - rows are not objects",
			status:      http.StatusOK,
			body:        `{"bar_data": [1, 2, 3]}`,
			expectedErr: ErrMalformedPayload,
		},
		{
			name:        "error case - not JSON",
			status:      http.StatusOK,
			body:        `<html>`,
			expectedErr: ErrMalformedPayload,
		},
		{
			name:        "error case - empty body",
			status:      http.StatusOK,
			body:        ``,
			expectedErr: ErrMalformedPayload,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			loader := NewHTTPLoader(server.URL, server.Client(), log.New(io.Discard, "", 0))
			raw, err := loader.Fetch(context.Background())

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, raw)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, raw)
		})
	}
}

func TestHTTPLoader_Fetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	loader := NewHTTPLoader(url, nil, log.New(io.Discard, "", 0))
	raw, err := loader.Fetch(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch dashboard data")
	assert.Nil(t, raw)
}

func TestEncodePayload_RoundTrip(t *testing.T) {
	p := &domain.Payload{
		BarData:     []domain.SimpleRecord{{Category: "0-1", Count: 10}},
		StackedData: []domain.MultiRecord{{Key: "w1", Values: map[string]float64{"a": 1, "b": 3}}},
		Schema:      domain.Schema{KeyField: domain.FieldWeek, Categories: []string{"b", "a"}},
	}

	body, err := EncodePayload(p)
	require.NoError(t, err)
	assert.Equal(t, byte('"'), body[0])

	raw, err := DecodePayload(body)
	require.NoError(t, err)
	got, err := raw.Parse()
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestDecodePayload_KeepsWireFieldOrder(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name:     "plain object",
			body:     `{"bar_data": [{"pr_range": "0-1", "repo_count": 1}], "stacked_data": [{"week": "w1", "zeta": 1, "alpha": 2}, {"week": "w2", "alpha": 1, "zeta": 2}]}`,
			expected: []string{"week", "zeta", "alpha"},
		},
		{
			name:     "stacked section first with nested values elsewhere",
			body:     `{"stacked_data": [{"zeta": 1, "week": "w1", "mid": 3}], "extra": {"a": [1, {"b": 2}]}}`,
			expected: []string{"zeta", "week", "mid"},
		},
		{
			name:     "double encoded",
			body:     `"{\"stacked_data\": [{\"week\": \"w1\", \"b\": 1, \"a\": 2}]}"`,
			expected: []string{"week", "b", "a"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := DecodePayload([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, raw.StackedFields)

			_, schema, err := raw.ParseStacked()
			require.NoError(t, err)
			var categories []string
			for _, f := range tc.expected {
				if f != domain.FieldWeek {
					categories = append(categories, f)
				}
			}
			assert.Equal(t, categories, schema.Categories)
		})
	}
}
