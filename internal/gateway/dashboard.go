package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/naka-gawa/pr-dashboard/internal/domain"
)

// Errors returned by the dashboard loader.
var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrMalformedPayload = errors.New("malformed dashboard payload")
)

// payloadSchema accepts either a bare list of rows (the single-chart API)
// or an object carrying one list per chart.
const payloadSchema = `{
	"definitions": {
		"rows": {"type": "array", "items": {"type": "object"}}
	},
	"oneOf": [
		{"$ref": "#/definitions/rows"},
		{
			"type": "object",
			"properties": {
				"bar_data": {"$ref": "#/definitions/rows"},
				"stacked_data": {"$ref": "#/definitions/rows"},
				"stacked_categories": {"type": "array", "items": {"type": "string"}}
			}
		}
	]
}`

var payloadSchemaLoader = gojsonschema.NewStringLoader(payloadSchema)

// Loader fetches the raw dashboard data set.
type Loader interface {
	Fetch(ctx context.Context) (*domain.RawPayload, error)
}

// HTTPLoader loads the data set from the dashboard API with a single GET.
type HTTPLoader struct {
	url    string
	client *http.Client
	logger *log.Logger
}

// NewHTTPLoader creates a loader for the given API URL. A nil client
// means http.DefaultClient.
func NewHTTPLoader(url string, client *http.Client, logger *log.Logger) *HTTPLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLoader{url: url, client: client, logger: logger}
}

// Fetch requests the API and decodes its response.
func (l *HTTPLoader) Fetch(ctx context.Context) (*domain.RawPayload, error) {
	l.logger.Printf("Fetching dashboard data from %s\n", l.url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard data: %w", err)
	}
	return DecodePayload(body)
}

// DecodePayload decodes an API response body. The API encodes its payload
// as JSON and then serves that text as a JSON string, so a quoted body is
// unwrapped once before the payload itself is decoded. Unquoted bodies are
// decoded directly.
func DecodePayload(body []byte) (*domain.RawPayload, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '"' {
		var inner string
		if err := json.Unmarshal(body, &inner); err != nil {
			return nil, fmt.Errorf("%w: outer string: %v", ErrMalformedPayload, err)
		}
		body = bytes.TrimSpace([]byte(inner))
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}

	result, err := gojsonschema.Validate(payloadSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformedPayload, strings.Join(msgs, "; "))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if body[0] == '[' {
		var rows []map[string]any
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return &domain.RawPayload{BarRows: rows}, nil
	}

	var sections struct {
		BarData    []map[string]any `json:"bar_data"`
		Stacked    []map[string]any `json:"stacked_data"`
		Categories []string         `json:"stacked_categories"`
	}
	if err := dec.Decode(&sections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	raw := &domain.RawPayload{
		BarRows:     sections.BarData,
		StackedRows: sections.Stacked,
		Categories:  sections.Categories,
	}
	if len(raw.StackedRows) > 0 {
		fields, err := firstRowFields(body, domain.FieldStacked)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		raw.StackedFields = fields
	}
	return raw, nil
}

// firstRowFields returns the field names of the first row of a section in
// the order they appear on the wire. Decoding into a map loses that order.
func firstRowFields(body []byte, section string) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if key != section {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}
		// '[' then '{' of the first row
		for i := 0; i < 2; i++ {
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
		}
		var fields []string
		for dec.More() {
			name, err := dec.Token()
			if err != nil {
				return nil, err
			}
			fields = append(fields, fmt.Sprint(name))
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
		return fields, nil
	}
	return nil, nil
}

// EncodePayload produces the double-encoded form DecodePayload reads.
func EncodePayload(p *domain.Payload) ([]byte, error) {
	inner, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return json.Marshal(string(inner))
}
