package gateway

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/naka-gawa/pr-dashboard/internal/domain"
)

// ErrUnsupportedFormat is returned for data files that are neither CSV nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported data file format")

// FileLoader reads the data set from a local file instead of the API.
type FileLoader struct {
	path string
}

// NewFileLoader creates a Loader for a .json or .csv data file.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Fetch reads and decodes the file. Sections are left unparsed, as with
// the HTTP loader.
func (l *FileLoader) Fetch(_ context.Context) (*domain.RawPayload, error) {
	return ReadDataFile(l.path)
}

// LoadDataFile reads the data set the dashboard API serves. A .csv file
// holds pr_range,repo_count rows for the bar chart; a .json file holds a
// full payload as written by the collect command.
func LoadDataFile(path string) (*domain.Payload, error) {
	raw, err := ReadDataFile(path)
	if err != nil {
		return nil, err
	}
	payload, err := raw.Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return payload, nil
}

// ReadDataFile decodes a data file without parsing its sections.
func ReadDataFile(path string) (*domain.RawPayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err := readCSVRows(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return &domain.RawPayload{BarRows: rows}, nil
	case ".json":
		body, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		raw, err := DecodePayload(body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func readCSVRows(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	var rows []map[string]any
	for {
		line, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		row := make(map[string]any, len(header))
		for i, name := range header {
			row[strings.TrimSpace(name)] = line[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteDataFile stores a payload as single-encoded JSON.
func WriteDataFile(path string, p *domain.Payload) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
