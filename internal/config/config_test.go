package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, DefaultAPITimeout, cfg.API.Timeout)
	assert.Equal(t, "localhost:8000", cfg.Server.Addr())
	assert.Equal(t, DefaultCacheSize, cfg.Server.CacheSize)
	assert.Equal(t, DefaultDataFile, cfg.Data.File)
	assert.Equal(t, DefaultBucketWidth, cfg.GitHub.BucketWidth)
	assert.Equal(t, DefaultReviewConcurrency, cfg.GitHub.ReviewConcurrency)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
api:
  url: https://stats.example.com/api/dashboard/
  timeout: 3s
server:
  port: 9090
  cache_size: 8
github:
  org: my-org
  bucket_width: 5
`)
	t.Setenv("PRDASH_SERVER_HOST", "0.0.0.0")
	t.Setenv("PRDASH_DATA_FILE", "/tmp/data.csv")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://stats.example.com/api/dashboard/", cfg.API.URL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, 8, cfg.Server.CacheSize)
	assert.Equal(t, "/tmp/data.csv", cfg.Data.File)
	assert.Equal(t, "my-org", cfg.GitHub.Org)
	assert.Equal(t, 5, cfg.GitHub.BucketWidth)
	assert.Equal(t, DefaultReviewConcurrency, cfg.GitHub.ReviewConcurrency)
}

func TestConfig_SetPort(t *testing.T) {
	testCases := []struct {
		name        string
		apiURL      string
		port        int
		expectedURL string
	}{
		{
			name:        "default url follows the port",
			apiURL:      DefaultAPIURL,
			port:        9000,
			expectedURL: "http://localhost:9000/api/dashboard/",
		},
		{
			name:        "same port keeps the default url",
			apiURL:      DefaultAPIURL,
			port:        DefaultServerPort,
			expectedURL: DefaultAPIURL,
		},
		{
			name:        "custom url is kept",
			apiURL:      "https://stats.example.com/api/dashboard/",
			port:        9000,
			expectedURL: "https://stats.example.com/api/dashboard/",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				API:    APIConfig{URL: tc.apiURL},
				Server: ServerConfig{Host: DefaultServerHost, Port: DefaultServerPort},
			}

			cfg.SetPort(tc.port)

			assert.Equal(t, tc.port, cfg.Server.Port)
			assert.Equal(t, tc.expectedURL, cfg.API.URL)
		})
	}
}

func TestConfig_SetPortTwice(t *testing.T) {
	cfg := &Config{API: APIConfig{URL: DefaultAPIURL}, Server: ServerConfig{Port: DefaultServerPort}}

	cfg.SetPort(9000)
	cfg.SetPort(9100)

	assert.Equal(t, "http://localhost:9100/api/dashboard/", cfg.API.URL)
}

func TestLoadConfig_PortMovesDefaultURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PRDASH_SERVER_PORT", "9090")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9090/api/dashboard/", cfg.API.URL)
}

func TestLoadConfig_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		expectedErr error
	}{
		{name: "relative api url", content: "api:\n  url: /api/dashboard/\n", expectedErr: ErrInvalidAPIURL},
		{name: "port out of range", content: "server:\n  port: 70000\n", expectedErr: ErrInvalidPort},
		{name: "negative timeout", content: "server:\n  idle_timeout: -1s\n", expectedErr: ErrInvalidServerTimeout},
		{name: "zero cache size", content: "server:\n  cache_size: 0\n", expectedErr: ErrInvalidCacheSize},
		{name: "zero bucket width", content: "github:\n  bucket_width: 0\n", expectedErr: ErrInvalidBucketWidth},
		{name: "zero review concurrency", content: "github:\n  review_concurrency: 0\n", expectedErr: ErrInvalidReviewConcurrency},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.expectedErr), "got %v", err)
		})
	}

	t.Run("explicit file is missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestGitHubConfig_Queries(t *testing.T) {
	testCases := []struct {
		name         string
		cfg          GitHubConfig
		expectedRepo string
		expectedPR   string
	}{
		{name: "derived from org", cfg: GitHubConfig{Org: "acme"}, expectedRepo: "org:acme", expectedPR: "org:acme is:pr"},
		{name: "explicit queries win", cfg: GitHubConfig{Org: "acme", RepoQuery: "user:bob", PRQuery: "repo:a/b"}, expectedRepo: "user:bob", expectedPR: "repo:a/b"},
		{name: "nothing configured", cfg: GitHubConfig{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, pr := tc.cfg.Queries()
			assert.Equal(t, tc.expectedRepo, repo)
			assert.Equal(t, tc.expectedPR, pr)
		})
	}
}
