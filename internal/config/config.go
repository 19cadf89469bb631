// Package config loads pr-dashboard settings from a config file,
// PRDASH_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Default values for every configuration key.
const (
	DefaultAPIURL            = "http://localhost:8000/api/dashboard/"
	DefaultAPITimeout        = 10 * time.Second
	DefaultServerHost        = "localhost"
	DefaultServerPort        = 8000
	DefaultReadTimeout       = 15 * time.Second
	DefaultWriteTimeout      = 15 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultCacheSize         = 64
	DefaultDataFile          = "dashboard.json"
	DefaultBucketWidth       = 2
	DefaultReviewConcurrency = 4
)

// Config is the top-level configuration struct.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Server ServerConfig `mapstructure:"server"`
	Data   DataConfig   `mapstructure:"data"`
	GitHub GitHubConfig `mapstructure:"github"`
}

// APIConfig is where the dashboard page fetches its data from.
type APIConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServerConfig holds the HTTP server settings of the serve command.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	CacheSize    int           `mapstructure:"cache_size"`
}

// DataConfig locates the data set the API serves and the collector writes.
type DataConfig struct {
	File string `mapstructure:"file"`
}

// GitHubConfig holds the collector's search settings.
type GitHubConfig struct {
	Org               string `mapstructure:"org"`
	RepoQuery         string `mapstructure:"repo_query"`
	PRQuery           string `mapstructure:"pr_query"`
	BucketWidth       int    `mapstructure:"bucket_width"`
	ReviewConcurrency int    `mapstructure:"review_concurrency"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidAPIURL indicates the API URL is not an absolute http(s) URL.
	ErrInvalidAPIURL = errors.New("api.url must be an absolute http or https URL")
	// ErrInvalidAPITimeout indicates a negative API timeout.
	ErrInvalidAPITimeout = errors.New("api.timeout must be non-negative")
	// ErrInvalidPort indicates a port outside 1-65535.
	ErrInvalidPort = errors.New("server.port must be between 1 and 65535")
	// ErrInvalidServerTimeout indicates a negative server timeout.
	ErrInvalidServerTimeout = errors.New("server timeouts must be non-negative")
	// ErrInvalidCacheSize indicates a non-positive page cache size.
	ErrInvalidCacheSize = errors.New("server.cache_size must be positive")
	// ErrInvalidBucketWidth indicates a non-positive bucket width.
	ErrInvalidBucketWidth = errors.New("github.bucket_width must be positive")
	// ErrInvalidReviewConcurrency indicates a non-positive review concurrency.
	ErrInvalidReviewConcurrency = errors.New("github.review_concurrency must be positive")
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidAPIURL
	}
	if c.API.Timeout < 0 {
		return ErrInvalidAPITimeout
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ErrInvalidPort
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return ErrInvalidServerTimeout
	}
	if c.Server.CacheSize <= 0 {
		return ErrInvalidCacheSize
	}
	if c.GitHub.BucketWidth <= 0 {
		return ErrInvalidBucketWidth
	}
	if c.GitHub.ReviewConcurrency <= 0 {
		return ErrInvalidReviewConcurrency
	}
	return nil
}

// SetPort sets the port the server listens on. An api.url still at its
// default follows the port, since it points at this server.
func (c *Config) SetPort(port int) {
	if c.API.URL == DefaultAPIURL || c.API.URL == localAPIURL(c.Server.Port) {
		c.API.URL = localAPIURL(port)
	}
	c.Server.Port = port
}

func localAPIURL(port int) string {
	return fmt.Sprintf("http://localhost:%d/api/dashboard/", port)
}

// Addr is the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Queries returns the repository and pull request search queries. When a
// query is not set explicitly it is derived from the organization, and an
// empty result means that part of the data set is skipped.
func (g GitHubConfig) Queries() (repoQuery, prQuery string) {
	repoQuery, prQuery = g.RepoQuery, g.PRQuery
	if g.Org != "" {
		if repoQuery == "" {
			repoQuery = fmt.Sprintf("org:%s", g.Org)
		}
		if prQuery == "" {
			prQuery = fmt.Sprintf("org:%s is:pr", g.Org)
		}
	}
	return repoQuery, prQuery
}
