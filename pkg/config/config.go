package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// default values applied by Build
const (
	DefaultOutPath    = "episodes.json"
	DefaultExtrasPath = "extras_map.json"
	DefaultTimeout    = 30 * time.Second
	DefaultUserAgent  = "podjson/1.0"
	DefaultRetries    = 1
)

// ErrNoFeedURL is returned when no feed URL is configured
var ErrNoFeedURL = errors.New("feed url is not set, pass --rss or set RSS_URL")

// Config holds the configuration of a single conversion run.
// It is built once from the command line and passed down explicitly.
type Config struct {
	Feed struct {
		URL       string        `json:"url" jsonschema:"required,description=podcast feed URL or local file"`
		Timeout   time.Duration `json:"timeout" jsonschema:"default=30s,description=feed fetch timeout"`
		Retries   int           `json:"retries" jsonschema:"default=1,minimum=1,description=fetch attempts"`
		UserAgent string        `json:"user_agent" jsonschema:"default=podjson/1.0,description=user agent for feed requests"`
	} `json:"feed"`

	OutPath    string `json:"out_path" jsonschema:"default=episodes.json,description=output JSON file"`
	ExtrasPath string `json:"extras_path" jsonschema:"default=extras_map.json,description=manual overrides map (json or yaml)"`
}

// Build applies defaults to cfg and validates the result
func Build(cfg Config) (*Config, error) {
	cfg.Feed.URL = strings.TrimSpace(cfg.Feed.URL)

	if cfg.OutPath == "" {
		cfg.OutPath = DefaultOutPath
	}
	if cfg.ExtrasPath == "" {
		cfg.ExtrasPath = DefaultExtrasPath
	}
	if cfg.Feed.Timeout == 0 {
		cfg.Feed.Timeout = DefaultTimeout
	}
	if cfg.Feed.Retries == 0 {
		cfg.Feed.Retries = DefaultRetries
	}
	if cfg.Feed.UserAgent == "" {
		cfg.Feed.UserAgent = DefaultUserAgent
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Feed.URL == "" {
		return ErrNoFeedURL
	}
	if u, err := url.Parse(cfg.Feed.URL); err != nil {
		return fmt.Errorf("invalid feed url %q: %w", cfg.Feed.URL, err)
	} else if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "file" && len(u.Scheme) > 1 {
		// single letter schemes are windows drive letters
		return fmt.Errorf("unsupported feed url scheme %q", u.Scheme)
	}
	if cfg.Feed.Timeout < time.Second {
		return fmt.Errorf("feed timeout must be at least 1 second")
	}
	if cfg.Feed.Retries < 1 {
		return fmt.Errorf("feed retries must be at least 1")
	}
	return nil
}
