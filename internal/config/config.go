// Package config provides the optional YAML configuration for the tool.
// Every field has a working default, so the tool runs with no config file at
// all; command-line flags override whatever the file sets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// SourceURL is the holiday-observances page to scrape.
	SourceURL string `yaml:"source_url"`

	// UserAgent is sent with the page request.
	UserAgent string `yaml:"user_agent"`

	// TimeoutSeconds bounds the page fetch.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// Output is the default path of the persistent iCalendar file.
	Output string `yaml:"output"`
}

// Default returns an in-memory default configuration.
func Default() *Config {
	return &Config{
		SourceURL:      "https://hr.caltech.edu/resources/holiday-observances",
		UserAgent:      "caltech-holidays/1.0 (github.com/ghic-org/caltech-holidays)",
		TimeoutSeconds: 30,
		Output:         "caltech_holidays.ics",
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled config files still behave correctly.
func (c *Config) Normalize() {
	def := Default()
	if c.SourceURL == "" {
		c.SourceURL = def.SourceURL
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = def.TimeoutSeconds
	}
	if c.Output == "" {
		c.Output = def.Output
	}
}

// Load reads the YAML config at path. An empty path yields the defaults; a
// path that cannot be read or parsed is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Normalize()
	return &cfg, nil
}
