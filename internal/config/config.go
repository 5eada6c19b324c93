package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultFile = "sheetmirror.yml"

// Duration wraps time.Duration so YAML values like "5m" parse directly.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Remote struct {
	BaseURL string   `yaml:"base_url"`
	APIKey  string   `yaml:"api_key,omitempty"`
	Timeout Duration `yaml:"timeout,omitempty"`
}

type Cache struct {
	TTL Duration `yaml:"ttl,omitempty"`
}

type Snapshot struct {
	Path string `yaml:"path,omitempty"`
}

type Mirror struct {
	Dir         string `yaml:"dir,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
}

type Watch struct {
	Interval Duration `yaml:"interval,omitempty"`
}

type Config struct {
	Remote   Remote   `yaml:"remote"`
	Cache    Cache    `yaml:"cache,omitempty"`
	Snapshot Snapshot `yaml:"snapshot,omitempty"`
	Mirror   Mirror   `yaml:"mirror,omitempty"`
	Tables   []string `yaml:"tables,omitempty"`
	Watch    Watch    `yaml:"watch,omitempty"`
}

const (
	defaultTTL         = 5 * time.Minute
	defaultTimeout     = 15 * time.Second
	defaultInterval    = 10 * time.Minute
	defaultConcurrency = 5
)

var defaultTables = []string{"students", "project-log", "bookings"}

// Load reads and validates the YAML config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = Duration(defaultTimeout)
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = Duration(defaultTTL)
	}
	if c.Snapshot.Path == "" {
		c.Snapshot.Path = "data/snapshot.json"
	}
	if c.Mirror.Dir == "" {
		c.Mirror.Dir = "data/assets"
	}
	if c.Mirror.Concurrency == 0 {
		c.Mirror.Concurrency = defaultConcurrency
	}
	if len(c.Tables) == 0 {
		c.Tables = append([]string(nil), defaultTables...)
	}
	if c.Watch.Interval == 0 {
		c.Watch.Interval = Duration(defaultInterval)
	}
}

func (c *Config) validate() error {
	if c.Remote.BaseURL == "" {
		return fmt.Errorf("remote.base_url is required")
	}
	if c.Mirror.Concurrency < 1 {
		return fmt.Errorf("mirror.concurrency must be at least 1, got %d", c.Mirror.Concurrency)
	}
	if c.Watch.Interval.Std() < time.Second {
		return fmt.Errorf("watch.interval must be at least 1s, got %s", c.Watch.Interval.Std())
	}
	return nil
}
