// Package config defines the statically-typed process configuration:
// provider credentials and endpoints, section routing, cache, and
// scheduler settings. Loaded from YAML with environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full process configuration.
type Config struct {
	HTTP           HTTPConfig      `yaml:"http"`
	Cache          CacheConfig     `yaml:"cache"`
	Scheduler      SchedulerConfig `yaml:"scheduler"`
	Providers      ProvidersConfig `yaml:"providers"`
	DefaultSection string          `yaml:"default_section" env:"NEWSMUX_DEFAULT_SECTION"`
	Sections       []SectionConfig `yaml:"sections"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" env:"NEWSMUX_ADDR"`
}

type CacheConfig struct {
	// Path is the sqlite cache file. Empty selects the in-memory store.
	Path       string `yaml:"path" env:"NEWSMUX_CACHE_PATH"`
	TTLSeconds int    `yaml:"ttl_seconds" env:"NEWSMUX_CACHE_TTL"`
}

type SchedulerConfig struct {
	IntervalSeconds     int `yaml:"interval_seconds" env:"NEWSMUX_REFRESH_INTERVAL"`
	InitialDelaySeconds int `yaml:"initial_delay_seconds" env:"NEWSMUX_REFRESH_DELAY"`
}

// ProviderConfig holds one keyed provider's credential and endpoint.
// A provider without a credential is disabled at startup, never a
// runtime error.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// Enabled reports whether the provider has a usable credential.
func (p ProviderConfig) Enabled() bool { return p.APIKey != "" }

type ProvidersConfig struct {
	NewsData ProviderConfig `yaml:"newsdata"`
	NewsAPI  ProviderConfig `yaml:"newsapi"`
	Social   ProviderConfig `yaml:"social"`
}

// FeedConfig is one supplementary RSS feed for a section.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// SectionConfig declares one section's routing parameters.
type SectionConfig struct {
	Name     string       `yaml:"name"`
	Tag      string       `yaml:"tag"`
	Category string       `yaml:"category"`
	Country  string       `yaml:"country"`
	Language string       `yaml:"language"`
	Query    string       `yaml:"query"`
	Feeds    []FeedConfig `yaml:"feeds"`
}

// Load reads configuration from path, layered over Default. A missing
// or empty path keeps the defaults. Environment overrides apply after
// the file, then Validate runs.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		} else {
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	// Credential overrides keep keys out of config files.
	if v := os.Getenv("NEWSDATA_API_KEY"); v != "" {
		cfg.Providers.NewsData.APIKey = v
	}
	if v := os.Getenv("NEWSAPI_API_KEY"); v != "" {
		cfg.Providers.NewsAPI.APIKey = v
	}
	if v := os.Getenv("SOCIAL_API_KEY"); v != "" {
		cfg.Providers.Social.APIKey = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fills remaining defaults and checks section routing. Absent
// provider credentials are logged, not errors.
func (c *Config) Validate() error {
	if len(c.Sections) == 0 {
		return fmt.Errorf("at least one section must be configured")
	}

	names := make(map[string]bool, len(c.Sections))
	for i, s := range c.Sections {
		if s.Name == "" {
			return fmt.Errorf("section %d has no name", i)
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate section %q", s.Name)
		}
		names[s.Name] = true
	}

	if c.DefaultSection == "" {
		c.DefaultSection = c.Sections[0].Name
	}
	if !names[c.DefaultSection] {
		return fmt.Errorf("default section %q is not configured", c.DefaultSection)
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = 600
	}
	if c.Scheduler.IntervalSeconds <= 0 {
		c.Scheduler.IntervalSeconds = 600
	}
	if c.Scheduler.InitialDelaySeconds <= 0 {
		c.Scheduler.InitialDelaySeconds = 10
	}

	for name, p := range map[string]ProviderConfig{
		"newsdata": c.Providers.NewsData,
		"newsapi":  c.Providers.NewsAPI,
		"social":   c.Providers.Social,
	} {
		if !p.Enabled() {
			slog.Warn("provider disabled, no API key configured", "provider", name)
		}
	}

	return nil
}

// Default is the built-in configuration used when no file is given.
// DefaultSection is left empty so a file that replaces the section
// list without naming a default falls back to its own first section;
// Validate resolves the empty value.
func Default() *Config {
	return &Config{
		HTTP:      HTTPConfig{Addr: ":8080"},
		Cache:     CacheConfig{Path: "data/newsmux.db", TTLSeconds: 600},
		Scheduler: SchedulerConfig{IntervalSeconds: 600, InitialDelaySeconds: 10},
		Sections: []SectionConfig{
			{
				Name: "world", Tag: "World", Category: "world", Language: "en",
				Query: "breaking news",
				Feeds: []FeedConfig{
					{Name: "BBC World", URL: "https://feeds.bbci.co.uk/news/world/rss.xml"},
					{Name: "Al Jazeera", URL: "https://www.aljazeera.com/xml/rss/all.xml"},
				},
			},
			{
				Name: "tech", Tag: "Tech", Category: "technology", Language: "en",
				Query: "technology",
				Feeds: []FeedConfig{
					{Name: "The Verge", URL: "https://www.theverge.com/rss/index.xml"},
					{Name: "Ars Technica", URL: "https://feeds.arstechnica.com/arstechnica/index"},
				},
			},
			{
				Name: "business", Tag: "Business", Category: "business", Language: "en",
				Query: "markets",
				Feeds: []FeedConfig{
					{Name: "CNBC", URL: "https://www.cnbc.com/id/100003114/device/rss/rss.html"},
				},
			},
			{
				Name: "buzz", Tag: "Buzz", Category: "entertainment", Language: "en",
				Query: "viral",
				Feeds: []FeedConfig{
					{Name: "BuzzFeed", URL: "https://www.buzzfeed.com/index.xml"},
				},
			},
		},
	}
}
