package model

import (
	"errors"
	"fmt"
	"time"
)

// Config is the complete slangwatch configuration
type Config struct {
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Admin    AdminConfig    `yaml:"admin" mapstructure:"admin"`
	Lookup   LookupConfig   `yaml:"lookup" mapstructure:"lookup"`
	Scraper  ScraperConfig  `yaml:"scraper" mapstructure:"scraper"`
	OpenAI   OpenAIConfig   `yaml:"openai" mapstructure:"openai"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig locates the SQLite database
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // File path or ":memory:"
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	Environment  string        `yaml:"environment" mapstructure:"environment"` // development or production
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	AllowOrigins string        `yaml:"allow_origins" mapstructure:"allow_origins"`
}

// AdminConfig holds the shared admin credentials
type AdminConfig struct {
	Password      string        `yaml:"password" mapstructure:"password"`             // ADMIN_PASSWORD
	SessionSecret string        `yaml:"session_secret" mapstructure:"session_secret"` // SESSION_SECRET, signs admin tokens
	SessionTTL    time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
	DefaultActor  string        `yaml:"default_actor" mapstructure:"default_actor"`
}

// LookupConfig configures the external definition lookup
type LookupConfig struct {
	Provider string        `yaml:"provider" mapstructure:"provider"` // urban_dictionary, openai, none
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	Delay    time.Duration `yaml:"delay" mapstructure:"delay"`         // Minimum spacing between lookups
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"` // How long results are reused
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MinVotes int           `yaml:"min_votes" mapstructure:"min_votes"` // Net votes a definition needs to count as found
}

// ScraperConfig configures the Reddit collector
type ScraperConfig struct {
	RedditBaseURL     string        `yaml:"reddit_base_url" mapstructure:"reddit_base_url"`
	Subreddits        []string      `yaml:"subreddits" mapstructure:"subreddits"`
	Sort              string        `yaml:"sort" mapstructure:"sort"` // hot, new, top
	PostsPerSubreddit int           `yaml:"posts_per_subreddit" mapstructure:"posts_per_subreddit"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Delay             time.Duration `yaml:"delay" mapstructure:"delay"`   // Minimum spacing between requests to one host
	Jitter            time.Duration `yaml:"jitter" mapstructure:"jitter"` // Extra random pause between subreddits
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy         string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	PopularTerms      []string      `yaml:"popular_terms" mapstructure:"popular_terms"` // Looked up on every collection run
}

// OpenAIConfig configures the OpenAI lookup provider
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// LogConfig configures zap
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "slang_tracker.db",
		},
		Server: ServerConfig{
			Addr:         ":5000",
			Environment:  "development",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			AllowOrigins: "*",
		},
		Admin: AdminConfig{
			SessionTTL:   12 * time.Hour,
			DefaultActor: DefaultActor,
		},
		Lookup: LookupConfig{
			Provider: "urban_dictionary",
			BaseURL:  "https://api.urbandictionary.com/v0",
			Delay:    500 * time.Millisecond,
			CacheTTL: 24 * time.Hour,
			Timeout:  10 * time.Second,
			MinVotes: -5,
		},
		Scraper: ScraperConfig{
			RedditBaseURL:     "https://www.reddit.com",
			Subreddits:        []string{"teenagers", "GenZ", "streetwear", "fashion", "TikTokCringe", "dankmemes", "memes"},
			Sort:              "hot",
			PostsPerSubreddit: 25,
			UserAgent:         "SlangTracker/1.0 (Educational Research)",
			Timeout:           15 * time.Second,
			Delay:             time.Second,
			Jitter:            time.Second,
			MaxBodyBytes:      5 * 1024 * 1024,
			RespectRobots:     false,
			PopularTerms: []string{
				"rizz", "bussin", "no cap", "bet", "periodt", "slay", "fire", "drip", "vibe", "mood",
				"sus", "based", "cringe", "slaps", "hits different", "lowkey", "highkey", "mid", "w", "l",
				"cap", "fr", "ngl", "stan", "flex", "finsta", "vsco", "aesthetic", "main character", "it girl",
				"skibidi", "gyat", "ohio", "fanum tax", "sigma", "goofy ahh", "delulu", "mewing",
			},
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Validate checks settings that have no usable default
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Admin.Password == "" {
		errs = append(errs, errors.New("admin password is required (ADMIN_PASSWORD)"))
	}
	if c.Admin.SessionSecret == "" {
		errs = append(errs, errors.New("session secret is required (SESSION_SECRET)"))
	} else if c.IsProduction() && len(c.Admin.SessionSecret) < 32 {
		errs = append(errs, errors.New("session secret must be at least 32 characters in production"))
	}
	switch c.Lookup.Provider {
	case "urban_dictionary", "urban", "openai", "none", "":
	default:
		errs = append(errs, fmt.Errorf("unknown lookup provider: %s (supported: urban_dictionary, openai, none)", c.Lookup.Provider))
	}
	return errors.Join(errs...)
}
