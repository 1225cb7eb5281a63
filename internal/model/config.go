package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	Dataset      DatasetConfig     `yaml:"dataset" mapstructure:"dataset"`
	Detail       DetailConfig      `yaml:"detail" mapstructure:"detail"`
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Selection    SelectionConfig   `yaml:"selection" mapstructure:"selection"`
	Log          LogConfig         `yaml:"log" mapstructure:"log"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
}

// DatasetConfig locates the category index source
type DatasetConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // .json, .yaml or .yml
}

// DetailConfig locates detail records. BaseURL wins over Dir when both are set.
type DetailConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`       // records at {base_url}/db/{id}.json
	Dir        string `yaml:"dir" mapstructure:"dir"`                 // records at {dir}/{id}.json
	FallbackID int    `yaml:"fallback_id" mapstructure:"fallback_id"` // tried before the built-in fallback when non-zero
}

// HTTPConfig tunes the HTTP detail source
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig controls detail record caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"` // empty disables the disk layer
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig limits detail fetches per host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sizes the prefetch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// SelectionConfig holds the completeness policy and controller behaviour
type SelectionConfig struct {
	IncludeFull      bool `yaml:"include_full" mapstructure:"include_full"`
	IncludeDeficient bool `yaml:"include_deficient" mapstructure:"include_deficient"`
	DiscardStale     bool `yaml:"discard_stale" mapstructure:"discard_stale"` // drop responses older than the latest request
	MaxRedraws       int  `yaml:"max_redraws" mapstructure:"max_redraws"`
}

// LogConfig configures slog output
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path: "db.json",
		},
		Detail: DetailConfig{
			Dir:        "db",
			FallbackID: FallbackID,
		},
		HTTP: HTTPConfig{
			Timeout:      10 * time.Second,
			UserAgent:    "Incidents/0.1 (+https://github.com/ppiankov/incidents)",
			MaxBodyBytes: 1_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Selection: SelectionConfig{
			IncludeFull:      true,
			IncludeDeficient: true,
			DiscardStale:     true,
			MaxRedraws:       10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}
