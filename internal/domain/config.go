package domain

import "time"

// Config represents the main application configuration.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Database  DatabaseConfig    `mapstructure:"database"`
	Analyzer  AnalyzerConfig    `mapstructure:"analyzer"`
	OpenAI    OpenAIConfig      `mapstructure:"openai"`
	Cache     ResultCacheConfig `mapstructure:"cache"`
	RateLimit RateLimitConfig   `mapstructure:"rate_limit"`
	Logging   LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig represents check-history storage configuration. Driver
// selects the backend: "sqlite" needs only SQLitePath and runs fully
// standalone; "postgres" uses the connection fields and additionally enables
// the follow-up conversation store.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// AnalyzerConfig selects and tunes the analysis strategy.
type AnalyzerConfig struct {
	// Strategy is "rules" or "openai".
	Strategy string `mapstructure:"strategy"`
}

// OpenAIConfig represents the LLM-backed strategy configuration.
type OpenAIConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// ResultCacheConfig represents analysis result caching configuration.
// Redis is optional; the in-memory LRU tier is always available.
type ResultCacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	MaxItems int           `mapstructure:"max_items"`
	TTL      time.Duration `mapstructure:"ttl"`
	RedisURL string        `mapstructure:"redis_url"`
}

// RateLimitConfig represents per-client API rate limiting configuration.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
