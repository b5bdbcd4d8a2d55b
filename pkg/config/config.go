package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server  ServerConfig  `envconfig:"SERVER"`
	AI      AIConfig      `envconfig:"AI"`
	Board   BoardConfig   `envconfig:"BOARD"`
	Google  OAuthConfig   `envconfig:"GOOGLE"`
	Storage StorageConfig `envconfig:"STORAGE"`
	Cache   CacheConfig   `envconfig:"CACHE"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `split_words:"true" default:"8080"`
	Host            string        `split_words:"true" default:"0.0.0.0"`
	Environment     string        `split_words:"true" default:"development"`
	AllowedOrigins  []string      `split_words:"true" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// AIConfig configures the chat completion backend used for extraction
type AIConfig struct {
	APIKey            string        `split_words:"true"`
	BaseURL           string        `split_words:"true" default:"https://api.groq.com/openai/v1"`
	Model             string        `split_words:"true" default:"llama-3.3-70b-versatile"`
	Temperature       float32       `split_words:"true" default:"0.2"`
	MaxTokens         int           `split_words:"true" default:"4096"`
	Timeout           time.Duration `split_words:"true" default:"60s"`
	MaxRetries        uint64        `split_words:"true" default:"0"`
	RequestsPerMinute int           `split_words:"true" default:"30"`
	MaxChunkChars     int           `split_words:"true" default:"24000"`
}

// BoardConfig holds board persistence settings
type BoardConfig struct {
	Path            string  `split_words:"true" default:"data/action_items.csv"`
	DedupSimilarity float64 `split_words:"true" default:"1.0"`
}

// OAuthConfig holds Google OAuth configuration
type OAuthConfig struct {
	ClientID     string `split_words:"true"`
	ClientSecret string `split_words:"true"`
	RedirectURL  string `split_words:"true" default:"http://localhost:8080/v1/auth/google/callback"`
}

// Enabled reports whether Google credentials are configured
func (o OAuthConfig) Enabled() bool {
	return o.ClientID != "" && o.ClientSecret != ""
}

// StorageConfig holds export upload configuration
type StorageConfig struct {
	Enabled         bool          `split_words:"true" default:"false"`
	Endpoint        string        `split_words:"true" default:"localhost:9000"`
	AccessKeyID     string        `split_words:"true" default:"minioadmin"`
	SecretAccessKey string        `split_words:"true" default:"minioadmin"`
	BucketName      string        `split_words:"true" default:"action-board-exports"`
	UseSSL          bool          `split_words:"true" default:"false"`
	URLExpiry       time.Duration `split_words:"true" default:"1h"`
}

// CacheConfig selects the OAuth state backend
type CacheConfig struct {
	Type          string `split_words:"true" default:"memory"` // "memory" or "redis"
	RedisAddr     string `split_words:"true" default:"localhost:6379"`
	RedisPassword string `split_words:"true"`
	RedisDB       int    `split_words:"true" default:"0"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Board.Path == "" {
		return fmt.Errorf("BOARD_PATH is required")
	}
	if c.Board.DedupSimilarity <= 0 || c.Board.DedupSimilarity > 1 {
		return fmt.Errorf("BOARD_DEDUP_SIMILARITY must be in (0, 1], got %v", c.Board.DedupSimilarity)
	}
	if c.AI.MaxChunkChars <= 0 {
		return fmt.Errorf("AI_MAX_CHUNK_CHARS must be positive")
	}
	if c.AI.RequestsPerMinute < 0 {
		return fmt.Errorf("AI_REQUESTS_PER_MINUTE must not be negative")
	}
	if (c.Google.ClientID == "") != (c.Google.ClientSecret == "") {
		return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set together")
	}
	switch c.Cache.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("CACHE_TYPE must be memory or redis, got %q", c.Cache.Type)
	}
	return nil
}

// Address returns the listen address of the API server
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
