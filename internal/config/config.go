package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	BaseURL      string `mapstructure:"BASE_URL"`
	DefaultQuery string `mapstructure:"DEFAULT_QUERY"`
	MaxProducts  int    `mapstructure:"MAX_PRODUCTS"`
	MaxReviews   int    `mapstructure:"MAX_REVIEWS"`

	// WaitTimeout bounds every page load: navigation plus the wait for the
	// expected elements.
	WaitTimeout time.Duration `mapstructure:"WAIT_TIMEOUT"`

	Renderer         string   `mapstructure:"RENDERER"` // "chrome" or "http"
	Headless         bool     `mapstructure:"HEADLESS"`
	WindowWidth      int      `mapstructure:"WINDOW_WIDTH"`
	WindowHeight     int      `mapstructure:"WINDOW_HEIGHT"`
	UserAgents       []string `mapstructure:"USER_AGENTS"`
	Proxies          []string `mapstructure:"PROXIES"`
	BlockedResources []string `mapstructure:"BLOCKED_RESOURCES"`

	// ScoreSentinels feeds "No reviews found." / "Error fetching reviews."
	// to the scorer like real reviews.
	ScoreSentinels bool `mapstructure:"SCORE_SENTINELS"`

	OutputDir string `mapstructure:"OUTPUT_DIR"`

	PostgresURL    string        `mapstructure:"POSTGRES_URL"`
	PersistResults bool          `mapstructure:"PERSIST_RESULTS"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`
	CacheSize      int           `mapstructure:"CACHE_SIZE"`

	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
}

const (
	RendererChrome = "chrome"
	RendererHTTP   = "http"
)

// DefaultUserAgent is the desktop Chrome agent presented to the site.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Load reads configuration from .env or environment variables.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile reads configuration from the given env file, overridden by the
// process environment. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Attempt to read the env file, but don't fail if it's not present
	_ = v.ReadInConfig()

	v.SetDefault("BASE_URL", "https://www.amazon.in")
	v.SetDefault("DEFAULT_QUERY", "laptop")
	v.SetDefault("MAX_PRODUCTS", 20)
	v.SetDefault("MAX_REVIEWS", 3)
	v.SetDefault("WAIT_TIMEOUT", 8*time.Second)
	v.SetDefault("RENDERER", RendererChrome)
	v.SetDefault("HEADLESS", true)
	v.SetDefault("WINDOW_WIDTH", 1920)
	v.SetDefault("WINDOW_HEIGHT", 1080)
	v.SetDefault("USER_AGENTS", []string{DefaultUserAgent})
	v.SetDefault("PROXIES", []string{})
	v.SetDefault("BLOCKED_RESOURCES", []string{"Image", "Stylesheet", "Font"})
	v.SetDefault("SCORE_SENTINELS", true)
	v.SetDefault("OUTPUT_DIR", "output")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("PERSIST_RESULTS", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CACHE_TTL", 10*time.Minute)
	v.SetDefault("CACHE_SIZE", 64)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Renderer = strings.ToLower(strings.TrimSpace(cfg.Renderer))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("base URL must include scheme and host")
	}
	if c.MaxProducts <= 0 {
		return fmt.Errorf("max products must be positive")
	}
	if c.MaxReviews <= 0 {
		return fmt.Errorf("max reviews must be positive")
	}
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be positive")
	}
	if c.Renderer != RendererChrome && c.Renderer != RendererHTTP {
		return fmt.Errorf("renderer must be %q or %q", RendererChrome, RendererHTTP)
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window size must be positive")
	}
	if c.PersistResults && c.PostgresURL == "" {
		return fmt.Errorf("persist results requires a postgres URL")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL cannot be negative")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size cannot be negative")
	}
	return nil
}
