package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort           = "8000"
	defaultFrontendURL    = "http://localhost"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultTokenTTL       = 24 * time.Hour
)

// Config aggregates runtime configuration.
// Precedence: environment variables > YAML config > defaults.
type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	JWTSecret   string `yaml:"jwt_secret"`

	// FrontendBaseURL is the public address short links redirect to.
	FrontendBaseURL string `yaml:"frontend_base_url"`

	// Object storage for recipe images and avatars (S3-compatible).
	MediaEndpoint  string `yaml:"media_endpoint"`
	MediaAccessKey string `yaml:"media_access_key"`
	MediaSecretKey string `yaml:"media_secret_key"`
	MediaBucket    string `yaml:"media_bucket"`
	MediaBaseURL   string `yaml:"media_base_url"`

	TokenTTL       time.Duration `yaml:"token_ttl"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`

	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load resolves configuration from an optional YAML file and the
// environment. path may be empty.
func Load(path string) (Config, error) {
	cfg := Config{
		Port:            defaultPort,
		FrontendBaseURL: defaultFrontendURL,
		TokenTTL:        defaultTokenTTL,
		RateLimitRPS:    defaultRateLimitRPS,
		RateLimitBurst:  defaultRateLimitBurst,
		AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.FrontendBaseURL, "FRONTEND_BASE_URL")
	setString(&cfg.MediaEndpoint, "MEDIA_ENDPOINT")
	setString(&cfg.MediaAccessKey, "MEDIA_ACCESS_KEY")
	setString(&cfg.MediaSecretKey, "MEDIA_SECRET_KEY")
	setString(&cfg.MediaBucket, "MEDIA_BUCKET")
	setString(&cfg.MediaBaseURL, "MEDIA_BASE_URL")

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	return nil
}

// MediaConfigured reports whether object storage credentials are present.
// Without them image uploads are rejected but the API still serves.
func (c Config) MediaConfigured() bool {
	return c.MediaEndpoint != "" && c.MediaAccessKey != "" &&
		c.MediaSecretKey != "" && c.MediaBucket != ""
}
