package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"
	minBcryptCost    = 4
	maxBcryptCost    = 31
)

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:"rentanything.db"`

	JWTSecret  string        `envconfig:"JWT_SECRET" default:"change-me-jwt-secret"`
	JWTTTL     time.Duration `envconfig:"JWT_TTL" default:"24h"`
	BcryptCost int           `envconfig:"BCRYPT_COST" default:"12"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	ImageMaxBytes      int64    `envconfig:"IMAGE_MAX_BYTES" default:"5242880"`

	S3Endpoint       string `envconfig:"S3_ENDPOINT"`
	S3PublicEndpoint string `envconfig:"S3_PUBLIC_ENDPOINT"`
	S3AccessKey      string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey      string `envconfig:"S3_SECRET_KEY"`
	S3Bucket         string `envconfig:"S3_BUCKET" default:"rentanything-images"`
	S3UseSSL         bool   `envconfig:"S3_USE_SSL" default:"false"`
	S3Region         string `envconfig:"S3_REGION" default:"us-east-1"`

	KafkaBrokers     []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopicPrefix string   `envconfig:"KAFKA_TOPIC_PREFIX"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.normalize()
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	if c.AppEnv == "" {
		c.AppEnv = "dev"
	}
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	c.CORSAllowedOrigins = trimAll(c.CORSAllowedOrigins)
	c.KafkaBrokers = trimAll(c.KafkaBrokers)
	if c.S3PublicEndpoint == "" {
		c.S3PublicEndpoint = c.S3Endpoint
	}
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.BcryptCost < minBcryptCost || cfg.BcryptCost > maxBcryptCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", minBcryptCost, maxBcryptCost)
	}
	if cfg.ImageMaxBytes <= 0 {
		return fmt.Errorf("IMAGE_MAX_BYTES must be > 0")
	}
	if cfg.S3Enabled() && (cfg.S3AccessKey == "" || cfg.S3SecretKey == "" || cfg.S3Bucket == "") {
		return fmt.Errorf("S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET are required when S3_ENDPOINT is set")
	}

	if IsProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if len(cfg.CORSAllowedOrigins) == 0 {
			return fmt.Errorf("in prod/release CORS_ALLOWED_ORIGINS must be set")
		}
	}

	return nil
}

func (c *Config) S3Enabled() bool {
	return strings.TrimSpace(c.S3Endpoint) != ""
}

func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
