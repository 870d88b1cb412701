package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/jenfranx30/savemate-backend/internal/auth"
	"github.com/jenfranx30/savemate-backend/pkg/database"
	pkgkafka "github.com/jenfranx30/savemate-backend/pkg/kafka"
	"github.com/jenfranx30/savemate-backend/pkg/middleware"
	"github.com/jenfranx30/savemate-backend/pkg/tracing"
)

const (
	defaultAccessSecret  = "change-this-access-secret"
	defaultRefreshSecret = "change-this-refresh-secret"
	minSecretLength      = 32
)

// Config holds all configuration for the SaveMate API.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"savemate-api"`
	Version     string `env:"SERVICE_VERSION" envDefault:"dev"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// PostgreSQL
	PostgresHost     string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int           `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string        `env:"POSTGRES_USER" envDefault:"savemate"`
	PostgresPass     string        `env:"POSTGRES_PASSWORD" envDefault:"savemate_secret"`
	PostgresDB       string        `env:"POSTGRES_DB" envDefault:"savemate"`
	PostgresSSL      string        `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	PostgresMaxConns int32         `env:"POSTGRES_MAX_CONNS" envDefault:"20"`
	PostgresMinConns int32         `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	SlowQuery        time.Duration `env:"SLOW_QUERY_THRESHOLD" envDefault:"200ms"`

	// Redis
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CategoryTTL   time.Duration `env:"CATEGORY_CACHE_TTL" envDefault:"10m"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`

	// Tracing
	OTelEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
	OTelInsecure   bool    `env:"OTEL_INSECURE" envDefault:"true"`

	// JWT
	JWTSecret               string `env:"JWT_SECRET" envDefault:"change-this-access-secret"`
	JWTRefreshSecret        string `env:"JWT_REFRESH_SECRET" envDefault:"change-this-refresh-secret"`
	JWTAlgorithm            string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	JWTIssuer               string `env:"JWT_ISSUER" envDefault:"savemate"`
	AccessTokenExpireMinute int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
	RefreshTokenExpireDays  int    `env:"REFRESH_TOKEN_EXPIRE_DAYS" envDefault:"7"`
	BcryptCost              int    `env:"BCRYPT_COST" envDefault:"12"`

	// Rate limiting on /auth endpoints
	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS" envDefault:"5"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`
	TrustProxyHeaders  bool    `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5173" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load savemate config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.AccessTokenExpireMinute <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", c.AccessTokenExpireMinute)
	}
	if c.RefreshTokenExpireDays <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_EXPIRE_DAYS must be positive, got %d", c.RefreshTokenExpireDays)
	}
	if err := c.Auth().Validate(); err != nil {
		return fmt.Errorf("invalid JWT settings: %w", err)
	}

	// Outside development both secrets must be explicitly set, strong and distinct.
	if c.Environment != "development" {
		if c.JWTSecret == defaultAccessSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if c.JWTRefreshSecret == defaultRefreshSecret {
			return fmt.Errorf("JWT_REFRESH_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < minSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters long, got %d", minSecretLength, len(c.JWTSecret))
		}
		if len(c.JWTRefreshSecret) < minSecretLength {
			return fmt.Errorf("JWT_REFRESH_SECRET must be at least %d characters long, got %d", minSecretLength, len(c.JWTRefreshSecret))
		}
		if c.JWTSecret == c.JWTRefreshSecret {
			return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ in %q mode", c.Environment)
		}
	}
	return nil
}

// Auth returns the identity settings.
func (c *Config) Auth() auth.Config {
	return auth.Config{
		AccessSecret:  []byte(c.JWTSecret),
		RefreshSecret: []byte(c.JWTRefreshSecret),
		Algorithm:     c.JWTAlgorithm,
		AccessTTL:     time.Duration(c.AccessTokenExpireMinute) * time.Minute,
		RefreshTTL:    time.Duration(c.RefreshTokenExpireDays) * 24 * time.Hour,
		BcryptCost:    c.BcryptCost,
		Issuer:        c.JWTIssuer,
	}
}

// Postgres returns the connection pool settings.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.PostgresMaxConns,
		MinConns:        c.PostgresMinConns,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
}

// Redis returns the cache client settings.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Addr:         c.RedisAddr,
		Password:     c.RedisPassword,
		DB:           c.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Kafka returns the event producer settings.
func (c *Config) Kafka() pkgkafka.ProducerConfig {
	return pkgkafka.ProducerConfig{
		Brokers:      c.KafkaBrokers,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}

// Tracing returns the OpenTelemetry settings.
func (c *Config) Tracing() tracing.Config {
	return tracing.Config{
		Enabled:        c.OTelEnabled,
		ServiceName:    c.ServiceName,
		ServiceVersion: c.Version,
		Environment:    c.Environment,
		OTLPEndpoint:   c.OTelEndpoint,
		SampleRate:     c.OTelSampleRate,
		Insecure:       c.OTelInsecure,
	}
}

// AuthRateLimit returns the limiter applied to the /auth routes.
func (c *Config) AuthRateLimit() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		RequestsPerSecond: c.AuthRateLimitRPS,
		Burst:             c.AuthRateLimitBurst,
		IdleTTL:           3 * time.Minute,
		TrustProxyHeaders: c.TrustProxyHeaders,
	}
}

// CORS returns the cross-origin policy.
func (c *Config) CORS() middleware.CORSConfig {
	return middleware.CORSConfig{
		AllowedOrigins:   c.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Correlation-ID"},
		ExposedHeaders:   []string{"X-Correlation-ID", "Retry-After"},
		MaxAge:           600,
		AllowCredentials: true,
	}
}
