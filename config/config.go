package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	GinMode  string `env:"GIN_MODE" envDefault:"release"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret      string   `env:"JWT_SECRET"`
	JWTIssuer      string   `env:"JWT_ISSUER"`
	JWTAudience    string   `env:"JWT_AUDIENCE"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI    string `env:"MONGO_URI"`
	MongoDB     string `env:"MONGO_DB" envDefault:"skillsync"`
	PostgresURI string `env:"POSTGRES_URI"`
	RedisURL    string `env:"REDIS_URL"`

	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	GeminiModel     string        `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	VertexProjectID string        `env:"VERTEX_PROJECT_ID"`
	VertexLocation  string        `env:"VERTEX_LOCATION" envDefault:"us-central1"`
	VertexModel     string        `env:"VERTEX_MODEL" envDefault:"gemini-2.0-flash"`
	AITimeout       time.Duration `env:"AI_TIMEOUT" envDefault:"20s"`

	SpeechEnabled bool   `env:"SPEECH_ENABLED" envDefault:"false"`
	GCSBucket     string `env:"GCS_BUCKET"`

	AnalyticsCacheTTL   time.Duration `env:"ANALYTICS_CACHE_TTL" envDefault:"5m"`
	DefaultJobRole      string        `env:"DEFAULT_JOB_ROLE" envDefault:"Software Developer"`
	CreateRatePerMinute int           `env:"CREATE_RATE_PER_MINUTE" envDefault:"10"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when STORE_DRIVER=mongo"))
		}
	case StorePostgres:
		if c.PostgresURI == "" {
			errs = append(errs, errors.New("POSTGRES_URI is required when STORE_DRIVER=postgres"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.AITimeout <= 0 {
		errs = append(errs, errors.New("AI_TIMEOUT must be positive"))
	}
	if c.AnalyticsCacheTTL < 0 {
		errs = append(errs, errors.New("ANALYTICS_CACHE_TTL must not be negative"))
	}
	if c.CreateRatePerMinute < 0 {
		errs = append(errs, errors.New("CREATE_RATE_PER_MINUTE must not be negative"))
	}
	if c.GCSBucket != "" && c.RedisURL == "" {
		errs = append(errs, errors.New("GCS_BUCKET requires REDIS_URL for the archive worker"))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
