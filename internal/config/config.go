package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// Store backends.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port              int    `envconfig:"PORT" default:"3000"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`
	PlaygroundEnabled bool   `envconfig:"PLAYGROUND_ENABLED" default:"true"`

	// Store
	StoreBackend        string        `envconfig:"STORE_BACKEND" default:"mongo"`
	MongoHost           string        `envconfig:"MONGO_HOST" default:"localhost:27017"`
	MongoUser           string        `envconfig:"MONGO_USER"`
	MongoPassword       string        `envconfig:"MONGO_PASSWORD"`
	MongoDatabase       string        `envconfig:"MONGO_DB" default:"event-booking"`
	MongoAuthSource     string        `envconfig:"MONGO_AUTH_SOURCE" default:"admin"`
	MongoConnectTimeout time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`

	// Accounts
	SaltRounds int `envconfig:"SALT_ROUNDS" default:"12"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"event-booking"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables. Variables from the
// given dotenv files are applied first without overriding the environment;
// missing files are ignored.
func Load(dotenvFiles ...string) (*Config, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q: want %q or %q", c.StoreBackend, BackendMongo, BackendMemory)
	}
	if c.SaltRounds < bcrypt.MinCost || c.SaltRounds > bcrypt.MaxCost {
		return fmt.Errorf("invalid SALT_ROUNDS %d: want %d..%d", c.SaltRounds, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("store.backend", c.StoreBackend),
		attribute.String("store.database", c.MongoDatabase),
	}
}
