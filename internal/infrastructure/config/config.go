package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreBadger = "badger"
	StoreMongo  = "mongo"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	CreatePolicy    string        `env:"CREATE_POLICY,    default=reject"`

	Store      StoreConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	PostalCode PostalCodeConfig
	Events     EventsConfig
}

type StoreConfig struct {
	Backend    string `env:"STORE_BACKEND, default=file"`
	DataFile   string `env:"DATA_FILE,     default=db.json"`
	BadgerPath string `env:"BADGER_PATH,   default=data/badger"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=connaissance_client"`
}

type RedisConfig struct {
	Enabled bool   `env:"REDIS_ENABLED, default=false"`
	Addr    string `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int    `env:"REDIS_DB,      default=0"`
}

type PostalCodeConfig struct {
	Enabled  bool          `env:"POSTAL_CODE_CHECK_ENABLED, default=false"`
	APIURL   string        `env:"POSTAL_CODE_API_URL,       default=https://apicarto.ign.fr/api"`
	Timeout  time.Duration `env:"POSTAL_CODE_API_TIMEOUT,   default=3s"`
	CacheTTL time.Duration `env:"POSTAL_CODE_CACHE_TTL,     default=24h"`
}

type EventsConfig struct {
	Workers int    `env:"EVENT_WORKERS, default=4"`
	Stream  string `env:"EVENT_STREAM,  default=connaissance-client.adresse"`
}

// IsDevelopment reports whether human-friendly logs should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.CreatePolicy {
	case "reject", "upsert":
	default:
		return fmt.Errorf("config: CREATE_POLICY must be reject or upsert, got %q", c.CreatePolicy)
	}

	switch c.Store.Backend {
	case StoreFile, StoreMemory, StoreBadger, StoreMongo:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Store.Backend)
	}

	if c.Events.Workers <= 0 {
		return fmt.Errorf("config: EVENT_WORKERS must be positive, got %d", c.Events.Workers)
	}
	return nil
}
