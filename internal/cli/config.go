package cli

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/formstate/internal/logging"
	"github.com/caarlos0/env/v11"
)

// Store backends accepted by Config.Store.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config is the process configuration read from the environment. Command
// flags override it field by field.
type Config struct {
	Addr string `env:"FORMSTATE_ADDR" envDefault:":8080"`

	Store      string        `env:"FORMSTATE_STORE" envDefault:"memory"`
	Dir        string        `env:"FORMSTATE_DIR" envDefault:".formstate/forms"`
	SQLitePath string        `env:"FORMSTATE_SQLITE_PATH" envDefault:"formstate.db"`
	RedisAddr  string        `env:"FORMSTATE_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass  string        `env:"FORMSTATE_REDIS_PASSWORD"`
	RedisDB    int           `env:"FORMSTATE_REDIS_DB" envDefault:"0"`
	RedisTTL   time.Duration `env:"FORMSTATE_REDIS_TTL"`
	RedisLock  bool          `env:"FORMSTATE_REDIS_LOCK"`

	// EncryptionKey is a base64 encoded 32 byte key. Empty disables encryption.
	EncryptionKey string   `env:"FORMSTATE_ENCRYPTION_KEY"`
	FallbackKeys  []string `env:"FORMSTATE_ENCRYPTION_FALLBACK_KEYS" envSeparator:","`
	PIIFields     []string `env:"FORMSTATE_PII_FIELDS" envSeparator:","`

	LogLevel     string `env:"FORMSTATE_LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"FORMSTATE_LOG_FORMAT" envDefault:"text"`
	OTelEndpoint string `env:"FORMSTATE_OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"FORMSTATE_OTEL_ENABLED" envDefault:"true"`
	ServiceName  string `env:"FORMSTATE_SERVICE_NAME" envDefault:"formstate"`

	ShutdownTimeout time.Duration `env:"FORMSTATE_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Logger builds the process logger writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return logging.NewWithWriter(w, logging.ParseLevel(c.LogLevel), logging.Format(c.LogFormat))
}

// Keys decodes the encryption keys. A nil active key means encryption is off.
func (c Config) Keys() (active []byte, fallback [][]byte, err error) {
	if c.EncryptionKey == "" {
		return nil, nil, nil
	}
	active, err = base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("decode FORMSTATE_ENCRYPTION_KEY: %w", err)
	}
	for i, k := range c.FallbackKeys {
		key, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return nil, nil, fmt.Errorf("decode fallback key %d: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}
