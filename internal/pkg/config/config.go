package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIBaseURL string `env:"TRIPORIA_API_URL,   default=https://api.triporia.io"`
	Env        string `env:"TRIPORIA_ENV,       default=production"`
	LogLevel   string `env:"TRIPORIA_LOG_LEVEL, default=info"`
	// Timeout bounds every dispatched request unless overridden per call.
	Timeout time.Duration `env:"TRIPORIA_TIMEOUT, default=10s"`

	// Store selects the credential backend: "file" or "redis".
	Store string `env:"TRIPORIA_STORE, default=file"`
	// CredentialsFile is the path of the file-backed credential store.
	// Defaults to ~/.triporia/credentials.json when empty.
	CredentialsFile string `env:"TRIPORIA_CREDENTIALS_FILE"`
	// CacheDB is the sqlite file holding the offline booking/search cache.
	// Defaults to ~/.triporia/cache.db when empty.
	CacheDB string `env:"TRIPORIA_CACHE_DB"`

	// CallbackPort is the localhost port the payment redirect listener binds.
	CallbackPort int `env:"TRIPORIA_CALLBACK_PORT, default=8931"`

	Redis RedisConfig
}

type RedisConfig struct {
	Addr string `env:"TRIPORIA_REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"TRIPORIA_REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig and
// fills in the home-directory defaults.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}

	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = filepath.Join(homeDir(), ".triporia", "credentials.json")
	}
	if cfg.CacheDB == "" {
		cfg.CacheDB = filepath.Join(homeDir(), ".triporia", "cache.db")
	}
	return &cfg
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
