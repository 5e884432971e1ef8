package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"mapwize-api/core/database"
	"mapwize-api/core/lock"
	"mapwize-api/core/logger"
	"mapwize-api/core/mapwize"
	"mapwize-api/core/server"
	"mapwize-api/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// API holds the Mapwize API credentials and client limits.
	API mapwize.Config `mapstructure:"api"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the history database.
	Database database.Config `mapstructure:"database"`
	// Sync holds reconciliation defaults.
	Sync SyncConfig `mapstructure:"sync"`
	// Redis holds the connection used by the redis lock backend.
	Redis lock.Config `mapstructure:"redis"`
}

// SyncConfig holds reconciliation defaults shared by the CLI and the HTTP API.
type SyncConfig struct {
	// Concurrency bounds in-flight operations per batch; 1 is sequential.
	Concurrency int `mapstructure:"concurrency" default:"1"`
	// Duplicates is the duplicate-name policy: error or last_wins.
	Duplicates string `mapstructure:"duplicates" default:"error"`
	// LockBackend is memory or redis.
	LockBackend string `mapstructure:"lock_backend" default:"memory"`
	// LockTTL expires redis locks left by crashed runs.
	LockTTL time.Duration `mapstructure:"lock_ttl" default:"10m"`
	// LockPrefix namespaces redis lock keys.
	LockPrefix string `mapstructure:"lock_prefix" default:"mapwize:"`
	// ListCacheTTL caches server listings served by the read endpoint; 0 disables it.
	ListCacheTTL time.Duration `mapstructure:"list_cache_ttl" default:"30s"`
}

const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

// Validate checks the values that have a closed set of choices.
func (c SyncConfig) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("sync concurrency must be at least 1, got %d", c.Concurrency)
	}
	switch c.Duplicates {
	case "error", "last_wins":
	default:
		return fmt.Errorf("unknown duplicate policy %q", c.Duplicates)
	}
	switch c.LockBackend {
	case LockBackendMemory, LockBackendRedis:
	default:
		return fmt.Errorf("unknown lock backend %q", c.LockBackend)
	}
	return nil
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sync.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" || tag == "-" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
