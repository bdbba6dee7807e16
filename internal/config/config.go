// Package config loads the server's settings.
//
// SOURCES, lowest priority first:
//  1. defaults set below
//  2. a .env file, if present (godotenv; never overrides real env vars)
//  3. environment variables (viper AutomaticEnv)
//
// Load validates everything up front. A typo in DB_DRIVER should stop the
// process at boot, not surface as a 500 on the first request.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultRelationshipStart is the anchor date of the home-screen counters.
const DefaultRelationshipStart = "2022-10-16"

// Config is the complete runtime configuration.
type Config struct {
	Port              int
	LogLevel          slog.Level
	DB                DBConfig
	Storage           StorageConfig
	MaxUploadBytes    int64
	RelationshipStart time.Time
}

// DBConfig selects and locates the SQL database.
type DBConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string
}

// StorageConfig selects and locates the blob store.
type StorageConfig struct {
	Driver    string // "s3" or "minio"
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the address prefix under which the bucket's objects are
	// publicly readable. Memory image URLs are built from it, and only URLs
	// under it are ever deleted.
	PublicURL string
}

// Load reads the configuration. envFile may be empty or point at a file that
// doesn't exist; both simply skip the .env step.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: reading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "data/memories.db")
	v.SetDefault("STORAGE_DRIVER", "s3")
	v.SetDefault("STORAGE_ENDPOINT", "http://127.0.0.1:9000")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_BUCKET", "uploads")
	v.SetDefault("STORAGE_USE_SSL", "false")
	v.SetDefault("MAX_UPLOAD_BYTES", strconv.Itoa(10<<20))
	v.SetDefault("RELATIONSHIP_START", DefaultRelationshipStart)

	cfg := &Config{
		DB: DBConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:    v.GetString("DB_DSN"),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Endpoint:  strings.TrimRight(v.GetString("STORAGE_ENDPOINT"), "/"),
			Region:    v.GetString("STORAGE_REGION"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			PublicURL: strings.TrimRight(v.GetString("STORAGE_PUBLIC_URL"), "/"),
		},
	}

	// viper's GetInt/GetBool return zero values for garbage, so numbers and
	// booleans are parsed by hand to turn garbage into an error.
	var err error
	if cfg.Port, err = strconv.Atoi(v.GetString("PORT")); err != nil || cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("config: PORT must be a number between 1 and 65535, got %q", v.GetString("PORT"))
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	if cfg.Storage.UseSSL, err = strconv.ParseBool(v.GetString("STORAGE_USE_SSL")); err != nil {
		return nil, fmt.Errorf("config: STORAGE_USE_SSL must be true or false, got %q", v.GetString("STORAGE_USE_SSL"))
	}
	if cfg.MaxUploadBytes, err = strconv.ParseInt(v.GetString("MAX_UPLOAD_BYTES"), 10, 64); err != nil || cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("config: MAX_UPLOAD_BYTES must be a positive number, got %q", v.GetString("MAX_UPLOAD_BYTES"))
	}
	// Local midnight, so the day and hour counters tick over at midnight
	// where the server runs (set TZ to choose the zone).
	if cfg.RelationshipStart, err = time.ParseInLocation("2006-01-02", v.GetString("RELATIONSHIP_START"), time.Local); err != nil {
		return nil, fmt.Errorf("config: RELATIONSHIP_START must be YYYY-MM-DD: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: DB_DRIVER must be sqlite or postgres, got %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("config: DB_DSN is required")
	}

	switch c.Storage.Driver {
	case "s3", "minio":
	default:
		return fmt.Errorf("config: STORAGE_DRIVER must be s3 or minio, got %q", c.Storage.Driver)
	}
	if c.Storage.Bucket == "" {
		return errors.New("config: STORAGE_BUCKET is required")
	}
	if _, err := url.Parse(c.Storage.Endpoint); err != nil {
		return fmt.Errorf("config: STORAGE_ENDPOINT: %w", err)
	}

	// Path-style default: objects are served at {endpoint}/{bucket}/{key}.
	if c.Storage.PublicURL == "" {
		c.Storage.PublicURL = c.Storage.Endpoint + "/" + c.Storage.Bucket
	}
	return nil
}
