package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key Load reads so the host environment can't leak
// into a test. t.Setenv restores the previous values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "DB_DRIVER", "DB_DSN",
		"STORAGE_DRIVER", "STORAGE_ENDPOINT", "STORAGE_REGION", "STORAGE_ACCESS_KEY",
		"STORAGE_SECRET_KEY", "STORAGE_BUCKET", "STORAGE_USE_SSL", "STORAGE_PUBLIC_URL",
		"MAX_UPLOAD_BYTES", "RELATIONSHIP_START",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, DBConfig{Driver: "sqlite", DSN: "data/memories.db"}, cfg.DB)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "uploads", cfg.Storage.Bucket)
	assert.Equal(t, "http://127.0.0.1:9000/uploads", cfg.Storage.PublicURL)
	assert.False(t, cfg.Storage.UseSSL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.True(t, time.Date(2022, 10, 16, 0, 0, 0, 0, time.Local).Equal(cfg.RelationshipStart))
	assert.Equal(t, time.Local, cfg.RelationshipStart.Location(), "start is local midnight")
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "postgres://app@db/memories")
	t.Setenv("STORAGE_DRIVER", "minio")
	t.Setenv("STORAGE_PUBLIC_URL", "https://xyz.supabase.co/storage/v1/object/public/uploads/")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("RELATIONSHIP_START", "2020-01-01")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "minio", cfg.Storage.Driver)
	assert.Equal(t, "https://xyz.supabase.co/storage/v1/object/public/uploads", cfg.Storage.PublicURL)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, 2020, cfg.RelationshipStart.Year())
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7070\nSTORAGE_BUCKET=photos\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("STORAGE_BUCKET")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "photos", cfg.Storage.Bucket)
}

func TestLoad_MissingDotEnvIsFine(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PORT", "eighty"},
		{"PORT", "70000"},
		{"LOG_LEVEL", "chatty"},
		{"DB_DRIVER", "mysql"},
		{"STORAGE_DRIVER", "gcs"},
		{"STORAGE_USE_SSL", "maybe"},
		{"MAX_UPLOAD_BYTES", "-1"},
		{"MAX_UPLOAD_BYTES", "lots"},
		{"RELATIONSHIP_START", "16/10/2022"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
