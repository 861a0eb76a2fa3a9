package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"ENV", "DB_DRIVER", "JWT_SECRET", "TOKEN_TTL", "PASSWORD_SALT",
		"CORS_ALLOWED_ORIGIN", "CORS_MAX_AGE", "NOTIFY_BACKEND", "STORAGE_BACKEND", "SERVER_PORT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := LoadConfig()
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "reefdive-salt-2024", cfg.Auth.PasswordSalt)
	assert.Equal(t, "*", cfg.CORS.AllowedOrigin)
	assert.Equal(t, 86400, cfg.CORS.MaxAge)
	assert.Equal(t, "log", cfg.Notify.Backend)
	assert.Equal(t, "none", cfg.Storage.Backend)
}

func TestLoadConfigIgnoresBadDuration(t *testing.T) {
	t.Setenv("TOKEN_TTL", "nonsense")
	assert.Equal(t, 24*time.Hour, LoadConfig().Auth.TokenTTL)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "  s3cret \n")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("DB_PATH", "/tmp/reef.db")
	t.Setenv("RABBITMQ_QUEUE_DURABLE", "not-a-bool")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := LoadConfig()
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "/tmp/reef.db", cfg.Database.DSN())
	assert.True(t, cfg.RabbitMQ.QueueDurable)
	assert.True(t, cfg.Minio.UseSSL)
}

func TestPostgresDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Driver:   DriverPostgres,
		Host:     "db",
		Port:     5433,
		User:     "reef",
		Password: "p@ss word",
		DBName:   "reefdive",
	}
	dsn := cfg.DSN()
	assert.True(t, strings.HasPrefix(dsn, "postgres://reef:"))
	assert.Contains(t, dsn, "@db:5433/reefdive")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.NotContains(t, dsn, "p@ss word")

	cfg.UseSSL = true
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}
