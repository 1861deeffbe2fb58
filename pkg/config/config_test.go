package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "0.0.0.0:8000", cfg.HTTP.Addr())
	assert.Equal(t, 10*time.Minute, cfg.OTP.TTL())
	assert.Equal(t, 6, cfg.OTP.Length)
	assert.Equal(t, 5, cfg.OTP.MaxAttempts)
	assert.Empty(t, cfg.JWT.Secret)
	assert.False(t, cfg.Mail.Configured())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("OTP_TTL_MINUTES", "3")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Minute, cfg.OTP.TTL())
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Mail.Configured())
}

func TestLoad_Invalida(t *testing.T) {
	t.Run("driver desconocido", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")
		_, err := config.Load()
		assert.ErrorContains(t, err, "STORE_DRIVER")
	})
	t.Run("ttl no positivo", func(t *testing.T) {
		t.Setenv("OTP_TTL_MINUTES", "0")
		_, err := config.Load()
		assert.Error(t, err)
	})
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/stock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro/db"
	assert.Equal(t, "postgres://otro/db", c.ConnectionString())
}
