package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.Server.AutoMigrate)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenDuration)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_ACCESS_TOKEN_DURATION", "5m")
	t.Setenv("DB_PORT", "5433")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.HTTPPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenDuration)
	assert.Equal(t, 5433, cfg.Database.Port)
}

func TestPostgresDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "board",
		Password: "secret",
		DBName:   "boardmaster",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5432 user=board password=secret dbname=boardmaster sslmode=require",
		cfg.PostgresDSN())
}
