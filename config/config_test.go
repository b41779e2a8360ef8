package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cableerp/db"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_TYPE", "memory")
	t.Setenv("PORT", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("RATE_LIMIT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, db.Memory, cfg.DBType)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "300-M", cfg.RateLimit)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("DB_TYPE", "sqlite")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("DB_TYPE", "memory")
	t.Setenv("JWT_TTL", "forever")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Config{DBType: db.Postgres, JWTSecret: "x"}).Validate())
	assert.Error(t, (&Config{DBType: db.Mongo, MongoURL: "mongodb://x"}).Validate())
	assert.NoError(t, (&Config{DBType: db.Mongo, MongoURL: "mongodb://x", JWTSecret: "x"}).Validate())
	assert.NoError(t, (&Config{DBType: db.Memory}).Validate())
}
