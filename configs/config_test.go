package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GO_ENV", "test")
	for _, key := range []string{
		"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "CACHE_TTL",
		"JWT_SECRET", "JWT_TTL", "BCRYPT_COST", "PORT", "REQUEST_TIMEOUT",
		"CORS_ORIGINS", "LOG_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_NAME", "tasks")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3004", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, "*", cfg.CORSOrigins)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Empty(t, cfg.RedisAddr())
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "sqlite:///tmp/tasks.db")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout, "unparseable values fall back to the default")
	assert.Equal(t, "sqlite:///tmp/tasks.db", cfg.DSN())
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_NAME", "tasks")
	t.Setenv("JWT_SECRET", "   ")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestValidate(t *testing.T) {
	base := Config{JWTSecret: "s", JWTTTL: time.Hour, BcryptCost: 10, DBName: "tasks"}
	require.NoError(t, base.Validate())

	noStore := base
	noStore.DBName = ""
	assert.Error(t, noStore.Validate())

	badCost := base
	badCost.BcryptCost = 99
	assert.Error(t, badCost.Validate())

	badTTL := base
	badTTL.JWTTTL = 0
	assert.Error(t, badTTL.Validate())
}

func TestDSN_FromParts(t *testing.T) {
	cfg := Config{DBHost: "db", DBPort: 5432, DBUser: "app", DBPassword: "p@ss word", DBName: "tasks"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/tasks?sslmode=disable", cfg.DSN())
}
