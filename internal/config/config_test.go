package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/booking/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, config.BackendMongo, cfg.StoreBackend)
	assert.Equal(t, "event-booking", cfg.MongoDatabase)
	assert.Equal(t, "admin", cfg.MongoAuthSource)
	assert.Equal(t, 10*time.Second, cfg.MongoConnectTimeout)
	assert.Equal(t, 12, cfg.SaltRounds)
	assert.True(t, cfg.PlaygroundEnabled)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SALT_ROUNDS", "4")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "2s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, config.BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 4, cfg.SaltRounds)
	assert.Equal(t, 2*time.Second, cfg.MongoConnectTimeout)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := config.Load()
	assert.ErrorContains(t, err, "STORE_BACKEND")
}

func TestLoad_InvalidSaltRounds(t *testing.T) {
	t.Setenv("SALT_ROUNDS", "99")

	_, err := config.Load()
	assert.ErrorContains(t, err, "SALT_ROUNDS")
}

func TestLoad_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MONGO_DB=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("MONGO_DB") })

	cfg, err := config.Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.MongoDatabase)
}

func TestConfig_Attributes(t *testing.T) {
	cfg := &config.Config{ServiceName: "svc", Version: "1.2.3", StoreBackend: "memory"}
	attrs := cfg.Attributes()

	assert.Len(t, attrs, 4)
	assert.Equal(t, "svc", attrs[0].Value.AsString())
	assert.Equal(t, "1.2.3", attrs[1].Value.AsString())
}
