package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluescreen10/tokensession/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOKENSESSION_API_URL", "https://example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", cfg.APIURL)
	assert.Equal(t, config.StoreSQLite, cfg.Store)
	assert.Equal(t, "tokensession.db", cfg.SQLitePath)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.ConnectionURL)
	assert.Equal(t, 3, cfg.Redis.RetryAttempts)
	assert.Equal(t, 5*time.Second, cfg.Redis.RetryInterval)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogRequests)
}

func TestLoadRequiresAPIURL(t *testing.T) {
	t.Setenv("TOKENSESSION_API_URL", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	// values from the file only fill variables that are not already set
	t.Setenv("TOKENSESSION_REQUEST_TIMEOUT", "7s")
	fileKeys := []string{"TOKENSESSION_API_URL", "TOKENSESSION_STORE", "TOKENSESSION_REDIS_URL"}
	for _, k := range fileKeys {
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range fileKeys {
			os.Unsetenv(k)
		}
	})

	cfg, err := config.Load("testdata/.env.test")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", cfg.APIURL)
	assert.Equal(t, config.StoreRedis, cfg.Store)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.ConnectionURL)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load("testdata/missing.env")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, config.Config{Store: config.StoreMemory}.Validate())
	assert.NoError(t, config.Config{Store: config.StoreMySQL, MySQLDSN: "u:p@tcp(db)/app"}.Validate())
	assert.ErrorIs(t, config.Config{Store: config.StoreMySQL}.Validate(), config.ErrMissingDSN)
	assert.ErrorIs(t, config.Config{Store: "etcd"}.Validate(), config.ErrUnknownStore)
}
