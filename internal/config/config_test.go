package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LEDGER_CONFIG", "APP_ENV", "LEDGER_STORE", "DATABASE_URL",
		"LEDGER_DB_PATH", "LEDGER_GRPC_ADDR", "LEDGER_HTTP_ADDR",
		"QUOTE_API_URL", "QUOTE_API_KEY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_STORE", StoreSQLite)
	t.Setenv("LEDGER_DB_PATH", "/tmp/ledger.db")
	t.Setenv("LEDGER_GRPC_ADDR", ":6000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/ledger.db", cfg.SQLitePath)
	assert.Equal(t, ":6000", cfg.GRPCAddr)
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store: sqlite
sqlite_path: /data/ledger.db
grpc_addr: ":7000"
quote_api_url: https://api.example.com
`), 0o600))
	t.Setenv("LEDGER_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/data/ledger.db", cfg.SQLitePath)
	assert.Equal(t, ":7000", cfg.GRPCAddr)
	assert.Equal(t, "https://api.example.com", cfg.QuoteAPIURL)
}

// TestEnvWinsOverFile verifies deployments can patch a shared config file
// through the environment.
func TestEnvWinsOverFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grpc_addr: \":7000\"\n"), 0o600))
	t.Setenv("LEDGER_CONFIG", path)
	t.Setenv("LEDGER_GRPC_ADDR", ":9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.GRPCAddr)
}

func TestValidatePostgresRequiresURL(t *testing.T) {
	cfg := &Config{Store: StorePostgres}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidateSQLiteRequiresPath(t *testing.T) {
	cfg := &Config{Store: StoreSQLite}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LEDGER_DB_PATH")
}

func TestValidateUnknownStore(t *testing.T) {
	cfg := &Config{Store: "etcd"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "etcd")
}

// TestValidateProductionConstraints: production requires a quote feed and a
// durable store.
func TestValidateProductionConstraints(t *testing.T) {
	cfg := &Config{
		Environment: "production",
		Store:       StorePostgres,
		DatabaseURL: "postgres://localhost/ledger",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUOTE_API_URL")

	cfg.QuoteAPIURL = "https://api.example.com"
	cfg.QuoteAPIKey = "key"
	assert.NoError(t, cfg.Validate())
}

func TestValidateProductionRejectsMemoryStore(t *testing.T) {
	cfg := &Config{
		Environment: "production",
		Store:       StoreMemory,
		QuoteAPIURL: "https://api.example.com",
		QuoteAPIKey: "key",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory store")
}
