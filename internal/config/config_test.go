package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetStoreConfigDefaults(t *testing.T) {
	t.Setenv("GW_STORE_TYPE", "")
	t.Setenv("GW_SNAPSHOT_PATH", "")
	t.Setenv("DB_CONN_STRING", "")
	t.Setenv("DB_USER", "gw")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "gwdash")

	cfg := GetStoreConfig()
	assert.Equal(t, StorePostgres, cfg.Type)
	assert.Equal(t, DefaultSnapshotPath, cfg.SnapshotPath)
	assert.Equal(t, "user=gw host=db port=5432 dbname=gwdash sslmode=disable", cfg.ConnectionString)
}

func TestGetStoreConfigOverrides(t *testing.T) {
	t.Setenv("DB_CONN_STRING", "postgres://x@y/z")
	t.Setenv("GW_SNAPSHOT_PATH", "/tmp/entries.json")

	for value, want := range map[string]StoreType{"file": StoreFile, "MOCK": StoreFile, "pgx": StorePgx, "postgres": StorePostgres} {
		t.Setenv("GW_STORE_TYPE", value)
		cfg := GetStoreConfig()
		assert.Equal(t, want, cfg.Type, value)
		assert.Equal(t, "postgres://x@y/z", cfg.ConnectionString)
		assert.Equal(t, "/tmp/entries.json", cfg.SnapshotPath)
	}
}
