package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"shopapi/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadFrom(t *testing.T) {
	dir := writeConfig(t, `
http:
  env: dev
  port: 9090
storage:
  driver: postgres
  psql_conn:
    user: shop
    password: secret
    host: db
    port: 5433
    database: shop
    sslmode: disable
`)

	cfg, err := config.LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, config.EnvDev, cfg.HTTP.Env)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "postgres://shop:secret@db:5433/shop?sslmode=disable", cfg.ConnectionString())
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	dir := writeConfig(t, `
http:
  env: prod
storage:
  driver: postgres
`)
	t.Setenv("SHOPAPI_STORAGE_DRIVER", "sqlite")
	t.Setenv("SHOPAPI_STORAGE_SQLITE_PATH", "/tmp/shop.db")
	t.Setenv("SHOPAPI_HTTP_PORT", "7000")

	cfg, err := config.LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 7000, cfg.HTTP.Port)
	assert.Contains(t, cfg.ConnectionString(), "/tmp/shop.db?")
}

func TestLoadFrom_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadFrom(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		dir := writeConfig(t, `
storage:
  driver: mongo
`)
		_, err := config.LoadFrom(dir)
		assert.ErrorContains(t, err, "unknown storage driver")
	})
}
