package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.TimeoutSeconds)
	assert.Equal(t, "DZ_COMPANY", cfg.Table.Name)
	assert.Equal(t, "DEPCODE", cfg.Table.CodeColumn)
	assert.Equal(t, "DEPJOB", cfg.Table.JobColumn)
	assert.Equal(t, "DESCRIPTION", cfg.Table.DescriptionColumn)
	assert.Equal(t, 5, cfg.Table.BatchSize)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_NAME", "/tmp/company.db")
	t.Setenv("TABLE_BATCH_SIZE", "50")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/company.db", cfg.Database.Name)
	assert.Equal(t, 50, cfg.Table.BatchSize)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	// Register the keys so godotenv's writes are undone after the test
	t.Setenv("DATABASE_HOST", "")
	t.Setenv("LOG_LEVEL", "")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_HOST=db.internal\nLOG_LEVEL=debug\n"), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "table:\n  name: DEPARTMENTS\nstorage:\n  enabled: true\n  bucket: backups\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "datasync.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "DEPARTMENTS", cfg.Table.Name)
	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, "backups", cfg.Storage.Bucket)
}

func TestValidate(t *testing.T) {
	t.Run("Invalid driver", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "oracle")
		_, err := LoadConfig(t.TempDir())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("Invalid batch size", func(t *testing.T) {
		t.Setenv("TABLE_BATCH_SIZE", "0")
		_, err := LoadConfig(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("Archive without bucket", func(t *testing.T) {
		dir := t.TempDir()
		yaml := "storage:\n  enabled: true\n  bucket: \"\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "datasync.yaml"), []byte(yaml), 0o644))

		_, err := LoadConfig(dir)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})
}
