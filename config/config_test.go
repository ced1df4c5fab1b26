package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediavault/mediavault/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 5809, cfg.Server.Port)
	assert.Equal(t, int64(0), cfg.Server.MaxUploadSize)
	assert.Equal(t, 30, cfg.Service.CleanupTimeout)
	assert.Equal(t, "./data/blobs", cfg.Storage.Path)
	assert.Equal(t, "sidecar", cfg.Metadata.Backend)
	assert.Equal(t, "./data/meta", cfg.Metadata.Path)
	assert.Equal(t, "mediavault_records", cfg.Metadata.Table)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  port: 9000
  max_upload_size: 1048576
storage:
  path: /var/lib/mediavault/blobs
metadata:
  backend: sqlite
  dsn: /var/lib/mediavault/index.db
log:
  level: debug
`), 0o600))

	cfg, err := config.Load([]string{file}, nil)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, int64(1048576), cfg.Server.MaxUploadSize)
	assert.Equal(t, "/var/lib/mediavault/blobs", cfg.Storage.Path)
	assert.Equal(t, "sqlite", cfg.Metadata.Backend)
	assert.Equal(t, "/var/lib/mediavault/index.db", cfg.Metadata.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, "mediavault_records", cfg.Metadata.Table)
}

func TestLoad_LaterFilesOverride(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.yaml")
	require.NoError(t, os.WriteFile(base, []byte("server:\n  port: 9000\nlog:\n  level: warn\n"), 0o600))

	override := filepath.Join(dir, "override.yaml")
	require.NoError(t, os.WriteFile(override, []byte("server:\n  port: 9001\n"), 0o600))

	cfg, err := config.Load([]string{base, override}, nil)
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_FlagsTakePrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  port: 9000\n"), 0o600))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("metadata-backend", "", "")
	require.NoError(t, flags.Parse([]string{"--port=7000", "--metadata-backend=sqlite"}))

	cfg, err := config.Load([]string{file}, flags)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Metadata.Backend)
}

func TestLoad_UnchangedFlagsAreIgnored(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 1234, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := config.Load(nil, flags)
	require.NoError(t, err)

	// The flag default must not override the config default.
	assert.Equal(t, 5809, cfg.Server.Port)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "port out of range", yaml: "server:\n  port: 70000\n"},
		{name: "bad log level", yaml: "log:\n  level: loud\n"},
		{name: "bad metadata backend", yaml: "metadata:\n  backend: etcd\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(file, []byte(tc.yaml), 0o600))

			_, err := config.Load([]string{file}, nil)
			assert.Error(t, err)
		})
	}
}

func TestContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		cfg := &config.Config{}
		ctx := config.WithContext(context.Background(), cfg)

		got, err := config.FromContext(ctx)
		assert.NoError(t, err)
		assert.Same(t, cfg, got)
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := config.FromContext(context.Background())
		assert.Error(t, err)
	})
}
