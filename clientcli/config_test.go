package clientcli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediavault/mediavault/clientcli"
)

func TestConfigFile_GetProfile(t *testing.T) {
	cfg := &clientcli.ConfigFile{
		Profiles: []clientcli.Profile{
			{Name: "dev", Endpoint: "http://localhost:5809", Owner: "alice"},
			{Name: "prod", Endpoint: "https://vault.example.com", Owner: "alice", Default: true},
		},
	}

	t.Run("by name", func(t *testing.T) {
		p, err := cfg.GetProfile("dev")
		assert.NoError(t, err)
		assert.Equal(t, "dev", p.Name)
	})

	t.Run("empty name returns the default", func(t *testing.T) {
		p, err := cfg.GetProfile("")
		assert.NoError(t, err)
		assert.Equal(t, "prod", p.Name)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := cfg.GetProfile("staging")
		assert.ErrorIs(t, err, clientcli.ErrProfileNotFound)
	})

	t.Run("no profiles", func(t *testing.T) {
		empty := &clientcli.ConfigFile{}
		_, err := empty.GetProfile("dev")
		assert.ErrorIs(t, err, clientcli.ErrNoProfiles)
	})
}

func TestConfigFile_GetDefaultProfile(t *testing.T) {
	t.Run("falls back to the first profile", func(t *testing.T) {
		cfg := &clientcli.ConfigFile{
			Profiles: []clientcli.Profile{
				{Name: "a"},
				{Name: "b"},
			},
		}

		p, err := cfg.GetDefaultProfile()
		assert.NoError(t, err)
		assert.Equal(t, "a", p.Name)
	})
}

func TestConfigFile_AddUpdateRemove(t *testing.T) {
	cfg := &clientcli.ConfigFile{}

	require.NoError(t, cfg.AddProfile(clientcli.Profile{Name: "dev"}))
	assert.ErrorIs(t, cfg.AddProfile(clientcli.Profile{Name: "dev"}), clientcli.ErrProfileExists)

	require.NoError(t, cfg.UpdateProfile(clientcli.Profile{Name: "dev", Owner: "bob"}))
	p, err := cfg.GetProfile("dev")
	require.NoError(t, err)
	assert.Equal(t, "bob", p.Owner)

	assert.ErrorIs(t, cfg.UpdateProfile(clientcli.Profile{Name: "ghost"}), clientcli.ErrProfileNotFound)

	require.NoError(t, cfg.RemoveProfile("dev"))
	assert.ErrorIs(t, cfg.RemoveProfile("dev"), clientcli.ErrProfileNotFound)
}

func TestConfigFile_SetDefault(t *testing.T) {
	cfg := &clientcli.ConfigFile{
		Profiles: []clientcli.Profile{
			{Name: "a", Default: true},
			{Name: "b"},
		},
	}

	require.NoError(t, cfg.SetDefault("b"))
	assert.False(t, cfg.Profiles[0].Default)
	assert.True(t, cfg.Profiles[1].Default)

	assert.ErrorIs(t, cfg.SetDefault("ghost"), clientcli.ErrProfileNotFound)
}

func TestConfigFile_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := &clientcli.ConfigFile{
		Profiles: []clientcli.Profile{
			{Name: "dev", Endpoint: "http://localhost:5809", Owner: "alice", Default: true},
		},
	}

	require.NoError(t, cfg.Save(path))

	// Config may hold owner identities; keep it private.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := clientcli.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Profiles, loaded.Profiles)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := clientcli.LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMergeConfig(t *testing.T) {
	merged := clientcli.MergeConfig(
		&clientcli.Config{Endpoint: "http://a", Owner: "alice"},
		nil,
		&clientcli.Config{Endpoint: "http://b"},
		&clientcli.Config{Owner: "bob"},
	)

	assert.Equal(t, "http://b", merged.Endpoint)
	assert.Equal(t, "bob", merged.Owner)
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := (&clientcli.Config{}).WithDefaults()
	assert.Equal(t, clientcli.DefaultEndpoint, cfg.Endpoint)

	cfg = (&clientcli.Config{Endpoint: "http://custom"}).WithDefaults()
	assert.Equal(t, "http://custom", cfg.Endpoint)
}
