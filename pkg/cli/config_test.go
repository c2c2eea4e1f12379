package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserConfig_ActiveProfile(t *testing.T) {
	cfg := &UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {
				Host:   "http://localhost:8080",
				Output: "table",
			},
			"staging": {
				Host:   "https://staging.example.com",
				Output: "json",
			},
		},
	}

	tests := []struct {
		name     string
		override string
		wantHost string
		wantErr  string
	}{
		{
			name:     "uses current profile",
			override: "",
			wantHost: "http://localhost:8080",
		},
		{
			name:     "override to staging",
			override: "staging",
			wantHost: "https://staging.example.com",
		},
		{
			name:     "nonexistent profile returns empty",
			override: "nonexistent",
			wantHost: "",
			wantErr:  `profile "nonexistent" not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := cfg.ActiveProfile(tt.override)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, p.Host)
		})
	}
}

func TestLoadSaveUserConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(ConfigEnvVar, "")

	cfg := &UserConfig{
		CurrentProfile: "test",
		Profiles: map[string]Profile{
			"test": {Host: "http://test:8080", Token: "tok"},
		},
	}
	require.NoError(t, SaveUserConfig(cfg))

	configPath := filepath.Join(dir, ".idm", "config.yaml")
	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", loaded.CurrentProfile)
	require.Contains(t, loaded.Profiles, "test")
	assert.Equal(t, "http://test:8080", loaded.Profiles["test"].Host)
	assert.Equal(t, "tok", loaded.Profiles["test"].Token)

	// Overwrite leaves no temp files behind.
	cfg.Profiles["test"] = Profile{Host: "http://other:8080"}
	require.NoError(t, SaveUserConfig(cfg))
	entries, err := os.ReadDir(filepath.Dir(configPath))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestConfigPath_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "idm.yaml")
	t.Setenv(ConfigEnvVar, path)
	assert.Equal(t, path, ConfigPath())

	require.NoError(t, SaveUserConfig(&UserConfig{CurrentProfile: "ci"}))
	loaded, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "ci", loaded.CurrentProfile)
	assert.NotNil(t, loaded.Profiles)
}

func TestLoadOrNewUserConfig(t *testing.T) {
	t.Run("missing file gives default profile", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, filepath.Join(t.TempDir(), "config.yaml"))

		cfg, err := loadOrNewUserConfig()
		require.NoError(t, err)
		assert.Equal(t, "default", cfg.CurrentProfile)
		assert.Empty(t, cfg.Profiles)

		_, err = LoadUserConfig()
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("profiles: [not, a, map"), 0o600))
		t.Setenv(ConfigEnvVar, path)

		_, err := loadOrNewUserConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("blank current profile becomes default", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("profiles:\n  default:\n    host: http://h:1\n"), 0o600))
		t.Setenv(ConfigEnvVar, path)

		cfg, err := loadOrNewUserConfig()
		require.NoError(t, err)
		p, err := cfg.ActiveProfile("")
		require.NoError(t, err)
		assert.Equal(t, "http://h:1", p.Host)
	})
}

func TestUserConfig_ActiveProfile_MissingCurrent(t *testing.T) {
	cfg := &UserConfig{CurrentProfile: "gone", Profiles: map[string]Profile{}}

	p, err := cfg.ActiveProfile("")
	require.NoError(t, err)
	assert.Equal(t, Profile{}, p)
}
