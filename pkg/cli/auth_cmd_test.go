package cli

import (
	"io"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity-console/internal/middleware"
)

func TestAuthTokenCmd(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantSub      string
		wantAudience string
		wantErr      bool
		errContain   string
	}{
		{
			name:    "basic token",
			args:    []string{"--subject", "alice", "--secret", "test-secret"},
			wantSub: "alice",
		},
		{
			name:         "audience",
			args:         []string{"--subject", "bob", "--secret", "test-secret", "--audience", "identity-console"},
			wantSub:      "bob",
			wantAudience: "identity-console",
		},
		{
			name:    "custom expiry",
			args:    []string{"--subject", "carol", "--secret", "test-secret", "--expires", "48h"},
			wantSub: "carol",
		},
		{
			name:       "missing subject",
			args:       []string{"--secret", "test-secret"},
			wantErr:    true,
			errContain: "required",
		},
		{
			name:       "missing secret",
			args:       []string{"--subject", "alice"},
			wantErr:    true,
			errContain: "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Setenv(ConfigEnvVar, "")

			cmd := newAuthTokenCmd()
			cmd.SetOut(io.Discard)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContain != "" {
					assert.Contains(t, err.Error(), tt.errContain)
				}
				return
			}
			require.NoError(t, err)

			// Load the saved config and verify the token was persisted
			cfg, err := LoadUserConfig()
			require.NoError(t, err)
			p, ok := cfg.Profiles["default"]
			require.True(t, ok, "default profile should exist")
			require.NotEmpty(t, p.Token)

			// The server-side validator must accept what the CLI signs.
			v, err := middleware.NewHS256Validator("test-secret", tt.wantAudience)
			require.NoError(t, err)
			claims, err := v.Validate(t.Context(), p.Token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSub, claims.Subject)
		})
	}
}

func TestAuthTokenCmd_SaveToExistingProfile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(ConfigEnvVar, "")

	// Create an existing config with a profile
	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "dev",
		Profiles: map[string]Profile{
			"dev": {Host: "http://localhost:8080", Output: "json"},
		},
	}))

	// Generate a token; it is saved to the "dev" profile
	cmd := newAuthTokenCmd()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"--subject", "admin", "--secret", "my-secret"})
	require.NoError(t, cmd.Execute())

	// Reload and verify the token was saved without clobbering other fields
	loaded, err := LoadUserConfig()
	require.NoError(t, err)

	p := loaded.Profiles["dev"]
	assert.Equal(t, "http://localhost:8080", p.Host, "host should be preserved")
	assert.Equal(t, "json", p.Output, "output should be preserved")
	assert.NotEmpty(t, p.Token, "token should be set")

	parsed, err := jwt.Parse(p.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("my-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin", claims["sub"])
}
