package app

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity-console/internal/config"
	internaldb "identity-console/internal/db"
	"identity-console/internal/domain"
	"identity-console/internal/middleware"
)

func TestNewValidator(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		v, err := NewValidator(ctx, config.AuthConfig{Disabled: true, JWTSecret: "ignored"})
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("shared secret", func(t *testing.T) {
		v, err := NewValidator(ctx, config.AuthConfig{JWTSecret: "s3cret"})
		require.NoError(t, err)
		assert.IsType(t, &middleware.HS256Validator{}, v)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := NewValidator(ctx, config.AuthConfig{})
		require.Error(t, err)
	})
}

func TestNew_WiresServices(t *testing.T) {
	ctx := context.Background()
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	cfg := &config.Config{
		BcryptCost:             4,
		FilterMode:             domain.FilterMatchAny,
		Auth:                   config.AuthConfig{JWTSecret: "s3cret"},
		BootstrapAdminUser:     "admin",
		BootstrapAdminPassword: "changeme",
	}

	a, err := New(ctx, Deps{Cfg: cfg, WriteDB: writeDB, ReadDB: readDB, Logger: discardLogger()})
	require.NoError(t, err)
	require.NotNil(t, a.Handler)
	require.NotNil(t, a.Validator)

	res, err := a.Services.User.List(ctx, domain.TableRequest{Length: 10})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "admin", res.Data[0].UserName)
	assert.Equal(t, []string{AdministratorsRole}, res.Data[0].Roles)

	names, err := a.Services.Role.Names(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 1)
}

func TestNew_HandlerLogsComponentOnce(t *testing.T) {
	ctx := context.Background()
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	cfg := &config.Config{
		BcryptCost: 4,
		FilterMode: domain.FilterMatchAny,
		Auth:       config.AuthConfig{Disabled: true},
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a, err := New(ctx, Deps{Cfg: cfg, WriteDB: writeDB, ReadDB: readDB, Logger: logger})
	require.NoError(t, err)

	r := chi.NewRouter()
	a.Handler.Routes(r)
	buf.Reset()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	line := strings.TrimSpace(buf.String())
	require.Contains(t, line, "request rejected")
	assert.Equal(t, 1, strings.Count(line, `"component":"api"`))
}
