package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity-console/internal/app"
	"identity-console/internal/config"
	internaldb "identity-console/internal/db"
	"identity-console/internal/domain"
	"identity-console/internal/middleware"
	"identity-console/pkg/cli/client"
)

// startServer runs the console API on an httptest server backed by a fresh
// SQLite store, with authentication disabled.
func startServer(t *testing.T) string {
	t.Helper()
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	a, err := app.New(context.Background(), app.Deps{
		Cfg: &config.Config{
			BcryptCost: 4,
			FilterMode: domain.FilterMatchAny,
			Auth:       config.AuthConfig{Disabled: true},
		},
		WriteDB: writeDB,
		ReadDB:  readDB,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(a.Validator))
		a.Handler.Routes(r)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

type cliEnv struct {
	t    *testing.T
	host string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(ConfigEnvVar, "")
	t.Setenv("IDM_HOST", "")
	t.Setenv("IDM_TOKEN", "")
	t.Setenv("IDM_OUTPUT", "")
	return &cliEnv{t: t, host: startServer(t)}
}

// run executes idmctl with stdin and returns stdout.
func (e *cliEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	var out, errOut bytes.Buffer
	rootCmd := newRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--host", e.host}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (e *cliEnv) mustRun(stdin string, args ...string) string {
	e.t.Helper()
	out, err := e.run(stdin, args...)
	require.NoError(e.t, err, "idmctl %v", args)
	return out
}

func (e *cliEnv) userID(userName string) string {
	e.t.Helper()
	out := e.mustRun("", "users", "list", "--search", userName, "-o", "json")
	var page client.TableResponse
	require.NoError(e.t, json.Unmarshal([]byte(out), &page))
	for _, item := range page.Data {
		obj := item.(map[string]interface{})
		if obj["userName"] == userName {
			return obj["id"].(string)
		}
	}
	e.t.Fatalf("user %q not listed", userName)
	return ""
}

func TestCLI_UserLifecycle(t *testing.T) {
	e := newCLIEnv(t)

	out := e.mustRun("s3cret!\n", "users", "create", "--user-name", "alice", "--name", "Alice Smith", "--email", "alice@example.com")
	assert.Contains(t, out, `User "alice" created`)

	out = e.mustRun("", "users", "list")
	assert.Contains(t, out, "USERNAME")
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "Alice Smith")

	id := e.userID("alice")
	e.mustRun("", "users", "update", id, "--add-role", "administrators", "--add-claim", "Email=alice@corp.example.com", "--locked")

	out = e.mustRun("", "users", "get", id, "-o", "json")
	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Equal(t, []interface{}{app.AdministratorsRole}, detail["roles"])
	assert.Equal(t, "Yes", detail["lockedOut"])
	assert.Len(t, detail["claims"], 2)

	e.mustRun("", "users", "update", id, "--clear-roles", "--remove-claim", "Name=Alice Smith", "--locked=false")
	out = e.mustRun("", "users", "get", id)
	assert.Contains(t, out, "alice@corp.example.com")
	assert.NotContains(t, out, "Alice Smith")
	assert.NotContains(t, out, app.AdministratorsRole)

	_, err := e.run("new-pass\nother-pass\n", "users", "reset-password", id)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.HTTPStatus)
	assert.Contains(t, apiErr.Message, "Passwords entered do not match.")

	e.mustRun("new-pass\nnew-pass\n", "users", "reset-password", id)

	_, err = e.run("", "users", "delete", id)
	require.Error(t, err, "delete requires --yes")
	e.mustRun("", "users", "delete", id, "--yes")

	_, err = e.run("", "users", "get", id)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.HTTPStatus)
}

func TestCLI_UserListPaging(t *testing.T) {
	e := newCLIEnv(t)
	for _, name := range []string{"carol", "alice", "bob"} {
		e.mustRun("secret123\n", "users", "create", "--user-name", name, "-q")
	}

	out := e.mustRun("", "users", "list", "--sort", "userName", "--length", "2", "-q")
	assert.Equal(t, 2, len(strings.Fields(out)))

	out = e.mustRun("", "users", "list", "--sort", "userName", "--desc", "--length", "1", "--all", "-o", "json")
	var page client.TableResponse
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Data, 3)
	assert.Equal(t, "carol", page.Data[0].(map[string]interface{})["userName"])
	assert.Equal(t, "alice", page.Data[2].(map[string]interface{})["userName"])

	_, err := e.run("", "users", "list", "--sort", "nope")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.HTTPStatus)
}

func TestCLI_Roles(t *testing.T) {
	e := newCLIEnv(t)

	e.mustRun("", "roles", "create", "Auditors")
	out := e.mustRun("", "roles", "names")
	assert.Contains(t, out, "Auditors")
	assert.Contains(t, out, app.AdministratorsRole)

	var names map[string]string
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("", "roles", "names", "-o", "json")), &names))
	var id string
	for k, v := range names {
		if v == "Auditors" {
			id = k
		}
	}
	require.NotEmpty(t, id)

	e.mustRun("", "roles", "update", id, "--name", "Reviewers", "--add-claim", "Role=review")
	out = e.mustRun("", "roles", "get", id)
	assert.Contains(t, out, "Reviewers")
	assert.Contains(t, out, "review")

	_, err := e.run("", "roles", "update", id, "--add-claim", "NotAClaim=x")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.HTTPStatus)

	e.mustRun("", "roles", "delete", id, "-y")
	out = e.mustRun("", "roles", "list", "-q")
	assert.NotContains(t, out, id)
}

func TestCLI_ClaimTypesAndAudit(t *testing.T) {
	e := newCLIEnv(t)

	out := e.mustRun("", "claim-types")
	assert.Contains(t, out, "Name\n")
	assert.Contains(t, out, "Role\n")

	e.mustRun("", "roles", "create", "Ops")
	e.mustRun("secret123\n", "users", "create", "--user-name", "dave")

	out = e.mustRun("", "audit", "list", "--all", "--max-results", "1", "-o", "json")
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "CREATE_USER", resp.Data[0]["action"])
	assert.Equal(t, middleware.AnonymousCaller, resp.Data[0]["actor"])

	out = e.mustRun("", "audit", "list", "--action", "CREATE_ROLE")
	assert.Contains(t, out, "CREATE_ROLE")
	assert.NotContains(t, out, "CREATE_USER")
}

func TestCLI_RejectsBadOutputAndHost(t *testing.T) {
	e := newCLIEnv(t)

	_, err := e.run("", "claim-types", "-o", "yaml")
	require.Error(t, err)

	var out bytes.Buffer
	rootCmd := newRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--host", "localhost:8080", "claim-types"})
	require.Error(t, rootCmd.Execute())
}

func TestVersionCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(ConfigEnvVar, "")

	out, err := runRoot(t, "version", "-o", "json")
	require.NoError(t, err)
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "dev", v["version"])
}
