package identity

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"identity-console/internal/claimtype"
	internaldb "identity-console/internal/db"
	"identity-console/internal/db/repository"
	"identity-console/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func adminCtx() context.Context {
	return domain.WithPrincipal(context.Background(), domain.ContextPrincipal{Name: "admin-user"})
}

type testEnv struct {
	readDB    *sql.DB
	userRepo  *repository.UserRepo
	roleRepo  *repository.RoleRepo
	auditRepo *repository.AuditRepo
	users     *UserService
	roles     *RoleService
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	db, readDB := internaldb.OpenTestSQLite(t)
	env := &testEnv{
		readDB:    readDB,
		userRepo:  repository.NewUserRepo(db, &repository.BcryptHasher{Cost: bcrypt.MinCost, MinLength: 6}),
		roleRepo:  repository.NewRoleRepo(db),
		auditRepo: repository.NewAuditRepo(db),
	}
	env.users = NewUserService(env.userRepo, env.roleRepo, env.auditRepo, claimtype.Default(), domain.FilterMatchAny, discardLogger())
	env.roles = NewRoleService(env.roleRepo, env.auditRepo, claimtype.Default(), domain.FilterMatchAny, discardLogger())
	return env
}

// flakyUsers fails the n-th claim mutation (1-based) and passes the rest through.
type flakyUsers struct {
	*repository.UserRepo
	failAt int
	calls  int
	err    error
}

func (f *flakyUsers) step() error {
	f.calls++
	if f.calls == f.failAt {
		return f.err
	}
	return nil
}

func (f *flakyUsers) AddClaim(ctx context.Context, id string, c domain.Claim) error {
	if err := f.step(); err != nil {
		return err
	}
	return f.UserRepo.AddClaim(ctx, id, c)
}

func (f *flakyUsers) RemoveClaim(ctx context.Context, id string, c domain.Claim) error {
	if err := f.step(); err != nil {
		return err
	}
	return f.UserRepo.RemoveClaim(ctx, id, c)
}

// countingReads counts the read calls that reach a repository.
type countingReads struct {
	lists, gets int
}

type countingUsers struct {
	*repository.UserRepo
	*countingReads
}

func (c countingUsers) ListAll(ctx context.Context) ([]domain.User, error) {
	c.lists++
	return c.UserRepo.ListAll(ctx)
}

func (c countingUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	c.gets++
	return c.UserRepo.GetByID(ctx, id)
}

type countingRoles struct {
	*repository.RoleRepo
	*countingReads
}

func (c countingRoles) ListAll(ctx context.Context) ([]domain.Role, error) {
	c.lists++
	return c.RoleRepo.ListAll(ctx)
}

func (c countingRoles) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	c.gets++
	return c.RoleRepo.GetByID(ctx, id)
}
