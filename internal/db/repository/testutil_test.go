package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	internaldb "identity-console/internal/db"
	"identity-console/internal/domain"
)

func testHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.MinCost, MinLength: DefaultMinPasswordLength}
}

func setupRepos(t *testing.T) (*UserRepo, *RoleRepo) {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewUserRepo(writeDB, testHasher()), NewRoleRepo(writeDB)
}

func createUser(t *testing.T, repo *UserRepo, name string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{UserName: name, Email: name + "@example.com"}, "secret123")
	require.NoError(t, err)
	return u
}

func createRole(t *testing.T, repo *RoleRepo, name string) *domain.Role {
	t.Helper()
	r, err := repo.Create(context.Background(), &domain.Role{Name: name})
	require.NoError(t, err)
	return r
}
