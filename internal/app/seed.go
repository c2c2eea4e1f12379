package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"identity-console/internal/domain"
)

// AdministratorsRole is the role created on first start.
const AdministratorsRole = "Administrators"

// SeedOptions configures the bootstrap administrator.
type SeedOptions struct {
	AdminUser     string
	AdminPassword string
}

// Seed creates the Administrators role and, when credentials are given and
// the store has no users yet, an administrator account in that role.
// Idempotent.
func Seed(ctx context.Context, users domain.UserRepository, roles domain.RoleRepository, opts SeedOptions, logger *slog.Logger) error {
	if _, err := roles.GetByName(ctx, AdministratorsRole); err != nil {
		var notFound *domain.NotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("lookup %s role: %w", AdministratorsRole, err)
		}
		if _, err := roles.Create(ctx, &domain.Role{Name: AdministratorsRole}); err != nil {
			return fmt.Errorf("create %s role: %w", AdministratorsRole, err)
		}
		logger.Info("seeded role", "role", AdministratorsRole)
	}

	if opts.AdminUser == "" || opts.AdminPassword == "" {
		return nil
	}

	existing, err := users.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(existing) > 0 {
		return nil // already bootstrapped
	}

	admin, err := users.Create(ctx, &domain.User{UserName: opts.AdminUser, EmailConfirmed: true}, opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	if err := users.AddToRole(ctx, admin.ID, AdministratorsRole); err != nil {
		return fmt.Errorf("add admin to %s: %w", AdministratorsRole, err)
	}
	logger.Info("seeded administrator", "user", opts.AdminUser)
	return nil
}
