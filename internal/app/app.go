// Package app provides application-level wiring and dependency injection
// for the identity console following hexagonal architecture.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"identity-console/internal/api"
	"identity-console/internal/claimtype"
	"identity-console/internal/config"
	"identity-console/internal/db/repository"
	"identity-console/internal/middleware"
	"identity-console/internal/service/identity"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// database handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups the service pointers that the API handler and router need.
type Services struct {
	User  *identity.UserService
	Role  *identity.RoleService
	Audit *identity.AuditService
}

// App holds the fully-wired application: services, the HTTP handler, and
// the bearer token validator for the auth middleware.
type App struct {
	Services  Services
	Handler   *api.Handler
	Validator middleware.JWTValidator // nil when authentication is disabled
}

// New wires all repositories, services, and the handler from the provided deps.
// It also runs bootstrap seeding.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg
	claims := claimtype.Default()

	// === Repositories (write-pool) ===
	hasher := repository.NewBcryptHasher(cfg.BcryptCost)
	userRepo := repository.NewUserRepo(deps.WriteDB, hasher)
	roleRepo := repository.NewRoleRepo(deps.WriteDB)
	auditRepo := repository.NewAuditRepo(deps.WriteDB)

	// === Repositories (read-pool) ===
	userReader := repository.NewUserRepo(deps.ReadDB, hasher)
	roleReader := repository.NewRoleRepo(deps.ReadDB)
	auditReader := repository.NewAuditRepo(deps.ReadDB)

	// === Seed ===
	if err := Seed(ctx, userRepo, roleRepo, SeedOptions{
		AdminUser:     cfg.BootstrapAdminUser,
		AdminPassword: cfg.BootstrapAdminPassword,
	}, deps.Logger); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	// === Services ===
	userSvc := identity.NewUserService(userRepo, roleRepo, auditRepo, claims, cfg.FilterMode, deps.Logger).
		WithReader(userReader)
	roleSvc := identity.NewRoleService(roleRepo, auditRepo, claims, cfg.FilterMode, deps.Logger).
		WithReader(roleReader)
	auditSvc := identity.NewAuditService(auditReader)

	validator, err := NewValidator(ctx, cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	return &App{
		Services: Services{
			User:  userSvc,
			Role:  roleSvc,
			Audit: auditSvc,
		},
		Handler:   api.NewHandler(userSvc, roleSvc, auditSvc, claims, deps.Logger),
		Validator: validator,
	}, nil
}

// NewValidator picks the bearer token validator for the auth configuration:
// OIDC when an issuer is configured, HS256 when a shared secret is set, and
// none when authentication is disabled.
func NewValidator(ctx context.Context, auth config.AuthConfig) (middleware.JWTValidator, error) {
	switch {
	case auth.Disabled:
		return nil, nil
	case auth.OIDCEnabled():
		return middleware.NewOIDCValidator(ctx, middleware.OIDCConfig{
			IssuerURL: auth.IssuerURL,
			Audience:  auth.Audience,
			JWKSURL:   auth.JWKSURL,
		})
	case auth.JWTSecret != "":
		return middleware.NewHS256Validator(auth.JWTSecret, auth.Audience)
	default:
		return nil, fmt.Errorf("no authentication configured: set AUTH_ISSUER_URL, JWT_SECRET or AUTH_DISABLED")
	}
}
