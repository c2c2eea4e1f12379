// Package api provides the HTTP handlers of the identity console REST API.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"identity-console/internal/claimtype"
	"identity-console/internal/domain"
)

// UserService is the account surface the handlers need.
type UserService interface {
	List(ctx context.Context, req domain.TableRequest) (*domain.TableResult[domain.User], error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	Update(ctx context.Context, req domain.UpdateUserRequest) error
	Delete(ctx context.Context, id string) error
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
}

// RoleService is the role surface the handlers need.
type RoleService interface {
	List(ctx context.Context, req domain.TableRequest) (*domain.TableResult[domain.Role], error)
	Names(ctx context.Context) (map[string]string, error)
	Get(ctx context.Context, id string) (*domain.Role, error)
	Create(ctx context.Context, req domain.CreateRoleRequest) (*domain.Role, error)
	Update(ctx context.Context, req domain.UpdateRoleRequest) error
	Delete(ctx context.Context, id string) error
}

// AuditService lists recorded mutations.
type AuditService interface {
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error)
}

// Handler serves the /api routes.
type Handler struct {
	users  UserService
	roles  RoleService
	audit  AuditService
	claims *claimtype.Registry
	logger *slog.Logger
}

// NewHandler creates a new Handler with all required service dependencies.
func NewHandler(users UserService, roles RoleService, audit AuditService, claims *claimtype.Registry, logger *slog.Logger) *Handler {
	return &Handler{
		users:  users,
		roles:  roles,
		audit:  audit,
		claims: claims,
		logger: logger.With("component", "api"),
	}
}

// Routes mounts the API on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.listUsers)
		r.Post("/", h.createUser)
		r.Get("/{id}", h.getUser)
		r.Put("/{id}", h.updateUser)
		r.Delete("/{id}", h.deleteUser)
		r.Post("/{id}/password", h.resetPassword)
	})
	r.Route("/roles", func(r chi.Router) {
		r.Get("/", h.listRoles)
		r.Post("/", h.createRole)
		r.Get("/names", h.roleNames)
		r.Get("/{id}", h.getRole)
		r.Put("/{id}", h.updateRole)
		r.Delete("/{id}", h.deleteRole)
	})
	r.Get("/claim-types", h.claimTypes)
	r.Get("/audit", h.listAudit)
}

func (h *Handler) claimTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.claims.SymbolicNames())
}
