package identity

import (
	"context"
	"log/slog"

	"identity-console/internal/claimtype"
	"identity-console/internal/domain"
	"identity-console/internal/reconcile"
	"identity-console/internal/tabular"
)

// RoleService provides role management operations.
type RoleService struct {
	roles  domain.RoleRepository
	reader domain.RoleRepository
	audit  domain.AuditRepository
	claims *claimtype.Registry
	match  domain.FilterMode
	logger *slog.Logger
}

// NewRoleService creates a new RoleService.
func NewRoleService(
	roles domain.RoleRepository,
	audit domain.AuditRepository,
	claims *claimtype.Registry,
	match domain.FilterMode,
	logger *slog.Logger,
) *RoleService {
	return &RoleService{
		roles:  roles,
		reader: roles,
		audit:  audit,
		claims: claims,
		match:  match,
		logger: logger.With("component", "role-service"),
	}
}

// WithReader serves List, Names and Get from r, usually a repository on the
// read pool.
func (s *RoleService) WithReader(r domain.RoleRepository) *RoleService {
	s.reader = r
	return s
}

// List returns one page of the role table.
func (s *RoleService) List(ctx context.Context, req domain.TableRequest) (*domain.TableResult[domain.Role], error) {
	all, err := s.reader.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return tabular.Query(all, RoleFields, roleOptions(s.match), req)
}

// Names maps every role ID to its name.
func (s *RoleService) Names(ctx context.Context) (map[string]string, error) {
	all, err := s.reader.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(all))
	for _, r := range all {
		out[r.ID] = r.Name
	}
	return out, nil
}

// Get returns a role by ID with claims populated.
func (s *RoleService) Get(ctx context.Context, id string) (*domain.Role, error) {
	return s.reader.GetByID(ctx, id)
}

// Create persists a new role.
func (s *RoleService) Create(ctx context.Context, req domain.CreateRoleRequest) (*domain.Role, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r, err := s.roles.Create(ctx, &domain.Role{Name: req.Name})
	if err != nil {
		s.logger.Error("create role failed", "role", req.Name, "error", err)
		logAudit(ctx, s.audit, s.logger, ActionCreateRole, req.Name, err)
		return nil, err
	}
	s.logger.Info("created role", "role", r.Name, "id", r.ID)
	logAudit(ctx, s.audit, s.logger, ActionCreateRole, r.ID, nil)
	return r, nil
}

// Update renames the role and reconciles its claims toward the requested
// set. Unknown claim types are rejected before anything is written.
func (s *RoleService) Update(ctx context.Context, req domain.UpdateRoleRequest) error {
	err := s.update(ctx, req)
	if err != nil {
		s.logger.Error("update role failed", "id", req.ID, "error", err)
	} else {
		s.logger.Info("updated role", "id", req.ID)
	}
	logAudit(ctx, s.audit, s.logger, ActionUpdateRole, req.ID, err)
	return err
}

func (s *RoleService) update(ctx context.Context, req domain.UpdateRoleRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	r, err := s.roles.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	delta, err := reconcile.Claims(s.claims, req.Claims, r.Claims)
	if err != nil {
		return err
	}

	if r.Name != req.Name {
		r.Name = req.Name
		if err := s.roles.Update(ctx, r); err != nil {
			return err
		}
	}
	return reconcile.Apply(ctx, delta,
		func(ctx context.Context, k domain.ClaimKey) error { return s.roles.AddClaim(ctx, r.ID, domain.Claim(k)) },
		func(ctx context.Context, k domain.ClaimKey) error { return s.roles.RemoveClaim(ctx, r.ID, domain.Claim(k)) },
	)
}

// Delete removes a role by ID. Memberships and claims go with it.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	err := s.roles.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete role failed", "id", id, "error", err)
	} else {
		s.logger.Info("deleted role", "id", id)
	}
	logAudit(ctx, s.audit, s.logger, ActionDeleteRole, id, err)
	return err
}
