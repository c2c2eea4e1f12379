// Package identity implements user and role management on top of the table
// query and reconciliation engines.
package identity

import (
	"context"
	"log/slog"

	"identity-console/internal/claimtype"
	"identity-console/internal/domain"
	"identity-console/internal/reconcile"
	"identity-console/internal/tabular"
)

// UserService provides account management operations.
type UserService struct {
	users  domain.UserRepository
	reader domain.UserRepository
	roles  domain.RoleRepository
	audit  domain.AuditRepository
	claims *claimtype.Registry
	match  domain.FilterMode
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	users domain.UserRepository,
	roles domain.RoleRepository,
	audit domain.AuditRepository,
	claims *claimtype.Registry,
	match domain.FilterMode,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:  users,
		reader: users,
		roles:  roles,
		audit:  audit,
		claims: claims,
		match:  match,
		logger: logger.With("component", "user-service"),
	}
}

// WithReader serves List and Get from r, usually a repository on the read
// pool. Mutations, including the read half of Update, stay on the primary.
func (s *UserService) WithReader(r domain.UserRepository) *UserService {
	s.reader = r
	return s
}

// List returns one page of the user table.
func (s *UserService) List(ctx context.Context, req domain.TableRequest) (*domain.TableResult[domain.User], error) {
	all, err := s.reader.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return tabular.Query(all, UserFields, userOptions(s.match), req)
}

// Get returns a user by ID with roles and claims populated.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.reader.GetByID(ctx, id)
}

// Create persists a new user. A non-empty Name is stored as a Name claim.
func (s *UserService) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, &domain.User{UserName: req.UserName, Email: req.Email}, req.Password)
	if err != nil {
		s.logger.Error("create user failed", "user", req.UserName, "error", err)
		logAudit(ctx, s.audit, s.logger, ActionCreateUser, req.UserName, err)
		return nil, err
	}
	if req.Name != "" {
		name := domain.Claim{Type: domain.NameClaimType, Value: req.Name}
		if err := s.users.AddClaim(ctx, u.ID, name); err != nil {
			err = &reconcile.PartialError{Op: "add", Key: name.Key().String(), Applied: 1, Pending: 1, Err: err}
			s.logger.Error("create user failed", "user", req.UserName, "id", u.ID, "error", err)
			logAudit(ctx, s.audit, s.logger, ActionCreateUser, u.ID, err)
			return nil, err
		}
		u.Claims = append(u.Claims, name)
	}
	s.logger.Info("created user", "user", u.UserName, "id", u.ID)
	logAudit(ctx, s.audit, s.logger, ActionCreateUser, u.ID, nil)
	return u, nil
}

// Update writes the user's scalar fields and reconciles its role and claim
// sets toward the requested ones. Unknown claim types and unknown role names
// are rejected before anything is written. Reconciliation is not
// transactional; a failure part way returns *reconcile.PartialError.
func (s *UserService) Update(ctx context.Context, req domain.UpdateUserRequest) error {
	err := s.update(ctx, req)
	if err != nil {
		s.logger.Error("update user failed", "id", req.ID, "error", err)
	} else {
		s.logger.Info("updated user", "id", req.ID)
	}
	logAudit(ctx, s.audit, s.logger, ActionUpdateUser, req.ID, err)
	return err
}

func (s *UserService) update(ctx context.Context, req domain.UpdateUserRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	claimDelta, err := reconcile.Claims(s.claims, req.Claims, u.Claims)
	if err != nil {
		return err
	}
	desiredRoles, err := s.canonicalRoleNames(ctx, req.Roles)
	if err != nil {
		return err
	}
	roleDelta := reconcile.Roles(desiredRoles, u.Roles)

	u.Email = req.Email
	u.LockoutEnd = nil
	if req.Locked {
		end := domain.LockoutForever
		u.LockoutEnd = &end
	}
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	if err := reconcile.Apply(ctx, roleDelta,
		func(ctx context.Context, role string) error { return s.users.AddToRole(ctx, u.ID, role) },
		func(ctx context.Context, role string) error { return s.users.RemoveFromRole(ctx, u.ID, role) },
	); err != nil {
		return err
	}
	return reconcile.Apply(ctx, claimDelta,
		func(ctx context.Context, k domain.ClaimKey) error { return s.users.AddClaim(ctx, u.ID, domain.Claim(k)) },
		func(ctx context.Context, k domain.ClaimKey) error { return s.users.RemoveClaim(ctx, u.ID, domain.Claim(k)) },
	)
}

// canonicalRoleNames resolves each requested role name to the stored
// spelling. Role names match case-insensitively in the store.
func (s *UserService) canonicalRoleNames(ctx context.Context, names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, name := range names {
		r, err := s.roles.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, r.Name)
	}
	return out, nil
}

// Delete removes a user by ID.
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.users.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete user failed", "id", id, "error", err)
	} else {
		s.logger.Info("deleted user", "id", id)
	}
	logAudit(ctx, s.audit, s.logger, ActionDeleteUser, id, err)
	return err
}

// ResetPassword replaces the user's password after checking the confirmation.
func (s *UserService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	err := s.users.SetPassword(ctx, req.ID, req.Password)
	if err != nil {
		s.logger.Error("reset password failed", "id", req.ID, "error", err)
	} else {
		s.logger.Info("reset password", "id", req.ID)
	}
	logAudit(ctx, s.audit, s.logger, ActionResetPassword, req.ID, err)
	return err
}
