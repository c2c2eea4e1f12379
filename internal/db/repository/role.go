package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"identity-console/internal/domain"
)

// RoleRepo implements domain.RoleRepository using SQLite.
type RoleRepo struct {
	db     *sql.DB
	claims claimTable
}

// NewRoleRepo creates a new RoleRepo.
func NewRoleRepo(db *sql.DB) *RoleRepo {
	return &RoleRepo{
		db:     db,
		claims: claimTable{db: db, table: "role_claims", ownerCol: "role_id"},
	}
}

func (r *RoleRepo) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	if role.ID == "" {
		role.ID = domain.NewID()
	}
	if role.CreatedAt.IsZero() {
		role.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO roles (id, name, created_at) VALUES (?, ?, ?)`,
		role.ID, role.Name, role.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict("role name %q is already taken", role.Name)
		}
		return nil, mapDBError("create role", err)
	}
	return r.GetByID(ctx, role.ID)
}

func (r *RoleRepo) get(ctx context.Context, where string, arg any) (*domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM roles WHERE `+where+` = ?`, arg).
		Scan(&role.ID, &role.Name, &role.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("role %q not found", arg)
	}
	if err != nil {
		return nil, mapDBError("get role", err)
	}
	if role.Claims, err = r.claims.list(ctx, role.ID); err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByID returns the role with claims populated.
func (r *RoleRepo) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.get(ctx, "id", id)
}

// GetByName looks a role up by name (case-insensitive).
func (r *RoleRepo) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.get(ctx, "name", name)
}

func (r *RoleRepo) ListAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, mapDBError("list roles", err)
	}
	defer rows.Close() //nolint:errcheck

	roles := []domain.Role{}
	index := make(map[string]int)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
			return nil, mapDBError("scan role", err)
		}
		index[role.ID] = len(roles)
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("list roles", err)
	}

	claims, err := r.claims.listAll(ctx)
	if err != nil {
		return nil, err
	}
	for owner, cs := range claims {
		if i, ok := index[owner]; ok {
			roles[i].Claims = cs
		}
	}
	return roles, nil
}

// Update renames the role.
func (r *RoleRepo) Update(ctx context.Context, role *domain.Role) error {
	res, err := r.db.ExecContext(ctx, `UPDATE roles SET name = ? WHERE id = ?`, role.Name, role.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict("role name %q is already taken", role.Name)
		}
		return mapDBError("update role", err)
	}
	return requireAffected(res, "update role", domain.ErrNotFound("role %q not found", role.ID))
}

// Delete removes the role; memberships and claims cascade.
func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id)
	if err != nil {
		return mapDBError("delete role", err)
	}
	return requireAffected(res, "delete role", domain.ErrNotFound("role %q not found", id))
}

func (r *RoleRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&n); err != nil {
		return 0, mapDBError("count roles", err)
	}
	return n, nil
}

func (r *RoleRepo) Claims(ctx context.Context, roleID string) ([]domain.Claim, error) {
	return r.claims.list(ctx, roleID)
}

func (r *RoleRepo) AddClaim(ctx context.Context, roleID string, c domain.Claim) error {
	return r.claims.add(ctx, roleID, c)
}

func (r *RoleRepo) RemoveClaim(ctx context.Context, roleID string, c domain.Claim) error {
	return r.claims.remove(ctx, roleID, c)
}
