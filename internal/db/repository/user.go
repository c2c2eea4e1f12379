package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"identity-console/internal/domain"
)

const userColumns = `id, user_name, email, email_confirmed, lockout_end, created_at`

// UserRepo implements domain.UserRepository using SQLite.
type UserRepo struct {
	db     *sql.DB
	hasher PasswordHasher
	claims claimTable
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB, hasher PasswordHasher) *UserRepo {
	return &UserRepo{
		db:     db,
		hasher: hasher,
		claims: claimTable{db: db, table: "user_claims", ownerCol: "user_id"},
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		confirmed int64
		lockout   sql.NullTime
	)
	if err := s.Scan(&u.ID, &u.UserName, &u.Email, &confirmed, &lockout, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.EmailConfirmed = confirmed != 0
	u.LockoutEnd = timePtr(lockout)
	return &u, nil
}

// Create hashes password and inserts the user. ID and CreatedAt are assigned
// when empty.
func (r *UserRepo) Create(ctx context.Context, u *domain.User, password string) (*domain.User, error) {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	if u.ID == "" {
		u.ID = domain.NewID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, user_name, email, email_confirmed, password_hash, lockout_end, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.UserName, u.Email, boolToInt(u.EmailConfirmed), hash, nullTime(u.LockoutEnd), u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict("user name %q is already taken", u.UserName)
		}
		return nil, mapDBError("create user", err)
	}
	return r.GetByID(ctx, u.ID)
}

// GetByID returns the user with roles and claims populated.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("user %q not found", id)
	}
	if err != nil {
		return nil, mapDBError("get user", err)
	}
	if u.Roles, err = r.RoleNames(ctx, id); err != nil {
		return nil, err
	}
	if u.Claims, err = r.claims.list(ctx, id); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByUserName looks a user up by login name (case-insensitive).
func (r *UserRepo) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_name = ?`, userName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("user %q not found", userName)
	}
	if err != nil {
		return nil, mapDBError("get user", err)
	}
	return u, nil
}

// ListAll materializes every user with roles and claims. Associations are
// loaded with one query each and stitched in memory.
func (r *UserRepo) ListAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, mapDBError("list users", err)
	}
	defer rows.Close() //nolint:errcheck

	users := []domain.User{}
	index := make(map[string]int)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapDBError("scan user", err)
		}
		index[u.ID] = len(users)
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("list users", err)
	}

	memberships, err := r.db.QueryContext(ctx,
		`SELECT ur.user_id, r.name FROM user_roles ur
		 JOIN roles r ON r.id = ur.role_id
		 ORDER BY r.name`)
	if err != nil {
		return nil, mapDBError("list user roles", err)
	}
	defer memberships.Close() //nolint:errcheck
	for memberships.Next() {
		var userID, role string
		if err := memberships.Scan(&userID, &role); err != nil {
			return nil, mapDBError("scan user role", err)
		}
		if i, ok := index[userID]; ok {
			users[i].Roles = append(users[i].Roles, role)
		}
	}
	if err := memberships.Err(); err != nil {
		return nil, mapDBError("list user roles", err)
	}

	claims, err := r.claims.listAll(ctx)
	if err != nil {
		return nil, err
	}
	for owner, cs := range claims {
		if i, ok := index[owner]; ok {
			users[i].Claims = cs
		}
	}
	return users, nil
}

// Update writes the user's scalar fields (email, confirmation, lockout).
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = ?, email_confirmed = ?, lockout_end = ? WHERE id = ?`,
		u.Email, boolToInt(u.EmailConfirmed), nullTime(u.LockoutEnd), u.ID)
	if err != nil {
		return mapDBError("update user", err)
	}
	return requireAffected(res, "update user", domain.ErrNotFound("user %q not found", u.ID))
}

// Delete removes the user; memberships and claims cascade.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return mapDBError("delete user", err)
	}
	return requireAffected(res, "delete user", domain.ErrNotFound("user %q not found", id))
}

// SetPassword replaces the user's password hash.
func (r *UserRepo) SetPassword(ctx context.Context, id, password string) error {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return mapDBError("set password", err)
	}
	return requireAffected(res, "set password", domain.ErrNotFound("user %q not found", id))
}

// CheckPassword reports whether password matches the stored hash.
func (r *UserRepo) CheckPassword(ctx context.Context, id, password string) (bool, error) {
	var hash sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id = ?`, id).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.ErrNotFound("user %q not found", id)
	}
	if err != nil {
		return false, mapDBError("check password", err)
	}
	if !hash.Valid {
		return false, nil
	}
	return r.hasher.Verify(hash.String, password), nil
}

// RoleNames returns the names of the user's roles, sorted.
func (r *UserRepo) RoleNames(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.name FROM user_roles ur
		 JOIN roles r ON r.id = ur.role_id
		 WHERE ur.user_id = ?
		 ORDER BY r.name`, userID)
	if err != nil {
		return nil, mapDBError("list user roles", err)
	}
	defer rows.Close() //nolint:errcheck

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapDBError("scan user role", err)
		}
		names = append(names, name)
	}
	return names, mapDBError("list user roles", rows.Err())
}

// AddToRole adds the user to the named role.
func (r *UserRepo) AddToRole(ctx context.Context, userID, roleName string) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role_id) SELECT ?, id FROM roles WHERE name = ?`,
		userID, roleName)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict("user is already in role %q", roleName)
		}
		return mapDBError("add to role", err)
	}
	return requireAffected(res, "add to role", domain.ErrNotFound("role %q not found", roleName))
}

// RemoveFromRole removes the user from the named role.
func (r *UserRepo) RemoveFromRole(ctx context.Context, userID, roleName string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_roles
		 WHERE user_id = ? AND role_id IN (SELECT id FROM roles WHERE name = ?)`,
		userID, roleName)
	if err != nil {
		return mapDBError("remove from role", err)
	}
	return requireAffected(res, "remove from role", domain.ErrNotFound("user is not in role %q", roleName))
}

func (r *UserRepo) Claims(ctx context.Context, userID string) ([]domain.Claim, error) {
	return r.claims.list(ctx, userID)
}

func (r *UserRepo) AddClaim(ctx context.Context, userID string, c domain.Claim) error {
	return r.claims.add(ctx, userID, c)
}

func (r *UserRepo) RemoveClaim(ctx context.Context, userID string, c domain.Claim) error {
	return r.claims.remove(ctx, userID, c)
}
