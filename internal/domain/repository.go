package domain

import "context"

// ClaimStore manages the claims attached to one kind of owner (user or role).
// Each call is atomic on its own; there is no multi-call transaction.
type ClaimStore interface {
	Claims(ctx context.Context, ownerID string) ([]Claim, error)
	AddClaim(ctx context.Context, ownerID string, c Claim) error
	RemoveClaim(ctx context.Context, ownerID string, c Claim) error
}

// UserRepository is the identity store's account surface.
type UserRepository interface {
	ClaimStore

	Create(ctx context.Context, u *User, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// ListAll returns every user with Roles and Claims populated.
	ListAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	SetPassword(ctx context.Context, id, password string) error
	CheckPassword(ctx context.Context, id, password string) (bool, error)

	RoleNames(ctx context.Context, userID string) ([]string, error)
	AddToRole(ctx context.Context, userID, roleName string) error
	RemoveFromRole(ctx context.Context, userID, roleName string) error
}

// RoleRepository is the identity store's role surface.
type RoleRepository interface {
	ClaimStore

	Create(ctx context.Context, r *Role) (*Role, error)
	GetByID(ctx context.Context, id string) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	// ListAll returns every role with Claims populated.
	ListAll(ctx context.Context) ([]Role, error)
	Update(ctx context.Context, r *Role) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// AuditRepository provides operations for audit log entries.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, int64, error)
}
