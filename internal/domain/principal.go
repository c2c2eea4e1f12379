package domain

import (
	"strings"
	"time"
)

// NameClaimType is the canonical claim type carrying a user's display name.
const NameClaimType = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"

// LockoutForever is the lockout end stamped on accounts locked by an administrator.
var LockoutForever = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// User is an account record in the identity store.
type User struct {
	ID             string
	UserName       string
	Email          string
	EmailConfirmed bool
	LockoutEnd     *time.Time
	CreatedAt      time.Time

	// Roles and Claims are populated by list and detail reads.
	Roles  []string // role names
	Claims []Claim
}

// LockedOut reports whether the account carries a lockout end.
func (u User) LockedOut() bool {
	return u.LockoutEnd != nil
}

// DisplayName returns the value of the first Name claim, or "".
func (u User) DisplayName() string {
	for _, c := range u.Claims {
		if c.Type == NameClaimType {
			return c.Value
		}
	}
	return ""
}

// Role is a named collection of claims that users can be members of.
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time

	Claims []Claim
}

// Claim is a persisted (canonical type, value) pair attached to a user or role.
type Claim struct {
	Type  string
	Value string
}

// Key returns the claim's identity for set comparison.
func (c Claim) Key() ClaimKey {
	return ClaimKey(c)
}

// ClaimKey identifies a claim within one owner's claim set.
type ClaimKey struct {
	Type  string
	Value string
}

func (k ClaimKey) String() string { return k.Type + "=" + k.Value }

// ClaimInput is a claim as submitted by a client: Type is a symbolic claim
// name ("Name", "Role") that must be translated before it is stored.
type ClaimInput struct {
	Type  string
	Value string
}

// CreateUserRequest holds parameters for creating a new user.
type CreateUserRequest struct {
	UserName string
	Name     string // optional display name, stored as a Name claim
	Email    string
	Password string
}

// Validate checks that the request is well-formed.
func (r *CreateUserRequest) Validate() error {
	r.UserName = strings.TrimSpace(r.UserName)
	if r.UserName == "" {
		return ErrValidation("user name is required")
	}
	if r.Password == "" {
		return ErrValidation("password is required")
	}
	return nil
}

// UpdateUserRequest carries the mutable fields of a user and the desired
// role and claim sets.
type UpdateUserRequest struct {
	ID     string
	Email  string
	Locked bool
	Roles  []string // role names
	Claims []ClaimInput
}

// Validate checks that the request is well-formed.
func (r *UpdateUserRequest) Validate() error {
	if r.ID == "" {
		return ErrValidation("user id is required")
	}
	for _, name := range r.Roles {
		if strings.TrimSpace(name) == "" {
			return ErrValidation("role names must not be empty")
		}
	}
	return nil
}

// ResetPasswordRequest replaces a user's password.
type ResetPasswordRequest struct {
	ID       string
	Password string
	Verify   string
}

// Validate checks that the request is well-formed.
func (r *ResetPasswordRequest) Validate() error {
	if r.ID == "" {
		return ErrValidation("user id is required")
	}
	if r.Password != r.Verify {
		return ErrValidation("Passwords entered do not match.")
	}
	if r.Password == "" {
		return ErrValidation("password is required")
	}
	return nil
}

// CreateRoleRequest holds parameters for creating a new role.
type CreateRoleRequest struct {
	Name string
}

// Validate checks that the request is well-formed.
func (r *CreateRoleRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrValidation("role name is required")
	}
	return nil
}

// UpdateRoleRequest carries a role's new name and desired claim set.
type UpdateRoleRequest struct {
	ID     string
	Name   string
	Claims []ClaimInput
}

// Validate checks that the request is well-formed.
func (r *UpdateRoleRequest) Validate() error {
	if r.ID == "" {
		return ErrValidation("role id is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrValidation("role name is required")
	}
	return nil
}
