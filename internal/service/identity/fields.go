package identity

import (
	"time"

	"identity-console/internal/domain"
	"identity-console/internal/fields"
	"identity-console/internal/tabular"
)

// UserFields are the user columns a table request may sort by.
var UserFields = fields.MustRegistry("user",
	fields.String("id", func(u domain.User) string { return u.ID }),
	fields.String("email", func(u domain.User) string { return u.Email }),
	fields.String("userName", func(u domain.User) string { return u.UserName }),
	fields.String("displayName", domain.User.DisplayName),
	fields.Bool("lockedOut", domain.User.LockedOut),
	fields.OptionalTime("lockoutEnd", func(u domain.User) *time.Time { return u.LockoutEnd }),
	fields.Bool("emailConfirmed", func(u domain.User) bool { return u.EmailConfirmed }),
	fields.Int("roleCount", func(u domain.User) int64 { return int64(len(u.Roles)) }),
	fields.Time("createdAt", func(u domain.User) time.Time { return u.CreatedAt }),
)

// RoleFields are the role columns a table request may sort by.
var RoleFields = fields.MustRegistry("role",
	fields.String("id", func(r domain.Role) string { return r.ID }),
	fields.String("name", func(r domain.Role) string { return r.Name }),
	fields.Int("claimCount", func(r domain.Role) int64 { return int64(len(r.Claims)) }),
	fields.Time("createdAt", func(r domain.Role) time.Time { return r.CreatedAt }),
)

func userOptions(match domain.FilterMode) tabular.Options[domain.User] {
	return tabular.Options[domain.User]{
		Searchable: []func(domain.User) string{
			func(u domain.User) string { return u.Email },
			func(u domain.User) string { return u.UserName },
		},
		ID:    func(u domain.User) string { return u.ID },
		Match: match,
	}
}

func roleOptions(match domain.FilterMode) tabular.Options[domain.Role] {
	return tabular.Options[domain.Role]{
		Searchable: []func(domain.Role) string{
			func(r domain.Role) string { return r.Name },
		},
		ID:    func(r domain.Role) string { return r.ID },
		Match: match,
	}
}
