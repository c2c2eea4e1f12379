package api

import (
	"time"

	"identity-console/internal/claimtype"
	"identity-console/internal/domain"
)

type claimRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type userRow struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	UserName    string     `json:"userName"`
	DisplayName string     `json:"displayName"`
	LockedOut   string     `json:"lockedOut"` // "Yes" or ""
	Roles       []string   `json:"roles"`
	Claims      []claimRow `json:"claims"`
}

type userDetail struct {
	userRow
	EmailConfirmed bool       `json:"emailConfirmed"`
	LockoutEnd     *time.Time `json:"lockoutEnd,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type roleRow struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Claims []claimRow `json:"claims"`
}

type roleDetail struct {
	roleRow
	CreatedAt time.Time `json:"createdAt"`
}

// claimRows presents stored claims by symbolic name. A type missing from the
// registry is shown by its canonical URI.
func claimRows(reg *claimtype.Registry, claims []domain.Claim) []claimRow {
	out := make([]claimRow, 0, len(claims))
	for _, c := range claims {
		key, err := reg.SymbolicOf(c.Type)
		if err != nil {
			key = c.Type
		}
		out = append(out, claimRow{Key: key, Value: c.Value})
	}
	return out
}

func (h *Handler) userToRow(u domain.User) userRow {
	locked := ""
	if u.LockedOut() {
		locked = "Yes"
	}
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userRow{
		ID:          u.ID,
		Email:       u.Email,
		UserName:    u.UserName,
		DisplayName: u.DisplayName(),
		LockedOut:   locked,
		Roles:       roles,
		Claims:      claimRows(h.claims, u.Claims),
	}
}

func (h *Handler) userToDetail(u domain.User) userDetail {
	return userDetail{
		userRow:        h.userToRow(u),
		EmailConfirmed: u.EmailConfirmed,
		LockoutEnd:     u.LockoutEnd,
		CreatedAt:      u.CreatedAt,
	}
}

func (h *Handler) roleToRow(r domain.Role) roleRow {
	return roleRow{ID: r.ID, Name: r.Name, Claims: claimRows(h.claims, r.Claims)}
}

type auditRow struct {
	ID           string    `json:"id"`
	Actor        string    `json:"actor"`
	Action       string    `json:"action"`
	TargetID     string    `json:"targetId"`
	Status       string    `json:"status"`
	ErrorMessage *string   `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func auditEntryToAPI(e domain.AuditEntry) auditRow {
	return auditRow{
		ID:           e.ID,
		Actor:        e.Actor,
		Action:       e.Action,
		TargetID:     e.TargetID,
		Status:       e.Status,
		ErrorMessage: e.ErrorMessage,
		CreatedAt:    e.CreatedAt,
	}
}
