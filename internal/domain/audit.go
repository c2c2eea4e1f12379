package domain

import "time"

// Audit statuses.
const (
	AuditSucceeded = "SUCCEEDED"
	AuditFailed    = "FAILED"
	AuditPartial   = "PARTIAL"
)

// AuditEntry records one administrative mutation.
type AuditEntry struct {
	ID           string
	Actor        string
	Action       string // e.g. "CREATE_USER", "UPDATE_ROLE"
	TargetID     string
	Status       string
	ErrorMessage *string
	CreatedAt    time.Time
}

// AuditFilter holds filter parameters for querying audit logs.
type AuditFilter struct {
	Actor    *string
	Action   *string
	TargetID *string
	Page     PageRequest
}
