package identity

import (
	"context"
	"errors"
	"log/slog"

	"identity-console/internal/domain"
	"identity-console/internal/reconcile"
)

// Audit actions.
const (
	ActionCreateUser    = "CREATE_USER"
	ActionUpdateUser    = "UPDATE_USER"
	ActionDeleteUser    = "DELETE_USER"
	ActionResetPassword = "RESET_PASSWORD"
	ActionCreateRole    = "CREATE_ROLE"
	ActionUpdateRole    = "UPDATE_ROLE"
	ActionDeleteRole    = "DELETE_ROLE"
)

// auditStatus classifies the outcome of a mutation.
func auditStatus(err error) string {
	var partial *reconcile.PartialError
	switch {
	case err == nil:
		return domain.AuditSucceeded
	case errors.As(err, &partial):
		return domain.AuditPartial
	default:
		return domain.AuditFailed
	}
}

// logAudit records the mutation against the caller in ctx. Audit failures
// are logged and never fail the request.
func logAudit(ctx context.Context, audit domain.AuditRepository, logger *slog.Logger, action, targetID string, err error) {
	if audit == nil {
		return
	}
	e := &domain.AuditEntry{
		Actor:    domain.CallerName(ctx),
		Action:   action,
		TargetID: targetID,
		Status:   auditStatus(err),
	}
	if err != nil {
		msg := err.Error()
		e.ErrorMessage = &msg
	}
	if insErr := audit.Insert(ctx, e); insErr != nil {
		logger.Warn("audit insert failed", "action", action, "target", targetID, "error", insErr)
	}
}

// AuditService exposes the audit trail of administrative mutations.
type AuditService struct {
	repo domain.AuditRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo domain.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// List returns a page of audit entries, newest first.
func (s *AuditService) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	return s.repo.List(ctx, filter)
}
