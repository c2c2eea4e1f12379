package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"identity-console/internal/domain"
)

// AuditRepo implements domain.AuditRepository using SQLite.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if e.ID == "" {
		e.ID = domain.NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, actor, action, target_id, status, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Actor, e.Action, e.TargetID, e.Status, e.ErrorMessage, e.CreatedAt)
	return mapDBError("insert audit entry", err)
}

// List returns a page of entries, newest first, and the filtered total.
func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Actor != nil {
		conds = append(conds, "actor = ?")
		args = append(args, *filter.Actor)
	}
	if filter.Action != nil {
		conds = append(conds, "action = ?")
		args = append(args, *filter.Action)
	}
	if filter.TargetID != nil {
		conds = append(conds, "target_id = ?")
		args = append(args, *filter.TargetID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapDBError("count audit entries", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor, action, target_id, status, error_message, created_at FROM audit_log`+where+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, filter.Page.Limit(), filter.Page.Offset())...)
	if err != nil {
		return nil, 0, mapDBError("list audit entries", err)
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			e      domain.AuditEntry
			errMsg sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.TargetID, &e.Status, &errMsg, &e.CreatedAt); err != nil {
			return nil, 0, mapDBError("scan audit entry", err)
		}
		if errMsg.Valid {
			e.ErrorMessage = &errMsg.String
		}
		entries = append(entries, e)
	}
	return entries, total, mapDBError("list audit entries", rows.Err())
}
