package repository

import (
	"context"
	"database/sql"
	"fmt"

	"identity-console/internal/domain"
)

// claimTable is the shared claim store behind user_claims and role_claims.
type claimTable struct {
	db       *sql.DB
	table    string
	ownerCol string
}

func (t claimTable) list(ctx context.Context, ownerID string) ([]domain.Claim, error) {
	rows, err := t.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT claim_type, claim_value FROM %s WHERE %s = ? ORDER BY id`, t.table, t.ownerCol), ownerID)
	if err != nil {
		return nil, mapDBError("list claims", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Claim
	for rows.Next() {
		var c domain.Claim
		if err := rows.Scan(&c.Type, &c.Value); err != nil {
			return nil, mapDBError("scan claim", err)
		}
		out = append(out, c)
	}
	return out, mapDBError("list claims", rows.Err())
}

// listAll returns every claim grouped by owner id.
func (t claimTable) listAll(ctx context.Context) (map[string][]domain.Claim, error) {
	rows, err := t.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s, claim_type, claim_value FROM %s ORDER BY id`, t.ownerCol, t.table))
	if err != nil {
		return nil, mapDBError("list claims", err)
	}
	defer rows.Close() //nolint:errcheck

	out := make(map[string][]domain.Claim)
	for rows.Next() {
		var owner string
		var c domain.Claim
		if err := rows.Scan(&owner, &c.Type, &c.Value); err != nil {
			return nil, mapDBError("scan claim", err)
		}
		out[owner] = append(out[owner], c)
	}
	return out, mapDBError("list claims", rows.Err())
}

func (t claimTable) add(ctx context.Context, ownerID string, c domain.Claim) error {
	_, err := t.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (%s, claim_type, claim_value) VALUES (?, ?, ?)`, t.table, t.ownerCol),
		ownerID, c.Type, c.Value)
	return mapDBError("add claim", err)
}

// remove deletes every row carrying the claim for the owner.
func (t claimTable) remove(ctx context.Context, ownerID string, c domain.Claim) error {
	res, err := t.db.ExecContext(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE %s = ? AND claim_type = ? AND claim_value = ?`, t.table, t.ownerCol),
		ownerID, c.Type, c.Value)
	if err != nil {
		return mapDBError("remove claim", err)
	}
	return requireAffected(res, "remove claim", domain.ErrNotFound("claim %s not found", c.Key()))
}
