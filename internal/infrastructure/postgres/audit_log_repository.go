package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

const auditColumns = `id, user_id, action, affected_table, record_id, old_value, new_value, justification, created_at`

// AuditLogRepo persistencia write-once de auditoría.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

func scanAudit(row rowScanner) (*entity.AuditLog, error) {
	var a entity.AuditLog
	err := row.Scan(&a.ID, &a.UserID, &a.Action, &a.AffectedTable, &a.RecordID, &a.OldValue, &a.NewValue, &a.Justification, &a.CreatedAt)
	return &a, err
}

func (r *AuditLogRepo) Create(ctx context.Context, a *entity.AuditLog) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO audit_logs (`+auditColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.UserID, a.Action, a.AffectedTable, a.RecordID, a.OldValue, a.NewValue, a.Justification, a.CreatedAt,
	)
	if err != nil {
		return translate("insert audit log", err)
	}
	return nil
}

func (r *AuditLogRepo) GetByID(ctx context.Context, id string) (*entity.AuditLog, error) {
	a, err := scanAudit(r.q.QueryRow(ctx, `SELECT `+auditColumns+` FROM audit_logs WHERE id = $1`, id))
	return noRows(a, err, "get audit log")
}

func (r *AuditLogRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+auditColumns+` FROM audit_logs
		WHERE ($1::uuid IS NULL OR user_id = $1)
		  AND ($2::text IS NULL OR affected_table = $2)
		  AND ($3::text IS NULL OR record_id = $3)
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		nullIfEmpty(f.UserID), nullIfEmpty(f.AffectedTable), nullIfEmpty(f.RecordID), limitOrAll(f.Limit), f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
