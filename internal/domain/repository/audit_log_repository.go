package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// AuditFilter filtros del listado de auditoría.
type AuditFilter struct {
	UserID        string
	AffectedTable string
	RecordID      string
	Limit         int
	Offset        int
}

// AuditLogRepository persistencia write-once de auditoría: no expone Update ni Delete.
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	GetByID(ctx context.Context, id string) (*entity.AuditLog, error)
	List(ctx context.Context, filter AuditFilter) ([]*entity.AuditLog, error)
}
