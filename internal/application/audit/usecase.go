package audit

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

// AuditUseCase consultas de auditoría. No hay alta por API.
type AuditUseCase struct {
	repo repository.AuditLogRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(repo repository.AuditLogRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// GetByID obtiene una entrada.
func (uc *AuditUseCase) GetByID(ctx context.Context, id string) (*dto.AuditLogResponse, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToAuditLogResponse(a)
	return &out, nil
}

// List lista entradas, más recientes primero.
func (uc *AuditUseCase) List(ctx context.Context, in dto.AuditFilterRequest) (*dto.AuditLogListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.AuditFilter{
		UserID:        in.UserID,
		AffectedTable: in.AffectedTable,
		RecordID:      in.RecordID,
		Limit:         in.Limit,
		Offset:        in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditLogResponse, 0, len(list))
	for _, a := range list {
		items = append(items, dto.ToAuditLogResponse(a))
	}
	return &dto.AuditLogListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}
