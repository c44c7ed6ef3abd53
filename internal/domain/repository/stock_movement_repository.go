package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	ProductID string
	Type      string
	Limit     int
	Offset    int
}

// StockMovementRepository define el puerto de persistencia para movimientos de inventario (append-only).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
