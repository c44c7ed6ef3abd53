package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas. From/To acotan created_at.
type SaleFilter struct {
	CashSessionID string
	UserID        string
	CustomerID    string
	Status        string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// SaleRepository define el puerto de persistencia para Sale con sus ítems y pagos.
type SaleRepository interface {
	// Create inserta cabecera, ítems y pagos.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con Items y Payments cargados.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera y carga los ítems.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	MarkCancelled(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
}
