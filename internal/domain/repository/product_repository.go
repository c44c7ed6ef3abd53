package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter filtros opcionales del listado de productos.
// Search compara contra nombre, SKU y código de barras.
type ProductFilter struct {
	CategoryID *string
	Active     *bool
	Search     string
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// El stock sólo se modifica con UpdateStock dentro de la transacción del movimiento.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE). Sólo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, id string, stock int) error
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	ListLowStock(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
