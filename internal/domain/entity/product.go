package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/shopspring/decimal"
)

var errNegativeAmount = fmt.Errorf("%w: los precios no pueden ser negativos", domain.ErrInvalidInput)

// Product representa un artículo vendible del inventario.
// CurrentStock sólo cambia mediante StockMovement; CostPrice se recalcula como promedio
// ponderado en cada entrada con costo informado.
type Product struct {
	ID           string          `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string          `json:"name" gorm:"size:255;not null" validate:"required,max=255"`
	Barcode      string          `json:"barcode" gorm:"size:50;not null;uniqueIndex" validate:"required,max=50"`
	SKU          string          `json:"sku" gorm:"column:sku;size:50;not null;uniqueIndex" validate:"required,max=50"`
	CostPrice    decimal.Decimal `json:"cost_price" gorm:"type:decimal(10,2);not null" validate:"gte=0"`
	SalePrice    decimal.Decimal `json:"sale_price" gorm:"type:decimal(10,2);not null" validate:"gte=0"`
	CurrentStock int             `json:"current_stock" gorm:"not null"`
	MinStock     int             `json:"min_stock" gorm:"not null" validate:"gte=0"`
	CategoryID   *string         `json:"category_id" gorm:"type:uuid;index"`
	Active       bool            `json:"active" gorm:"not null"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Category *Category `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL"`
}

func (p *Product) String() string { return p.Name }

// IsLowStock indica si el stock actual está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStock
}

// Validate verifica las reglas de precio que el validador de tags no cubre.
func (p *Product) Validate() error {
	if p.CostPrice.IsNegative() || p.SalePrice.IsNegative() {
		return errNegativeAmount
	}
	return nil
}
