package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicia en 0 y sólo cambia por movimientos.
type CreateProductRequest struct {
	Name       string          `json:"name" validate:"required,max=255"`
	Barcode    string          `json:"barcode" validate:"required,max=50"`
	SKU        string          `json:"sku" validate:"required,max=50"`
	CostPrice  decimal.Decimal `json:"cost_price" validate:"gte=0"`
	SalePrice  decimal.Decimal `json:"sale_price" validate:"gte=0"`
	MinStock   int             `json:"min_stock" validate:"gte=0"`
	CategoryID *string         `json:"category_id" validate:"omitempty,uuid"`
	Active     *bool           `json:"active"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock).
type UpdateProductRequest struct {
	Name       *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Barcode    *string          `json:"barcode" validate:"omitempty,min=1,max=50"`
	SKU        *string          `json:"sku" validate:"omitempty,min=1,max=50"`
	CostPrice  *decimal.Decimal `json:"cost_price" validate:"omitempty,gte=0"`
	SalePrice  *decimal.Decimal `json:"sale_price" validate:"omitempty,gte=0"`
	MinStock   *int             `json:"min_stock" validate:"omitempty,gte=0"`
	CategoryID *string          `json:"category_id" validate:"omitempty,uuid"`
	// ClearCategory deja el producto sin categoría.
	ClearCategory bool  `json:"clear_category"`
	Active        *bool `json:"active"`
}

// ProductFilterRequest filtros del listado.
type ProductFilterRequest struct {
	PageRequest
	CategoryID string `query:"category_id"`
	Active     *bool  `query:"active"`
	Search     string `query:"q"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Barcode      string          `json:"barcode"`
	SKU          string          `json:"sku"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	CurrentStock int             `json:"current_stock"`
	MinStock     int             `json:"min_stock"`
	LowStock     bool            `json:"low_stock"`
	CategoryID   *string         `json:"category_id"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
