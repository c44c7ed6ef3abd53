package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest entrada para registrar un movimiento de inventario.
// Quantity es positiva salvo en AJUSTE, donde lleva el signo del ajuste.
// Force (sólo ADMIN/GERENTE) permite dejar el stock negativo y exige Justification.
type RegisterMovementRequest struct {
	ProductID     string           `json:"product_id" validate:"required,uuid"`
	Type          string           `json:"type" validate:"required,oneof=ENTRADA SAIDA AJUSTE PERDA DEVOLUCAO"`
	Quantity      int              `json:"quantity" validate:"required"`
	UnitCost      *decimal.Decimal `json:"unit_cost" validate:"omitempty,gte=0"`
	Reason        *string          `json:"reason" validate:"omitempty,max=255"`
	Reference     *string          `json:"reference" validate:"omitempty,max=100"`
	Force         bool             `json:"force"`
	Justification string           `json:"justification"`
}

// MovementFilterRequest filtros del listado de movimientos.
type MovementFilterRequest struct {
	PageRequest
	ProductID string `query:"product_id"`
	Type      string `query:"type"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	Quantity   int       `json:"quantity"`
	Reason     *string   `json:"reason"`
	Reference  *string   `json:"reference"`
	CreatedAt  time.Time `json:"created_at"`
	StockAfter *int      `json:"stock_after,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
