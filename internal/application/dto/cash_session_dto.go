package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenCashSessionRequest entrada para abrir caja.
type OpenCashSessionRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount" validate:"gte=0"`
}

// CloseCashSessionRequest entrada para cerrar caja. Justification es obligatoria si hay diferencia.
type CloseCashSessionRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount" validate:"gte=0"`
	Justification string          `json:"justification" validate:"max=1000"`
}

// CashSessionFilterRequest filtros del listado de sesiones.
type CashSessionFilterRequest struct {
	PageRequest
	UserID string `query:"user_id"`
	Status string `query:"status" validate:"omitempty,oneof=ABERTO FECHADO"`
}

// CashSessionResponse salida de una sesión de caja.
type CashSessionResponse struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	OpenedAt      time.Time        `json:"opened_at"`
	ClosedAt      *time.Time       `json:"closed_at"`
	OpeningAmount decimal.Decimal  `json:"opening_amount"`
	CountedAmount *decimal.Decimal `json:"counted_amount"`
	SystemAmount  *decimal.Decimal `json:"system_amount"`
	Difference    *decimal.Decimal `json:"difference,omitempty"`
	Status        string           `json:"status"`
}

// CashSessionListResponse lista paginada de sesiones.
type CashSessionListResponse struct {
	Items []CashSessionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
