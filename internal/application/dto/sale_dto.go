package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta. Sin UnitPrice se usa el precio de venta del producto.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0"`
}

// PaymentRequest pago aplicado a la venta.
type PaymentRequest struct {
	Method string          `json:"method" validate:"required,oneof=DINHEIRO PIX CARTAO"`
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
}

// CreateSaleRequest entrada para registrar una venta.
// Sin CashSessionID se usa la sesión abierta del operador.
type CreateSaleRequest struct {
	CashSessionID string            `json:"cash_session_id" validate:"omitempty,uuid"`
	CustomerID    *string           `json:"customer_id" validate:"omitempty,uuid"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount      decimal.Decimal   `json:"discount" validate:"gte=0"`
	Payments      []PaymentRequest  `json:"payments" validate:"omitempty,dive"`
	Force         bool              `json:"force"`
	Justification string            `json:"justification"`
}

// CancelSaleRequest entrada para cancelar una venta.
type CancelSaleRequest struct {
	Justification string `json:"justification" validate:"required,max=1000"`
}

// SaleFilterRequest filtros del listado de ventas.
type SaleFilterRequest struct {
	PageRequest
	CashSessionID string     `query:"cash_session_id"`
	UserID        string     `query:"user_id"`
	CustomerID    string     `query:"customer_id"`
	Status        string     `query:"status" validate:"omitempty,oneof=CONCLUIDA CANCELADA"`
	From          *time.Time `query:"-"`
	To            *time.Time `query:"-"`
}

// SaleItemResponse salida de una línea.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PaymentResponse salida de un pago.
type PaymentResponse struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleResponse salida de una venta con ítems y pagos.
type SaleResponse struct {
	ID            string             `json:"id"`
	CashSessionID string             `json:"cash_session_id"`
	UserID        string             `json:"user_id"`
	CustomerID    *string            `json:"customer_id"`
	CreatedAt     time.Time          `json:"created_at"`
	GrossTotal    decimal.Decimal    `json:"gross_total"`
	DiscountTotal decimal.Decimal    `json:"discount_total"`
	NetTotal      decimal.Decimal    `json:"net_total"`
	Status        string             `json:"status"`
	CancelledAt   *time.Time         `json:"cancelled_at"`
	Items         []SaleItemResponse `json:"items,omitempty"`
	Payments      []PaymentResponse  `json:"payments,omitempty"`
}

// SaleListResponse lista paginada de ventas (sin ítems).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
