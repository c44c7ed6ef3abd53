package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la venta.
const (
	SaleStatusCompleted = "CONCLUIDA"
	SaleStatusCancelled = "CANCELADA"
)

// Formas de pago.
const (
	PaymentMethodCash = "DINHEIRO"
	PaymentMethodPix  = "PIX"
	PaymentMethodCard = "CARTAO"
)

// PaymentMethods devuelve las formas de pago aceptadas.
func PaymentMethods() []string {
	return []string{PaymentMethodCash, PaymentMethodPix, PaymentMethodCard}
}

// Sale representa una transacción de caja. Se crea atómicamente con sus ítems y pagos
// y después sólo puede pasar de CONCLUIDA a CANCELADA.
type Sale struct {
	ID            string          `json:"id" gorm:"type:uuid;primaryKey"`
	CashSessionID string          `json:"cash_session_id" gorm:"type:uuid;not null;index"`
	UserID        string          `json:"user_id" gorm:"type:uuid;not null;index"`
	CustomerID    *string         `json:"customer_id" gorm:"type:uuid;index"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index"`
	GrossTotal    decimal.Decimal `json:"gross_total" gorm:"type:decimal(10,2);not null"`
	DiscountTotal decimal.Decimal `json:"discount_total" gorm:"type:decimal(10,2);not null"`
	NetTotal      decimal.Decimal `json:"net_total" gorm:"type:decimal(10,2);not null"`
	Status        string          `json:"status" gorm:"size:10;not null;index"`
	CancelledAt   *time.Time      `json:"cancelled_at"`

	User     *User      `json:"user,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Customer *Customer  `json:"customer,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Items    []SaleItem `json:"items,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Payments []Payment  `json:"payments,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (s *Sale) String() string { return "Venda " + s.ID }

// IsCompleted indica si la venta está vigente.
func (s *Sale) IsCompleted() bool { return s.Status == SaleStatusCompleted }

// SaleItem es una línea de producto dentro de una venta. Subtotal = Quantity × UnitPrice.
type SaleItem struct {
	ID        string          `json:"id" gorm:"type:uuid;primaryKey"`
	SaleID    string          `json:"sale_id" gorm:"type:uuid;not null;index"`
	ProductID string          `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`

	Product *Product `json:"product,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
}

// Payment es un medio de pago aplicado a una venta.
type Payment struct {
	ID     string          `json:"id" gorm:"type:uuid;primaryKey"`
	SaleID string          `json:"sale_id" gorm:"type:uuid;not null;index"`
	Method string          `json:"method" gorm:"size:20;not null"`
	Amount decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
}
