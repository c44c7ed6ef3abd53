package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la sesión de caja.
const (
	CashSessionOpen   = "ABERTO"
	CashSessionClosed = "FECHADO"
)

// CashSession representa el ciclo abrir/cerrar de una caja operada por un usuario.
// Transiciona ABERTO → FECHADO una sola vez; SystemAmount se calcula al cerrar.
type CashSession struct {
	ID            string           `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        string           `json:"user_id" gorm:"type:uuid;not null;index"`
	OpenedAt      time.Time        `json:"opened_at" gorm:"not null;index"`
	ClosedAt      *time.Time       `json:"closed_at"`
	OpeningAmount decimal.Decimal  `json:"opening_amount" gorm:"type:decimal(10,2);not null"`
	CountedAmount *decimal.Decimal `json:"counted_amount" gorm:"type:decimal(10,2)"`
	SystemAmount  *decimal.Decimal `json:"system_amount" gorm:"type:decimal(10,2)"`
	Status        string           `json:"status" gorm:"size:10;not null;index"`

	User  *User  `json:"user,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Sales []Sale `json:"sales,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
}

func (s *CashSession) String() string { return fmt.Sprintf("Caixa %s - %s", s.ID, s.Status) }

// IsOpen indica si la sesión admite ventas.
func (s *CashSession) IsOpen() bool { return s.Status == CashSessionOpen }

// Difference devuelve contado - sistema; cero si la sesión no está cerrada.
func (s *CashSession) Difference() decimal.Decimal {
	if s.CountedAmount == nil || s.SystemAmount == nil {
		return decimal.Zero
	}
	return s.CountedAmount.Sub(*s.SystemAmount)
}
