package entity

import "time"

// Tipos de movimiento de inventario (valores persistidos).
const (
	MovementTypeIn         = "ENTRADA"
	MovementTypeOut        = "SAIDA"
	MovementTypeAdjustment = "AJUSTE"
	MovementTypeLoss       = "PERDA"
	MovementTypeReturn     = "DEVOLUCAO"
)

// MovementTypes devuelve los tipos válidos de movimiento.
func MovementTypes() []string {
	return []string{MovementTypeIn, MovementTypeOut, MovementTypeAdjustment, MovementTypeLoss, MovementTypeReturn}
}

// StockMovement registra un cambio en el stock de un producto. Es append-only.
// Quantity es el delta aplicado: positivo para entradas, negativo para salidas.
type StockMovement struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID string    `json:"product_id" gorm:"type:uuid;not null;index"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Type      string    `json:"type" gorm:"size:20;not null;index"`
	Reason    *string   `json:"reason" gorm:"size:255"`
	Reference *string   `json:"reference" gorm:"size:100"` // venta u otro documento de origen
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Product *Product `json:"product,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	User    *User    `json:"user,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
}
