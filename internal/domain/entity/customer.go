package entity

import "time"

// Customer representa un comprador. TaxID (CPF/CNPJ) es opcional pero único cuando existe.
type Customer struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null" validate:"required,max=255"`
	TaxID     *string   `json:"tax_id" gorm:"size:20;uniqueIndex" validate:"omitempty,max=20"`
	Phone     *string   `json:"phone" gorm:"size:20" validate:"omitempty,max=20"`
	Email     *string   `json:"email" gorm:"size:255" validate:"omitempty,email,max=255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) String() string { return c.Name }
