package entity

import "time"

// Category agrupa productos. Al eliminarla, los productos quedan sin categoría.
type Category struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null;uniqueIndex" validate:"required,max=100"`
	Description *string   `json:"description"`
	Active      bool      `json:"active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Category) String() string { return c.Name }
