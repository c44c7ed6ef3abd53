package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Los repositorios pgx asignan el ID antes de insertar; estos hooks cubren las altas
// hechas por la consola (gorm).

func newID(id *string) error {
	if *id == "" {
		*id = uuid.NewString()
	}
	return nil
}

func (u *User) BeforeCreate(*gorm.DB) error { return newID(&u.ID) }
func (c *Category) BeforeCreate(*gorm.DB) error { return newID(&c.ID) }
func (p *Product) BeforeCreate(*gorm.DB) error { return newID(&p.ID) }
func (m *StockMovement) BeforeCreate(*gorm.DB) error { return newID(&m.ID) }
func (c *Customer) BeforeCreate(*gorm.DB) error { return newID(&c.ID) }
func (s *CashSession) BeforeCreate(*gorm.DB) error { return newID(&s.ID) }
func (s *Sale) BeforeCreate(*gorm.DB) error { return newID(&s.ID) }
func (i *SaleItem) BeforeCreate(*gorm.DB) error { return newID(&i.ID) }
func (p *Payment) BeforeCreate(*gorm.DB) error { return newID(&p.ID) }
func (a *AuditLog) BeforeCreate(*gorm.DB) error { return newID(&a.ID) }
