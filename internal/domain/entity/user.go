package entity

import "time"

// Perfiles válidos para User (valores persistidos).
const (
	RoleAdmin      = "ADMIN"
	RoleManager    = "GERENTE"
	RoleOperator   = "OPERADOR"
	RoleStockClerk = "ESTOQUISTA"
)

// Roles devuelve los perfiles válidos en orden de privilegio.
func Roles() []string {
	return []string{RoleAdmin, RoleManager, RoleOperator, RoleStockClerk}
}

// User representa un operador del sistema. La autenticación se resuelve fuera de la entidad
// (hash bcrypt + JWT); aquí sólo vive el registro.
type User struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"size:150;not null;uniqueIndex" validate:"required,max=150"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex" validate:"required,email,max=255"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"size:20;not null" validate:"required,oneof=ADMIN GERENTE OPERADOR ESTOQUISTA"`
	Active       bool      `json:"active" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// String devuelve el nombre visible del usuario.
func (u *User) String() string { return u.Name }
