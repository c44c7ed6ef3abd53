package entity

import "github.com/samber/lo"

// Actor es el usuario autenticado que ejecuta una operación (tomado del JWT).
type Actor struct {
	UserID string
	Role   string
}

// IsManager indica perfil ADMIN o GERENTE: puede forzar stock negativo, cancelar ventas
// y cerrar cajas ajenas.
func (a Actor) IsManager() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}

// HasRole indica si el actor tiene alguno de los perfiles.
func (a Actor) HasRole(roles ...string) bool {
	return lo.Contains(roles, a.Role)
}
