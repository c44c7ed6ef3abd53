package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrReferenced            = errors.New("el recurso está referenciado por otros registros")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrSessionClosed         = errors.New("la sesión de caja está cerrada")
	ErrSessionAlreadyOpen    = errors.New("el usuario ya tiene una sesión de caja abierta")
	ErrPaymentMismatch       = errors.New("la suma de pagos no coincide con el total líquido")
	ErrJustificationRequired = errors.New("se requiere justificación")
)
