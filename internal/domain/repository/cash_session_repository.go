package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CashSessionFilter filtros del listado de sesiones de caja.
type CashSessionFilter struct {
	UserID string
	Status string
	Limit  int
	Offset int
}

// CashSessionRepository define el puerto de persistencia para CashSession.
type CashSessionRepository interface {
	Create(ctx context.Context, session *entity.CashSession) error
	GetByID(ctx context.Context, id string) (*entity.CashSession, error)
	GetForUpdate(ctx context.Context, id string) (*entity.CashSession, error)
	GetOpenByUser(ctx context.Context, userID string) (*entity.CashSession, error)
	// Close persiste closed_at, counted_amount, system_amount y status.
	Close(ctx context.Context, session *entity.CashSession) error
	List(ctx context.Context, filter CashSessionFilter) ([]*entity.CashSession, error)
	// SumCashPayments suma los pagos DINHEIRO de ventas CONCLUIDA de la sesión.
	SumCashPayments(ctx context.Context, sessionID string) (decimal.Decimal, error)
}
