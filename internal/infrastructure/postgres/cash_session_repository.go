package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.CashSessionRepository = (*CashSessionRepo)(nil)

const sessionColumns = `id, user_id, opened_at, closed_at, opening_amount, counted_amount, system_amount, status`

// CashSessionRepo implementación de CashSessionRepository sobre PostgreSQL.
type CashSessionRepo struct {
	q Querier
}

// NewCashSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashSessionRepository(q Querier) *CashSessionRepo {
	return &CashSessionRepo{q: q}
}

func scanSession(row rowScanner) (*entity.CashSession, error) {
	var s entity.CashSession
	err := row.Scan(&s.ID, &s.UserID, &s.OpenedAt, &s.ClosedAt, &s.OpeningAmount, &s.CountedAmount, &s.SystemAmount, &s.Status)
	return &s, err
}

// Create abre una sesión. El índice único parcial cash_sessions_one_open_per_user
// convierte una segunda apertura concurrente en ErrDuplicate.
func (r *CashSessionRepo) Create(ctx context.Context, s *entity.CashSession) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO cash_sessions (`+sessionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.UserID, s.OpenedAt, s.ClosedAt, s.OpeningAmount, s.CountedAmount, s.SystemAmount, s.Status,
	)
	if err != nil {
		return translate("insert cash session", err)
	}
	return nil
}

func (r *CashSessionRepo) GetByID(ctx context.Context, id string) (*entity.CashSession, error) {
	s, err := scanSession(r.q.QueryRow(ctx, `SELECT `+sessionColumns+` FROM cash_sessions WHERE id = $1`, id))
	return noRows(s, err, "get cash session")
}

// GetForUpdate bloquea la sesión (SELECT FOR UPDATE).
func (r *CashSessionRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashSession, error) {
	s, err := scanSession(r.q.QueryRow(ctx, `SELECT `+sessionColumns+` FROM cash_sessions WHERE id = $1 FOR UPDATE`, id))
	return noRows(s, err, "get cash session for update")
}

// GetOpenByUser devuelve la sesión ABERTO del usuario, o nil.
func (r *CashSessionRepo) GetOpenByUser(ctx context.Context, userID string) (*entity.CashSession, error) {
	s, err := scanSession(r.q.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM cash_sessions WHERE user_id = $1 AND status = $2`,
		userID, entity.CashSessionOpen,
	))
	return noRows(s, err, "get open cash session")
}

// Close persiste el arqueo. Sólo afecta sesiones todavía abiertas.
func (r *CashSessionRepo) Close(ctx context.Context, s *entity.CashSession) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE cash_sessions SET closed_at = $2, counted_amount = $3, system_amount = $4, status = $5
		WHERE id = $1 AND status = $6`,
		s.ID, s.ClosedAt, s.CountedAmount, s.SystemAmount, s.Status, entity.CashSessionOpen,
	)
	if err != nil {
		return fmt.Errorf("close cash session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSessionClosed
	}
	return nil
}

func (r *CashSessionRepo) List(ctx context.Context, f repository.CashSessionFilter) ([]*entity.CashSession, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+sessionColumns+` FROM cash_sessions
		WHERE ($1::uuid IS NULL OR user_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY opened_at DESC LIMIT $3 OFFSET $4`,
		nullIfEmpty(f.UserID), nullIfEmpty(f.Status), limitOrAll(f.Limit), f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list cash sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// SumCashPayments suma los pagos DINHEIRO de ventas CONCLUIDA de la sesión.
func (r *CashSessionRepo) SumCashPayments(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.q.QueryRow(ctx, `
		SELECT SUM(p.amount)
		FROM payments p JOIN sales s ON s.id = p.sale_id
		WHERE s.cash_session_id = $1 AND s.status = $2 AND p.method = $3`,
		sessionID, entity.SaleStatusCompleted, entity.PaymentMethodCash,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum cash payments: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

