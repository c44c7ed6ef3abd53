package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, cash_session_id, user_id, customer_id, created_at, gross_total, discount_total, net_total, status, cancelled_at`

// SaleRepo implementación de SaleRepository sobre PostgreSQL. Cabecera, ítems y pagos
// se escriben con el mismo Querier, así que Create sólo es atómico dentro de una tx.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row rowScanner) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.CashSessionID, &s.UserID, &s.CustomerID, &s.CreatedAt,
		&s.GrossTotal, &s.DiscountTotal, &s.NetTotal, &s.Status, &s.CancelledAt)
	return &s, err
}

// Create inserta cabecera, ítems y pagos.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sales (`+saleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.CashSessionID, s.UserID, s.CustomerID, s.CreatedAt,
		s.GrossTotal, s.DiscountTotal, s.NetTotal, s.Status, s.CancelledAt,
	)
	if err != nil {
		return translate("insert sale", err)
	}
	for _, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, s.ID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal,
		)
		if err != nil {
			return translate("insert sale item", err)
		}
	}
	for _, p := range s.Payments {
		_, err := r.q.Exec(ctx,
			`INSERT INTO payments (id, sale_id, method, amount) VALUES ($1, $2, $3, $4)`,
			p.ID, s.ID, p.Method, p.Amount,
		)
		if err != nil {
			return translate("insert payment", err)
		}
	}
	return nil
}

// GetByID devuelve la venta con ítems (y nombre del producto) y pagos.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if s, err = noRows(s, err, "get sale"); err != nil || s == nil {
		return s, err
	}
	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	if s.Payments, err = r.payments(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

// GetForUpdate bloquea la cabecera y carga los ítems (necesarios para revertir stock).
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id))
	if s, err = noRows(s, err, "get sale for update"); err != nil || s == nil {
		return s, err
	}
	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.sale_id, i.product_id, i.quantity, i.unit_price, i.subtotal, p.name, p.barcode
		FROM sale_items i JOIN products p ON p.id = i.product_id
		WHERE i.sale_id = $1 ORDER BY p.name, i.id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		p := &entity.Product{}
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal, &p.Name, &p.Barcode); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		p.ID = it.ProductID
		it.Product = p
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SaleRepo) payments(ctx context.Context, saleID string) ([]entity.Payment, error) {
	rows, err := r.q.Query(ctx, `SELECT id, sale_id, method, amount FROM payments WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var payments []entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// MarkCancelled pasa la venta a CANCELADA.
func (r *SaleRepo) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE sales SET status = $2, cancelled_at = $3 WHERE id = $1`,
		id, entity.SaleStatusCancelled, at,
	)
	if err != nil {
		return fmt.Errorf("cancel sale: %w", err)
	}
	return nil
}

// List lista cabeceras de venta (sin ítems), más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+saleColumns+` FROM sales
		WHERE ($1::uuid IS NULL OR cash_session_id = $1)
		  AND ($2::uuid IS NULL OR user_id = $2)
		  AND ($3::uuid IS NULL OR customer_id = $3)
		  AND ($4::text IS NULL OR status = $4)
		  AND ($5::timestamptz IS NULL OR created_at >= $5)
		  AND ($6::timestamptz IS NULL OR created_at <= $6)
		ORDER BY created_at DESC LIMIT $7 OFFSET $8`,
		nullIfEmpty(f.CashSessionID), nullIfEmpty(f.UserID), nullIfEmpty(f.CustomerID), nullIfEmpty(f.Status),
		f.From, f.To, limitOrAll(f.Limit), f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
