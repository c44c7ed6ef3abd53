package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, barcode, sku, cost_price, sale_price, current_stock, min_stock, category_id, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Barcode, &p.SKU, &p.CostPrice, &p.SalePrice,
		&p.CurrentStock, &p.MinStock, &p.CategoryID, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *ProductRepo) queryList(ctx context.Context, op, sql string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un nuevo producto. SKU o código de barras repetidos devuelven ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Name, p.Barcode, p.SKU, p.CostPrice, p.SalePrice, p.CurrentStock, p.MinStock,
		p.CategoryID, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return translate("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	return noRows(p, err, "get product")
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE barcode = $1`, barcode))
	return noRows(p, err, "get product by barcode")
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	return noRows(p, err, "get product for update")
}

// Update actualiza un producto existente. No modifica current_stock (se maneja vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, barcode = $3, sku = $4, cost_price = $5, sale_price = $6,
			min_stock = $7, category_id = $8, active = $9, updated_at = $10
		WHERE id = $1`,
		p.ID, p.Name, p.Barcode, p.SKU, p.CostPrice, p.SalePrice, p.MinStock, p.CategoryID, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return translate("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija el contador de stock (usado por el motor de inventario dentro de la tx).
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stock int) error {
	if _, err := r.q.Exec(ctx, `UPDATE products SET current_stock = $2, updated_at = now() WHERE id = $1`, id, stock); err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// UpdateCost actualiza solo el costo del producto (usado por el motor de inventario).
func (r *ProductRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	if _, err := r.q.Exec(ctx, `UPDATE products SET cost_price = $2, updated_at = now() WHERE id = $1`, id, cost); err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

// List lista productos por nombre con filtros opcionales.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var search any
	if f.Search != "" {
		search = "%" + f.Search + "%"
	}
	return r.queryList(ctx, "list products", `
		SELECT `+productColumns+` FROM products
		WHERE ($1::uuid IS NULL OR category_id = $1)
		  AND ($2::boolean IS NULL OR active = $2)
		  AND ($3::text IS NULL OR name ILIKE $3 OR sku ILIKE $3 OR barcode = $4)
		ORDER BY name LIMIT $5 OFFSET $6`,
		f.CategoryID, f.Active, search, f.Search, limitOrAll(f.Limit), f.Offset,
	)
}

// ListLowStock lista productos activos con current_stock <= min_stock.
func (r *ProductRepo) ListLowStock(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return r.queryList(ctx, "list low stock", `
		SELECT `+productColumns+` FROM products
		WHERE active AND current_stock <= min_stock
		ORDER BY current_stock - min_stock, name LIMIT $1 OFFSET $2`,
		limitOrAll(limit), offset,
	)
}

// Delete elimina un producto. Con movimientos o ítems de venta devuelve ErrReferenced.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return translate("delete product", err)
	}
	return nil
}
