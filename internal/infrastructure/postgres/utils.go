package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/pdv-api/internal/domain"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx; los repos aceptan cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rowScanner cubre pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// pgCode devuelve el SQLSTATE del error de PostgreSQL, o "".
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

// translate convierte violaciones de unicidad / FK en errores de dominio y envuelve el resto con op.
func translate(op string, err error) error {
	switch pgCode(err) {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, constraintOf(err))
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrReferenced, constraintOf(err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

func constraintOf(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return "constraint"
}

// noRows convierte pgx.ErrNoRows en (nil, nil), la convención de los Get.
func noRows[T any](v *T, err error, op string) (*T, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// limitOrAll convierte limit <= 0 en NULL (sin límite).
func limitOrAll(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

// nullIfEmpty usa NULL para filtros opcionales vacíos.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
