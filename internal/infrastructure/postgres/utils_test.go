package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"}
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "stock_movements_product_id_fkey"}
	other := errors.New("conexión rechazada")

	err := translate("insert product", fmt.Errorf("exec: %w", unique))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), "products_sku_key")

	assert.ErrorIs(t, translate("delete product", fk), domain.ErrReferenced)

	err = translate("insert product", other)
	assert.ErrorIs(t, err, other)
	assert.Equal(t, "insert product: conexión rechazada", err.Error())
}

func TestNoRows(t *testing.T) {
	v := 1
	got, err := noRows(&v, pgx.ErrNoRows, "get")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = noRows(&v, nil, "get")
	require.NoError(t, err)
	assert.Equal(t, 1, *got)

	_, err = noRows(&v, errors.New("boom"), "get")
	assert.EqualError(t, err, "get: boom")
}

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/pdv?sslmode=disable", pgx5URL("postgres://u:p@h:5432/pdv?sslmode=disable"))
	assert.Equal(t, "pgx5://h/pdv", pgx5URL("postgresql://h/pdv"))
	assert.Equal(t, "pgx5://h/pdv", pgx5URL("pgx5://h/pdv"))
}

func TestLimitOrAll(t *testing.T) {
	assert.Nil(t, limitOrAll(0))
	assert.Equal(t, 10, limitOrAll(10))
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", nullIfEmpty("x"))
}
