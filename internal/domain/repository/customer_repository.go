package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// List filtra por nombre o documento cuando search no es vacío.
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error)
	Delete(ctx context.Context, id string) error
}
