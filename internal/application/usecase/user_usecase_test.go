package usecase_test

import (
	"context"
	"testing"

	"github.com/jhoicas/pdv-api/internal/application/apptest"
	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/usecase"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func newUsers() (*apptest.Store, *usecase.UserUseCase) {
	store := apptest.NewStore()
	return store, usecase.NewUserUseCase(store.Users()).WithHashCost(bcrypt.MinCost)
}

func TestUserCreate_GuardaHashYNoPassword(t *testing.T) {
	store, uc := newUsers()
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateUserRequest{Name: "Ana", Email: "ana@pdv.local", Password: "segredo123", Role: entity.RoleOperator})
	require.NoError(t, err)
	assert.True(t, out.Active)

	u, err := store.Users().GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "segredo123", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("segredo123")))
}

func TestUserCreate_Unicidad(t *testing.T) {
	_, uc := newUsers()
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateUserRequest{Name: "Ana", Email: "ana@pdv.local", Password: "segredo123", Role: entity.RoleOperator})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Name: "Outra", Email: "ana@pdv.local", Password: "segredo123", Role: entity.RoleOperator})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Name: "Ana", Email: "ana2@pdv.local", Password: "segredo123", Role: entity.RoleOperator})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUserCreate_RolInvalido(t *testing.T) {
	_, uc := newUsers()
	_, err := uc.Create(context.Background(), dto.CreateUserRequest{Name: "X", Email: "x@pdv.local", Password: "segredo123", Role: "CAIXA"})
	assert.Error(t, err)
}

func TestUserUpdate_CambiaPasswordYRol(t *testing.T) {
	store, uc := newUsers()
	ctx := context.Background()
	out, err := uc.Create(ctx, dto.CreateUserRequest{Name: "Ana", Email: "ana@pdv.local", Password: "segredo123", Role: entity.RoleOperator})
	require.NoError(t, err)

	upd, err := uc.Update(ctx, out.ID, dto.UpdateUserRequest{Role: strPtr(entity.RoleManager), Password: strPtr("novasenha1"), Active: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, upd.Role)
	assert.False(t, upd.Active)

	u, _ := store.Users().GetByID(ctx, out.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("novasenha1")))

	_, err = uc.Update(ctx, "nope", dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserDelete_ProtegidoPorCaja(t *testing.T) {
	store, uc := newUsers()
	ctx := context.Background()
	out, err := uc.Create(ctx, dto.CreateUserRequest{Name: "Ana", Email: "ana@pdv.local", Password: "segredo123", Role: entity.RoleOperator})
	require.NoError(t, err)
	store.PutSession(entity.CashSession{ID: "s-1", UserID: out.ID, Status: entity.CashSessionOpen})

	assert.ErrorIs(t, uc.Delete(ctx, out.ID), domain.ErrReferenced)
	assert.ErrorIs(t, uc.Delete(ctx, "nope"), domain.ErrUserNotFound)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)
}
