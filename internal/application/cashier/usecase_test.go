package cashier_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/pdv-api/internal/application/apptest"
	"github.com/jhoicas/pdv-api/internal/application/audit"
	"github.com/jhoicas/pdv-api/internal/application/cashier"
	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/jhoicas/pdv-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	operator = entity.Actor{UserID: "30000000-0000-0000-0000-000000000001", Role: entity.RoleOperator}
	other    = entity.Actor{UserID: "30000000-0000-0000-0000-000000000002", Role: entity.RoleOperator}
	manager  = entity.Actor{UserID: "30000000-0000-0000-0000-000000000003", Role: entity.RoleManager}
)

func newUseCase() (*apptest.Store, *cashier.CashSessionUseCase) {
	store := apptest.NewStore()
	return store, cashier.NewCashSessionUseCase(store, store.Sessions(), audit.NewRecorder(nil, nil), nil, logger.Nop())
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// openWithSales abre una sesión con 100.00 de fondo y le agrega una venta en efectivo
// de 50.00, una PIX de 30.00 y una en efectivo cancelada.
func openWithSales(t *testing.T, store *apptest.Store, uc *cashier.CashSessionUseCase) string {
	t.Helper()
	s, err := uc.Open(context.Background(), operator, dto.OpenCashSessionRequest{OpeningAmount: money("100")})
	require.NoError(t, err)

	sale := func(id, status, method, amount string) entity.Sale {
		return entity.Sale{
			ID: id, CashSessionID: s.ID, UserID: operator.UserID, Status: status,
			NetTotal: money(amount), CreatedAt: time.Now(),
			Payments: []entity.Payment{{ID: id + "-p", SaleID: id, Method: method, Amount: money(amount)}},
		}
	}
	require.NoError(t, store.Run(context.Background(), func(r repository.TxRepos) error {
		for _, v := range []entity.Sale{
			sale("v1", entity.SaleStatusCompleted, entity.PaymentMethodCash, "50"),
			sale("v2", entity.SaleStatusCompleted, entity.PaymentMethodPix, "30"),
			sale("v3", entity.SaleStatusCancelled, entity.PaymentMethodCash, "20"),
		} {
			v := v
			if err := r.Sales.Create(context.Background(), &v); err != nil {
				return err
			}
		}
		return nil
	}))
	return s.ID
}

func TestOpen_UnaSesionAbiertaPorOperador(t *testing.T) {
	_, uc := newUseCase()
	ctx := context.Background()

	s, err := uc.Open(ctx, operator, dto.OpenCashSessionRequest{OpeningAmount: money("100")})
	require.NoError(t, err)
	assert.Equal(t, entity.CashSessionOpen, s.Status)
	assert.Equal(t, "100.00", s.OpeningAmount.StringFixed(2))

	_, err = uc.Open(ctx, operator, dto.OpenCashSessionRequest{OpeningAmount: money("10")})
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyOpen)

	_, err = uc.Open(ctx, other, dto.OpenCashSessionRequest{OpeningAmount: money("0")})
	assert.NoError(t, err, "otro operador puede abrir su propia caja")
}

func TestOpen_MontoNegativoInvalido(t *testing.T) {
	_, uc := newUseCase()
	_, err := uc.Open(context.Background(), operator, dto.OpenCashSessionRequest{OpeningAmount: money("-1")})
	assert.Error(t, err)
}

func TestClose_SinDiferencia(t *testing.T) {
	store, uc := newUseCase()
	id := openWithSales(t, store, uc)

	out, err := uc.Close(context.Background(), operator, id, dto.CloseCashSessionRequest{CountedAmount: money("150")})
	require.NoError(t, err)

	assert.Equal(t, entity.CashSessionClosed, out.Status)
	require.NotNil(t, out.SystemAmount)
	assert.Equal(t, "150.00", out.SystemAmount.StringFixed(2), "fondo + efectivo de ventas vigentes")
	assert.NotNil(t, out.ClosedAt)
	assert.Empty(t, store.AuditLogs())
}

func TestClose_DiferenciaExigeJustificacionYAudita(t *testing.T) {
	store, uc := newUseCase()
	id := openWithSales(t, store, uc)
	ctx := context.Background()

	_, err := uc.Close(ctx, operator, id, dto.CloseCashSessionRequest{CountedAmount: money("140")})
	assert.ErrorIs(t, err, domain.ErrJustificationRequired)
	assert.Equal(t, entity.CashSessionOpen, store.Session(id).Status)

	out, err := uc.Close(ctx, operator, id, dto.CloseCashSessionRequest{CountedAmount: money("140"), Justification: "troco errado"})
	require.NoError(t, err)
	require.NotNil(t, out.Difference)
	assert.Equal(t, "-10.00", out.Difference.StringFixed(2))

	logs := store.AuditLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionCashDiscrepancy, logs[0].Action)
	assert.Equal(t, "cash_sessions", logs[0].AffectedTable)
	assert.Equal(t, id, logs[0].RecordID)
}

func TestClose_SoloUnaVez(t *testing.T) {
	store, uc := newUseCase()
	id := openWithSales(t, store, uc)
	ctx := context.Background()

	_, err := uc.Close(ctx, operator, id, dto.CloseCashSessionRequest{CountedAmount: money("150")})
	require.NoError(t, err)
	_, err = uc.Close(ctx, operator, id, dto.CloseCashSessionRequest{CountedAmount: money("150")})
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestClose_SesionAjena(t *testing.T) {
	store, uc := newUseCase()
	id := openWithSales(t, store, uc)
	ctx := context.Background()

	_, err := uc.Close(ctx, other, id, dto.CloseCashSessionRequest{CountedAmount: money("150")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Close(ctx, manager, id, dto.CloseCashSessionRequest{CountedAmount: money("150")})
	assert.NoError(t, err, "el gerente puede cerrar cualquier caja")
}

func TestClose_Inexistente(t *testing.T) {
	_, uc := newUseCase()
	_, err := uc.Close(context.Background(), manager, "nope", dto.CloseCashSessionRequest{CountedAmount: money("0")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCurrentYList_OperadorSoloVeLasPropias(t *testing.T) {
	_, uc := newUseCase()
	ctx := context.Background()

	_, err := uc.Current(ctx, operator)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mine, err := uc.Open(ctx, operator, dto.OpenCashSessionRequest{OpeningAmount: money("10")})
	require.NoError(t, err)
	theirs, err := uc.Open(ctx, other, dto.OpenCashSessionRequest{OpeningAmount: money("20")})
	require.NoError(t, err)

	cur, err := uc.Current(ctx, operator)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, cur.ID)

	list, err := uc.List(ctx, operator, dto.CashSessionFilterRequest{UserID: other.UserID})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, mine.ID, list.Items[0].ID)

	all, err := uc.List(ctx, manager, dto.CashSessionFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	_, err = uc.GetByID(ctx, operator, theirs.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	got, err := uc.GetByID(ctx, manager, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, theirs.ID, got.ID)
}
