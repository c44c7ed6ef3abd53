package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pdv-api/internal/application/apptest"
	"github.com/jhoicas/pdv-api/internal/application/audit"
	"github.com/jhoicas/pdv-api/internal/application/auth"
	"github.com/jhoicas/pdv-api/internal/application/cashier"
	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/application/usecase"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/pos"
	apphttp "github.com/jhoicas/pdv-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pdv-api/pkg/jwt"
	"github.com/jhoicas/pdv-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	adminID    = "30000000-0000-0000-0000-000000000001"
	operatorID = "30000000-0000-0000-0000-000000000002"
	clerkID    = "30000000-0000-0000-0000-000000000003"
	arrozID    = "10000000-0000-0000-0000-000000000001"
)

type stubReceipts struct{}

func (stubReceipts) GenerateReceiptPDF(context.Context, sales.ReceiptData) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

type testServer struct {
	app   *fiber.App
	store *apptest.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	require.NoError(t, err)

	store := apptest.NewStore()
	store.PutUser(entity.User{ID: adminID, Name: "Admin", Email: "admin@pdv.local", PasswordHash: string(hash), Role: entity.RoleAdmin, Active: true})
	store.PutUser(entity.User{ID: operatorID, Name: "Ana Caixa", Email: "ana@pdv.local", PasswordHash: string(hash), Role: entity.RoleOperator, Active: true})
	store.PutUser(entity.User{ID: clerkID, Name: "Beto Estoque", Email: "beto@pdv.local", PasswordHash: string(hash), Role: entity.RoleStockClerk, Active: false})
	store.PutProduct(entity.Product{
		ID: arrozID, Name: "Arroz 5kg", Barcode: "7890001", SKU: "ARZ-5",
		CostPrice: decimal.RequireFromString("1.00"), SalePrice: decimal.RequireFromString("2.50"),
		CurrentStock: 10, MinStock: 2, Active: true,
	})

	log := logger.Nop()
	recorder := audit.NewRecorder(nil, log)
	movements := inventory.NewRegisterMovementUseCase(store, store.Repos().Movements, recorder, pos.StockPolicy{}, nil, log)
	saleUC := sales.NewSaleUseCase(sales.Deps{
		TxRunner:  store,
		Sales:     store.Repos().Sales,
		Sessions:  store.Sessions(),
		Users:     store.Users(),
		Customers: store.Customers(),
		Stock:     movements,
		Recorder:  recorder,
		Receipts:  stubReceipts{},
		Store:     sales.StoreInfo{Name: "Mercadinho Central"},
		Log:       log,
	})

	reg := prometheus.NewRegistry()
	app := apphttp.NewApp(apphttp.AppConfig{Name: "pdv-api-test", Log: log, Registry: reg})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:           auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log),
		UserUC:           usecase.NewUserUseCase(store.Users()),
		CategoryUC:       usecase.NewCategoryUseCase(store.Categories()),
		ProductUC:        usecase.NewProductUseCase(store.Products(), store.Categories()),
		CustomerUC:       usecase.NewCustomerUseCase(store.Customers()),
		RegisterMovement: movements,
		CashSessionUC:    cashier.NewCashSessionUseCase(store, store.Sessions(), recorder, nil, log),
		SaleUC:           saleUC,
		AuditUC:          audit.NewAuditUseCase(store.Audit()),
		JWTSecret:        testJWTSecret,
	})
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, path, userID, role string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		tok, err := pkgjwt.Generate(testJWTSecret, userID, role, testIssuer, testExpMin)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/auth/login", "", "", dto.LoginRequest{Email: "ana@pdv.local", Password: "segredo123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleOperator, out.User.Role)

	// el token emitido sirve para /me
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+out.Token)
	me, err := s.app.Test(req, -1)
	require.NoError(t, err)
	var user dto.UserResponse
	decode(t, me, &user)
	assert.Equal(t, operatorID, user.ID)

	for _, in := range []dto.LoginRequest{
		{Email: "ana@pdv.local", Password: "errada"},
		{Email: "ninguem@pdv.local", Password: "segredo123"},
	} {
		resp := s.do(t, http.MethodPost, "/api/auth/login", "", "", in)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, in.Email)
		resp.Body.Close()
	}

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", "", dto.LoginRequest{Email: "beto@pdv.local", Password: "segredo123"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", "", dto.LoginRequest{Email: "no-es-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProducts_PerfilesYErrores(t *testing.T) {
	s := newTestServer(t)
	in := dto.CreateProductRequest{
		Name: "Feijão 1kg", Barcode: "7890002", SKU: "FJ-1",
		CostPrice: decimal.RequireFromString("4"), SalePrice: decimal.RequireFromString("7.90"), MinStock: 3,
	}

	resp := s.do(t, http.MethodPost, "/api/products", operatorID, entity.RoleOperator, in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/products", adminID, entity.RoleAdmin, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.ProductResponse
	decode(t, resp, &created)
	assert.Equal(t, 0, created.CurrentStock)
	assert.True(t, created.Active)

	resp = s.do(t, http.MethodPost, "/api/products", adminID, entity.RoleAdmin, in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	in.Name = ""
	in.Barcode = "7890003"
	resp = s.do(t, http.MethodPost, "/api/products", adminID, entity.RoleAdmin, in)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var verr dto.ErrorResponse
	decode(t, resp, &verr)
	assert.Equal(t, "VALIDATION", verr.Code)
	assert.Contains(t, verr.Fields, "name")

	// lectura para cualquier perfil
	resp = s.do(t, http.MethodGet, "/api/products/barcode/7890001", operatorID, entity.RoleOperator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var byBarcode dto.ProductResponse
	decode(t, resp, &byBarcode)
	assert.Equal(t, arrozID, byBarcode.ID)

	resp = s.do(t, http.MethodGet, "/api/products/"+"10000000-0000-0000-0000-00000000ffff", operatorID, entity.RoleOperator, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestVenta_FlujoHTTP(t *testing.T) {
	s := newTestServer(t)

	// sin caja abierta
	sale := dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{{ProductID: arrozID, Quantity: 4}},
		Payments: []dto.PaymentRequest{{Method: entity.PaymentMethodCash, Amount: decimal.RequireFromString("10.00")}},
	}
	resp := s.do(t, http.MethodPost, "/api/sales", operatorID, entity.RoleOperator, sale)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/cash-sessions", operatorID, entity.RoleOperator, dto.OpenCashSessionRequest{OpeningAmount: decimal.RequireFromString("50")})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session dto.CashSessionResponse
	decode(t, resp, &session)

	resp = s.do(t, http.MethodPost, "/api/cash-sessions", operatorID, entity.RoleOperator, dto.OpenCashSessionRequest{})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// pagos que no cuadran
	bad := sale
	bad.Payments = []dto.PaymentRequest{{Method: entity.PaymentMethodCash, Amount: decimal.RequireFromString("9.99")}}
	resp = s.do(t, http.MethodPost, "/api/sales", operatorID, entity.RoleOperator, bad)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/sales", operatorID, entity.RoleOperator, sale)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.SaleResponse
	decode(t, resp, &created)
	assert.Equal(t, session.ID, created.CashSessionID)
	assert.True(t, decimal.RequireFromString("10").Equal(created.NetTotal))
	assert.Equal(t, 6, s.store.Product(arrozID).CurrentStock)

	resp = s.do(t, http.MethodGet, "/api/sales/"+created.ID+"/receipt", operatorID, entity.RoleOperator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))

	// el operador no cancela
	resp = s.do(t, http.MethodPost, "/api/sales/"+created.ID+"/cancel", operatorID, entity.RoleOperator, dto.CancelSaleRequest{Justification: "erro"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/sales/"+created.ID+"/cancel", adminID, entity.RoleAdmin, dto.CancelSaleRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/sales/"+created.ID+"/cancel", adminID, entity.RoleAdmin, dto.CancelSaleRequest{Justification: "cliente desistiu"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cancelled dto.SaleResponse
	decode(t, resp, &cancelled)
	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, s.store.Product(arrozID).CurrentStock)

	resp = s.do(t, http.MethodGet, "/api/audit-logs", adminID, entity.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs dto.AuditLogListResponse
	decode(t, resp, &logs)
	assert.NotEmpty(t, logs.Items)

	resp = s.do(t, http.MethodGet, "/api/sales?from=not-a-date", adminID, entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestInventario_SoloPersonalDeEstoque(t *testing.T) {
	s := newTestServer(t)
	in := dto.RegisterMovementRequest{ProductID: arrozID, Type: entity.MovementTypeIn, Quantity: 5}

	resp := s.do(t, http.MethodPost, "/api/inventory/movements", operatorID, entity.RoleOperator, in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/inventory/movements", adminID, entity.RoleAdmin, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 15, s.store.Product(arrozID).CurrentStock)

	in = dto.RegisterMovementRequest{ProductID: arrozID, Type: entity.MovementTypeOut, Quantity: 100}
	resp = s.do(t, http.MethodPost, "/api/inventory/movements", adminID, entity.RoleAdmin, in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthYMetrics(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/metrics", "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "http_request_duration_seconds")
}
