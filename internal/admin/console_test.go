package admin_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pdv-api/internal/admin"
	"github.com/jhoicas/pdv-api/internal/application/audit"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/pkg/logger"
	"github.com/jhoicas/pdv-api/pkg/validate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var (
	adminActor    = entity.Actor{UserID: "a0000000-0000-0000-0000-000000000001", Role: entity.RoleAdmin}
	managerActor  = entity.Actor{UserID: "a0000000-0000-0000-0000-000000000002", Role: entity.RoleManager}
	operatorActor = entity.Actor{UserID: "a0000000-0000-0000-0000-000000000003", Role: entity.RoleOperator}
)

func allModels() []interface{} {
	return []interface{}{
		&entity.User{}, &entity.Category{}, &entity.Product{}, &entity.StockMovement{},
		&entity.Customer{}, &entity.CashSession{}, &entity.Sale{}, &entity.SaleItem{},
		&entity.Payment{}, &entity.AuditLog{},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(allModels()...))
	for _, a := range []entity.Actor{adminActor, managerActor, operatorActor} {
		require.NoError(t, db.Create(&entity.User{
			ID: a.UserID, Name: "user-" + a.Role, Email: a.Role + "@pdv.local", PasswordHash: "x", Role: a.Role, Active: true,
		}).Error)
	}
	return db
}

func newConsole(t *testing.T) (*admin.Console, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	reg, err := admin.NewRegistry(db, admin.DefaultModels()...)
	require.NoError(t, err)
	return admin.NewConsole(db, reg, audit.NewRecorder(nil, logger.Nop()), logger.Nop()), db
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, price string, categoryID *string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID: uuid.NewString(), Name: "Produto " + sku, Barcode: "789" + sku, SKU: sku,
		SalePrice: decimal.RequireFromString(price), CategoryID: categoryID, Active: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// seedSale crea sesión, cliente y una venta con un ítem y un pago.
func seedSale(t *testing.T, db *gorm.DB, customerName string) (*entity.Sale, *entity.CashSession) {
	t.Helper()
	p := seedProduct(t, db, uuid.NewString()[:8], "5.00", nil)
	session := &entity.CashSession{ID: uuid.NewString(), UserID: operatorActor.UserID, OpenedAt: time.Now(), Status: entity.CashSessionOpen}
	require.NoError(t, db.Create(session).Error)
	customer := &entity.Customer{ID: uuid.NewString(), Name: customerName}
	require.NoError(t, db.Create(customer).Error)

	saleID := uuid.NewString()
	sale := &entity.Sale{
		ID: saleID, CashSessionID: session.ID, UserID: operatorActor.UserID, CustomerID: &customer.ID,
		GrossTotal: decimal.RequireFromString("10"), NetTotal: decimal.RequireFromString("10"), Status: entity.SaleStatusCompleted,
		Items:    []entity.SaleItem{{ID: uuid.NewString(), ProductID: p.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("5"), Subtotal: decimal.RequireFromString("10")}},
		Payments: []entity.Payment{{ID: uuid.NewString(), Method: entity.PaymentMethodCash, Amount: decimal.RequireFromString("10")}},
	}
	require.NoError(t, db.Create(sale).Error)
	return sale, session
}

func auditLogs(t *testing.T, db *gorm.DB) []entity.AuditLog {
	t.Helper()
	var logs []entity.AuditLog
	require.NoError(t, db.Order("created_at").Find(&logs).Error)
	return logs
}

func asDecimal(t *testing.T, v interface{}) decimal.Decimal {
	t.Helper()
	d, ok := v.(decimal.Decimal)
	require.True(t, ok, "esperaba decimal, obtuve %T", v)
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro y permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistry_RechazaCamposInexistentes(t *testing.T) {
	db := newTestDB(t)
	_, err := admin.NewRegistry(db, admin.ModelAdmin{
		Name: "products", Model: &entity.Product{}, ListDisplay: []string{"nombre"},
	})
	assert.Error(t, err)

	_, err = admin.NewRegistry(db, admin.ModelAdmin{
		Name: "sales", Model: &entity.Sale{}, SearchFields: []string{"store__name"},
	})
	assert.Error(t, err, "relación no declarada")

	_, err = admin.NewRegistry(db, admin.ModelAdmin{
		Name: "products", Model: &entity.Product{}, ListEditable: []string{"current_stock"}, Readonly: []string{"current_stock"},
	})
	assert.Error(t, err)
}

func TestIndex_PermisosPorPerfil(t *testing.T) {
	c, _ := newConsole(t)

	byName := func(infos []admin.ModelInfo) map[string]admin.Perms {
		out := map[string]admin.Perms{}
		for _, i := range infos {
			out[i.Name] = i.Perms
		}
		return out
	}

	adm := byName(c.Index(adminActor))
	assert.Len(t, adm, 8)
	assert.Equal(t, admin.Perms{View: true, Change: true, Delete: true}, adm["users"])
	assert.Equal(t, admin.Perms{View: true}, adm["audit_logs"])
	assert.Equal(t, admin.Perms{View: true, Delete: true}, adm["sales"])

	mgr := byName(c.Index(managerActor))
	assert.NotContains(t, mgr, "users")
	assert.Contains(t, mgr, "products")

	assert.Empty(t, c.Index(operatorActor))
}

func TestAdd_AuditoriaRechazada(t *testing.T) {
	c, db := newConsole(t)

	_, err := c.Add(context.Background(), adminActor, "audit_logs", map[string]interface{}{
		"user_id": adminActor.UserID, "action": "X", "affected_table": "products", "record_id": "1", "justification": "x",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, auditLogs(t, db))
}

func TestConsola_OperadorSinAcceso(t *testing.T) {
	c, _ := newConsole(t)
	_, err := c.Changelist(context.Background(), operatorActor, "products", admin.ChangelistQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = c.Changelist(context.Background(), managerActor, "users", admin.ChangelistQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = c.Changelist(context.Background(), adminActor, "warehouses", admin.ChangelistQuery{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y modificación
// ──────────────────────────────────────────────────────────────────────────────

func TestAdd_Producto(t *testing.T) {
	c, _ := newConsole(t)
	ctx := context.Background()

	d, err := c.Add(ctx, managerActor, "products", map[string]interface{}{
		"name": "Feijão 1kg", "barcode": "7891", "sku": "FEIJAO-1", "sale_price": "8.90", "min_stock": 3, "active": true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, d.Record["id"])
	assert.Equal(t, "Feijão 1kg", d.Record["name"])
	assert.Equal(t, "8.90", asDecimal(t, d.Record["sale_price"]).StringFixed(2))
	assert.EqualValues(t, 0, d.Record["current_stock"])
	assert.Equal(t, true, d.Record["active"])
	assert.Contains(t, d.Readonly, "current_stock")

	_, err = c.Add(ctx, managerActor, "products", map[string]interface{}{
		"name": "Outro", "barcode": "7892", "sku": "FEIJAO-1",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "sku repetido")
}

func TestAdd_CamposRechazados(t *testing.T) {
	c, _ := newConsole(t)
	ctx := context.Background()

	_, err := c.Add(ctx, adminActor, "products", map[string]interface{}{
		"name": "X", "barcode": "1", "sku": "X", "current_stock": 50, "cor": "azul",
	})
	var verr *validate.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "es de sólo lectura", verr.Fields["current_stock"])
	assert.Equal(t, "campo desconocido", verr.Fields["cor"])

	_, err = c.Add(ctx, adminActor, "products", map[string]interface{}{"barcode": "1", "sku": "X"})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")

	_, err = c.Add(ctx, adminActor, "users", map[string]interface{}{"name": "novo"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestChange_ProductoAuditado(t *testing.T) {
	c, db := newConsole(t)
	ctx := context.Background()
	p := seedProduct(t, db, "ARROZ", "3.50", nil)

	_, err := c.Change(ctx, managerActor, "products", p.ID, map[string]interface{}{"sale_price": "3.99"}, "")
	assert.ErrorIs(t, err, domain.ErrJustificationRequired)

	d, err := c.Change(ctx, managerActor, "products", p.ID, map[string]interface{}{"sale_price": "3.99"}, "reajuste do fornecedor")
	require.NoError(t, err)
	assert.Equal(t, "3.99", asDecimal(t, d.Record["sale_price"]).StringFixed(2))

	logs := auditLogs(t, db)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionConsoleChange, logs[0].Action)
	assert.Equal(t, "products", logs[0].AffectedTable)
	assert.Equal(t, p.ID, logs[0].RecordID)
	assert.Equal(t, managerActor.UserID, logs[0].UserID)
	require.NotNil(t, logs[0].OldValue)
	assert.Contains(t, *logs[0].OldValue, "sale_price")

	_, err = c.Change(ctx, managerActor, "products", p.ID, map[string]interface{}{"current_stock": 99}, "x")
	var verr *validate.Error
	require.True(t, errors.As(err, &verr))

	_, err = c.Change(ctx, managerActor, "products", uuid.NewString(), map[string]interface{}{"name": "x"}, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChange_CategoriaSinAuditoria(t *testing.T) {
	c, db := newConsole(t)
	ctx := context.Background()
	d, err := c.Add(ctx, adminActor, "categories", map[string]interface{}{"name": "Bebidas", "active": true})
	require.NoError(t, err)

	d, err = c.Change(ctx, adminActor, "categories", d.Record["id"].(string), map[string]interface{}{"name": "Bebidas frias"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Bebidas frias", d.Record["name"])
	assert.Empty(t, auditLogs(t, db))
}

func TestChange_VentaNoPermitida(t *testing.T) {
	c, db := newConsole(t)
	sale, _ := seedSale(t, db, "Maria")
	_, err := c.Change(context.Background(), adminActor, "sales", sale.ID, map[string]interface{}{"status": entity.SaleStatusCancelled}, "x")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestBulkEdit_SoloCamposEditables(t *testing.T) {
	c, db := newConsole(t)
	ctx := context.Background()
	a := seedProduct(t, db, "A", "1.00", nil)
	b := seedProduct(t, db, "B", "2.00", nil)

	_, err := c.BulkEdit(ctx, adminActor, "products", []admin.BulkRow{
		{ID: a.ID, Fields: map[string]interface{}{"name": "renomeado"}},
	}, "x")
	var verr *validate.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")

	n, err := c.BulkEdit(ctx, adminActor, "products", []admin.BulkRow{
		{ID: a.ID, Fields: map[string]interface{}{"sale_price": "1.50"}},
		{ID: b.ID, Fields: map[string]interface{}{"active": false}},
	}, "revisão de preços")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var gotA, gotB entity.Product
	require.NoError(t, db.First(&gotA, "id = ?", a.ID).Error)
	assert.Equal(t, "1.50", gotA.SalePrice.StringFixed(2))
	require.NoError(t, db.First(&gotB, "id = ?", b.ID).Error)
	assert.False(t, gotB.Active)

	logs := auditLogs(t, db)
	require.Len(t, logs, 2)
	assert.Equal(t, entity.AuditActionConsoleBulkChange, logs[0].Action)
}

func TestConsola_PreciosNegativosRechazados(t *testing.T) {
	c, db := newConsole(t)
	ctx := context.Background()
	p := seedProduct(t, db, "ARROZ", "3.50", nil)

	_, err := c.BulkEdit(ctx, adminActor, "products", []admin.BulkRow{
		{ID: p.ID, Fields: map[string]interface{}{"sale_price": "-3.00"}},
	}, "x")
	var verr *validate.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "sale_price")

	_, err = c.Change(ctx, adminActor, "products", p.ID, map[string]interface{}{"cost_price": "-1"}, "x")
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "cost_price")

	_, err = c.Add(ctx, adminActor, "products", map[string]interface{}{
		"name": "X", "barcode": "1", "sku": "X", "sale_price": "-0.01",
	})
	assert.ErrorIs(t, err, validate.ErrInvalid)

	var got entity.Product
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, "3.50", got.SalePrice.StringFixed(2))
	assert.True(t, got.CostPrice.IsZero())
	assert.Empty(t, auditLogs(t, db))
}

func TestAdd_ClientesSinDocumento(t *testing.T) {
	c, db := newConsole(t)
	ctx := context.Background()

	a, err := c.Add(ctx, adminActor, "customers", map[string]interface{}{"name": "A", "tax_id": ""})
	require.NoError(t, err)
	assert.Nil(t, a.Record["tax_id"])
	_, err = c.Add(ctx, adminActor, "customers", map[string]interface{}{"name": "B", "tax_id": "  "})
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&entity.Customer{}).Where("tax_id IS NULL").Count(&n).Error)
	assert.EqualValues(t, 2, n)

	_, err = c.Add(ctx, adminActor, "customers", map[string]interface{}{"name": "C", "tax_id": "123.456.789-00"})
	require.NoError(t, err)
	_, err = c.Add(ctx, adminActor, "customers", map[string]interface{}{"name": "D", "tax_id": "123.456.789-00"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestBulkEdit_FallaRevierteTodo(t *testing.T) {
	c, db := newConsole(t)
	a := seedProduct(t, db, "A", "1.00", nil)

	_, err := c.BulkEdit(context.Background(), adminActor, "products", []admin.BulkRow{
		{ID: a.ID, Fields: map[string]interface{}{"sale_price": "9.00"}},
		{ID: uuid.NewString(), Fields: map[string]interface{}{"sale_price": "9.00"}},
	}, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var got entity.Product
	require.NoError(t, db.First(&got, "id = ?", a.ID).Error)
	assert.Equal(t, "1.00", got.SalePrice.StringFixed(2))
	assert.Empty(t, auditLogs(t, db))
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado
// ──────────────────────────────────────────────────────────────────────────────

func TestChangelist_FiltrosBusquedaOrdenYPaginas(t *testing.T) {
	c, db := newConsole(t)
	ctx := context.Background()
	seedProduct(t, db, "ARROZ", "3.50", nil)
	seedProduct(t, db, "FEIJAO", "8.00", nil)
	off := seedProduct(t, db, "MILHO", "2.00", nil)
	require.NoError(t, db.Model(&entity.Product{}).Where("id = ?", off.ID).Update("active", false).Error)

	list, err := c.Changelist(ctx, adminActor, "products", admin.ChangelistQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, list.Total)
	assert.Equal(t, []string{"id", "name", "sku", "sale_price", "current_stock", "category_id", "active"}, list.Columns)
	assert.Equal(t, []string{"sale_price", "active"}, list.Editable)
	assert.NotContains(t, list.Rows[0], "barcode", "sólo list_display")

	list, err = c.Changelist(ctx, adminActor, "products", admin.ChangelistQuery{Filters: map[string]string{"active": "false"}})
	require.NoError(t, err)
	require.Len(t, list.Rows, 1)
	assert.Equal(t, "MILHO", list.Rows[0]["sku"])
	assert.Equal(t, false, list.Rows[0]["active"])

	list, err = c.Changelist(ctx, adminActor, "products", admin.ChangelistQuery{Search: "feij"})
	require.NoError(t, err)
	require.Len(t, list.Rows, 1)
	assert.Equal(t, "FEIJAO", list.Rows[0]["sku"])

	list, err = c.Changelist(ctx, adminActor, "products", admin.ChangelistQuery{Ordering: "-sale_price", Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, list.Total)
	require.Len(t, list.Rows, 2)
	assert.Equal(t, "FEIJAO", list.Rows[0]["sku"])
	assert.Equal(t, "ARROZ", list.Rows[1]["sku"])

	list, err = c.Changelist(ctx, adminActor, "products", admin.ChangelistQuery{Ordering: "sale_price", Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, list.Rows, 1)
	assert.Equal(t, "FEIJAO", list.Rows[0]["sku"])

	for _, wildcard := range []string{"%", "_", "!"} {
		list, err = c.Changelist(ctx, adminActor, "products", admin.ChangelistQuery{Search: wildcard})
		require.NoError(t, err)
		assert.Zero(t, list.Total, "comodín literal %q", wildcard)
	}

	_, err = c.Changelist(ctx, adminActor, "products", admin.ChangelistQuery{Filters: map[string]string{"name": "x"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "name no está en list_filter")

	_, err = c.Changelist(ctx, adminActor, "products", admin.ChangelistQuery{Filters: map[string]string{"active__in": "true"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.Changelist(ctx, adminActor, "products", admin.ChangelistQuery{Ordering: "senha"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangelist_VentasBuscaPorRelacion(t *testing.T) {
	c, db := newConsole(t)
	ctx := context.Background()
	maria, _ := seedSale(t, db, "Maria Silva")
	seedSale(t, db, "José Souza")

	list, err := c.Changelist(ctx, managerActor, "sales", admin.ChangelistQuery{Search: "silva"})
	require.NoError(t, err)
	require.Len(t, list.Rows, 1)
	assert.Equal(t, maria.ID, list.Rows[0]["id"])

	list, err = c.Changelist(ctx, managerActor, "sales", admin.ChangelistQuery{Search: "user-OPERADOR"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)

	list, err = c.Changelist(ctx, managerActor, "sales", admin.ChangelistQuery{Filters: map[string]string{"status": entity.SaleStatusCancelled}})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestDetail_VentaConFieldsetsEInlines(t *testing.T) {
	c, db := newConsole(t)
	sale, _ := seedSale(t, db, "Maria")

	d, err := c.Detail(context.Background(), managerActor, "sales", sale.ID)
	require.NoError(t, err)
	require.Len(t, d.Fieldsets, 2)
	assert.Equal(t, "Valores", d.Fieldsets[1].Title)
	assert.Contains(t, d.Readonly, "net_total")
	require.Len(t, d.Inlines, 2)
	assert.Equal(t, "sale_items", d.Inlines[0].Table)
	assert.Len(t, d.Inlines[0].Rows, 1)
	assert.Equal(t, []string{"subtotal"}, d.Inlines[0].Readonly)
	assert.Len(t, d.Inlines[1].Rows, 1)

	_, err = c.Detail(context.Background(), managerActor, "sales", uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDetail_UsuarioSinHash(t *testing.T) {
	c, _ := newConsole(t)
	d, err := c.Detail(context.Background(), adminActor, "users", adminActor.UserID)
	require.NoError(t, err)
	assert.NotContains(t, d.Record, "password_hash")
	assert.Equal(t, "user-ADMIN", d.Record["name"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado y reglas de integridad
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_CategoriaAnulaCategoriaDelProducto(t *testing.T) {
	c, db := newConsole(t)
	ctx := context.Background()
	cat := &entity.Category{ID: uuid.NewString(), Name: "Grãos", Active: true}
	require.NoError(t, db.Create(cat).Error)
	p := seedProduct(t, db, "ARROZ", "3.50", &cat.ID)

	require.NoError(t, c.Delete(ctx, adminActor, "categories", cat.ID, ""))

	var got entity.Product
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	assert.Nil(t, got.CategoryID)
}

func TestDelete_ProductoConMovimientosProtegido(t *testing.T) {
	c, db := newConsole(t)
	p := seedProduct(t, db, "ARROZ", "3.50", nil)
	require.NoError(t, db.Create(&entity.StockMovement{
		ID: uuid.NewString(), ProductID: p.ID, UserID: adminActor.UserID, Quantity: 5, Type: entity.MovementTypeIn,
	}).Error)

	err := c.Delete(context.Background(), adminActor, "products", p.ID, "")
	assert.ErrorIs(t, err, domain.ErrReferenced)

	var n int64
	require.NoError(t, db.Model(&entity.Product{}).Where("id = ?", p.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestDelete_VentaEnCascadaYAuditada(t *testing.T) {
	c, db := newConsole(t)
	ctx := context.Background()
	sale, session := seedSale(t, db, "Maria")

	err := c.Delete(ctx, adminActor, "sales", sale.ID, " ")
	assert.ErrorIs(t, err, domain.ErrJustificationRequired)

	err = c.Delete(ctx, adminActor, "sales", sale.ID, "venda de teste")
	assert.ErrorIs(t, err, domain.ErrConflict, "sesión todavía abierta")
	var kept int64
	require.NoError(t, db.Model(&entity.SaleItem{}).Where("sale_id = ?", sale.ID).Count(&kept).Error)
	assert.EqualValues(t, 1, kept)
	assert.Empty(t, auditLogs(t, db))

	require.NoError(t, db.Model(&entity.CashSession{}).Where("id = ?", session.ID).Update("status", entity.CashSessionClosed).Error)

	require.NoError(t, c.Delete(ctx, adminActor, "sales", sale.ID, "venda de teste"))

	var items, payments int64
	require.NoError(t, db.Model(&entity.SaleItem{}).Where("sale_id = ?", sale.ID).Count(&items).Error)
	require.NoError(t, db.Model(&entity.Payment{}).Where("sale_id = ?", sale.ID).Count(&payments).Error)
	assert.Zero(t, items)
	assert.Zero(t, payments)

	logs := auditLogs(t, db)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionConsoleDelete, logs[0].Action)
	assert.Equal(t, sale.ID, logs[0].RecordID)
	assert.Equal(t, "venda de teste", logs[0].Justification)

	err = c.Delete(ctx, adminActor, "sales", sale.ID, "de novo")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_SesionConVentasProtegida(t *testing.T) {
	c, db := newConsole(t)
	_, session := seedSale(t, db, "Maria")

	err := c.Delete(context.Background(), adminActor, "cash_sessions", session.ID, "")
	assert.ErrorIs(t, err, domain.ErrReferenced)
}

func TestDelete_MovimientosYAuditoriaInmutables(t *testing.T) {
	c, db := newConsole(t)
	p := seedProduct(t, db, "ARROZ", "3.50", nil)
	mov := &entity.StockMovement{ID: uuid.NewString(), ProductID: p.ID, UserID: adminActor.UserID, Quantity: 1, Type: entity.MovementTypeIn}
	require.NoError(t, db.Create(mov).Error)

	assert.ErrorIs(t, c.Delete(context.Background(), adminActor, "stock_movements", mov.ID, "x"), domain.ErrForbidden)
	assert.ErrorIs(t, c.Delete(context.Background(), adminActor, "audit_logs", uuid.NewString(), "x"), domain.ErrForbidden)
}
