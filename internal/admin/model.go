// Package admin implementa la consola administrativa: metadatos declarativos por modelo
// (ModelAdmin) y un store genérico sobre gorm que lista, filtra, edita y borra registros
// respetando los permisos y campos de sólo lectura de cada modelo.
package admin

import (
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"gorm.io/gorm/schema"
)

// Perms acciones habilitadas sobre un modelo.
type Perms struct {
	View   bool `json:"view"`
	Add    bool `json:"add"`
	Change bool `json:"change"`
	Delete bool `json:"delete"`
}

var allPerms = Perms{View: true, Add: true, Change: true, Delete: true}

// Relation permite búsquedas "relacion__campo" con un LEFT JOIN a Table por FK.
type Relation struct {
	Table string
	FK    string
}

// Fieldset agrupa campos en el detalle.
type Fieldset struct {
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

// Inline tabla hija mostrada en el detalle del padre (sólo lectura).
type Inline struct {
	Table    string
	Label    string
	FK       string
	Fields   []string
	Readonly []string
}

// ModelAdmin metadatos de consola de un modelo. Los campos se nombran por columna.
// ListDisplay vacío significa todas las columnas.
type ModelAdmin struct {
	Name         string
	Label        string
	Model        interface{}
	ListDisplay  []string
	ListFilter   []string
	SearchFields []string
	ListEditable []string
	Readonly     []string
	ReadonlyAll  bool
	Exclude      []string
	Ordering     string
	Relations    map[string]Relation
	Fieldsets    []Fieldset
	Inlines      []Inline
	Perms        Perms
	// Roles que ven el modelo; vacío = ADMIN y GERENTE.
	Roles []string
	// AuditChange/AuditDelete exigen justificación y escriben audit_logs en la misma tx.
	AuditChange bool
	AuditDelete bool

	schema *schema.Schema
}

var timestamps = []string{"created_at", "updated_at"}

// DefaultModels registro de consola del PDV.
func DefaultModels() []ModelAdmin {
	return []ModelAdmin{
		{
			Name:         "users",
			Label:        "Usuários",
			Model:        &entity.User{},
			ListDisplay:  []string{"name", "email", "role", "active", "created_at"},
			ListFilter:   []string{"role", "active"},
			SearchFields: []string{"name", "email"},
			Readonly:     timestamps,
			Exclude:      []string{"password_hash"},
			Ordering:     "name",
			// el alta pasa por /api/users, que hashea la contraseña
			Perms: Perms{View: true, Change: true, Delete: true},
			Roles: []string{entity.RoleAdmin},
		},
		{
			Name:         "categories",
			Label:        "Categorias",
			Model:        &entity.Category{},
			Readonly:     timestamps,
			SearchFields: []string{"name"},
			Ordering:     "name",
			Perms:        allPerms,
		},
		{
			Name:         "products",
			Label:        "Produtos",
			Model:        &entity.Product{},
			ListDisplay:  []string{"name", "sku", "sale_price", "current_stock", "category_id", "active"},
			ListFilter:   []string{"category_id", "active"},
			SearchFields: []string{"name", "sku", "barcode"},
			ListEditable: []string{"sale_price", "active"},
			Readonly:     []string{"current_stock", "created_at", "updated_at"},
			Ordering:     "name",
			Perms:        allPerms,
			AuditChange:  true,
		},
		{
			Name:         "customers",
			Label:        "Clientes",
			Model:        &entity.Customer{},
			Readonly:     timestamps,
			SearchFields: []string{"name", "tax_id"},
			Ordering:     "name",
			Perms:        allPerms,
		},
		{
			Name:         "sales",
			Label:        "Vendas",
			Model:        &entity.Sale{},
			ListDisplay:  []string{"id", "created_at", "user_id", "customer_id", "net_total", "status"},
			ListFilter:   []string{"status", "created_at", "user_id"},
			SearchFields: []string{"id", "customer__name", "user__name"},
			Readonly:     []string{"gross_total", "net_total", "created_at"},
			Ordering:     "-created_at",
			Relations: map[string]Relation{
				"customer": {Table: "customers", FK: "customer_id"},
				"user":     {Table: "users", FK: "user_id"},
			},
			Fieldsets: []Fieldset{
				{Title: "Informações da Venda", Fields: []string{"cash_session_id", "user_id", "customer_id", "status"}},
				{Title: "Valores", Fields: []string{"gross_total", "discount_total", "net_total"}},
			},
			Inlines: []Inline{
				{Table: "sale_items", Label: "Itens", FK: "sale_id", Fields: []string{"id", "product_id", "quantity", "unit_price", "subtotal"}, Readonly: []string{"subtotal"}},
				{Table: "payments", Label: "Pagamentos", FK: "sale_id", Fields: []string{"id", "method", "amount"}},
			},
			// cambios sólo vía cancelamento
			Perms:       Perms{View: true, Delete: true},
			AuditDelete: true,
		},
		{
			Name:        "cash_sessions",
			Label:       "Sessões de caixa",
			Model:       &entity.CashSession{},
			ListDisplay: []string{"id", "user_id", "opened_at", "status", "system_amount"},
			ListFilter:  []string{"status", "opened_at"},
			ReadonlyAll: true,
			Ordering:    "-opened_at",
			Perms:       Perms{View: true, Delete: true},
		},
		{
			Name:         "stock_movements",
			Label:        "Movimentações de estoque",
			Model:        &entity.StockMovement{},
			ListDisplay:  []string{"product_id", "quantity", "type", "user_id", "created_at"},
			ListFilter:   []string{"type", "created_at"},
			SearchFields: []string{"product__name", "reason"},
			ReadonlyAll:  true,
			Ordering:     "-created_at",
			Relations: map[string]Relation{
				"product": {Table: "products", FK: "product_id"},
			},
			Perms: Perms{View: true},
		},
		{
			Name:        "audit_logs",
			Label:       "Auditoria",
			Model:       &entity.AuditLog{},
			ListDisplay: []string{"created_at", "user_id", "action", "affected_table", "record_id"},
			ReadonlyAll: true,
			Ordering:    "-created_at",
			// sólo el sistema crea auditoría
			Perms: Perms{View: true},
		},
	}
}
