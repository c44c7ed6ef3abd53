package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pdv-api/internal/admin"
	"github.com/jhoicas/pdv-api/internal/application/audit"
	"github.com/jhoicas/pdv-api/internal/application/auth"
	"github.com/jhoicas/pdv-api/internal/application/cashier"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/application/usecase"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	UserUC           *usecase.UserUseCase
	CategoryUC       *usecase.CategoryUseCase
	ProductUC        *usecase.ProductUseCase
	CustomerUC       *usecase.CustomerUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	CashSessionUC    *cashier.CashSessionUseCase
	SaleUC           *sales.SaleUseCase
	AuditUC          *audit.AuditUseCase
	Console          *admin.Console
	JWTSecret        string
}

// Router registra las rutas de la API y de la consola.
func Router(app *fiber.App, deps RouterDeps) {
	var (
		adminOnly    = RequireRole(entity.RoleAdmin)
		managers     = RequireRole(entity.RoleAdmin, entity.RoleManager)
		stockStaff   = RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RoleStockClerk)
		cashierStaff = RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RoleOperator)
	)

	api := app.Group("/api")

	// Auth (público salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Catálogo: lectura para cualquier perfil, escritura ADMIN/GERENTE
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", managers, categoryHandler.Create)
	categories.Put("/:id", managers, categoryHandler.Update)
	categories.Delete("/:id", managers, categoryHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/barcode/:barcode", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", managers, productHandler.Create)
	products.Put("/:id", managers, productHandler.Update)
	products.Delete("/:id", managers, productHandler.Delete)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", managers, customerHandler.Delete)

	// Inventory movements
	invGroup := protected.Group("/inventory", stockStaff)
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.List)
	invGroup.Get("/movements/:id", inventoryHandler.GetByID)

	sessions := protected.Group("/cash-sessions", cashierStaff)
	sessionHandler := NewCashSessionHandler(deps.CashSessionUC)
	sessions.Post("/", sessionHandler.Open)
	sessions.Get("/", sessionHandler.List)
	sessions.Get("/current", sessionHandler.Current)
	sessions.Get("/:id", sessionHandler.GetByID)
	sessions.Post("/:id/close", sessionHandler.Close)

	salesGroup := protected.Group("/sales", cashierStaff)
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Post("/:id/cancel", managers, saleHandler.Cancel)

	auditGroup := protected.Group("/audit-logs", managers)
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/", auditHandler.List)
	auditGroup.Get("/:id", auditHandler.GetByID)

	// Consola administrativa; los permisos finos los resuelve cada ModelAdmin
	if deps.Console != nil {
		console := app.Group("/admin", AuthMiddleware(deps.JWTSecret))
		adminHandler := NewAdminHandler(deps.Console)
		console.Get("/", adminHandler.Index)
		console.Get("/:model", adminHandler.Changelist)
		console.Post("/:model", adminHandler.Add)
		console.Patch("/:model", adminHandler.BulkEdit)
		console.Get("/:model/:id", adminHandler.Detail)
		console.Patch("/:model/:id", adminHandler.Change)
		console.Delete("/:model/:id", adminHandler.Delete)
	}
}
