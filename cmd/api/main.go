package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/jhoicas/pdv-api/internal/admin"
	"github.com/jhoicas/pdv-api/internal/application/audit"
	"github.com/jhoicas/pdv-api/internal/application/auth"
	"github.com/jhoicas/pdv-api/internal/application/cashier"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/application/usecase"
	"github.com/jhoicas/pdv-api/internal/domain/pos"
	infrapdf "github.com/jhoicas/pdv-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pdv-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pdv-api/internal/interfaces/http"
	"github.com/jhoicas/pdv-api/pkg/config"
	"github.com/jhoicas/pdv-api/pkg/logger"
	"github.com/jhoicas/pdv-api/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.DB.AutoMigrate {
		migrator, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		_ = migrator.Close()
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	posMetrics := metrics.NewPOSMetrics(reg)

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	sessionRepo := postgres.NewCashSessionRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	recorder := audit.NewRecorder(posMetrics, log)
	registerMovementUC := inventory.NewRegisterMovementUseCase(
		txRunner, movementRepo, recorder,
		pos.StockPolicy{AllowNegative: cfg.Stock.AllowNegative},
		posMetrics, log,
	)
	cashSessionUC := cashier.NewCashSessionUseCase(txRunner, sessionRepo, recorder, posMetrics, log)

	// Cupom da venda en PDF (80 mm)
	saleUC := sales.NewSaleUseCase(sales.Deps{
		TxRunner:  txRunner,
		Sales:     saleRepo,
		Sessions:  sessionRepo,
		Users:     userRepo,
		Customers: customerRepo,
		Stock:     registerMovementUC,
		Recorder:  recorder,
		Receipts:  infrapdf.NewReceiptGenerator(),
		Store:     sales.StoreInfo{Name: cfg.Store.Name, TaxID: cfg.Store.TaxID},
		Metrics:   posMetrics,
		Log:       log,
	})

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	// Consola administrativa: gorm sobre el mismo pool
	gdb, err := postgres.OpenGorm(pool)
	if err != nil {
		log.Fatal().Err(err).Msg("gorm")
	}
	registry, err := admin.NewRegistry(gdb, admin.DefaultModels()...)
	if err != nil {
		log.Fatal().Err(err).Msg("registro de la consola")
	}
	console := admin.NewConsole(gdb, registry, recorder, log)

	app := httpRouter.NewApp(httpRouter.AppConfig{Name: cfg.App.Name, Log: log, Registry: reg})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "PDV API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		UserUC:           usecase.NewUserUseCase(userRepo),
		CategoryUC:       usecase.NewCategoryUseCase(categoryRepo),
		ProductUC:        usecase.NewProductUseCase(productRepo, categoryRepo),
		CustomerUC:       usecase.NewCustomerUseCase(customerRepo),
		RegisterMovement: registerMovementUC,
		CashSessionUC:    cashSessionUC,
		SaleUC:           saleUC,
		AuditUC:          audit.NewAuditUseCase(auditRepo),
		Console:          console,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
