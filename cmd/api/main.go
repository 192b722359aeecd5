package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/warehouse-ledger/internal/application/fulfillment"
	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/application/usecase"
	inframetrics "github.com/jhoicas/warehouse-ledger/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/warehouse-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/warehouse-ledger/internal/infrastructure/redis"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/warehouse-ledger/internal/interfaces/http"
	"github.com/jhoicas/warehouse-ledger/pkg/config"
	"github.com/jhoicas/warehouse-ledger/pkg/logger"
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

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		m, err := postgres.NewMigrator(cfg.DB.MigrationURL(), log.Component("migrate"))
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar migrador")
		}
		if err := m.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		_ = m.Close()
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios fuera de transacción (lecturas) y TxRunner para escrituras.
	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Ledger.MaxRetries, log.Component("tx"))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledgerMetrics := inframetrics.NewLedgerMetrics(registry)

	// Notificador InventoryMoved (Redis pub/sub). Deshabilitado = publicador nulo.
	var publisher ports.InventoryEventPublisher = ports.NopPublisher{}
	if cfg.Redis.Enabled {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		notifier := infraredis.NewNotifier(client, cfg.Redis.Channel, cfg.Redis.Buffer, log.Component("notifier"))
		notifier.Start()
		defer notifier.Close()
		publisher = notifier
	}

	unitCatalogUC := inventory.NewUnitCatalogUseCase(txRunner, repos.Units)
	ledgerUC := inventory.NewLedgerUseCase(repos.Ledger, repos.Movements)
	recordMovementUC := inventory.NewRecordMovementUseCase(txRunner, publisher, ledgerMetrics, log.Component("movements"))
	auditUC := inventory.NewAuditUseCase(repos.Ledger, ledgerMetrics, log.Component("audit"))
	stockCardUC := inventory.NewStockCardUseCase(ledgerUC, repos.Units, infrapdf.NewStockCardGenerator(cfg.App.Name))
	warehouseUC := usecase.NewWarehouseUseCase(txRunner, repos.Warehouses, repos.Ledger)
	assignmentUC := fulfillment.NewAssignmentUseCase(repos.WorkItems, ledgerMetrics, log.Component("assignment"))
	lineItemUC := fulfillment.NewLineItemUseCase(txRunner)

	// Auditoría periódica de conservación del libro.
	if cfg.Ledger.AuditInterval > 0 {
		sched, err := scheduler.New(auditUC, cfg.Ledger.AuditInterval, log.Component("scheduler"))
		if err != nil {
			log.Fatal().Err(err).Msg("crear scheduler")
		}
		sched.Start()
		defer func() {
			if err := sched.Shutdown(); err != nil {
				log.Error().Err(err).Msg("detener scheduler")
			}
		}()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Warehouse Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		UnitCatalog:    unitCatalogUC,
		Ledger:         ledgerUC,
		RecordMovement: recordMovementUC,
		StockCard:      stockCardUC,
		Audit:          auditUC,
		WarehouseUC:    warehouseUC,
		Assignment:     assignmentUC,
		LineItems:      lineItemUC,
		JWTSecret:      cfg.JWT.Secret,
		ManagerRoles:   cfg.JWT.ManagerRoles,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
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
