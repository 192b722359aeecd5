package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/warehouse-ledger/internal/application/fulfillment"
	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	UnitCatalog    *inventory.UnitCatalogUseCase
	Ledger         *inventory.LedgerUseCase
	RecordMovement *inventory.RecordMovementUseCase
	StockCard      *inventory.StockCardUseCase
	Audit          *inventory.AuditUseCase
	WarehouseUC    *usecase.WarehouseUseCase
	Assignment     *fulfillment.AssignmentUseCase
	LineItems      *fulfillment.LineItemUseCase
	JWTSecret      string
	ManagerRoles   []string
	Metrics        nethttp.Handler // /metrics; nil = sin exponer
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.ManagerRoles))
	manager := RequireManager()

	// Catálogo de unidades (escritura: gerente)
	units := protected.Group("/units")
	unitHandler := NewUnitHandler(deps.UnitCatalog)
	units.Get("/", unitHandler.List)
	units.Post("/", manager, unitHandler.Create)
	units.Get("/:id", unitHandler.GetByID)
	units.Get("/:id/display", unitHandler.Display)
	units.Patch("/:id", manager, unitHandler.Update)
	units.Delete("/:id", manager, unitHandler.Delete)

	// Warehouses (alta/baja: gerente)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", manager, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Delete("/:id", manager, warehouseHandler.Delete)

	// Libro de inventario
	ledger := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.Ledger, deps.StockCard, deps.Audit)
	ledger.Get("/balance", ledgerHandler.Balance)
	ledger.Get("/balances", ledgerHandler.Balances)
	ledger.Get("/log", ledgerHandler.Log)
	ledger.Get("/log.pdf", ledgerHandler.StockCardPDF)
	ledger.Get("/audit", manager, ledgerHandler.Audit)

	// Movimientos
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.RecordMovement, deps.Ledger)
	movements.Post("/", movementHandler.Record)
	movements.Get("/:id", movementHandler.GetByID)

	// Órdenes de trabajo
	workItems := protected.Group("/work-items")
	workItemHandler := NewWorkItemHandler(deps.Assignment)
	workItems.Post("/", workItemHandler.Create)
	workItems.Get("/", workItemHandler.List)
	workItems.Get("/:id", workItemHandler.GetByID)
	workItems.Post("/:id/assign", workItemHandler.Assign)
	workItems.Post("/:id/release", workItemHandler.Release)
	workItems.Post("/:id/transition", workItemHandler.Transition)
	workItems.Post("/:id/complete", workItemHandler.Complete)

	// Líneas de pedido
	lineItems := protected.Group("/line-items")
	lineItemHandler := NewLineItemHandler(deps.LineItems)
	lineItems.Put("/:id", lineItemHandler.Upsert)
	lineItems.Get("/:id", lineItemHandler.GetByID)
}
