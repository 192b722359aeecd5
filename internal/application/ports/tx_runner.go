package ports

import (
	"context"

	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Units      repository.UnitRepository
	Warehouses repository.WarehouseRepository
	Ledger     repository.LedgerRepository
	Movements  repository.MovementRepository
	LineItems  repository.LineItemRepository
	WorkItems  repository.WorkItemRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y nada de lo escrito es visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
