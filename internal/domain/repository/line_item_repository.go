package repository

import (
	"context"

	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// LineItemRepository puerto del estado de bodega por línea de pedido.
type LineItemRepository interface {
	Get(ctx context.Context, lineItemID string) (*entity.LineItemWarehouseState, error)
	// GetForUpdate bloquea la línea (SELECT FOR UPDATE) dentro de la transacción.
	GetForUpdate(ctx context.Context, lineItemID string) (*entity.LineItemWarehouseState, error)
	Upsert(ctx context.Context, line *entity.LineItemWarehouseState) error
	SetWarehoused(ctx context.Context, lineItemID string, warehoused int64) error
}
