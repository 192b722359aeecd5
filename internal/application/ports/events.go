package ports

import (
	"context"

	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// InventoryEventPublisher publica InventoryMoved tras el commit. Es best-effort:
// no devuelve error y no debe bloquear al llamador.
type InventoryEventPublisher interface {
	PublishInventoryMoved(ctx context.Context, event entity.InventoryMoved)
}

// NopPublisher descarta los eventos.
type NopPublisher struct{}

// PublishInventoryMoved no hace nada.
func (NopPublisher) PublishInventoryMoved(context.Context, entity.InventoryMoved) {}
