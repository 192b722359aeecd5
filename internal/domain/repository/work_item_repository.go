package repository

import (
	"context"

	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// WorkItemRepository puerto de las órdenes de trabajo. Las mutaciones son updates condicionales:
// devuelven (nil, nil) si ninguna fila cumplió la condición, y el caso de uso clasifica el motivo.
type WorkItemRepository interface {
	Create(ctx context.Context, item *entity.WorkItem) error
	GetByID(ctx context.Context, id string) (*entity.WorkItem, error)
	// GetForShare bloquea la orden contra transiciones concurrentes (FOR SHARE).
	GetForShare(ctx context.Context, id string) (*entity.WorkItem, error)
	List(ctx context.Context, filter entity.WorkItemFilter) ([]*entity.WorkItem, error)

	// ClaimIfUnassigned: SET handler_id = userID WHERE handler_id IS NULL y estado no terminal.
	ClaimIfUnassigned(ctx context.Context, id, userID string) (*entity.WorkItem, error)
	// ReleaseIfHeld: limpia handler_id/handled_at si lo tiene userID (o cualquiera si force).
	ReleaseIfHeld(ctx context.Context, id, userID string, force bool) (*entity.WorkItem, error)
	// TransitionIfStatus: cambia el estado sólo si el estado y el responsable siguen siendo los leídos
	// (compare-and-set).
	TransitionIfStatus(ctx context.Context, id string, expected, next entity.WorkItemStatus, expectedHandler *string) (*entity.WorkItem, error)
}
