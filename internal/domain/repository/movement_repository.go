package repository

import (
	"context"

	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// MovementRepository puerto del libro de movimientos. Sólo admite inserción: no hay Update ni Delete.
type MovementRepository interface {
	Append(ctx context.Context, movement *entity.MovementRecord) error
	GetByID(ctx context.Context, id string) (*entity.MovementRecord, error)
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.MovementRecord, error)
	Count(ctx context.Context, filter entity.MovementFilter) (int, error)
}
