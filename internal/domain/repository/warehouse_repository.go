package repository

import (
	"context"

	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	// GetForShare bloquea la bodega contra un borrado concurrente (FOR SHARE).
	GetForShare(ctx context.Context, id string) (*entity.Warehouse, error)
	// GetForUpdate bloquea la bodega en exclusiva (FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Warehouse, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
	SoftDelete(ctx context.Context, id string) error
}
