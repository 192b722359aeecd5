package repository

import (
	"context"

	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// UnitRepository define el puerto de persistencia del catálogo de unidades (DIP).
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.UnitDefinition) error
	GetByID(ctx context.Context, id string) (*entity.UnitDefinition, error)
	// GetForShare bloquea la fila en modo compartido mientras dure la transacción.
	GetForShare(ctx context.Context, id string) (*entity.UnitDefinition, error)
	// GetForUpdate bloquea la fila en exclusiva: serializa cambios de multiplicador y borrados
	// contra los movimientos que la usan.
	GetForUpdate(ctx context.Context, id string) (*entity.UnitDefinition, error)
	// GetBaseForShare devuelve la unidad base bloqueada en modo compartido; un borrado concurrente
	// de la base espera al Commit (o hace esperar a esta lectura).
	GetBaseForShare(ctx context.Context) (*entity.UnitDefinition, error)
	List(ctx context.Context) ([]*entity.UnitDefinition, error)
	Update(ctx context.Context, unit *entity.UnitDefinition) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// IsReferenced indica si algún movimiento usa la unidad.
	IsReferenced(ctx context.Context, id string) (bool, error)
}
