package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

// UnitCatalogUseCase autoridad central de unidades de conteo y de la conversión a unidades atómicas.
type UnitCatalogUseCase struct {
	txRunner ports.TxRunner
	repo     repository.UnitRepository
}

// NewUnitCatalogUseCase construye el caso de uso. repo se usa para lecturas fuera de transacción.
func NewUnitCatalogUseCase(txRunner ports.TxRunner, repo repository.UnitRepository) *UnitCatalogUseCase {
	return &UnitCatalogUseCase{txRunner: txRunner, repo: repo}
}

// Define crea una unidad. La primera unidad del catálogo debe ser la base (multiplicador 1)
// y sólo puede existir una. La base se lee con FOR SHARE para no competir con su borrado.
func (uc *UnitCatalogUseCase) Define(ctx context.Context, name string, multiplier int64) (*entity.UnitDefinition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if multiplier < 1 {
		return nil, domain.ErrInvalidMultiplier
	}
	now := time.Now().UTC()
	unit := &entity.UnitDefinition{
		ID:         uuid.New().String(),
		Name:       name,
		Multiplier: multiplier,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := uc.txRunner.Run(ctx, func(repos ports.Repos) error {
		base, err := repos.Units.GetBaseForShare(ctx)
		if err != nil {
			return err
		}
		if base == nil && !unit.IsBase() {
			return domain.ErrBaseUnitMissing
		}
		if base != nil && unit.IsBase() {
			return domain.ErrDuplicateBaseUnit
		}
		return repos.Units.Create(ctx, unit)
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// Get obtiene una unidad; ErrUnknownUnit si no existe.
func (uc *UnitCatalogUseCase) Get(ctx context.Context, id string) (*entity.UnitDefinition, error) {
	unit, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrUnknownUnit
	}
	return unit, nil
}

// List devuelve el catálogo ordenado por multiplicador.
func (uc *UnitCatalogUseCase) List(ctx context.Context) ([]*entity.UnitDefinition, error) {
	return uc.repo.List(ctx)
}

// Convert traduce unitCount unidades a cantidad atómica.
func (uc *UnitCatalogUseCase) Convert(ctx context.Context, unitID string, unitCount int64) (int64, error) {
	unit, err := uc.Get(ctx, unitID)
	if err != nil {
		return 0, err
	}
	return inventory.ToAtomic(unitCount, unit.Multiplier)
}

// Display expresa una cantidad atómica en la unidad indicada (para mostrar saldos).
func (uc *UnitCatalogUseCase) Display(ctx context.Context, unitID string, atomic int64) (decimal.Decimal, *entity.UnitDefinition, error) {
	unit, err := uc.Get(ctx, unitID)
	if err != nil {
		return decimal.Zero, nil, err
	}
	return inventory.FromAtomic(atomic, unit.Multiplier), unit, nil
}

// Update renombra la unidad y/o cambia su multiplicador. El multiplicador de una unidad usada
// por movimientos es inmutable; el de la unidad base también. La fila se bloquea antes de
// consultar referencias, así un movimiento en curso termina primero o espera al cambio.
func (uc *UnitCatalogUseCase) Update(ctx context.Context, id string, name *string, multiplier *int64) (*entity.UnitDefinition, error) {
	var out *entity.UnitDefinition
	err := uc.txRunner.Run(ctx, func(repos ports.Repos) error {
		unit, err := repos.Units.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if unit == nil {
			return domain.ErrUnknownUnit
		}
		if name != nil {
			n := strings.TrimSpace(*name)
			if n == "" {
				return domain.ErrInvalidInput
			}
			unit.Name = n
		}
		if multiplier != nil && *multiplier != unit.Multiplier {
			if *multiplier < 1 {
				return domain.ErrInvalidMultiplier
			}
			if unit.IsBase() {
				return domain.ErrBaseUnitProtected
			}
			if *multiplier == 1 {
				return domain.ErrDuplicateBaseUnit
			}
			used, err := repos.Units.IsReferenced(ctx, id)
			if err != nil {
				return err
			}
			if used {
				return domain.ErrUnitInUse
			}
			unit.Multiplier = *multiplier
		}
		unit.UpdatedAt = time.Now().UTC()
		if err := repos.Units.Update(ctx, unit); err != nil {
			return err
		}
		out = unit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina una unidad que ningún movimiento referencia. La unidad base sólo puede
// eliminarse cuando es la única del catálogo; su bloqueo exclusivo hace esperar a Define.
func (uc *UnitCatalogUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos ports.Repos) error {
		unit, err := repos.Units.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if unit == nil {
			return domain.ErrUnknownUnit
		}
		used, err := repos.Units.IsReferenced(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return domain.ErrUnitInUse
		}
		if unit.IsBase() {
			n, err := repos.Units.Count(ctx)
			if err != nil {
				return err
			}
			if n > 1 {
				return domain.ErrBaseUnitProtected
			}
		}
		return repos.Units.Delete(ctx, id)
	})
}
