package inventory

import (
	"context"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

const (
	defaultLogLimit = 20
	maxLogLimit     = 100
)

// LedgerUseCase lecturas del libro de saldos y del libro de movimientos. No toma bloqueos.
type LedgerUseCase struct {
	ledgerRepo   repository.LedgerRepository
	movementRepo repository.MovementRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(ledgerRepo repository.LedgerRepository, movementRepo repository.MovementRepository) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo, movementRepo: movementRepo}
}

// GetBalance saldo atómico de (variante, bodega); 0 si la clave no existe.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, variantID, warehouseID string) (int64, error) {
	if variantID == "" || warehouseID == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.ledgerRepo.GetBalance(ctx, variantID, warehouseID)
}

// ListBalances saldos filtrados por variante y/o bodega (filtros vacíos = todos).
func (uc *LedgerUseCase) ListBalances(ctx context.Context, variantID, warehouseID string) ([]*entity.LedgerEntry, error) {
	return uc.ledgerRepo.List(ctx, variantID, warehouseID)
}

// Log página del libro de movimientos, más reciente primero, con el total para paginar.
func (uc *LedgerUseCase) Log(ctx context.Context, filter entity.MovementFilter) ([]*entity.MovementRecord, int, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, 0, domain.ErrInvalidInput
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, 0, domain.ErrInvalidInput
	}
	filter.Limit, filter.Offset = NormalizePage(filter.Limit, filter.Offset)
	items, err := uc.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.movementRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetMovement un movimiento por id.
func (uc *LedgerUseCase) GetMovement(ctx context.Context, id string) (*entity.MovementRecord, error) {
	m, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// NormalizePage aplica límite por defecto y máximo.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
