package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

// WarehouseUseCase casos de uso de bodegas (datos de referencia).
type WarehouseUseCase struct {
	txRunner   ports.TxRunner
	repo       repository.WarehouseRepository
	ledgerRepo repository.LedgerRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(txRunner ports.TxRunner, repo repository.WarehouseRepository, ledgerRepo repository.LedgerRepository) *WarehouseUseCase {
	return &WarehouseUseCase{txRunner: txRunner, repo: repo, ledgerRepo: ledgerRepo}
}

// Create crea una nueva bodega.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 200 {
		return nil, domain.ErrInvalidInput
	}
	if in.Capacity != nil && *in.Capacity < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      name,
		Capacity:  in.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega activa con sus existencias totales y el uso de capacidad.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseSummaryResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || !warehouse.Active() {
		return nil, domain.ErrNotFound
	}
	total, nonZero, err := uc.ledgerRepo.WarehouseTotals(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.WarehouseSummaryResponse{
		WarehouseResponse: *toWarehouseResponse(warehouse),
		TotalQuantity:     total,
		StockedKeys:       nonZero,
	}
	if warehouse.Capacity != nil && *warehouse.Capacity > 0 {
		u := decimal.NewFromInt(total).Div(decimal.NewFromInt(*warehouse.Capacity)).Round(4)
		out.Utilization = &u
	}
	return out, nil
}

// List lista bodegas activas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete borra lógicamente una bodega si todos sus saldos son cero. La bodega se bloquea en
// exclusiva, así que ningún movimiento concurrente puede dejarle saldo.
func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos ports.Repos) error {
		warehouse, err := repos.Warehouses.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if warehouse == nil || !warehouse.Active() {
			return domain.ErrNotFound
		}
		_, nonZero, err := repos.Ledger.WarehouseTotals(ctx, id)
		if err != nil {
			return err
		}
		if nonZero > 0 {
			return domain.ErrWarehouseNotEmpty
		}
		return repos.Warehouses.SoftDelete(ctx, id)
	})
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Capacity:  w.Capacity,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
