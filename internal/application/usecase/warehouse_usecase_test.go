package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/application/usecase"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/memory"
)

const (
	variant = "variant-1"
	handler = "user-handler"
	order   = "order-in-1"
	line    = "line-1"
)

type warehouseFixture struct {
	uc       *usecase.WarehouseUseCase
	recorder *inventory.RecordMovementUseCase
	box12    *entity.UnitDefinition
	id       string
}

// newWarehouseFixture bodega con capacidad 100, "caja12" en el catálogo y una orden de recepción
// asignada con una línea de 30 piezas.
func newWarehouseFixture(t *testing.T) *warehouseFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	units := inventory.NewUnitCatalogUseCase(store, repos.Units)
	_, err := units.Define(ctx, "pieza", 1)
	require.NoError(t, err)
	box12, err := units.Define(ctx, "caja12", 12)
	require.NoError(t, err)

	uc := usecase.NewWarehouseUseCase(store, repos.Warehouses, repos.Ledger)
	capacity := int64(100)
	wh, err := uc.Create(ctx, dto.CreateWarehouseRequest{Name: "Principal", Capacity: &capacity})
	require.NoError(t, err)

	h := handler
	now := time.Now().UTC()
	require.NoError(t, repos.WorkItems.Create(ctx, &entity.WorkItem{
		ID: order, Kind: entity.KindSupplierInbound, Status: entity.StatusNotFulfilled,
		HandlerID: &h, HandledAt: &now, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repos.LineItems.Upsert(ctx, &entity.LineItemWarehouseState{
		LineItemID: line, OrderID: order, VariantID: variant, Flow: entity.MovementInbound,
		OrderedQuantity: 30, UpdatedAt: now,
	}))

	return &warehouseFixture{
		uc:       uc,
		recorder: inventory.NewRecordMovementUseCase(store, nil, nil, zerolog.Nop()),
		box12:    box12,
		id:       wh.ID,
	}
}

func (f *warehouseFixture) move(typ entity.MovementType, boxes int64) error {
	_, err := f.recorder.Record(context.Background(), inventory.MovementInput{
		Type:        typ,
		VariantID:   variant,
		WarehouseID: f.id,
		UnitID:      f.box12.ID,
		UnitCount:   boxes,
		LineItemID:  line,
		OrderID:     order,
		ActorUserID: handler,
	})
	return err
}

func TestWarehouse_SummaryWithUtilization(t *testing.T) {
	f := newWarehouseFixture(t)
	require.NoError(t, f.move(entity.MovementInbound, 2))

	got, err := f.uc.GetByID(context.Background(), f.id)
	require.NoError(t, err)
	assert.Equal(t, int64(24), got.TotalQuantity)
	assert.Equal(t, 1, got.StockedKeys)
	require.NotNil(t, got.Utilization)
	assert.True(t, decimal.RequireFromString("0.24").Equal(*got.Utilization))
}

func TestWarehouse_DeleteAfterDrain(t *testing.T) {
	f := newWarehouseFixture(t)
	ctx := context.Background()

	require.NoError(t, f.move(entity.MovementInbound, 2))
	assert.ErrorIs(t, f.uc.Delete(ctx, f.id), domain.ErrWarehouseNotEmpty)

	// Devolver las dos cajas deja el saldo en cero: la bodega ya se puede dar de baja.
	require.NoError(t, f.move(entity.MovementOutbound, 2))
	require.NoError(t, f.uc.Delete(ctx, f.id))

	_, err := f.uc.GetByID(ctx, f.id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestWarehouse_DeleteTwiceNotFound(t *testing.T) {
	f := newWarehouseFixture(t)
	ctx := context.Background()

	require.NoError(t, f.uc.Delete(ctx, f.id))
	assert.ErrorIs(t, f.uc.Delete(ctx, f.id), domain.ErrNotFound)
}

func TestWarehouse_MovementIntoDeletedRejected(t *testing.T) {
	f := newWarehouseFixture(t)
	ctx := context.Background()

	require.NoError(t, f.uc.Delete(ctx, f.id))
	assert.ErrorIs(t, f.move(entity.MovementInbound, 1), domain.ErrNotFound)
}

func TestWarehouse_CreateValidation(t *testing.T) {
	f := newWarehouseFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, dto.CreateWarehouseRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	negative := int64(-1)
	_, err = f.uc.Create(ctx, dto.CreateWarehouseRequest{Name: "Norte", Capacity: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
