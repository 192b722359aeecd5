package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/memory"
)

const (
	testVariant  = "variant-1"
	testHandler  = "user-handler"
	testOtherUsr = "user-other"
)

// fixture almacén con unidad base "pieza", "caja12" (x12), una bodega, una orden de recepción
// asignada a testHandler y una línea que pide 30 piezas.
type fixture struct {
	store     *memory.Store
	units     *inventory.UnitCatalogUseCase
	ledger    *inventory.LedgerUseCase
	recorder  *inventory.RecordMovementUseCase
	audit     *inventory.AuditUseCase
	publisher *recordingPublisher
	piece     *entity.UnitDefinition
	box12     *entity.UnitDefinition
	warehouse string
	order     string
	line      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	f := &fixture{
		store:     store,
		units:     inventory.NewUnitCatalogUseCase(store, repos.Units),
		ledger:    inventory.NewLedgerUseCase(repos.Ledger, repos.Movements),
		publisher: &recordingPublisher{},
		audit:     inventory.NewAuditUseCase(repos.Ledger, nil, zerolog.Nop()),
		warehouse: "wh-1",
		order:     "order-in-1",
		line:      "line-1",
	}
	f.recorder = inventory.NewRecordMovementUseCase(store, f.publisher, nil, zerolog.Nop())

	var err error
	f.piece, err = f.units.Define(ctx, "pieza", 1)
	require.NoError(t, err)
	f.box12, err = f.units.Define(ctx, "caja12", 12)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: f.warehouse, Name: "Principal", CreatedAt: now, UpdatedAt: now}))
	f.addOrder(t, f.order, entity.KindSupplierInbound, entity.StatusNotFulfilled)
	f.addLine(t, f.line, f.order, entity.MovementInbound, 30)
	return f
}

func (f *fixture) addOrder(t *testing.T, id string, kind entity.WorkItemKind, status entity.WorkItemStatus) {
	t.Helper()
	handler := testHandler
	now := time.Now().UTC()
	require.NoError(t, f.store.Repos().WorkItems.Create(context.Background(), &entity.WorkItem{
		ID: id, Kind: kind, Status: status, HandlerID: &handler, HandledAt: &now, CreatedAt: now, UpdatedAt: now,
	}))
}

func (f *fixture) addLine(t *testing.T, id, order string, flow entity.MovementType, ordered int64) {
	t.Helper()
	require.NoError(t, f.store.Repos().LineItems.Upsert(context.Background(), &entity.LineItemWarehouseState{
		LineItemID: id, OrderID: order, VariantID: testVariant, Flow: flow, OrderedQuantity: ordered, UpdatedAt: time.Now().UTC(),
	}))
}

func (f *fixture) input(typ entity.MovementType, unit *entity.UnitDefinition, count int64) inventory.MovementInput {
	return inventory.MovementInput{
		Type:        typ,
		VariantID:   testVariant,
		WarehouseID: f.warehouse,
		UnitID:      unit.ID,
		UnitCount:   count,
		LineItemID:  f.line,
		OrderID:     f.order,
		ActorUserID: testHandler,
	}
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	qty, err := f.ledger.GetBalance(context.Background(), testVariant, f.warehouse)
	require.NoError(t, err)
	return qty
}

func (f *fixture) warehoused(t *testing.T, line string) int64 {
	t.Helper()
	l, err := f.store.Repos().LineItems.Get(context.Background(), line)
	require.NoError(t, err)
	require.NotNil(t, l)
	return l.WarehousedQuantity
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.InventoryMoved
}

func (p *recordingPublisher) PublishInventoryMoved(_ context.Context, e entity.InventoryMoved) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}
