package inventory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Recepción contra la línea de pedido
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_InboundBoxesThenOverflowRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mov, err := f.recorder.Record(ctx, f.input(entity.MovementInbound, f.box12, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(24), mov.AtomicQuantity)
	assert.Equal(t, int64(12), mov.UnitMultiplier)
	assert.Equal(t, int64(24), f.balance(t))
	assert.Equal(t, int64(24), f.warehoused(t, f.line))

	// 24 + 12 > 30: se rechaza sin tocar nada.
	_, err = f.recorder.Record(ctx, f.input(entity.MovementInbound, f.box12, 1))
	assert.ErrorIs(t, err, domain.ErrExceedsOrderedQuantity)
	assert.Equal(t, int64(24), f.balance(t))
	assert.Equal(t, int64(24), f.warehoused(t, f.line))

	_, total, err := f.ledger.Log(ctx, entity.MovementFilter{LineItemID: f.line})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// El resto en piezas sí cabe.
	_, err = f.recorder.Record(ctx, f.input(entity.MovementInbound, f.piece, 6))
	require.NoError(t, err)
	assert.Equal(t, int64(30), f.warehoused(t, f.line))
	assert.Equal(t, 2, f.publisher.count())
}

func TestRecord_ReverseMovementBoundedByWarehoused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.recorder.Record(ctx, f.input(entity.MovementInbound, f.box12, 1))
	require.NoError(t, err)

	// Devolver al proveedor más de lo recibido en la línea.
	_, err = f.recorder.Record(ctx, f.input(entity.MovementOutbound, f.piece, 13))
	assert.ErrorIs(t, err, domain.ErrExceedsWarehousedQuantity)

	_, err = f.recorder.Record(ctx, f.input(entity.MovementOutbound, f.piece, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(7), f.balance(t))
	assert.Equal(t, int64(7), f.warehoused(t, f.line))
}

func TestRecord_OutboundInsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addOrder(t, "order-out", entity.KindCustomerOutbound, entity.StatusAwaiting)
	f.addLine(t, "line-out", "order-out", entity.MovementOutbound, 100)

	in := f.input(entity.MovementOutbound, f.piece, 1)
	in.OrderID, in.LineItemID = "order-out", "line-out"
	_, err := f.recorder.Record(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(0), f.balance(t))
	assert.Equal(t, int64(0), f.warehoused(t, "line-out"))
	assert.Zero(t, f.publisher.count())
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones previas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(f *fixture, in *inventory.MovementInput)
		want   error
	}{
		{"unidad desconocida", func(_ *fixture, in *inventory.MovementInput) { in.UnitID = "nope" }, domain.ErrUnknownUnit},
		{"conteo cero", func(_ *fixture, in *inventory.MovementInput) { in.UnitCount = 0 }, domain.ErrInvalidInput},
		{"tipo inválido", func(_ *fixture, in *inventory.MovementInput) { in.Type = "TRANSFER" }, domain.ErrInvalidInput},
		{"orden inexistente", func(_ *fixture, in *inventory.MovementInput) { in.OrderID = "nope" }, domain.ErrNotFound},
		{"bodega inexistente", func(_ *fixture, in *inventory.MovementInput) { in.WarehouseID = "nope" }, domain.ErrNotFound},
		{"línea inexistente", func(_ *fixture, in *inventory.MovementInput) { in.LineItemID = "nope" }, domain.ErrNotFound},
		{"variante distinta", func(_ *fixture, in *inventory.MovementInput) { in.VariantID = "otra" }, domain.ErrInvalidInput},
		{"no es el responsable", func(_ *fixture, in *inventory.MovementInput) { in.ActorUserID = testOtherUsr }, domain.ErrNotOwner},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			in := f.input(entity.MovementInbound, f.box12, 1)
			tc.mutate(f, &in)
			_, err := f.recorder.Record(context.Background(), in)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, int64(0), f.balance(t))
		})
	}
}

func TestRecord_ManagerMayActOnAssignedItem(t *testing.T) {
	f := newFixture(t)
	in := f.input(entity.MovementInbound, f.piece, 3)
	in.ActorUserID, in.IsManager = "boss", true

	mov, err := f.recorder.Record(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "boss", mov.ActorUserID)
}

func TestRecord_ClosedWorkItem(t *testing.T) {
	f := newFixture(t)
	f.addOrder(t, "order-done", entity.KindSupplierInbound, entity.StatusInventoried)
	f.addLine(t, "line-done", "order-done", entity.MovementInbound, 10)

	in := f.input(entity.MovementInbound, f.piece, 1)
	in.OrderID, in.LineItemID = "order-done", "line-done"
	_, err := f.recorder.Record(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrWorkItemClosed)
}

func TestRecord_DeletedWarehouseRejected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Repos().Warehouses.SoftDelete(context.Background(), f.warehouse))

	_, err := f.recorder.Record(context.Background(), f.input(entity.MovementInbound, f.piece, 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia y conservación
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_ConcurrentOutboundNeverGoesNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 30 piezas en stock.
	_, err := f.recorder.Record(ctx, f.input(entity.MovementInbound, f.piece, 30))
	require.NoError(t, err)

	f.addOrder(t, "order-out", entity.KindCustomerOutbound, entity.StatusDelivering)
	f.addLine(t, "line-out", "order-out", entity.MovementOutbound, 1000)

	const workers = 20
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := f.input(entity.MovementOutbound, f.piece, 4)
			in.OrderID, in.LineItemID = "order-out", "line-out"
			if _, err := f.recorder.Record(ctx, in); err == nil {
				succeeded.Add(1)
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(7), succeeded.Load())
	assert.Equal(t, int64(2), f.balance(t))
	assert.Equal(t, int64(28), f.warehoused(t, "line-out"))

	drifts, err := f.audit.Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestRecord_ConservationAcrossMixedMovements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addOrder(t, "order-out", entity.KindCustomerOutbound, entity.StatusDelivering)
	f.addLine(t, "line-out", "order-out", entity.MovementOutbound, 1000)

	steps := []struct {
		typ   entity.MovementType
		count int64
		order string
		line  string
	}{
		{entity.MovementInbound, 20, f.order, f.line},
		{entity.MovementOutbound, 7, "order-out", "line-out"},
		{entity.MovementOutbound, 50, "order-out", "line-out"}, // rechazado
		{entity.MovementInbound, 10, f.order, f.line},
		{entity.MovementOutbound, 3, f.order, f.line},
	}
	var sum int64
	for _, s := range steps {
		in := f.input(s.typ, f.piece, s.count)
		in.OrderID, in.LineItemID = s.order, s.line
		if mov, err := f.recorder.Record(ctx, in); err == nil {
			sum += mov.SignedQuantity()
		}
	}

	assert.Equal(t, sum, f.balance(t))
	drifts, err := f.audit.Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}
