package fulfillment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ledger/internal/application/fulfillment"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

func TestLineItems_UpsertAndGet(t *testing.T) {
	assign, store := newAssignment()
	uc := fulfillment.NewLineItemUseCase(store)
	ctx := context.Background()

	order, err := assign.Create(ctx, entity.KindSupplierInbound)
	require.NoError(t, err)

	in := fulfillment.LineItemInput{
		LineItemID:      "line-1",
		OrderID:         order.ID,
		VariantID:       "v1",
		Flow:            entity.MovementInbound,
		OrderedQuantity: 30,
	}
	line, err := uc.Upsert(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(30), line.Remaining())

	// Subir lo pedido.
	in.OrderedQuantity = 40
	_, err = uc.Upsert(ctx, in)
	require.NoError(t, err)

	require.NoError(t, store.Repos().LineItems.SetWarehoused(ctx, "line-1", 25))
	in.OrderedQuantity = 20
	_, err = uc.Upsert(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.Get(ctx, "line-1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), got.OrderedQuantity)
	assert.Equal(t, int64(25), got.WarehousedQuantity)

	// Pedido, variante y sentido quedan fijos.
	in.OrderedQuantity = 40
	in.VariantID = "v2"
	_, err = uc.Upsert(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLineItems_Validation(t *testing.T) {
	_, store := newAssignment()
	uc := fulfillment.NewLineItemUseCase(store)
	ctx := context.Background()

	_, err := uc.Upsert(ctx, fulfillment.LineItemInput{LineItemID: "l", OrderID: "nope", VariantID: "v", Flow: entity.MovementInbound, OrderedQuantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Upsert(ctx, fulfillment.LineItemInput{LineItemID: "l", OrderID: "o", VariantID: "v", Flow: "SIDEWAYS", OrderedQuantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLineItems_RespectOrderKindAndStatus(t *testing.T) {
	assign, store := newAssignment()
	uc := fulfillment.NewLineItemUseCase(store)
	ctx := context.Background()

	outbound, err := assign.Create(ctx, entity.KindCustomerOutbound)
	require.NoError(t, err)
	_, err = uc.Upsert(ctx, fulfillment.LineItemInput{LineItemID: "l-in", OrderID: outbound.ID, VariantID: "v1", Flow: entity.MovementInbound, OrderedQuantity: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "un despacho no lleva líneas de recepción")
	_, err = uc.Upsert(ctx, fulfillment.LineItemInput{LineItemID: "l-out", OrderID: outbound.ID, VariantID: "v1", Flow: entity.MovementOutbound, OrderedQuantity: 5})
	require.NoError(t, err)

	check, err := assign.Create(ctx, entity.KindStockCheck)
	require.NoError(t, err)
	for i, flow := range []entity.MovementType{entity.MovementInbound, entity.MovementOutbound} {
		_, err = uc.Upsert(ctx, fulfillment.LineItemInput{LineItemID: "l-check-" + string(rune('a'+i)), OrderID: check.ID, VariantID: "v1", Flow: flow, OrderedQuantity: 2})
		require.NoError(t, err)
	}

	_, err = assign.Transition(ctx, outbound.ID, entity.StatusCanceled, nil, manager)
	require.NoError(t, err)
	_, err = uc.Upsert(ctx, fulfillment.LineItemInput{LineItemID: "l-out", OrderID: outbound.ID, VariantID: "v1", Flow: entity.MovementOutbound, OrderedQuantity: 9})
	assert.ErrorIs(t, err, domain.ErrWorkItemClosed)

	got, err := uc.Get(ctx, "l-out")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.OrderedQuantity)
}
