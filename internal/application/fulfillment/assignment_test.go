package fulfillment_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ledger/internal/application/fulfillment"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/workflow"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/memory"
)

func newAssignment() (*fulfillment.AssignmentUseCase, *memory.Store) {
	store := memory.NewStore()
	return fulfillment.NewAssignmentUseCase(store.Repos().WorkItems, nil, zerolog.Nop()), store
}

func operator(id string) workflow.Actor { return workflow.Actor{UserID: id} }

var manager = workflow.Actor{UserID: "boss", IsManager: true}

// ──────────────────────────────────────────────────────────────────────────────
// Assign / Release
// ──────────────────────────────────────────────────────────────────────────────

func TestAssign_ConcurrentClaimsSingleWinner(t *testing.T) {
	uc, _ := newAssignment()
	ctx := context.Background()
	item, err := uc.Create(ctx, entity.KindCustomerOutbound)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAwaiting, item.Status)

	const users = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
	)
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			_, err := uc.Assign(ctx, item.ID, user)
			if err == nil {
				mu.Lock()
				winners = append(winners, user)
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrAlreadyAssigned)
		}(fmt.Sprintf("user-%d", i))
	}
	wg.Wait()

	require.Len(t, winners, 1)
	got, err := uc.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.IsHeldBy(winners[0]))
}

func TestAssign_IdempotentForHolder(t *testing.T) {
	uc, _ := newAssignment()
	ctx := context.Background()
	item, err := uc.Create(ctx, entity.KindStockCheck)
	require.NoError(t, err)

	first, err := uc.Assign(ctx, item.ID, "u1")
	require.NoError(t, err)
	again, err := uc.Assign(ctx, item.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.HandledAt, again.HandledAt)

	_, err = uc.Assign(ctx, item.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrAlreadyAssigned)

	_, err = uc.Assign(ctx, "nope", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRelease_HolderOrManager(t *testing.T) {
	uc, _ := newAssignment()
	ctx := context.Background()
	item, err := uc.Create(ctx, entity.KindSupplierInbound)
	require.NoError(t, err)
	_, err = uc.Assign(ctx, item.ID, "u1")
	require.NoError(t, err)

	_, err = uc.Release(ctx, item.ID, operator("u2"))
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	released, err := uc.Release(ctx, item.ID, manager)
	require.NoError(t, err)
	assert.IsType(t, entity.Unassigned{}, workflow.HandlerState(released))

	// Un gerente liberando una orden sin responsable no hace nada.
	_, err = uc.Release(ctx, item.ID, manager)
	assert.NoError(t, err)
	_, err = uc.Release(ctx, item.ID, operator("u1"))
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = uc.Assign(ctx, item.ID, "u2")
	require.NoError(t, err)
	_, err = uc.Release(ctx, item.ID, operator("u2"))
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_FullInboundFlow(t *testing.T) {
	uc, _ := newAssignment()
	ctx := context.Background()
	item, err := uc.Create(ctx, entity.KindSupplierInbound)
	require.NoError(t, err)

	// Sin responsable no se puede procesar.
	_, err = uc.Transition(ctx, item.ID, entity.StatusDelivered, nil, operator("u1"))
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = uc.Assign(ctx, item.ID, "u1")
	require.NoError(t, err)

	_, err = uc.Transition(ctx, item.ID, entity.StatusDelivered, nil, operator("u2"))
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = uc.Transition(ctx, item.ID, entity.StatusInventoried, nil, operator("u1"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := uc.Transition(ctx, item.ID, entity.StatusDelivered, nil, operator("u1"))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, got.Status)

	done, err := uc.Complete(ctx, item.ID, operator("u1"))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInventoried, done.Status)
	assert.Equal(t, entity.Completed{UserID: "u1"}, workflow.HandlerState(done))

	// Cerrada: inmutable.
	_, err = uc.Assign(ctx, item.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrWorkItemClosed)
	_, err = uc.Release(ctx, item.ID, manager)
	assert.ErrorIs(t, err, domain.ErrWorkItemClosed)
	_, err = uc.Transition(ctx, item.ID, entity.StatusCanceled, nil, manager)
	assert.ErrorIs(t, err, domain.ErrWorkItemClosed)
}

func TestTransition_StaleExpectedStatus(t *testing.T) {
	uc, _ := newAssignment()
	ctx := context.Background()
	item, err := uc.Create(ctx, entity.KindShipment)
	require.NoError(t, err)
	_, err = uc.Assign(ctx, item.ID, "u1")
	require.NoError(t, err)
	_, err = uc.Transition(ctx, item.ID, entity.StatusDelivering, nil, operator("u1"))
	require.NoError(t, err)

	stale := entity.StatusAwaiting
	_, err = uc.Transition(ctx, item.ID, entity.StatusCanceled, &stale, operator("u1"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransition_ManagerCancelsUnassigned(t *testing.T) {
	uc, _ := newAssignment()
	ctx := context.Background()
	item, err := uc.Create(ctx, entity.KindStockCheck)
	require.NoError(t, err)

	_, err = uc.Transition(ctx, item.ID, entity.StatusCanceled, nil, operator("u1"))
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	got, err := uc.Transition(ctx, item.ID, entity.StatusCanceled, nil, manager)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCanceled, got.Status)
}

func TestList_WorkQueue(t *testing.T) {
	uc, _ := newAssignment()
	ctx := context.Background()
	for _, k := range []entity.WorkItemKind{entity.KindShipment, entity.KindShipment, entity.KindStockCheck} {
		_, err := uc.Create(ctx, k)
		require.NoError(t, err)
	}

	list, err := uc.List(ctx, entity.WorkItemFilter{Kind: entity.KindShipment})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = uc.List(ctx, entity.WorkItemFilter{Kind: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "otro")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
