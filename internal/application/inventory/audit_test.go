package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

func TestAudit_DetectsDrift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.recorder.Record(ctx, f.input(entity.MovementInbound, f.piece, 5))
	require.NoError(t, err)

	// Escritura directa al libro sin movimiento.
	_, err = f.store.Repos().Ledger.ApplyDelta(ctx, testVariant, f.warehouse, 3)
	require.NoError(t, err)

	audit := inventory.NewAuditUseCase(f.store.Repos().Ledger, nil, zerolog.Nop())
	drifts, err := audit.Audit(ctx)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, int64(8), drifts[0].Ledger)
	assert.Equal(t, int64(5), drifts[0].Movements)
}

func TestAudit_ConsistentLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.recorder.Record(ctx, f.input(entity.MovementInbound, f.box12, 2))
	require.NoError(t, err)
	_, err = f.recorder.Record(ctx, f.input(entity.MovementOutbound, f.piece, 4))
	require.NoError(t, err)

	drifts, err := f.audit.Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}
