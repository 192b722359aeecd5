package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/pdf"
)

func sampleMovements() []*entity.MovementRecord {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []*entity.MovementRecord{
		{ID: "m1", Type: entity.MovementInbound, VariantID: "sku-1", WarehouseID: "wh-1", UnitID: "caja12",
			UnitCount: 2, AtomicQuantity: 24, OrderID: "order-in-1", CreatedAt: at},
		{ID: "m2", Type: entity.MovementOutbound, VariantID: "sku-1", WarehouseID: "wh-1", UnitID: "pieza",
			UnitCount: 5, AtomicQuantity: 5, OrderID: "order-out-1", CreatedAt: at.Add(time.Hour)},
	}
}

func TestStockCardGenerator_RenderStockCard(t *testing.T) {
	wh := "wh-1"
	card := ports.StockCard{
		Title:       "Tarjeta sku-1",
		GeneratedAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		Filter:      entity.MovementFilter{VariantID: "sku-1", WarehouseID: wh},
		Movements:   sampleMovements(),
		UnitNames:   map[string]string{"caja12": "Caja x12", "pieza": "Pieza"},
		Total:       2,
	}

	out, err := pdf.NewStockCardGenerator("bodega").RenderStockCard(context.Background(), card)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestStockCardGenerator_EmptyLog(t *testing.T) {
	out, err := pdf.NewStockCardGenerator("bodega").RenderStockCard(context.Background(), ports.StockCard{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestTotals(t *testing.T) {
	in, out := pdf.Totals(sampleMovements())
	assert.Equal(t, int64(24), in)
	assert.Equal(t, int64(5), out)
}
