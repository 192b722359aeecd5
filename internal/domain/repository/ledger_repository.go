package repository

import (
	"context"

	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// Drift clave del libro cuyo saldo no coincide con la suma firmada de sus movimientos.
type Drift struct {
	VariantID   string
	WarehouseID string
	Ledger      int64
	Movements   int64
}

// LedgerRepository define el puerto del libro de saldos por (variante, bodega).
type LedgerRepository interface {
	// GetBalance devuelve 0 si la clave no existe.
	GetBalance(ctx context.Context, variantID, warehouseID string) (int64, error)
	List(ctx context.Context, variantID, warehouseID string) ([]*entity.LedgerEntry, error)
	// ApplyDelta único mutador. Debe ejecutarse dentro de la transacción del movimiento y serializar
	// por clave; devuelve el nuevo saldo o domain.ErrInsufficientStock si quedaría negativo.
	ApplyDelta(ctx context.Context, variantID, warehouseID string, delta int64) (int64, error)
	// WarehouseTotals suma de saldos y cantidad de claves con saldo distinto de cero en la bodega.
	WarehouseTotals(ctx context.Context, warehouseID string) (total int64, nonZero int, err error)
	// Drifts compara el libro contra los movimientos (auditoría de conservación).
	Drifts(ctx context.Context) ([]Drift, error)
}
