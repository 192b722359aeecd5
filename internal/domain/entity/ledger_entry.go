package entity

import "time"

// LedgerEntry es el saldo autoritativo de una variante en una bodega, siempre en unidades atómicas.
// Es una proyección materializada de MovementRecord: Quantity == Σ INBOUND − Σ OUTBOUND.
type LedgerEntry struct {
	VariantID   string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}
