package entity

import "time"

// InventoryMoved evento emitido tras confirmar un movimiento. Lo consumen las capas de presentación
// para refrescar saldos; su pérdida sólo retrasa el refresco.
type InventoryMoved struct {
	MovementID     string       `json:"movement_id"`
	Type           MovementType `json:"type"`
	VariantID      string       `json:"variant_id"`
	WarehouseID    string       `json:"warehouse_id"`
	AtomicQuantity int64        `json:"atomic_quantity"`
	Balance        int64        `json:"balance"`
	LineItemID     string       `json:"line_item_id"`
	OrderID        string       `json:"order_id"`
	OccurredAt     time.Time    `json:"occurred_at"`
}
