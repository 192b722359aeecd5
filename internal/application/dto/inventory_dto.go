package dto

import "time"

// RecordMovementRequest body para POST /api/movements.
type RecordMovementRequest struct {
	Type        string  `json:"type"`
	VariantID   string  `json:"variant_id"`
	WarehouseID string  `json:"warehouse_id"`
	UnitID      string  `json:"unit_id"`
	UnitCount   int64   `json:"unit_count"`
	LineItemID  string  `json:"line_item_id"`
	OrderID     string  `json:"order_id"`
	Note        *string `json:"note,omitempty"`
}

// MovementResponse un registro del libro de movimientos.
type MovementResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	VariantID      string    `json:"variant_id"`
	WarehouseID    string    `json:"warehouse_id"`
	UnitID         string    `json:"unit_id"`
	UnitCount      int64     `json:"unit_count"`
	UnitMultiplier int64     `json:"unit_multiplier"`
	AtomicQuantity int64     `json:"atomic_quantity"`
	LineItemID     string    `json:"line_item_id"`
	OrderID        string    `json:"order_id"`
	ActorUserID    string    `json:"actor_user_id"`
	Note           *string   `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// MovementLogResponse página del libro de movimientos.
type MovementLogResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BalanceResponse saldo de una clave (variante, bodega) en unidades atómicas.
type BalanceResponse struct {
	VariantID   string     `json:"variant_id"`
	WarehouseID string     `json:"warehouse_id"`
	Quantity    int64      `json:"quantity"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// DriftResponse clave con descuadre entre el libro y los movimientos.
type DriftResponse struct {
	VariantID   string `json:"variant_id"`
	WarehouseID string `json:"warehouse_id"`
	Ledger      int64  `json:"ledger"`
	Movements   int64  `json:"movements"`
}

// AuditResponse resultado de la auditoría de conservación.
type AuditResponse struct {
	Consistent bool            `json:"consistent"`
	Drifts     []DriftResponse `json:"drifts"`
}
