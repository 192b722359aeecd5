package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWarehouseRequest entrada para crear una bodega. Capacity es informativa (unidades atómicas).
type CreateWarehouseRequest struct {
	Name     string `json:"name"`
	Capacity *int64 `json:"capacity,omitempty"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Capacity  *int64    `json:"capacity,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseSummaryResponse bodega con existencias totales y uso de capacidad.
type WarehouseSummaryResponse struct {
	WarehouseResponse
	TotalQuantity int64            `json:"total_quantity"`
	StockedKeys   int              `json:"stocked_keys"`
	Utilization   *decimal.Decimal `json:"utilization,omitempty"` // TotalQuantity / Capacity
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
