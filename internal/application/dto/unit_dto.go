package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateUnitRequest entrada para definir una unidad de conteo.
type CreateUnitRequest struct {
	Name       string `json:"name"`
	Multiplier int64  `json:"multiplier"`
}

// UpdateUnitRequest renombra y/o cambia el multiplicador.
type UpdateUnitRequest struct {
	Name       *string `json:"name,omitempty"`
	Multiplier *int64  `json:"multiplier,omitempty"`
}

// UnitResponse salida de una unidad.
type UnitResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Multiplier int64     `json:"multiplier"`
	IsBase     bool      `json:"is_base"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UnitDisplayResponse cantidad atómica expresada en la unidad (ej. 30 piezas = 2.5 cajas).
type UnitDisplayResponse struct {
	UnitID         string          `json:"unit_id"`
	UnitName       string          `json:"unit_name"`
	AtomicQuantity int64           `json:"atomic_quantity"`
	Quantity       decimal.Decimal `json:"quantity"`
}
