package entity

import "time"

// MovementType dirección de un movimiento del libro de bodega.
type MovementType string

// Tipos de movimiento.
const (
	MovementInbound  MovementType = "INBOUND"  // recepción
	MovementOutbound MovementType = "OUTBOUND" // despacho
)

// Valid indica si el tipo es conocido.
func (t MovementType) Valid() bool {
	return t == MovementInbound || t == MovementOutbound
}

// Sign devuelve +1 para INBOUND y -1 para OUTBOUND.
func (t MovementType) Sign() int64 {
	if t == MovementOutbound {
		return -1
	}
	return 1
}

// MovementRecord es un registro inmutable del libro de bodega.
// UnitMultiplier guarda el factor vigente al momento del registro.
type MovementRecord struct {
	ID             string
	Type           MovementType
	VariantID      string
	WarehouseID    string
	UnitID         string
	UnitCount      int64
	UnitMultiplier int64
	AtomicQuantity int64
	LineItemID     string
	OrderID        string
	ActorUserID    string
	Note           *string
	CreatedAt      time.Time
}

// SignedQuantity cantidad atómica con signo según el tipo.
func (m *MovementRecord) SignedQuantity() int64 {
	return m.Type.Sign() * m.AtomicQuantity
}

// MovementFilter filtros del listado del libro. Campos vacíos/nil no filtran.
type MovementFilter struct {
	VariantID   string
	WarehouseID string
	Type        MovementType
	LineItemID  string
	OrderID     string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}
