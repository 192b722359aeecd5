package entity

import "time"

// LineItemWarehouseState estado de bodega de una línea de pedido, registrada por el sistema de órdenes.
//
// Flow indica el sentido "natural" de la línea: INBOUND para órdenes a proveedor, OUTBOUND para
// pedidos de cliente. Un movimiento en el mismo sentido suma a WarehousedQuantity (tope OrderedQuantity);
// un movimiento en sentido contrario lo revierte (tope WarehousedQuantity).
type LineItemWarehouseState struct {
	LineItemID         string
	OrderID            string
	VariantID          string
	Flow               MovementType
	OrderedQuantity    int64
	WarehousedQuantity int64
	UpdatedAt          time.Time
}

// Remaining cantidad pendiente por mover en el sentido natural.
func (l *LineItemWarehouseState) Remaining() int64 {
	return l.OrderedQuantity - l.WarehousedQuantity
}
