package entity

import "time"

// WorkItemKind tipos de orden de trabajo de bodega.
type WorkItemKind string

// Tipos de orden.
const (
	KindSupplierInbound  WorkItemKind = "supplier_inbound"
	KindCustomerOutbound WorkItemKind = "customer_outbound"
	KindStockCheck       WorkItemKind = "stock_check"
	KindShipment         WorkItemKind = "shipment"
)

// Valid indica si el tipo es conocido.
func (k WorkItemKind) Valid() bool {
	switch k {
	case KindSupplierInbound, KindCustomerOutbound, KindStockCheck, KindShipment:
		return true
	}
	return false
}

// WorkItemStatus estado propio de cada tipo de orden.
type WorkItemStatus string

// Estados por tipo. StatusCanceled es absorbente y común a todos.
const (
	StatusNotFulfilled WorkItemStatus = "not_fulfilled"
	StatusDelivered    WorkItemStatus = "delivered"
	StatusInventoried  WorkItemStatus = "inventoried"

	StatusAwaiting   WorkItemStatus = "awaiting"
	StatusDelivering WorkItemStatus = "delivering"
	StatusShipped    WorkItemStatus = "shipped"

	StatusPending  WorkItemStatus = "pending"
	StatusChecking WorkItemStatus = "checking"
	StatusChecked  WorkItemStatus = "checked"

	StatusCanceled WorkItemStatus = "canceled"
)

// WorkItem orden de trabajo (recepción de proveedor, despacho a cliente, conteo o envío)
// procesada por un único responsable a la vez.
type WorkItem struct {
	ID        string
	Kind      WorkItemKind
	Status    WorkItemStatus
	HandlerID *string
	HandledAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HandlerState unión etiquetada del estado de asignación: Unassigned, Assigned o Completed.
type HandlerState interface {
	handlerState()
}

// Unassigned nadie tiene la orden.
type Unassigned struct{}

// Assigned la orden pertenece a UserID desde Since.
type Assigned struct {
	UserID string
	Since  time.Time
}

// Completed la orden llegó a un estado terminal; UserID es el último responsable (puede ser vacío).
type Completed struct {
	UserID string
}

func (Unassigned) handlerState() {}
func (Assigned) handlerState()   {}
func (Completed) handlerState()  {}

// HandlerState deriva el estado de asignación. terminal lo decide el flujo del tipo de orden.
func (w *WorkItem) HandlerState(terminal bool) HandlerState {
	if terminal {
		c := Completed{}
		if w.HandlerID != nil {
			c.UserID = *w.HandlerID
		}
		return c
	}
	if w.HandlerID == nil {
		return Unassigned{}
	}
	a := Assigned{UserID: *w.HandlerID}
	if w.HandledAt != nil {
		a.Since = *w.HandledAt
	}
	return a
}

// IsHeldBy indica si userID es el responsable actual.
func (w *WorkItem) IsHeldBy(userID string) bool {
	return w.HandlerID != nil && *w.HandlerID == userID
}

// WorkItemFilter filtros para la cola de trabajo.
type WorkItemFilter struct {
	Kind      WorkItemKind
	Status    WorkItemStatus
	HandlerID string
	Limit     int
	Offset    int
}
