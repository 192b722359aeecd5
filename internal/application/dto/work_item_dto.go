package dto

import "time"

// CreateWorkItemRequest alta de una orden de trabajo.
type CreateWorkItemRequest struct {
	Kind string `json:"kind"`
}

// TransitionRequest cambio de estado. ExpectedStatus activa el compare-and-set explícito.
type TransitionRequest struct {
	Status         string  `json:"status"`
	ExpectedStatus *string `json:"expected_status,omitempty"`
}

// HandlerStateResponse estado del responsable: unassigned, assigned o completed.
type HandlerStateResponse struct {
	State  string     `json:"state"`
	UserID string     `json:"user_id,omitempty"`
	Since  *time.Time `json:"since,omitempty"`
}

// WorkItemResponse salida de una orden de trabajo.
type WorkItemResponse struct {
	ID        string               `json:"id"`
	Kind      string               `json:"kind"`
	Status    string               `json:"status"`
	Handler   HandlerStateResponse `json:"handler"`
	HandlerID *string              `json:"handler_id,omitempty"`
	HandledAt *time.Time           `json:"handled_at,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// WorkItemListResponse cola de trabajo paginada.
type WorkItemListResponse struct {
	Items []WorkItemResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// UpsertLineItemRequest body para PUT /api/line-items/:id.
type UpsertLineItemRequest struct {
	OrderID         string `json:"order_id"`
	VariantID       string `json:"variant_id"`
	Flow            string `json:"flow"`
	OrderedQuantity int64  `json:"ordered_quantity"`
}

// LineItemResponse estado de bodega de una línea de pedido.
type LineItemResponse struct {
	LineItemID         string    `json:"line_item_id"`
	OrderID            string    `json:"order_id"`
	VariantID          string    `json:"variant_id"`
	Flow               string    `json:"flow"`
	OrderedQuantity    int64     `json:"ordered_quantity"`
	WarehousedQuantity int64     `json:"warehoused_quantity"`
	Remaining          int64     `json:"remaining"`
	UpdatedAt          time.Time `json:"updated_at"`
}
