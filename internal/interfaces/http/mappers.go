package http

import (
	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
	"github.com/jhoicas/warehouse-ledger/internal/domain/workflow"
)

func toUnitResponse(u *entity.UnitDefinition) dto.UnitResponse {
	return dto.UnitResponse{
		ID:         u.ID,
		Name:       u.Name,
		Multiplier: u.Multiplier,
		IsBase:     u.IsBase(),
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toMovementResponse(m *entity.MovementRecord) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		Type:           string(m.Type),
		VariantID:      m.VariantID,
		WarehouseID:    m.WarehouseID,
		UnitID:         m.UnitID,
		UnitCount:      m.UnitCount,
		UnitMultiplier: m.UnitMultiplier,
		AtomicQuantity: m.AtomicQuantity,
		LineItemID:     m.LineItemID,
		OrderID:        m.OrderID,
		ActorUserID:    m.ActorUserID,
		Note:           m.Note,
		CreatedAt:      m.CreatedAt,
	}
}

func toBalanceResponse(e *entity.LedgerEntry) dto.BalanceResponse {
	out := dto.BalanceResponse{VariantID: e.VariantID, WarehouseID: e.WarehouseID, Quantity: e.Quantity}
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func toAuditResponse(drifts []repository.Drift) dto.AuditResponse {
	out := dto.AuditResponse{Consistent: len(drifts) == 0, Drifts: make([]dto.DriftResponse, 0, len(drifts))}
	for _, d := range drifts {
		out.Drifts = append(out.Drifts, dto.DriftResponse{
			VariantID:   d.VariantID,
			WarehouseID: d.WarehouseID,
			Ledger:      d.Ledger,
			Movements:   d.Movements,
		})
	}
	return out
}

func toHandlerState(w *entity.WorkItem) dto.HandlerStateResponse {
	switch s := workflow.HandlerState(w).(type) {
	case entity.Assigned:
		since := s.Since
		return dto.HandlerStateResponse{State: "assigned", UserID: s.UserID, Since: &since}
	case entity.Completed:
		return dto.HandlerStateResponse{State: "completed", UserID: s.UserID}
	default:
		return dto.HandlerStateResponse{State: "unassigned"}
	}
}

func toWorkItemResponse(w *entity.WorkItem) dto.WorkItemResponse {
	return dto.WorkItemResponse{
		ID:        w.ID,
		Kind:      string(w.Kind),
		Status:    string(w.Status),
		Handler:   toHandlerState(w),
		HandlerID: w.HandlerID,
		HandledAt: w.HandledAt,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func toLineItemResponse(l *entity.LineItemWarehouseState) dto.LineItemResponse {
	return dto.LineItemResponse{
		LineItemID:         l.LineItemID,
		OrderID:            l.OrderID,
		VariantID:          l.VariantID,
		Flow:               string(l.Flow),
		OrderedQuantity:    l.OrderedQuantity,
		WarehousedQuantity: l.WarehousedQuantity,
		Remaining:          l.Remaining(),
		UpdatedAt:          l.UpdatedAt,
	}
}
