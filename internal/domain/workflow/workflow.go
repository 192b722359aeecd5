// Package workflow define las máquinas de estado de las órdenes de bodega.
//
// Cada tipo de orden tiene un estado inicial, un estado "en proceso" y un estado terminal de éxito.
// canceled es absorbente y alcanzable desde cualquier estado no terminal. La capa de asignación
// (responsable único) se superpone a estas máquinas: ver Rule.
package workflow

import (
	"fmt"
	"sort"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// Machine describe el ciclo de vida de un tipo de orden.
type Machine struct {
	Initial    entity.WorkItemStatus
	Processing entity.WorkItemStatus
	Done       entity.WorkItemStatus
}

var machines = map[entity.WorkItemKind]Machine{
	entity.KindSupplierInbound: {
		Initial:    entity.StatusNotFulfilled,
		Processing: entity.StatusDelivered,
		Done:       entity.StatusInventoried,
	},
	entity.KindCustomerOutbound: {
		Initial:    entity.StatusAwaiting,
		Processing: entity.StatusDelivering,
		Done:       entity.StatusShipped,
	},
	entity.KindShipment: {
		Initial:    entity.StatusAwaiting,
		Processing: entity.StatusDelivering,
		Done:       entity.StatusShipped,
	},
	entity.KindStockCheck: {
		Initial:    entity.StatusPending,
		Processing: entity.StatusChecking,
		Done:       entity.StatusChecked,
	},
}

// For devuelve la máquina del tipo de orden.
func For(kind entity.WorkItemKind) (Machine, error) {
	m, ok := machines[kind]
	if !ok {
		return Machine{}, fmt.Errorf("tipo de orden %q: %w", kind, domain.ErrInvalidInput)
	}
	return m, nil
}

// IsTerminal indica si el estado cierra la orden (éxito o cancelación).
func (m Machine) IsTerminal(s entity.WorkItemStatus) bool {
	return s == m.Done || s == entity.StatusCanceled
}

// Knows indica si el estado pertenece a la máquina.
func (m Machine) Knows(s entity.WorkItemStatus) bool {
	switch s {
	case m.Initial, m.Processing, m.Done, entity.StatusCanceled:
		return true
	}
	return false
}

// CanMove indica si existe la arista from -> to.
func (m Machine) CanMove(from, to entity.WorkItemStatus) bool {
	if m.IsTerminal(from) || !m.Knows(from) {
		return false
	}
	switch to {
	case entity.StatusCanceled:
		return true
	case m.Processing:
		return from == m.Initial
	case m.Done:
		return from == m.Processing
	}
	return false
}

// lineFlows sentido de las líneas de cada tipo. stock_check ajusta en ambos sentidos.
var lineFlows = map[entity.WorkItemKind]entity.MovementType{
	entity.KindSupplierInbound:  entity.MovementInbound,
	entity.KindCustomerOutbound: entity.MovementOutbound,
	entity.KindShipment:         entity.MovementOutbound,
}

// AcceptsLineFlow indica si una orden del tipo kind admite líneas con sentido flow.
func AcceptsLineFlow(kind entity.WorkItemKind, flow entity.MovementType) bool {
	if !flow.Valid() || !kind.Valid() {
		return false
	}
	want, fixed := lineFlows[kind]
	return !fixed || want == flow
}

// Actor quien solicita la acción sobre la orden.
type Actor struct {
	UserID    string
	IsManager bool
}

// Rule valida una transición from -> to sobre la orden considerando la asignación:
//   - orden terminal: ErrWorkItemClosed
//   - arista inexistente: ErrInvalidTransition
//   - cancelar: responsable actual o gerente (el gerente puede cancelar sin responsable)
//   - avanzar a proceso o terminal de éxito: requiere responsable asignado, y que el actor sea
//     el responsable o un gerente
func (m Machine) Rule(item *entity.WorkItem, to entity.WorkItemStatus, actor Actor) error {
	if m.IsTerminal(item.Status) {
		return domain.ErrWorkItemClosed
	}
	if !m.CanMove(item.Status, to) {
		return fmt.Errorf("%s -> %s: %w", item.Status, to, domain.ErrInvalidTransition)
	}
	if to == entity.StatusCanceled {
		if actor.IsManager || item.IsHeldBy(actor.UserID) {
			return nil
		}
		return domain.ErrNotOwner
	}
	if item.HandlerID == nil {
		return domain.ErrNotOwner
	}
	if !actor.IsManager && !item.IsHeldBy(actor.UserID) {
		return domain.ErrNotOwner
	}
	return nil
}

// CanActOn valida que el actor pueda registrar movimientos o liberar la orden:
// orden abierta, con responsable, y actor responsable o gerente.
func (m Machine) CanActOn(item *entity.WorkItem, actor Actor) error {
	if m.IsTerminal(item.Status) {
		return domain.ErrWorkItemClosed
	}
	if item.HandlerID == nil {
		return domain.ErrNotOwner
	}
	if !actor.IsManager && !item.IsHeldBy(actor.UserID) {
		return domain.ErrNotOwner
	}
	return nil
}

// HandlerState estado de asignación de la orden según su máquina.
func HandlerState(item *entity.WorkItem) entity.HandlerState {
	m, err := For(item.Kind)
	if err != nil {
		return item.HandlerState(false)
	}
	return item.HandlerState(m.IsTerminal(item.Status))
}

// TerminalStatuses estados que cierran alguna orden; útil para updates condicionales.
func TerminalStatuses() []string {
	seen := map[entity.WorkItemStatus]bool{entity.StatusCanceled: true}
	out := []string{string(entity.StatusCanceled)}
	for _, m := range machines {
		if !seen[m.Done] {
			seen[m.Done] = true
			out = append(out, string(m.Done))
		}
	}
	sort.Strings(out)
	return out
}
