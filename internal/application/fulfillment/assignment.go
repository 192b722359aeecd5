package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
	"github.com/jhoicas/warehouse-ledger/internal/domain/workflow"
)

// claimAttempts reintentos cuando la orden se libera entre el update condicional y la relectura.
const claimAttempts = 3

var errClaimRace = errors.New("orden liberada durante la asignación")

// AssignmentUseCase asignación de responsable y máquina de estados de las órdenes de trabajo.
// Todas las mutaciones son updates condicionales de una sola sentencia; no se mantienen bloqueos
// mientras el operario trabaja.
type AssignmentUseCase struct {
	repo    repository.WorkItemRepository
	metrics ports.LedgerMetrics
	log     zerolog.Logger
}

// NewAssignmentUseCase construye el caso de uso.
func NewAssignmentUseCase(repo repository.WorkItemRepository, metrics ports.LedgerMetrics, log zerolog.Logger) *AssignmentUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &AssignmentUseCase{repo: repo, metrics: metrics, log: log}
}

// Create da de alta una orden en el estado inicial de su tipo.
func (uc *AssignmentUseCase) Create(ctx context.Context, kind entity.WorkItemKind) (*entity.WorkItem, error) {
	machine, err := workflow.For(kind)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	item := &entity.WorkItem{
		ID:        uuid.New().String(),
		Kind:      kind,
		Status:    machine.Initial,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Get obtiene una orden.
func (uc *AssignmentUseCase) Get(ctx context.Context, id string) (*entity.WorkItem, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// List cola de trabajo filtrada por tipo, estado y responsable.
func (uc *AssignmentUseCase) List(ctx context.Context, filter entity.WorkItemFilter) ([]*entity.WorkItem, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.repo.List(ctx, filter)
}

// Assign reclama la orden para userID. Exactamente un reclamo concurrente gana; reasignarse a sí
// mismo es idempotente.
func (uc *AssignmentUseCase) Assign(ctx context.Context, id, userID string) (*entity.WorkItem, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	for attempt := 0; attempt < claimAttempts; attempt++ {
		item, err := uc.assignOnce(ctx, id, userID)
		if errors.Is(err, errClaimRace) {
			continue
		}
		if err != nil {
			uc.metrics.ClaimResult(claimLabel(err))
			return nil, err
		}
		return item, nil
	}
	uc.metrics.ClaimResult("conflict")
	return nil, domain.ErrConflict
}

func (uc *AssignmentUseCase) assignOnce(ctx context.Context, id, userID string) (*entity.WorkItem, error) {
	item, err := uc.repo.ClaimIfUnassigned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		uc.metrics.ClaimResult("claimed")
		uc.log.Info().Str("work_item_id", id).Str("user_id", userID).Msg("orden asignada")
		return item, nil
	}

	// Ninguna fila cumplió la condición: clasificar con una relectura.
	cur, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, domain.ErrNotFound
	}
	machine, err := workflow.For(cur.Kind)
	if err != nil {
		return nil, err
	}
	switch {
	case machine.IsTerminal(cur.Status):
		return nil, domain.ErrWorkItemClosed
	case cur.HandlerID == nil:
		return nil, errClaimRace
	case cur.IsHeldBy(userID):
		uc.metrics.ClaimResult("idempotent")
		return cur, nil
	}
	return nil, domain.ErrAlreadyAssigned
}

// Release libera la orden. Sólo el responsable o un gerente; los movimientos ya confirmados se conservan.
func (uc *AssignmentUseCase) Release(ctx context.Context, id string, actor workflow.Actor) (*entity.WorkItem, error) {
	if id == "" || actor.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.repo.ReleaseIfHeld(ctx, id, actor.UserID, actor.IsManager)
	if err != nil {
		return nil, err
	}
	if item != nil {
		uc.log.Info().Str("work_item_id", id).Str("user_id", actor.UserID).Bool("manager", actor.IsManager).Msg("orden liberada")
		return item, nil
	}

	cur, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, domain.ErrNotFound
	}
	machine, err := workflow.For(cur.Kind)
	if err != nil {
		return nil, err
	}
	if machine.IsTerminal(cur.Status) {
		return nil, domain.ErrWorkItemClosed
	}
	if cur.HandlerID == nil && actor.IsManager {
		return cur, nil
	}
	return nil, domain.ErrNotOwner
}

// Transition mueve la orden al estado to. Si expected no es nil debe coincidir con el estado actual.
// El cambio es compare-and-set sobre (estado, responsable): una lectura obsoleta da ErrConflict.
func (uc *AssignmentUseCase) Transition(ctx context.Context, id string, to entity.WorkItemStatus, expected *entity.WorkItemStatus, actor workflow.Actor) (*entity.WorkItem, error) {
	cur, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	machine, err := workflow.For(cur.Kind)
	if err != nil {
		return nil, err
	}
	if expected != nil && *expected != cur.Status {
		if machine.IsTerminal(cur.Status) {
			return nil, domain.ErrWorkItemClosed
		}
		return nil, fmt.Errorf("estado esperado %s, actual %s: %w", *expected, cur.Status, domain.ErrConflict)
	}
	if err := machine.Rule(cur, to, actor); err != nil {
		return nil, err
	}
	item, err := uc.repo.TransitionIfStatus(ctx, id, cur.Status, to, cur.HandlerID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		latest, err := uc.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if machine.IsTerminal(latest.Status) {
			return nil, domain.ErrWorkItemClosed
		}
		return nil, domain.ErrConflict
	}
	uc.log.Info().
		Str("work_item_id", id).
		Str("from", string(cur.Status)).
		Str("to", string(to)).
		Str("user_id", actor.UserID).
		Msg("transición de orden")
	return item, nil
}

// Complete lleva la orden al estado de éxito de su tipo.
func (uc *AssignmentUseCase) Complete(ctx context.Context, id string, actor workflow.Actor) (*entity.WorkItem, error) {
	cur, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	machine, err := workflow.For(cur.Kind)
	if err != nil {
		return nil, err
	}
	return uc.Transition(ctx, id, machine.Done, nil, actor)
}

func claimLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyAssigned):
		return "already_assigned"
	case errors.Is(err, domain.ErrWorkItemClosed):
		return "closed"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return "error"
}
