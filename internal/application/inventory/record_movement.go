package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/domain/workflow"
)

// RecordMovementUseCase registra movimientos de inventario de forma transaccional: el libro de saldos,
// el libro de movimientos y el contador de la línea cambian juntos o no cambian.
type RecordMovementUseCase struct {
	txRunner  ports.TxRunner
	publisher ports.InventoryEventPublisher
	metrics   ports.LedgerMetrics
	log       zerolog.Logger
	now       func() time.Time
}

// NewRecordMovementUseCase construye el caso de uso. publisher y metrics pueden ser nil.
func NewRecordMovementUseCase(
	txRunner ports.TxRunner,
	publisher ports.InventoryEventPublisher,
	metrics ports.LedgerMetrics,
	log zerolog.Logger,
) *RecordMovementUseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &RecordMovementUseCase{
		txRunner:  txRunner,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// MovementInput entrada para registrar un movimiento.
type MovementInput struct {
	Type        entity.MovementType
	VariantID   string
	WarehouseID string
	UnitID      string
	UnitCount   int64
	LineItemID  string
	OrderID     string
	ActorUserID string
	IsManager   bool
	Note        *string
}

func (in MovementInput) validate() error {
	if !in.Type.Valid() || in.UnitCount <= 0 {
		return domain.ErrInvalidInput
	}
	for _, v := range []string{in.VariantID, in.WarehouseID, in.UnitID, in.LineItemID, in.OrderID, in.ActorUserID} {
		if strings.TrimSpace(v) == "" {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// Record abre una transacción y toma los bloqueos en orden fijo (orden, bodega, unidad, línea,
// fila del libro). Cualquier error hace Rollback; el evento se publica sólo tras el Commit.
func (uc *RecordMovementUseCase) Record(ctx context.Context, in MovementInput) (*entity.MovementRecord, error) {
	if err := in.validate(); err != nil {
		uc.metrics.MovementRejected(rejectReason(err))
		return nil, err
	}

	var (
		record  *entity.MovementRecord
		balance int64
	)
	err := uc.txRunner.Run(ctx, func(repos ports.Repos) error {
		item, err := repos.WorkItems.GetForShare(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		machine, err := workflow.For(item.Kind)
		if err != nil {
			return err
		}
		if err := machine.CanActOn(item, workflow.Actor{UserID: in.ActorUserID, IsManager: in.IsManager}); err != nil {
			return err
		}

		wh, err := repos.Warehouses.GetForShare(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil || !wh.Active() {
			return domain.ErrNotFound
		}

		unit, err := repos.Units.GetForShare(ctx, in.UnitID)
		if err != nil {
			return err
		}
		if unit == nil {
			return domain.ErrUnknownUnit
		}
		atomic, err := inventory.ToAtomic(in.UnitCount, unit.Multiplier)
		if err != nil {
			return err
		}

		line, err := repos.LineItems.GetForUpdate(ctx, in.LineItemID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		if line.OrderID != in.OrderID || line.VariantID != in.VariantID {
			return domain.ErrInvalidInput
		}
		warehoused, err := inventory.NextWarehoused(line, in.Type, atomic)
		if err != nil {
			return err
		}

		balance, err = repos.Ledger.ApplyDelta(ctx, in.VariantID, in.WarehouseID, in.Type.Sign()*atomic)
		if err != nil {
			return err
		}

		record = &entity.MovementRecord{
			ID:             uuid.New().String(),
			Type:           in.Type,
			VariantID:      in.VariantID,
			WarehouseID:    in.WarehouseID,
			UnitID:         unit.ID,
			UnitCount:      in.UnitCount,
			UnitMultiplier: unit.Multiplier,
			AtomicQuantity: atomic,
			LineItemID:     in.LineItemID,
			OrderID:        in.OrderID,
			ActorUserID:    in.ActorUserID,
			Note:           in.Note,
			CreatedAt:      uc.now(),
		}
		if err := repos.Movements.Append(ctx, record); err != nil {
			return err
		}
		return repos.LineItems.SetWarehoused(ctx, in.LineItemID, warehoused)
	})
	if err != nil {
		uc.metrics.MovementRejected(rejectReason(err))
		uc.log.Debug().Err(err).
			Str("variant_id", in.VariantID).
			Str("warehouse_id", in.WarehouseID).
			Str("order_id", in.OrderID).
			Msg("movimiento rechazado")
		return nil, err
	}

	uc.metrics.MovementRecorded(record.Type, record.AtomicQuantity)
	uc.log.Info().
		Str("movement_id", record.ID).
		Str("type", string(record.Type)).
		Str("variant_id", record.VariantID).
		Str("warehouse_id", record.WarehouseID).
		Int64("atomic_quantity", record.AtomicQuantity).
		Int64("balance", balance).
		Msg("movimiento registrado")

	uc.publisher.PublishInventoryMoved(ctx, entity.InventoryMoved{
		MovementID:     record.ID,
		Type:           record.Type,
		VariantID:      record.VariantID,
		WarehouseID:    record.WarehouseID,
		AtomicQuantity: record.AtomicQuantity,
		Balance:        balance,
		LineItemID:     record.LineItemID,
		OrderID:        record.OrderID,
		OccurredAt:     record.CreatedAt,
	})
	return record, nil
}

// rejectReason etiqueta acotada para la métrica de rechazos.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrExceedsOrderedQuantity):
		return "exceeds_ordered"
	case errors.Is(err, domain.ErrExceedsWarehousedQuantity):
		return "exceeds_warehoused"
	case errors.Is(err, domain.ErrUnknownUnit):
		return "unknown_unit"
	case errors.Is(err, domain.ErrNotOwner):
		return "not_owner"
	case errors.Is(err, domain.ErrWorkItemClosed):
		return "closed"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	}
	return "internal"
}
