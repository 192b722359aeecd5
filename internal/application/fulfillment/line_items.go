package fulfillment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/workflow"
)

// LineItemUseCase alta y consulta del estado de bodega de las líneas de pedido (lo usa el proceso
// de captura de pedidos; warehoused_quantity sólo lo cambia el registro de movimientos).
type LineItemUseCase struct {
	txRunner ports.TxRunner
}

// NewLineItemUseCase construye el caso de uso.
func NewLineItemUseCase(txRunner ports.TxRunner) *LineItemUseCase {
	return &LineItemUseCase{txRunner: txRunner}
}

// LineItemInput datos que aporta el proceso de pedidos.
type LineItemInput struct {
	LineItemID      string
	OrderID         string
	VariantID       string
	Flow            entity.MovementType
	OrderedQuantity int64
}

// Upsert registra la línea o actualiza la cantidad pedida. Pedido, variante y sentido son fijos una
// vez creada la línea; bajar lo pedido por debajo de lo almacenado es inválido. La orden debe estar
// abierta y el sentido debe corresponder a su tipo.
func (uc *LineItemUseCase) Upsert(ctx context.Context, in LineItemInput) (*entity.LineItemWarehouseState, error) {
	if strings.TrimSpace(in.LineItemID) == "" || strings.TrimSpace(in.OrderID) == "" || strings.TrimSpace(in.VariantID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Flow.Valid() || in.OrderedQuantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.LineItemWarehouseState
	err := uc.txRunner.Run(ctx, func(repos ports.Repos) error {
		item, err := repos.WorkItems.GetByID(ctx, in.OrderID)
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
		if machine.IsTerminal(item.Status) {
			return domain.ErrWorkItemClosed
		}
		if !workflow.AcceptsLineFlow(item.Kind, in.Flow) {
			return fmt.Errorf("línea %s en orden %s: %w", in.Flow, item.Kind, domain.ErrInvalidInput)
		}
		line, err := repos.LineItems.GetForUpdate(ctx, in.LineItemID)
		if err != nil {
			return err
		}
		if line == nil {
			line = &entity.LineItemWarehouseState{
				LineItemID: in.LineItemID,
				OrderID:    in.OrderID,
				VariantID:  in.VariantID,
				Flow:       in.Flow,
			}
		} else if line.OrderID != in.OrderID || line.VariantID != in.VariantID || line.Flow != in.Flow {
			return domain.ErrInvalidInput
		}
		if in.OrderedQuantity < line.WarehousedQuantity {
			return domain.ErrInvalidInput
		}
		line.OrderedQuantity = in.OrderedQuantity
		line.UpdatedAt = time.Now().UTC()
		if err := repos.LineItems.Upsert(ctx, line); err != nil {
			return err
		}
		out = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get lectura del estado de la línea.
func (uc *LineItemUseCase) Get(ctx context.Context, lineItemID string) (*entity.LineItemWarehouseState, error) {
	var out *entity.LineItemWarehouseState
	err := uc.txRunner.Run(ctx, func(repos ports.Repos) error {
		line, err := repos.LineItems.Get(ctx, lineItemID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		out = line
		return nil
	})
	return out, err
}
