package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

var _ repository.LineItemRepository = (*LineItemRepo)(nil)

const lineItemColumns = `line_item_id, order_id, variant_id, flow, ordered_quantity, warehoused_quantity, updated_at`

// LineItemRepo estado de bodega por línea de pedido.
type LineItemRepo struct {
	q Querier
}

// NewLineItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLineItemRepository(q Querier) *LineItemRepo {
	return &LineItemRepo{q: q}
}

func (r *LineItemRepo) Get(ctx context.Context, lineItemID string) (*entity.LineItemWarehouseState, error) {
	return r.getOne(ctx, `SELECT `+lineItemColumns+` FROM line_items WHERE line_item_id = $1`, lineItemID)
}

// GetForUpdate obtiene la línea y la bloquea (SELECT FOR UPDATE).
func (r *LineItemRepo) GetForUpdate(ctx context.Context, lineItemID string) (*entity.LineItemWarehouseState, error) {
	return r.getOne(ctx, `SELECT `+lineItemColumns+` FROM line_items WHERE line_item_id = $1 FOR UPDATE`, lineItemID)
}

// Upsert inserta la línea o actualiza la cantidad pedida; warehoused_quantity no se toca.
func (r *LineItemRepo) Upsert(ctx context.Context, l *entity.LineItemWarehouseState) error {
	query := `
		INSERT INTO line_items (` + lineItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (line_item_id)
		DO UPDATE SET ordered_quantity = EXCLUDED.ordered_quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		l.LineItemID, l.OrderID, l.VariantID, string(l.Flow), l.OrderedQuantity, l.WarehousedQuantity, l.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("upsert line item: %w", err)
	}
	return nil
}

func (r *LineItemRepo) SetWarehoused(ctx context.Context, lineItemID string, warehoused int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE line_items SET warehoused_quantity = $2, updated_at = now() WHERE line_item_id = $1`,
		lineItemID, warehoused,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrExceedsOrderedQuantity
		}
		return fmt.Errorf("set warehoused quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LineItemRepo) getOne(ctx context.Context, query, id string) (*entity.LineItemWarehouseState, error) {
	var (
		l    entity.LineItemWarehouseState
		flow string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&l.LineItemID, &l.OrderID, &l.VariantID, &flow, &l.OrderedQuantity, &l.WarehousedQuantity, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get line item: %w", err)
	}
	l.Flow = entity.MovementType(flow)
	return &l, nil
}
