package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, type, variant_id, warehouse_id, unit_id, unit_count, unit_multiplier,
	atomic_quantity, line_item_id, order_id, actor_user_id, note, created_at`

// MovementRepo libro de movimientos sobre PostgreSQL. Un trigger rechaza UPDATE/DELETE en la tabla.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta un movimiento.
func (r *MovementRepo) Append(ctx context.Context, m *entity.MovementRecord) error {
	query := `INSERT INTO movement_records (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, string(m.Type), m.VariantID, m.WarehouseID, m.UnitID, m.UnitCount, m.UnitMultiplier,
		m.AtomicQuantity, m.LineItemID, m.OrderID, m.ActorUserID, m.Note, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.MovementRecord, error) {
	row := r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movement_records WHERE id = $1`, id)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List movimientos filtrados, más reciente primero.
func (r *MovementRepo) List(ctx context.Context, filter entity.MovementFilter) ([]*entity.MovementRecord, error) {
	where, args := movementWhere(filter)
	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM movement_records%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		movementColumns, where, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementRecord
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *MovementRepo) Count(ctx context.Context, filter entity.MovementFilter) (int, error) {
	where, args := movementWhere(filter)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movement_records`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

func movementWhere(f entity.MovementFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.VariantID != "" {
		add("variant_id = $%d", f.VariantID)
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.LineItemID != "" {
		add("line_item_id = $%d", f.LineItemID)
	}
	if f.OrderID != "" {
		add("order_id = $%d", f.OrderID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at < $%d", *f.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanMovement(row pgx.Row) (*entity.MovementRecord, error) {
	var (
		m       entity.MovementRecord
		movType string
	)
	err := row.Scan(&m.ID, &movType, &m.VariantID, &m.WarehouseID, &m.UnitID, &m.UnitCount, &m.UnitMultiplier,
		&m.AtomicQuantity, &m.LineItemID, &m.OrderID, &m.ActorUserID, &m.Note, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(movType)
	return &m, nil
}
