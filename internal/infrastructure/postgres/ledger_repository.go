package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL (usable con pool o tx).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// GetBalance obtiene el saldo actual; 0 si la clave no existe.
func (r *LedgerRepo) GetBalance(ctx context.Context, variantID, warehouseID string) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx,
		`SELECT quantity FROM ledger_entries WHERE variant_id = $1 AND warehouse_id = $2`,
		variantID, warehouseID,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return qty, nil
}

// List saldos filtrados por variante y/o bodega.
func (r *LedgerRepo) List(ctx context.Context, variantID, warehouseID string) ([]*entity.LedgerEntry, error) {
	var (
		where []string
		args  []any
	)
	if variantID != "" {
		args = append(args, variantID)
		where = append(where, fmt.Sprintf("variant_id = $%d", len(args)))
	}
	if warehouseID != "" {
		args = append(args, warehouseID)
		where = append(where, fmt.Sprintf("warehouse_id = $%d", len(args)))
	}
	query := `SELECT variant_id, warehouse_id, quantity, updated_at FROM ledger_entries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY variant_id, warehouse_id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.VariantID, &e.WarehouseID, &e.Quantity, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// ApplyDelta suma delta al saldo en una sola sentencia que toma el bloqueo de fila hasta el Commit.
// Un delta negativo que dejaría el saldo bajo cero no afecta filas y devuelve ErrInsufficientStock.
func (r *LedgerRepo) ApplyDelta(ctx context.Context, variantID, warehouseID string, delta int64) (int64, error) {
	if delta == 0 {
		return 0, domain.ErrInvalidInput
	}
	var (
		query string
		qty   int64
	)
	if delta > 0 {
		query = `
			INSERT INTO ledger_entries (variant_id, warehouse_id, quantity, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (variant_id, warehouse_id)
			DO UPDATE SET quantity = ledger_entries.quantity + EXCLUDED.quantity, updated_at = now()
			RETURNING quantity`
	} else {
		query = `
			UPDATE ledger_entries SET quantity = quantity + $3, updated_at = now()
			WHERE variant_id = $1 AND warehouse_id = $2 AND quantity + $3 >= 0
			RETURNING quantity`
	}
	err := r.q.QueryRow(ctx, query, variantID, warehouseID, delta).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isCheckViolation(err) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, fmt.Errorf("apply delta: %w", err)
	}
	return qty, nil
}

// WarehouseTotals suma de existencias y claves con saldo en la bodega.
func (r *LedgerRepo) WarehouseTotals(ctx context.Context, warehouseID string) (int64, int, error) {
	var (
		total   int64
		nonZero int
	)
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)::bigint, COUNT(*) FILTER (WHERE quantity <> 0)
		FROM ledger_entries WHERE warehouse_id = $1`, warehouseID,
	).Scan(&total, &nonZero)
	if err != nil {
		return 0, 0, fmt.Errorf("warehouse totals: %w", err)
	}
	return total, nonZero, nil
}

// Drifts claves donde el saldo difiere de la suma firmada del libro de movimientos.
func (r *LedgerRepo) Drifts(ctx context.Context) ([]repository.Drift, error) {
	query := `
		WITH m AS (
			SELECT variant_id, warehouse_id,
			       SUM(CASE WHEN type = 'INBOUND' THEN atomic_quantity ELSE -atomic_quantity END)::bigint AS total
			FROM movement_records
			GROUP BY variant_id, warehouse_id
		)
		SELECT COALESCE(l.variant_id, m.variant_id), COALESCE(l.warehouse_id, m.warehouse_id),
		       COALESCE(l.quantity, 0), COALESCE(m.total, 0)
		FROM ledger_entries l
		FULL OUTER JOIN m ON m.variant_id = l.variant_id AND m.warehouse_id = l.warehouse_id
		WHERE COALESCE(l.quantity, 0) <> COALESCE(m.total, 0)
		ORDER BY 1, 2`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ledger drifts: %w", err)
	}
	defer rows.Close()
	var list []repository.Drift
	for rows.Next() {
		var d repository.Drift
		if err := rows.Scan(&d.VariantID, &d.WarehouseID, &d.Ledger, &d.Movements); err != nil {
			return nil, fmt.Errorf("scan drift: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
