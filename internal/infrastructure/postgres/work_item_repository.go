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
	"github.com/jhoicas/warehouse-ledger/internal/domain/workflow"
)

var _ repository.WorkItemRepository = (*WorkItemRepo)(nil)

const workItemColumns = `id, kind, status, handler_id, handled_at, created_at, updated_at`

// WorkItemRepo órdenes de trabajo sobre PostgreSQL. Reclamo, liberación y transición son un único
// UPDATE condicional: de N peticiones concurrentes exactamente una afecta la fila.
type WorkItemRepo struct {
	q Querier
}

// NewWorkItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkItemRepository(q Querier) *WorkItemRepo {
	return &WorkItemRepo{q: q}
}

func (r *WorkItemRepo) Create(ctx context.Context, w *entity.WorkItem) error {
	query := `INSERT INTO work_items (` + workItemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		w.ID, string(w.Kind), string(w.Status), w.HandlerID, w.HandledAt, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert work item: %w", err)
	}
	return nil
}

func (r *WorkItemRepo) GetByID(ctx context.Context, id string) (*entity.WorkItem, error) {
	return r.returning(ctx, "get work item", `SELECT `+workItemColumns+` FROM work_items WHERE id = $1`, id)
}

func (r *WorkItemRepo) GetForShare(ctx context.Context, id string) (*entity.WorkItem, error) {
	return r.returning(ctx, "get work item", `SELECT `+workItemColumns+` FROM work_items WHERE id = $1 FOR SHARE`, id)
}

// List cola de trabajo: más antigua primero.
func (r *WorkItemRepo) List(ctx context.Context, f entity.WorkItemFilter) ([]*entity.WorkItem, error) {
	var (
		conds []string
		args  []any
	)
	if f.Kind != "" {
		args = append(args, string(f.Kind))
		conds = append(conds, fmt.Sprintf("kind = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.HandlerID != "" {
		args = append(args, f.HandlerID)
		conds = append(conds, fmt.Sprintf("handler_id = $%d", len(args)))
	}
	query := `SELECT ` + workItemColumns + ` FROM work_items`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY created_at, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work items: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkItem
	for rows.Next() {
		w, err := scanWorkItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work item: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

func (r *WorkItemRepo) ClaimIfUnassigned(ctx context.Context, id, userID string) (*entity.WorkItem, error) {
	query := `
		UPDATE work_items SET handler_id = $2, handled_at = now(), updated_at = now()
		WHERE id = $1 AND handler_id IS NULL AND status <> ALL($3)
		RETURNING ` + workItemColumns
	return r.returning(ctx, "claim work item", query, id, userID, workflow.TerminalStatuses())
}

func (r *WorkItemRepo) ReleaseIfHeld(ctx context.Context, id, userID string, force bool) (*entity.WorkItem, error) {
	query := `
		UPDATE work_items SET handler_id = NULL, handled_at = NULL, updated_at = now()
		WHERE id = $1 AND handler_id IS NOT NULL AND ($3::boolean OR handler_id = $2) AND status <> ALL($4)
		RETURNING ` + workItemColumns
	return r.returning(ctx, "release work item", query, id, userID, force, workflow.TerminalStatuses())
}

func (r *WorkItemRepo) TransitionIfStatus(ctx context.Context, id string, expected, next entity.WorkItemStatus, expectedHandler *string) (*entity.WorkItem, error) {
	query := `
		UPDATE work_items SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2 AND handler_id IS NOT DISTINCT FROM $4::text
		RETURNING ` + workItemColumns
	return r.returning(ctx, "transition work item", query, id, string(expected), string(next), expectedHandler)
}

// returning ejecuta una sentencia de una fila; (nil, nil) si ninguna fila cumplió la condición.
func (r *WorkItemRepo) returning(ctx context.Context, op, query string, args ...any) (*entity.WorkItem, error) {
	w, err := scanWorkItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return w, nil
}

func scanWorkItem(row pgx.Row) (*entity.WorkItem, error) {
	var (
		w            entity.WorkItem
		kind, status string
	)
	if err := row.Scan(&w.ID, &kind, &status, &w.HandlerID, &w.HandledAt, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.Kind = entity.WorkItemKind(kind)
	w.Status = entity.WorkItemStatus(status)
	return &w, nil
}
