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

var _ repository.UnitRepository = (*UnitRepo)(nil)

// constraint parcial: sólo una unidad con multiplier = 1.
const singleBaseUnitIndex = "units_single_base_idx"

const unitColumns = `id, name, multiplier, created_at, updated_at`

// UnitRepo implementación de UnitRepository sobre PostgreSQL (usable con pool o tx).
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador del catálogo de unidades.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

func (r *UnitRepo) Create(ctx context.Context, unit *entity.UnitDefinition) error {
	query := `INSERT INTO units (` + unitColumns + `) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, unit.ID, unit.Name, unit.Multiplier, unit.CreatedAt, unit.UpdatedAt)
	if err != nil {
		return mapUnitWriteError("insert unit", err)
	}
	return nil
}

func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.UnitDefinition, error) {
	return r.getOne(ctx, `SELECT `+unitColumns+` FROM units WHERE id = $1`, id)
}

// GetForShare bloquea la unidad (FOR SHARE): su multiplicador no cambia hasta el Commit.
func (r *UnitRepo) GetForShare(ctx context.Context, id string) (*entity.UnitDefinition, error) {
	return r.getOne(ctx, `SELECT `+unitColumns+` FROM units WHERE id = $1 FOR SHARE`, id)
}

// GetForUpdate bloquea la unidad en exclusiva (FOR UPDATE) hasta el Commit.
func (r *UnitRepo) GetForUpdate(ctx context.Context, id string) (*entity.UnitDefinition, error) {
	return r.getOne(ctx, `SELECT `+unitColumns+` FROM units WHERE id = $1 FOR UPDATE`, id)
}

// GetBaseForShare unidad base con FOR SHARE: choca con el FOR UPDATE del borrado de la base.
func (r *UnitRepo) GetBaseForShare(ctx context.Context) (*entity.UnitDefinition, error) {
	return r.getOne(ctx, `SELECT `+unitColumns+` FROM units WHERE multiplier = 1 FOR SHARE`)
}

func (r *UnitRepo) List(ctx context.Context) ([]*entity.UnitDefinition, error) {
	rows, err := r.q.Query(ctx, `SELECT `+unitColumns+` FROM units ORDER BY multiplier, name`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.UnitDefinition
	for rows.Next() {
		var u entity.UnitDefinition
		if err := rows.Scan(&u.ID, &u.Name, &u.Multiplier, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

func (r *UnitRepo) Update(ctx context.Context, unit *entity.UnitDefinition) error {
	query := `UPDATE units SET name = $2, multiplier = $3, updated_at = $4 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, unit.ID, unit.Name, unit.Multiplier, unit.UpdatedAt)
	if err != nil {
		return mapUnitWriteError("update unit", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUnknownUnit
	}
	return nil
}

func (r *UnitRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUnitInUse
		}
		return fmt.Errorf("delete unit: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUnknownUnit
	}
	return nil
}

func (r *UnitRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM units`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count units: %w", err)
	}
	return n, nil
}

func (r *UnitRepo) IsReferenced(ctx context.Context, id string) (bool, error) {
	var used bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movement_records WHERE unit_id = $1)`, id).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("unit references: %w", err)
	}
	return used, nil
}

func (r *UnitRepo) getOne(ctx context.Context, query string, args ...any) (*entity.UnitDefinition, error) {
	var u entity.UnitDefinition
	err := r.q.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Name, &u.Multiplier, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}

func mapUnitWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err) && constraintName(err) == singleBaseUnitIndex:
		return domain.ErrDuplicateBaseUnit
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isCheckViolation(err):
		return domain.ErrInvalidMultiplier
	}
	return fmt.Errorf("%s: %w", op, err)
}
