package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

var (
	_ repository.LedgerRepository   = (*LedgerRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
)

// LedgerRepo libro de saldos en memoria.
type LedgerRepo struct{ a access }

func (r *LedgerRepo) GetBalance(_ context.Context, variantID, warehouseID string) (int64, error) {
	var qty int64
	err := r.a(func(s *state) error {
		qty = s.ledger[ledgerKey{variantID, warehouseID}].Quantity
		return nil
	})
	return qty, err
}

func (r *LedgerRepo) List(_ context.Context, variantID, warehouseID string) ([]*entity.LedgerEntry, error) {
	var list []*entity.LedgerEntry
	err := r.a(func(s *state) error {
		for k, e := range s.ledger {
			e := e
			if (variantID == "" || k.variantID == variantID) && (warehouseID == "" || k.warehouseID == warehouseID) {
				list = append(list, &e)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].VariantID != list[j].VariantID {
			return list[i].VariantID < list[j].VariantID
		}
		return list[i].WarehouseID < list[j].WarehouseID
	})
	return list, err
}

func (r *LedgerRepo) ApplyDelta(_ context.Context, variantID, warehouseID string, delta int64) (int64, error) {
	if delta == 0 {
		return 0, domain.ErrInvalidInput
	}
	var qty int64
	err := r.a(func(s *state) error {
		k := ledgerKey{variantID, warehouseID}
		e, ok := s.ledger[k]
		if !ok {
			e = entity.LedgerEntry{VariantID: variantID, WarehouseID: warehouseID}
		}
		if e.Quantity+delta < 0 {
			return domain.ErrInsufficientStock
		}
		e.Quantity += delta
		e.UpdatedAt = time.Now().UTC()
		s.ledger[k] = e
		qty = e.Quantity
		return nil
	})
	return qty, err
}

func (r *LedgerRepo) WarehouseTotals(_ context.Context, warehouseID string) (int64, int, error) {
	var (
		total   int64
		nonZero int
	)
	err := r.a(func(s *state) error {
		for k, e := range s.ledger {
			if k.warehouseID != warehouseID {
				continue
			}
			total += e.Quantity
			if e.Quantity != 0 {
				nonZero++
			}
		}
		return nil
	})
	return total, nonZero, err
}

func (r *LedgerRepo) Drifts(_ context.Context) ([]repository.Drift, error) {
	var list []repository.Drift
	err := r.a(func(s *state) error {
		sums := map[ledgerKey]int64{}
		for _, m := range s.movements {
			m := m
			sums[ledgerKey{m.VariantID, m.WarehouseID}] += m.SignedQuantity()
		}
		keys := map[ledgerKey]struct{}{}
		for k := range sums {
			keys[k] = struct{}{}
		}
		for k := range s.ledger {
			keys[k] = struct{}{}
		}
		for k := range keys {
			if l := s.ledger[k].Quantity; l != sums[k] {
				list = append(list, repository.Drift{VariantID: k.variantID, WarehouseID: k.warehouseID, Ledger: l, Movements: sums[k]})
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].VariantID != list[j].VariantID {
			return list[i].VariantID < list[j].VariantID
		}
		return list[i].WarehouseID < list[j].WarehouseID
	})
	return list, err
}

// MovementRepo libro de movimientos en memoria (sólo inserción).
type MovementRepo struct{ a access }

func (r *MovementRepo) Append(_ context.Context, m *entity.MovementRecord) error {
	return r.a(func(s *state) error {
		s.movements = append(s.movements, *m)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.MovementRecord, error) {
	var out *entity.MovementRecord
	err := r.a(func(s *state) error {
		for _, m := range s.movements {
			m := m
			if m.ID == id {
				out = &m
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.MovementRecord, error) {
	list, err := r.filter(f)
	return page(list, f.Limit, f.Offset), err
}

func (r *MovementRepo) Count(_ context.Context, f entity.MovementFilter) (int, error) {
	list, err := r.filter(f)
	return len(list), err
}

// filter más reciente primero, como en PostgreSQL.
func (r *MovementRepo) filter(f entity.MovementFilter) ([]*entity.MovementRecord, error) {
	var list []*entity.MovementRecord
	err := r.a(func(s *state) error {
		for i := len(s.movements) - 1; i >= 0; i-- {
			m := s.movements[i]
			if matches(m, f) {
				list = append(list, &m)
			}
		}
		return nil
	})
	return list, err
}

func matches(m entity.MovementRecord, f entity.MovementFilter) bool {
	switch {
	case f.VariantID != "" && m.VariantID != f.VariantID,
		f.WarehouseID != "" && m.WarehouseID != f.WarehouseID,
		f.Type != "" && m.Type != f.Type,
		f.LineItemID != "" && m.LineItemID != f.LineItemID,
		f.OrderID != "" && m.OrderID != f.OrderID,
		f.From != nil && m.CreatedAt.Before(*f.From),
		f.To != nil && !m.CreatedAt.Before(*f.To):
		return false
	}
	return true
}
