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
	_ repository.UnitRepository      = (*UnitRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// UnitRepo catálogo de unidades en memoria.
type UnitRepo struct{ a access }

func (r *UnitRepo) Create(_ context.Context, unit *entity.UnitDefinition) error {
	return r.a(func(s *state) error {
		for _, u := range s.units {
			u := u
			if u.Name == unit.Name {
				return domain.ErrDuplicate
			}
			if u.IsBase() && unit.IsBase() {
				return domain.ErrDuplicateBaseUnit
			}
		}
		s.units[unit.ID] = *unit
		return nil
	})
}

func (r *UnitRepo) GetByID(_ context.Context, id string) (*entity.UnitDefinition, error) {
	var out *entity.UnitDefinition
	err := r.a(func(s *state) error {
		if u, ok := s.units[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UnitRepo) GetForShare(ctx context.Context, id string) (*entity.UnitDefinition, error) {
	return r.GetByID(ctx, id)
}

func (r *UnitRepo) GetForUpdate(ctx context.Context, id string) (*entity.UnitDefinition, error) {
	return r.GetByID(ctx, id)
}

func (r *UnitRepo) GetBaseForShare(_ context.Context) (*entity.UnitDefinition, error) {
	var out *entity.UnitDefinition
	err := r.a(func(s *state) error {
		for _, u := range s.units {
			u := u
			if u.IsBase() {
				out = &u
			}
		}
		return nil
	})
	return out, err
}

func (r *UnitRepo) List(_ context.Context) ([]*entity.UnitDefinition, error) {
	var list []*entity.UnitDefinition
	err := r.a(func(s *state) error {
		for _, u := range s.units {
			u := u
			list = append(list, &u)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Multiplier != list[j].Multiplier {
			return list[i].Multiplier < list[j].Multiplier
		}
		return list[i].Name < list[j].Name
	})
	return list, err
}

func (r *UnitRepo) Update(_ context.Context, unit *entity.UnitDefinition) error {
	return r.a(func(s *state) error {
		if _, ok := s.units[unit.ID]; !ok {
			return domain.ErrUnknownUnit
		}
		for id, u := range s.units {
			if id != unit.ID && u.Name == unit.Name {
				return domain.ErrDuplicate
			}
		}
		s.units[unit.ID] = *unit
		return nil
	})
}

func (r *UnitRepo) Delete(_ context.Context, id string) error {
	return r.a(func(s *state) error {
		if _, ok := s.units[id]; !ok {
			return domain.ErrUnknownUnit
		}
		for _, m := range s.movements {
			if m.UnitID == id {
				return domain.ErrUnitInUse
			}
		}
		delete(s.units, id)
		return nil
	})
}

func (r *UnitRepo) Count(_ context.Context) (int, error) {
	var n int
	err := r.a(func(s *state) error {
		n = len(s.units)
		return nil
	})
	return n, err
}

func (r *UnitRepo) IsReferenced(_ context.Context, id string) (bool, error) {
	var used bool
	err := r.a(func(s *state) error {
		for _, m := range s.movements {
			if m.UnitID == id {
				used = true
				break
			}
		}
		return nil
	})
	return used, err
}

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ a access }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.a(func(s *state) error {
		for _, existing := range s.warehouses {
			existing := existing
			if existing.Active() && existing.Name == w.Name {
				return domain.ErrDuplicate
			}
		}
		s.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.a(func(s *state) error {
		if w, ok := s.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) GetForShare(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.GetByID(ctx, id)
}

func (r *WarehouseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.GetByID(ctx, id)
}

func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var list []*entity.Warehouse
	err := r.a(func(s *state) error {
		for _, w := range s.warehouses {
			w := w
			if w.Active() {
				list = append(list, &w)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), err
}

func (r *WarehouseRepo) SoftDelete(_ context.Context, id string) error {
	return r.a(func(s *state) error {
		w, ok := s.warehouses[id]
		if !ok || !w.Active() {
			return domain.ErrNotFound
		}
		now := time.Now().UTC()
		w.DeletedAt = &now
		w.UpdatedAt = now
		s.warehouses[id] = w
		return nil
	})
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
