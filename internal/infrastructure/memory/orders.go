package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
	"github.com/jhoicas/warehouse-ledger/internal/domain/workflow"
)

var (
	_ repository.LineItemRepository = (*LineItemRepo)(nil)
	_ repository.WorkItemRepository = (*WorkItemRepo)(nil)
)

// LineItemRepo estado de líneas de pedido en memoria.
type LineItemRepo struct{ a access }

func (r *LineItemRepo) Get(_ context.Context, id string) (*entity.LineItemWarehouseState, error) {
	var out *entity.LineItemWarehouseState
	err := r.a(func(s *state) error {
		if l, ok := s.lineItems[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *LineItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.LineItemWarehouseState, error) {
	return r.Get(ctx, id)
}

func (r *LineItemRepo) Upsert(_ context.Context, l *entity.LineItemWarehouseState) error {
	return r.a(func(s *state) error {
		if _, ok := s.workItems[l.OrderID]; !ok {
			return domain.ErrNotFound
		}
		cur, ok := s.lineItems[l.LineItemID]
		if ok {
			if l.OrderedQuantity < cur.WarehousedQuantity {
				return domain.ErrInvalidInput
			}
			cur.OrderedQuantity = l.OrderedQuantity
			cur.UpdatedAt = l.UpdatedAt
			s.lineItems[l.LineItemID] = cur
			return nil
		}
		s.lineItems[l.LineItemID] = *l
		return nil
	})
}

func (r *LineItemRepo) SetWarehoused(_ context.Context, id string, warehoused int64) error {
	return r.a(func(s *state) error {
		l, ok := s.lineItems[id]
		if !ok {
			return domain.ErrNotFound
		}
		if warehoused < 0 || warehoused > l.OrderedQuantity {
			return domain.ErrExceedsOrderedQuantity
		}
		l.WarehousedQuantity = warehoused
		l.UpdatedAt = time.Now().UTC()
		s.lineItems[id] = l
		return nil
	})
}

// WorkItemRepo órdenes de trabajo en memoria; las mutaciones condicionales son atómicas bajo el candado.
type WorkItemRepo struct{ a access }

func (r *WorkItemRepo) Create(_ context.Context, w *entity.WorkItem) error {
	return r.a(func(s *state) error {
		if _, ok := s.workItems[w.ID]; ok {
			return domain.ErrDuplicate
		}
		s.workItems[w.ID] = *w
		return nil
	})
}

func (r *WorkItemRepo) GetByID(_ context.Context, id string) (*entity.WorkItem, error) {
	var out *entity.WorkItem
	err := r.a(func(s *state) error {
		if w, ok := s.workItems[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *WorkItemRepo) GetForShare(ctx context.Context, id string) (*entity.WorkItem, error) {
	return r.GetByID(ctx, id)
}

func (r *WorkItemRepo) List(_ context.Context, f entity.WorkItemFilter) ([]*entity.WorkItem, error) {
	var list []*entity.WorkItem
	err := r.a(func(s *state) error {
		for _, w := range s.workItems {
			w := w
			if f.Kind != "" && w.Kind != f.Kind {
				continue
			}
			if f.Status != "" && w.Status != f.Status {
				continue
			}
			if f.HandlerID != "" && !w.IsHeldBy(f.HandlerID) {
				continue
			}
			list = append(list, &w)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, f.Limit, f.Offset), err
}

func (r *WorkItemRepo) ClaimIfUnassigned(_ context.Context, id, userID string) (*entity.WorkItem, error) {
	return r.mutate(id, func(w *entity.WorkItem) bool {
		if w.HandlerID != nil || isTerminal(w) {
			return false
		}
		now := time.Now().UTC()
		w.HandlerID = &userID
		w.HandledAt = &now
		w.UpdatedAt = now
		return true
	})
}

func (r *WorkItemRepo) ReleaseIfHeld(_ context.Context, id, userID string, force bool) (*entity.WorkItem, error) {
	return r.mutate(id, func(w *entity.WorkItem) bool {
		if w.HandlerID == nil || isTerminal(w) || (!force && *w.HandlerID != userID) {
			return false
		}
		w.HandlerID = nil
		w.HandledAt = nil
		w.UpdatedAt = time.Now().UTC()
		return true
	})
}

func (r *WorkItemRepo) TransitionIfStatus(_ context.Context, id string, expected, next entity.WorkItemStatus, expectedHandler *string) (*entity.WorkItem, error) {
	return r.mutate(id, func(w *entity.WorkItem) bool {
		if w.Status != expected || !sameHandler(w.HandlerID, expectedHandler) {
			return false
		}
		w.Status = next
		w.UpdatedAt = time.Now().UTC()
		return true
	})
}

// mutate aplica fn si la orden existe y fn acepta; (nil, nil) si no hubo cambio.
func (r *WorkItemRepo) mutate(id string, fn func(w *entity.WorkItem) bool) (*entity.WorkItem, error) {
	var out *entity.WorkItem
	err := r.a(func(s *state) error {
		w, ok := s.workItems[id]
		if !ok || !fn(&w) {
			return nil
		}
		s.workItems[id] = w
		out = &w
		return nil
	})
	return out, err
}

func isTerminal(w *entity.WorkItem) bool {
	m, err := workflow.For(w.Kind)
	return err == nil && m.IsTerminal(w.Status)
}

func sameHandler(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
