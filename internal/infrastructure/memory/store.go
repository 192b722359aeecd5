// Package memory implementa los repositorios sobre mapas en memoria. Una transacción toma el
// candado global, trabaja sobre una copia del estado y la publica sólo si fn no falla.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

type ledgerKey struct {
	variantID   string
	warehouseID string
}

type state struct {
	units      map[string]entity.UnitDefinition
	warehouses map[string]entity.Warehouse
	ledger     map[ledgerKey]entity.LedgerEntry
	movements  []entity.MovementRecord
	lineItems  map[string]entity.LineItemWarehouseState
	workItems  map[string]entity.WorkItem
}

func newState() *state {
	return &state{
		units:      map[string]entity.UnitDefinition{},
		warehouses: map[string]entity.Warehouse{},
		ledger:     map[ledgerKey]entity.LedgerEntry{},
		lineItems:  map[string]entity.LineItemWarehouseState{},
		workItems:  map[string]entity.WorkItem{},
	}
}

// clone copia superficial de los mapas; los valores son structs, así que las escrituras no se filtran.
// Los punteros internos (Capacity, HandlerID, ...) nunca se mutan en sitio.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.units {
		c.units[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.ledger {
		c.ledger[k] = v
	}
	c.movements = append(c.movements, s.movements...)
	for k, v := range s.lineItems {
		c.lineItems[k] = v
	}
	for k, v := range s.workItems {
		c.workItems[k] = v
	}
	return c
}

// access da acceso al estado: bajo candado (Store) o directo (dentro de una transacción).
type access func(fn func(s *state) error) error

// Store estado compartido y TxRunner en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

var _ ports.TxRunner = (*Store)(nil)

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) locked(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Run serializa las transacciones; si fn devuelve error el estado no cambia.
func (s *Store) Run(ctx context.Context, fn func(repos ports.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	direct := func(f func(st *state) error) error { return f(work) }
	if err := fn(newRepos(direct)); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos repositorios fuera de transacción; cada llamada toma el candado.
func (s *Store) Repos() ports.Repos {
	return newRepos(s.locked)
}

func newRepos(a access) ports.Repos {
	return ports.Repos{
		Units:      &UnitRepo{a: a},
		Warehouses: &WarehouseRepo{a: a},
		Ledger:     &LedgerRepo{a: a},
		Movements:  &MovementRepo{a: a},
		LineItems:  &LineItemRepo{a: a},
		WorkItems:  &WorkItemRepo{a: a},
	}
}
