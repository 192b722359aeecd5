package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// Beginner abre transacciones (*pgxpool.Pool o pgxmock).
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Los deadlocks y fallos de
// serialización se reintentan hasta maxRetries veces con la transacción completa.
type TxRunner struct {
	db         Beginner
	maxRetries int
	backoff    time.Duration
	log        zerolog.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db Beginner, maxRetries int, log zerolog.Logger) *TxRunner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &TxRunner{db: db, maxRetries: maxRetries, backoff: 20 * time.Millisecond, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.Repos) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) || attempt >= r.maxRetries {
			return err
		}
		r.log.Warn().Err(err).Int("attempt", attempt+1).Msg("transacción reintentada")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff * time.Duration(attempt+1)):
		}
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repos ports.Repos) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos repositorios atados a q (pool o tx).
func NewRepos(q Querier) ports.Repos {
	return ports.Repos{
		Units:      NewUnitRepository(q),
		Warehouses: NewWarehouseRepository(q),
		Ledger:     NewLedgerRepository(q),
		Movements:  NewMovementRepository(q),
		LineItems:  NewLineItemRepository(q),
		WorkItems:  NewWorkItemRepository(q),
	}
}
