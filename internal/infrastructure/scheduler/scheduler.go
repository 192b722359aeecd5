// Package scheduler ejecuta la auditoría periódica del libro con gocron.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

const auditJobName = "ledger-audit"

// Auditor compara saldos contra la suma del libro.
type Auditor interface {
	Audit(ctx context.Context) ([]repository.Drift, error)
}

// Scheduler envuelve un gocron.Scheduler con los jobs del libro.
type Scheduler struct {
	scheduler gocron.Scheduler
	log       zerolog.Logger
	interval  time.Duration
}

// New registra la auditoría cada interval. El job no se solapa consigo mismo:
// si una ejecución sigue en curso la siguiente se reprograma.
func New(auditor Auditor, interval time.Duration, log zerolog.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	sch := &Scheduler{scheduler: s, log: log, interval: interval}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sch.runAudit, auditor),
		gocron.WithName(auditJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}
	return sch, nil
}

// Start arranca el scheduler (no bloquea).
func (s *Scheduler) Start() {
	s.log.Info().Str("job", auditJobName).Dur("interval", s.interval).Msg("scheduler iniciado")
	s.scheduler.Start()
}

// Shutdown detiene el scheduler y espera a los jobs en curso.
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

// Jobs número de jobs registrados.
func (s *Scheduler) Jobs() int {
	return len(s.scheduler.Jobs())
}

func (s *Scheduler) runAudit(auditor Auditor) {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	start := time.Now()
	drifts, err := auditor.Audit(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("job", auditJobName).Msg("auditoría fallida")
		return
	}
	s.log.Info().
		Str("job", auditJobName).
		Int("drifts", len(drifts)).
		Dur("elapsed", time.Since(start)).
		Msg("auditoría completada")
}
