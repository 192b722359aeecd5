package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

type countingAuditor struct {
	calls atomic.Int32
}

func (a *countingAuditor) Audit(context.Context) ([]repository.Drift, error) {
	a.calls.Add(1)
	return nil, nil
}

func TestScheduler_RunsAudit(t *testing.T) {
	auditor := &countingAuditor{}
	s, err := New(auditor, 20*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Jobs())

	s.Start()
	require.Eventually(t, func() bool { return auditor.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Shutdown())
}

func TestScheduler_InvalidInterval(t *testing.T) {
	_, err := New(&countingAuditor{}, 0, zerolog.Nop())
	assert.Error(t, err)
}
