package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/metrics"
)

func TestLedgerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewLedgerMetrics(reg)

	m.MovementRecorded(entity.MovementInbound, 24)
	m.MovementRecorded(entity.MovementInbound, 6)
	m.MovementRecorded(entity.MovementOutbound, 5)
	m.MovementRejected("insufficient_stock")
	m.ClaimResult("assigned")
	m.ClaimResult("already_assigned")
	m.DriftDetected(3)

	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 8, n)

	m.DriftDetected(0)
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP warehouse_ledger_ledger_drift_keys Claves (variante, bodega) cuyo saldo no coincide con la suma del libro en la última auditoría
# TYPE warehouse_ledger_ledger_drift_keys gauge
warehouse_ledger_ledger_drift_keys 0
`), "warehouse_ledger_ledger_drift_keys"))
}
