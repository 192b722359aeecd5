// Package metrics expone los contadores de negocio del libro en Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

const namespace = "warehouse_ledger"

var _ ports.LedgerMetrics = (*LedgerMetrics)(nil)

// LedgerMetrics implementa ports.LedgerMetrics.
type LedgerMetrics struct {
	movements   *prometheus.CounterVec
	atomicUnits *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	claims      *prometheus.CounterVec
	drift       prometheus.Gauge
}

// NewLedgerMetrics registra los colectores en reg. Con reg nil usa el registro por defecto.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &LedgerMetrics{
		movements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "movements_recorded_total",
			Help:      "Movimientos registrados en el libro",
		}, []string{"type"}),
		atomicUnits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "atomic_units_total",
			Help:      "Unidades atómicas movidas",
		}, []string{"type"}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "movements_rejected_total",
			Help:      "Movimientos rechazados por motivo",
		}, []string{"reason"}),
		claims: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assignment",
			Name:      "claims_total",
			Help:      "Intentos de asignación por resultado",
		}, []string{"result"}),
		drift: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "drift_keys",
			Help:      "Claves (variante, bodega) cuyo saldo no coincide con la suma del libro en la última auditoría",
		}),
	}
}

func (m *LedgerMetrics) MovementRecorded(movType entity.MovementType, atomic int64) {
	m.movements.WithLabelValues(string(movType)).Inc()
	m.atomicUnits.WithLabelValues(string(movType)).Add(float64(atomic))
}

func (m *LedgerMetrics) MovementRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *LedgerMetrics) ClaimResult(result string) {
	m.claims.WithLabelValues(result).Inc()
}

// DriftDetected fija el gauge; 0 tras una auditoría limpia.
func (m *LedgerMetrics) DriftDetected(keys int) {
	m.drift.Set(float64(keys))
}
