package ports

import "github.com/jhoicas/warehouse-ledger/internal/domain/entity"

// LedgerMetrics contadores de negocio del libro y de la asignación.
type LedgerMetrics interface {
	MovementRecorded(movType entity.MovementType, atomic int64)
	MovementRejected(reason string)
	ClaimResult(result string)
	DriftDetected(keys int)
}

// NopMetrics descarta las métricas.
type NopMetrics struct{}

func (NopMetrics) MovementRecorded(entity.MovementType, int64) {}
func (NopMetrics) MovementRejected(string)                      {}
func (NopMetrics) ClaimResult(string)                           {}
func (NopMetrics) DriftDetected(int)                            {}
