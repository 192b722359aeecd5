package inventory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

// AuditUseCase verifica la conservación: saldo del libro == suma firmada de los movimientos.
type AuditUseCase struct {
	ledgerRepo repository.LedgerRepository
	metrics    ports.LedgerMetrics
	log        zerolog.Logger
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(ledgerRepo repository.LedgerRepository, metrics ports.LedgerMetrics, log zerolog.Logger) *AuditUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &AuditUseCase{ledgerRepo: ledgerRepo, metrics: metrics, log: log}
}

// Audit devuelve las claves con descuadre. Un resultado vacío indica un libro consistente.
func (uc *AuditUseCase) Audit(ctx context.Context) ([]repository.Drift, error) {
	drifts, err := uc.ledgerRepo.Drifts(ctx)
	if err != nil {
		return nil, err
	}
	uc.metrics.DriftDetected(len(drifts))
	for _, d := range drifts {
		uc.log.Error().
			Str("variant_id", d.VariantID).
			Str("warehouse_id", d.WarehouseID).
			Int64("ledger", d.Ledger).
			Int64("movements", d.Movements).
			Msg("descuadre entre libro y movimientos")
	}
	return drifts, nil
}
