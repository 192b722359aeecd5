package inventory

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
)

// ToAtomic convierte unitCount unidades de factor multiplier a unidades atómicas (servicio de dominio).
// CantidadAtómica = unitCount * multiplier. Rechaza conteos no positivos y desbordamiento de int64.
func ToAtomic(unitCount, multiplier int64) (int64, error) {
	if multiplier < 1 {
		return 0, domain.ErrInvalidMultiplier
	}
	if unitCount <= 0 {
		return 0, domain.ErrInvalidInput
	}
	if unitCount > math.MaxInt64/multiplier {
		return 0, domain.ErrInvalidInput
	}
	return unitCount * multiplier, nil
}

// FromAtomic expresa una cantidad atómica en la unidad indicada (ej. 30 piezas = 2.5 cajas de 12).
// Se usa para mostrar saldos; nunca para persistir.
func FromAtomic(atomic, multiplier int64) decimal.Decimal {
	if multiplier < 1 {
		return decimal.Zero
	}
	return decimal.NewFromInt(atomic).Div(decimal.NewFromInt(multiplier))
}
