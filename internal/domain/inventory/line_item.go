package inventory

import (
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// NextWarehoused calcula el nuevo WarehousedQuantity de la línea tras mover atomic unidades del tipo mov.
//
// Movimiento en el sentido de la línea: suma, tope OrderedQuantity (ErrExceedsOrderedQuantity).
// Movimiento en sentido contrario: resta, tope WarehousedQuantity (ErrExceedsWarehousedQuantity).
func NextWarehoused(line *entity.LineItemWarehouseState, mov entity.MovementType, atomic int64) (int64, error) {
	if atomic <= 0 || !mov.Valid() {
		return 0, domain.ErrInvalidInput
	}
	if mov == line.Flow {
		if atomic > line.OrderedQuantity-line.WarehousedQuantity {
			return 0, domain.ErrExceedsOrderedQuantity
		}
		return line.WarehousedQuantity + atomic, nil
	}
	if atomic > line.WarehousedQuantity {
		return 0, domain.ErrExceedsWarehousedQuantity
	}
	return line.WarehousedQuantity - atomic, nil
}
