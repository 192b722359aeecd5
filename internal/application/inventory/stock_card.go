package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

// MaxStockCardRows tope de movimientos por tarjeta exportada.
const MaxStockCardRows = 5000

// StockCardUseCase exporta el libro de movimientos filtrado como documento.
type StockCardUseCase struct {
	ledger   *LedgerUseCase
	units    repository.UnitRepository
	renderer ports.StockCardRenderer
	now      func() time.Time
}

// NewStockCardUseCase construye el caso de uso.
func NewStockCardUseCase(ledger *LedgerUseCase, units repository.UnitRepository, renderer ports.StockCardRenderer) *StockCardUseCase {
	return &StockCardUseCase{ledger: ledger, units: units, renderer: renderer, now: time.Now}
}

// Export recorre el libro página a página desde filter.Offset (hasta MaxStockCardRows) y lo renderiza.
// Si el filtro no trae To se usa la hora de generación como fin (exclusivo).
func (uc *StockCardUseCase) Export(ctx context.Context, filter entity.MovementFilter) ([]byte, error) {
	card := ports.StockCard{
		Title:       stockCardTitle(filter),
		GeneratedAt: uc.now().UTC(),
		Filter:      filter,
		UnitNames:   map[string]string{},
	}

	// Sin fin explícito la ventana se fija al momento de generar: lo que se registre durante la
	// exportación no desplaza las páginas.
	page := filter
	if page.To == nil {
		to := card.GeneratedAt
		page.To = &to
	}
	page.Limit = maxLogLimit
	for len(card.Movements) < MaxStockCardRows {
		items, total, err := uc.ledger.Log(ctx, page)
		if err != nil {
			return nil, err
		}
		card.Total = total
		card.Movements = append(card.Movements, items...)
		if len(items) < page.Limit {
			break
		}
		page.Offset += len(items)
	}
	if len(card.Movements) > MaxStockCardRows {
		card.Movements = card.Movements[:MaxStockCardRows]
	}

	units, err := uc.units.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		card.UnitNames[u.ID] = u.Name
	}
	return uc.renderer.RenderStockCard(ctx, card)
}

func stockCardTitle(f entity.MovementFilter) string {
	switch {
	case f.VariantID != "" && f.WarehouseID != "":
		return fmt.Sprintf("Tarjeta de existencias %s @ %s", f.VariantID, f.WarehouseID)
	case f.VariantID != "":
		return "Tarjeta de existencias " + f.VariantID
	case f.WarehouseID != "":
		return "Libro de bodega " + f.WarehouseID
	}
	return "Libro de movimientos"
}
