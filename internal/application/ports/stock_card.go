package ports

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// StockCard datos de la tarjeta de existencias (libro de movimientos filtrado) para exportar.
type StockCard struct {
	Title       string
	GeneratedAt time.Time
	Filter      entity.MovementFilter
	Movements   []*entity.MovementRecord
	UnitNames   map[string]string // unit_id -> nombre
	Total       int               // total de movimientos que cumplen el filtro
}

// StockCardRenderer renderiza la tarjeta de existencias como documento.
type StockCardRenderer interface {
	RenderStockCard(ctx context.Context, card StockCard) ([]byte, error)
}
