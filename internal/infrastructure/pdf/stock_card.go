// Package pdf genera la tarjeta de existencias (libro de movimientos filtrado) en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título               │  Fecha de generación        │
//	│  FILTROS: variante / bodega / tipo / rango                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Variante | Bodega | Cant. | Atómica   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Neto                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.StockCardRenderer = (*StockCardGenerator)(nil)

// StockCardGenerator implementa ports.StockCardRenderer usando Maroto v2.
type StockCardGenerator struct {
	author string
}

// NewStockCardGenerator construye el generador. author aparece en los metadatos del PDF.
func NewStockCardGenerator(author string) *StockCardGenerator {
	return &StockCardGenerator{author: author}
}

// RenderStockCard genera el PDF y devuelve sus bytes.
func (g *StockCardGenerator) RenderStockCard(_ context.Context, card ports.StockCard) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(card.Title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(card))
	m.AddRows(filterRow(card.Filter))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(card)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(card))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(card ports.StockCard) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(nonEmpty(card.Title, "Tarjeta de existencias"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+card.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// filterRow resume los filtros aplicados; vacío = todo el libro.
func filterRow(f entity.MovementFilter) core.Row {
	var parts []string
	if f.VariantID != "" {
		parts = append(parts, "Variante: "+f.VariantID)
	}
	if f.WarehouseID != "" {
		parts = append(parts, "Bodega: "+f.WarehouseID)
	}
	if f.Type != "" {
		parts = append(parts, "Tipo: "+string(f.Type))
	}
	if f.OrderID != "" {
		parts = append(parts, "Orden: "+f.OrderID)
	}
	if f.From != nil {
		parts = append(parts, "Desde: "+f.From.Format("02/01/2006"))
	}
	if f.To != nil {
		parts = append(parts, "Hasta: "+f.To.Format("02/01/2006"))
	}
	return row.New(7).Add(col.New(12).Add(
		text.New(nonEmpty(strings.Join(parts, "  ·  "), "Sin filtros"), props.Text{
			Size: 8, Color: colorGray, Top: 1,
		}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 1.5,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 1, align.Center),
		h("Variante", 2, align.Left),
		h("Bodega", 2, align.Left),
		h("Cantidad", 2, align.Right),
		h("Atómica", 1, align.Right),
		h("Orden", 2, align.Left),
	)
}

// tableDetailRows una fila por movimiento; las salidas se muestran con signo negativo.
func tableDetailRows(card ports.StockCard) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 0.5, Right: 0.5}))
	}
	result := make([]core.Row, 0, len(card.Movements))
	for _, mv := range card.Movements {
		unit := nonEmpty(card.UnitNames[mv.UnitID], mv.UnitID)
		result = append(result, row.New(6).Add(
			cell(mv.CreatedAt.Format("02/01/06 15:04"), 2, align.Left),
			cell(typeLabel(mv.Type), 1, align.Center),
			cell(mv.VariantID, 2, align.Left),
			cell(mv.WarehouseID, 2, align.Left),
			cell(fmt.Sprintf("%d × %s", mv.UnitCount, unit), 2, align.Right),
			cell(formatQty(mv.SignedQuantity()), 1, align.Right),
			cell(mv.OrderID, 2, align.Left),
		))
	}
	return result
}

func totalsRow(card ports.StockCard) core.Row {
	in, out := Totals(card.Movements)
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	shown := fmt.Sprintf("Movimientos: %d de %d", len(card.Movements), card.Total)
	return row.New(20).Add(
		col.New(6).Add(text.New(shown, props.Text{Size: 8, Color: colorGray, Top: 1})),
		col.New(3).Add(label("Entradas:"), label("Salidas:"), label("Neto:")),
		col.New(3).Add(
			value(formatQty(in)),
			value(formatQty(-out)),
			text.New(formatQty(in-out), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// Totals suma entradas y salidas (ambas positivas) en unidades atómicas.
func Totals(movements []*entity.MovementRecord) (in, out int64) {
	for _, mv := range movements {
		if mv.Type == entity.MovementInbound {
			in += mv.AtomicQuantity
		} else {
			out += mv.AtomicQuantity
		}
	}
	return in, out
}

func typeLabel(t entity.MovementType) string {
	if t == entity.MovementInbound {
		return "Entrada"
	}
	return "Salida"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty inserta puntos de miles conservando el signo.
// Ej: 25000 → "25.000", -1000000 → "-1.000.000"
func formatQty(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
