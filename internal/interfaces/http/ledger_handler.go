package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// LedgerHandler lecturas del libro: saldos, libro de movimientos, tarjeta PDF y auditoría.
type LedgerHandler struct {
	ledger    *inventory.LedgerUseCase
	stockCard *inventory.StockCardUseCase
	audit     *inventory.AuditUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(ledger *inventory.LedgerUseCase, stockCard *inventory.StockCardUseCase, audit *inventory.AuditUseCase) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, stockCard: stockCard, audit: audit}
}

// Balance godoc
// @Summary      Saldo de una variante en una bodega
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        variant_id    query  string  true  "Variante"
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/balance [get]
func (h *LedgerHandler) Balance(c *fiber.Ctx) error {
	variantID, warehouseID := c.Query("variant_id"), c.Query("warehouse_id")
	qty, err := h.ledger.GetBalance(c.Context(), variantID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BalanceResponse{VariantID: variantID, WarehouseID: warehouseID, Quantity: qty})
}

// Balances godoc
// @Summary      Saldos por variante y/o bodega
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        variant_id    query  string  false  "Variante"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/ledger/balances [get]
func (h *LedgerHandler) Balances(c *fiber.Ctx) error {
	entries, err := h.ledger.ListBalances(c.Context(), c.Query("variant_id"), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toBalanceResponse(e))
	}
	return c.JSON(out)
}

// Log godoc
// @Summary      Libro de movimientos (más reciente primero)
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        variant_id    query  string  false  "Variante"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        type          query  string  false  "INBOUND | OUTBOUND"
// @Param        from          query  string  false  "RFC3339"
// @Param        to            query  string  false  "RFC3339"
// @Param        line_item_id  query  string  false  "Línea de pedido"
// @Param        order_id      query  string  false  "Orden"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementLogResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/log [get]
func (h *LedgerHandler) Log(c *fiber.Ctx) error {
	filter, err := movementFilterFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	items, total, err := h.ledger.Log(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	limit, offset := inventory.NormalizePage(filter.Limit, filter.Offset)
	out := dto.MovementLogResponse{
		Items: make([]dto.MovementResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, m := range items {
		out.Items = append(out.Items, toMovementResponse(m))
	}
	return c.JSON(out)
}

// StockCardPDF godoc
// @Summary      Tarjeta de existencias en PDF
// @Description  Mismos filtros que /api/ledger/log; exporta todas las páginas desde offset.
// @Tags         ledger
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/ledger/log.pdf [get]
func (h *LedgerHandler) StockCardPDF(c *fiber.Ctx) error {
	filter, err := movementFilterFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.stockCard.Export(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="tarjeta-existencias.pdf"`)
	return c.Send(doc)
}

// Audit godoc
// @Summary      Auditoría de conservación (solo gerente)
// @Description  Claves donde el saldo difiere de la suma firmada del libro.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AuditResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/ledger/audit [get]
func (h *LedgerHandler) Audit(c *fiber.Ctx) error {
	drifts, err := h.audit.Audit(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAuditResponse(drifts))
}

// movementFilterFrom lee los filtros del libro desde la query string.
func movementFilterFrom(c *fiber.Ctx) (entity.MovementFilter, error) {
	f := entity.MovementFilter{
		VariantID:   c.Query("variant_id"),
		WarehouseID: c.Query("warehouse_id"),
		Type:        entity.MovementType(strings.ToUpper(c.Query("type"))),
		LineItemID:  c.Query("line_item_id"),
		OrderID:     c.Query("order_id"),
		Limit:       c.QueryInt("limit", 0),
		Offset:      c.QueryInt("offset", 0),
	}
	for key, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, domain.ErrInvalidInput
		}
		*dst = &t
	}
	return f, nil
}
