package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/fulfillment"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// LineItemHandler estado de bodega de las líneas de pedido.
type LineItemHandler struct {
	uc *fulfillment.LineItemUseCase
}

// NewLineItemHandler construye el handler.
func NewLineItemHandler(uc *fulfillment.LineItemUseCase) *LineItemHandler {
	return &LineItemHandler{uc: uc}
}

// Upsert godoc
// @Summary      Registrar o actualizar línea de pedido
// @Tags         line-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la línea"
// @Param        body  body  dto.UpsertLineItemRequest  true  "order_id, variant_id, flow, ordered_quantity"
// @Success      200   {object}  dto.LineItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/line-items/{id} [put]
func (h *LineItemHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertLineItemRequest
	if err := c.BodyParser(&in); err != nil {
		return respondCode(c, fiber.StatusBadRequest, "INVALID_BODY")
	}
	l, err := h.uc.Upsert(c.Context(), fulfillment.LineItemInput{
		LineItemID:      c.Params("id"),
		OrderID:         in.OrderID,
		VariantID:       in.VariantID,
		Flow:            entity.MovementType(strings.ToUpper(in.Flow)),
		OrderedQuantity: in.OrderedQuantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLineItemResponse(l))
}

// GetByID godoc
// @Summary      Obtener línea de pedido
// @Tags         line-items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la línea"
// @Success      200  {object}  dto.LineItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/line-items/{id} [get]
func (h *LineItemHandler) GetByID(c *fiber.Ctx) error {
	l, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLineItemResponse(l))
}
