package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// MovementHandler registra y consulta movimientos de bodega (protegido).
type MovementHandler struct {
	recorder *inventory.RecordMovementUseCase
	ledger   *inventory.LedgerUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(recorder *inventory.RecordMovementUseCase, ledger *inventory.LedgerUseCase) *MovementHandler {
	return &MovementHandler{recorder: recorder, ledger: ledger}
}

// Record godoc
// @Summary      Registrar movimiento de bodega
// @Description  Convierte unit_count a unidades atómicas y actualiza en una sola transacción el saldo,
//
//	el libro y la línea de pedido. Requiere ser el responsable de la orden (o gerente).
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "type, variant_id, warehouse_id, unit_id, unit_count, line_item_id, order_id"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return respondCode(c, fiber.StatusBadRequest, "INVALID_BODY")
	}
	rec, err := h.recorder.Record(c.Context(), inventory.MovementInput{
		Type:        entity.MovementType(strings.ToUpper(in.Type)),
		VariantID:   in.VariantID,
		WarehouseID: in.WarehouseID,
		UnitID:      in.UnitID,
		UnitCount:   in.UnitCount,
		LineItemID:  in.LineItemID,
		OrderID:     in.OrderID,
		ActorUserID: GetUserID(c),
		IsManager:   IsManager(c),
		Note:        in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(rec))
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.ledger.GetMovement(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMovementResponse(m))
}
