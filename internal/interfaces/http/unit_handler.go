package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
)

// UnitHandler maneja el catálogo de unidades (lectura para todos, escritura solo gerente).
type UnitHandler struct {
	uc *inventory.UnitCatalogUseCase
}

// NewUnitHandler construye el handler.
func NewUnitHandler(uc *inventory.UnitCatalogUseCase) *UnitHandler {
	return &UnitHandler{uc: uc}
}

// Create godoc
// @Summary      Definir unidad
// @Description  La primera unidad del catálogo debe tener multiplier=1 (unidad base).
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUnitRequest  true  "name, multiplier"
// @Success      201   {object}  dto.UnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/units [post]
func (h *UnitHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return respondCode(c, fiber.StatusBadRequest, "INVALID_BODY")
	}
	u, err := h.uc.Define(c.Context(), in.Name, in.Multiplier)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUnitResponse(u))
}

// List godoc
// @Summary      Listar unidades
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UnitResponse
// @Router       /api/units [get]
func (h *UnitHandler) List(c *fiber.Ctx) error {
	units, err := h.uc.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, toUnitResponse(u))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener unidad
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la unidad"
// @Success      200  {object}  dto.UnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/units/{id} [get]
func (h *UnitHandler) GetByID(c *fiber.Ctx) error {
	u, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toUnitResponse(u))
}

// Update godoc
// @Summary      Modificar unidad
// @Description  Cambiar el multiplicador no altera movimientos ya registrados.
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la unidad"
// @Param        body  body  dto.UpdateUnitRequest  true  "name?, multiplier?"
// @Success      200   {object}  dto.UnitResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/units/{id} [patch]
func (h *UnitHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return respondCode(c, fiber.StatusBadRequest, "INVALID_BODY")
	}
	u, err := h.uc.Update(c.Context(), c.Params("id"), in.Name, in.Multiplier)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toUnitResponse(u))
}

// Delete godoc
// @Summary      Eliminar unidad
// @Tags         units
// @Security     Bearer
// @Param        id   path  string  true  "ID de la unidad"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/units/{id} [delete]
func (h *UnitHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Display godoc
// @Summary      Expresar una cantidad atómica en la unidad
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true  "ID de la unidad"
// @Param        quantity  query  int     true  "Cantidad en unidades atómicas"
// @Success      200  {object}  dto.UnitDisplayResponse
// @Router       /api/units/{id}/display [get]
func (h *UnitHandler) Display(c *fiber.Ctx) error {
	atomic, err := strconv.ParseInt(c.Query("quantity"), 10, 64)
	if err != nil {
		return respondCode(c, fiber.StatusBadRequest, "VALIDATION")
	}
	qty, u, err := h.uc.Display(c.Context(), c.Params("id"), atomic)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.UnitDisplayResponse{
		UnitID:         u.ID,
		UnitName:       u.Name,
		AtomicQuantity: atomic,
		Quantity:       qty,
	})
}
