package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/fulfillment"
	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// WorkItemHandler cola de trabajo: alta, asignación y flujo de estados de las órdenes.
type WorkItemHandler struct {
	uc *fulfillment.AssignmentUseCase
}

// NewWorkItemHandler construye el handler.
func NewWorkItemHandler(uc *fulfillment.AssignmentUseCase) *WorkItemHandler {
	return &WorkItemHandler{uc: uc}
}

// Create godoc
// @Summary      Alta de orden de trabajo
// @Description  La orden nace sin responsable en el estado inicial de su tipo.
// @Tags         work-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkItemRequest  true  "kind: supplier_inbound | customer_outbound | stock_check | shipment"
// @Success      201   {object}  dto.WorkItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/work-items [post]
func (h *WorkItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkItemRequest
	if err := c.BodyParser(&in); err != nil {
		return respondCode(c, fiber.StatusBadRequest, "INVALID_BODY")
	}
	w, err := h.uc.Create(c.Context(), entity.WorkItemKind(strings.ToLower(in.Kind)))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toWorkItemResponse(w))
}

// List godoc
// @Summary      Cola de trabajo
// @Tags         work-items
// @Security     Bearer
// @Produce      json
// @Param        kind        query  string  false  "Tipo"
// @Param        status      query  string  false  "Estado"
// @Param        handler_id  query  string  false  "Responsable ('me' = el usuario del token)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.WorkItemListResponse
// @Router       /api/work-items [get]
func (h *WorkItemHandler) List(c *fiber.Ctx) error {
	filter := entity.WorkItemFilter{
		Kind:      entity.WorkItemKind(c.Query("kind")),
		Status:    entity.WorkItemStatus(c.Query("status")),
		HandlerID: c.Query("handler_id"),
		Limit:     c.QueryInt("limit", 20),
		Offset:    c.QueryInt("offset", 0),
	}
	filter.Limit, filter.Offset = inventory.NormalizePage(filter.Limit, filter.Offset)
	if filter.HandlerID == "me" {
		filter.HandlerID = GetUserID(c)
	}
	items, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.WorkItemListResponse{
		Items: make([]dto.WorkItemResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}
	for _, w := range items {
		out.Items = append(out.Items, toWorkItemResponse(w))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de trabajo
// @Tags         work-items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.WorkItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-items/{id} [get]
func (h *WorkItemHandler) GetByID(c *fiber.Ctx) error {
	w, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toWorkItemResponse(w))
}

// Assign godoc
// @Summary      Tomar la orden
// @Description  El usuario del token reclama la orden. Entre reclamos concurrentes gana uno solo.
// @Tags         work-items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.WorkItemResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/work-items/{id}/assign [post]
func (h *WorkItemHandler) Assign(c *fiber.Ctx) error {
	w, err := h.uc.Assign(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toWorkItemResponse(w))
}

// Release godoc
// @Summary      Liberar la orden
// @Description  Solo el responsable actual o un gerente.
// @Tags         work-items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.WorkItemResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/work-items/{id}/release [post]
func (h *WorkItemHandler) Release(c *fiber.Ctx) error {
	w, err := h.uc.Release(c.Context(), c.Params("id"), actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toWorkItemResponse(w))
}

// Transition godoc
// @Summary      Cambiar el estado de la orden
// @Tags         work-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la orden"
// @Param        body  body  dto.TransitionRequest  true  "status, expected_status?"
// @Success      200   {object}  dto.WorkItemResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/work-items/{id}/transition [post]
func (h *WorkItemHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return respondCode(c, fiber.StatusBadRequest, "INVALID_BODY")
	}
	var expected *entity.WorkItemStatus
	if in.ExpectedStatus != nil {
		s := entity.WorkItemStatus(*in.ExpectedStatus)
		expected = &s
	}
	w, err := h.uc.Transition(c.Context(), c.Params("id"), entity.WorkItemStatus(in.Status), expected, actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toWorkItemResponse(w))
}

// Complete godoc
// @Summary      Completar la orden
// @Description  Lleva la orden al estado terminal de éxito de su tipo.
// @Tags         work-items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.WorkItemResponse
// @Router       /api/work-items/{id}/complete [post]
func (h *WorkItemHandler) Complete(c *fiber.Ctx) error {
	w, err := h.uc.Complete(c.Context(), c.Params("id"), actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toWorkItemResponse(w))
}
