package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
)

// errorMapping traduce un error de dominio a status HTTP y código estable.
type errorMapping struct {
	err    error
	status int
	code   string
}

// Orden relevante: se usa el primer errors.Is que coincida.
var errorTable = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidMultiplier, fiber.StatusBadRequest, "INVALID_MULTIPLIER"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotOwner, fiber.StatusForbidden, "NOT_OWNER"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnknownUnit, fiber.StatusNotFound, "UNKNOWN_UNIT"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUnitInUse, fiber.StatusConflict, "UNIT_IN_USE"},
	{domain.ErrBaseUnitProtected, fiber.StatusConflict, "BASE_UNIT_PROTECTED"},
	{domain.ErrBaseUnitMissing, fiber.StatusConflict, "BASE_UNIT_MISSING"},
	{domain.ErrDuplicateBaseUnit, fiber.StatusConflict, "DUPLICATE_BASE_UNIT"},
	{domain.ErrWarehouseNotEmpty, fiber.StatusConflict, "WAREHOUSE_NOT_EMPTY"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrExceedsOrderedQuantity, fiber.StatusUnprocessableEntity, "EXCEEDS_ORDERED_QUANTITY"},
	{domain.ErrExceedsWarehousedQuantity, fiber.StatusUnprocessableEntity, "EXCEEDS_WAREHOUSED_QUANTITY"},
	{domain.ErrAlreadyAssigned, fiber.StatusConflict, "ALREADY_ASSIGNED"},
	{domain.ErrWorkItemClosed, fiber.StatusConflict, "WORK_ITEM_CLOSED"},
	{domain.ErrInvalidTransition, fiber.StatusUnprocessableEntity, "INVALID_TRANSITION"},
}

// Mensajes por código e idioma. El español es el idioma por defecto.
var messages = map[string][3]string{
	//                           es, en, vi
	"VALIDATION":                  {"datos inválidos", "invalid input", "dữ liệu không hợp lệ"},
	"INVALID_BODY":                {"cuerpo inválido", "invalid request body", "nội dung yêu cầu không hợp lệ"},
	"INVALID_MULTIPLIER":          {"el multiplicador debe ser >= 1", "multiplier must be >= 1", "hệ số quy đổi phải >= 1"},
	"UNAUTHORIZED":                {"no autorizado", "unauthorized", "chưa xác thực"},
	"MISSING_TOKEN":               {"Authorization header requerido", "Authorization header required", "thiếu header Authorization"},
	"INVALID_TOKEN":               {"token inválido o expirado", "invalid or expired token", "token không hợp lệ hoặc đã hết hạn"},
	"FORBIDDEN":                   {"acceso denegado", "access denied", "không có quyền truy cập"},
	"NOT_OWNER":                   {"el usuario no es el responsable de la orden", "user is not the handler of this work item", "người dùng không phải người phụ trách đơn"},
	"NOT_FOUND":                   {"recurso no encontrado", "resource not found", "không tìm thấy"},
	"UNKNOWN_UNIT":                {"unidad desconocida", "unknown unit", "đơn vị không tồn tại"},
	"DUPLICATE":                   {"recurso duplicado", "duplicate resource", "dữ liệu bị trùng"},
	"CONFLICT":                    {"conflicto con el estado actual", "conflict with current state", "xung đột với trạng thái hiện tại"},
	"UNIT_IN_USE":                 {"la unidad está referenciada por movimientos", "unit is referenced by movements", "đơn vị đang được dùng trong sổ kho"},
	"BASE_UNIT_PROTECTED":         {"la unidad base está protegida", "base unit is protected", "không thể xoá đơn vị cơ sở"},
	"BASE_UNIT_MISSING":           {"el catálogo no tiene unidad base", "catalog has no base unit", "chưa có đơn vị cơ sở"},
	"DUPLICATE_BASE_UNIT":         {"ya existe una unidad base", "a base unit already exists", "đã tồn tại đơn vị cơ sở"},
	"WAREHOUSE_NOT_EMPTY":         {"la bodega tiene saldo distinto de cero", "warehouse still holds stock", "kho vẫn còn tồn"},
	"INSUFFICIENT_STOCK":          {"stock insuficiente", "insufficient stock", "không đủ tồn kho"},
	"EXCEEDS_ORDERED_QUANTITY":    {"la cantidad supera lo pedido", "quantity exceeds ordered quantity", "số lượng vượt quá số lượng đặt"},
	"EXCEEDS_WAREHOUSED_QUANTITY": {"la cantidad supera lo ya almacenado", "quantity exceeds warehoused quantity", "số lượng vượt quá số đã nhập/xuất kho"},
	"ALREADY_ASSIGNED":            {"la orden ya está asignada a otro responsable", "work item is already assigned", "đơn đã có người phụ trách"},
	"WORK_ITEM_CLOSED":            {"la orden está cerrada", "work item is closed", "đơn đã đóng"},
	"INVALID_TRANSITION":          {"transición de estado inválida", "invalid status transition", "chuyển trạng thái không hợp lệ"},
	"ROUTE_NOT_FOUND":             {"ruta no encontrada", "route not found", "không tìm thấy đường dẫn"},
	"INTERNAL":                    {"error interno", "internal error", "lỗi hệ thống"},
}

var supportedLanguages = []language.Tag{language.Spanish, language.English, language.Vietnamese}

var (
	languageMatcher = language.NewMatcher(supportedLanguages)
	messageCatalog  = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Spanish))
	for code, texts := range messages {
		for i, tag := range supportedLanguages {
			_ = b.SetString(tag, code, texts[i])
		}
	}
	return b
}

// printerFor elige el idioma a partir de Accept-Language.
func printerFor(c *fiber.Ctx) *message.Printer {
	tags, _, _ := language.ParseAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
	_, idx, _ := languageMatcher.Match(tags...)
	return message.NewPrinter(supportedLanguages[idx], message.Catalog(messageCatalog))
}

// respondCode escribe dto.ErrorResponse con el mensaje localizado del código.
func respondCode(c *fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: printerFor(c).Sprintf(code)})
}

// classify devuelve status y código de un error de dominio; ok=false si no es conocido.
func classify(err error) (int, string, bool) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, m.code, true
		}
	}
	return 0, "", false
}

// writeError responde un error de dominio. Los errores desconocidos suben al ErrorHandler.
func writeError(c *fiber.Ctx, err error) error {
	if status, code, ok := classify(err); ok {
		return respondCode(c, status, code)
	}
	return err
}

// ErrorHandler manejador de errores de Fiber: registra los 5xx y responde sin filtrar detalles internos.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if fe.Code == fiber.StatusNotFound {
				return respondCode(c, fe.Code, "ROUTE_NOT_FOUND")
			}
			if fe.Code < fiber.StatusInternalServerError {
				return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
			}
		}
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error no controlado")
		return respondCode(c, fiber.StatusInternalServerError, "INTERNAL")
	}
}
