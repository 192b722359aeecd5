package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Errores del catálogo de unidades. Se rechaza la petición sin cambios de estado.
var (
	ErrUnknownUnit       = errors.New("unidad desconocida")
	ErrInvalidMultiplier = errors.New("multiplicador inválido: debe ser >= 1")
	ErrUnitInUse         = errors.New("la unidad está referenciada por movimientos")
	ErrBaseUnitProtected = errors.New("la unidad base está protegida")
	ErrBaseUnitMissing   = errors.New("el catálogo no tiene unidad base")
	ErrDuplicateBaseUnit = errors.New("ya existe una unidad base")
	ErrWarehouseNotEmpty = errors.New("la bodega tiene saldo distinto de cero")
)

// Errores del libro de inventario. La transacción del movimiento se aborta completa.
var (
	ErrInsufficientStock         = errors.New("stock insuficiente")
	ErrExceedsOrderedQuantity    = errors.New("la cantidad supera lo pedido")
	ErrExceedsWarehousedQuantity = errors.New("la cantidad supera lo ya almacenado")
)

// Errores de asignación y flujo de trabajo. Se rechazan en el update condicional.
var (
	ErrAlreadyAssigned   = errors.New("la orden ya está asignada a otro responsable")
	ErrNotOwner          = errors.New("el usuario no es el responsable de la orden")
	ErrWorkItemClosed    = errors.New("la orden está cerrada")
	ErrInvalidTransition = errors.New("transición de estado inválida")
)
