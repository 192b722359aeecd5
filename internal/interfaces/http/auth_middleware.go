package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ledger/internal/domain/workflow"
	"github.com/jhoicas/warehouse-ledger/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalUserID    = "user_id"
	LocalRole      = "role"
	LocalIsManager = "is_manager"
)

// AuthMiddleware valida el Bearer Token JWT y deja user_id, role e is_manager en c.Locals.
// managerRoles son los roles que cuentan como gerente (comparación sin mayúsculas).
func AuthMiddleware(jwtSecret string, managerRoles []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return respondCode(c, fiber.StatusUnauthorized, "MISSING_TOKEN")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respondCode(c, fiber.StatusUnauthorized, "INVALID_TOKEN")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return respondCode(c, fiber.StatusUnauthorized, "MISSING_TOKEN")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || claims.UserID == "" {
			return respondCode(c, fiber.StatusUnauthorized, "INVALID_TOKEN")
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalIsManager, jwt.IsManager(claims.Role, managerRoles))
		return c.Next()
	}
}

// RequireManager permite pasar solo a gerentes. Debe usarse DESPUÉS de AuthMiddleware.
func RequireManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return respondCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED")
		}
		if !IsManager(c) {
			return respondCode(c, fiber.StatusForbidden, "FORBIDDEN")
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// IsManager indica si el rol del token es de gerente.
func IsManager(c *fiber.Ctx) bool {
	b, _ := c.Locals(LocalIsManager).(bool)
	return b
}

func actorFrom(c *fiber.Ctx) workflow.Actor {
	return workflow.Actor{UserID: GetUserID(c), IsManager: IsManager(c)}
}
