package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
	"github.com/jhoicas/Inventario-eventos/internal/domain/session"
)

// RequireRoute devuelve un middleware que verifica que la ruta de presentación sea
// alcanzable con la sesión del token. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 403 Forbidden → la ruta no es alcanzable con el permiso vigente.
func RequireRoute(route session.Route) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !session.ReachableRoutes(GetSession(c)).Has(route) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "la ruta '" + string(route) + "' no está disponible para el permiso actual",
			})
		}
		return c.Next()
	}
}
