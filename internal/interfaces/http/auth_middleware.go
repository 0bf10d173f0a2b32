package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

// LocalSession key de c.Locals con la sesión validada.
const LocalSession = "session"

// SessionValidator valida un token contra la sesión vigente (*auth.SessionUseCase).
type SessionValidator interface {
	Validate(token string) (entity.Session, error)
}

// AuthMiddleware valida el Bearer Token y deja la sesión vigente en c.Locals.
// EventSource no permite cabeceras, así que también se acepta ?token=.
func AuthMiddleware(validator SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Query("token")
		if authHeader := c.Get("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
			}
			tokenString = strings.TrimSpace(parts[1])
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		sess, err := validator.Validate(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido, expirado o de una sesión anterior"})
		}
		c.Locals(LocalSession, sess)
		return c.Next()
	}
}

// GetSession devuelve la sesión del contexto (después del middleware de auth).
func GetSession(c *fiber.Ctx) entity.Session {
	s, ok := c.Locals(LocalSession).(entity.Session)
	if !ok {
		return entity.GuestSession()
	}
	return s
}
