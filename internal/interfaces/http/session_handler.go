package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-eventos/internal/application/auth"
	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
)

// SessionHandler maneja el escaneo de códigos y el reset de sesión.
type SessionHandler struct {
	uc *auth.SessionUseCase
}

// NewSessionHandler construye el handler de sesión.
func NewSessionHandler(uc *auth.SessionUseCase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// Scan godoc
// @Summary      Escanear código de sesión
// @Description  Interpreta el texto de un QR de evento o de ubicación; reinicia la sesión y activa la nueva.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanRequest  true  "texto decodificado del QR"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/session/scan [post]
func (h *SessionHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code es requerido"})
	}
	resp, err := h.uc.Scan(in.Code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary      Sesión vigente
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.uc.Current())
}

// Reset godoc
// @Summary      Reiniciar sesión
// @Description  Vuelve a Guest, cierra las vistas y purga los datos cargados.
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session [delete]
func (h *SessionHandler) Reset(c *fiber.Ctx) error {
	return c.JSON(h.uc.Reset())
}
