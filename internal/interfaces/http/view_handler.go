package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
	"github.com/jhoicas/Inventario-eventos/internal/application/stocksync"
	"github.com/jhoicas/Inventario-eventos/internal/domain"
)

// ViewHandler monta y controla vistas del controlador de sincronización.
// Las vistas sobreviven a la petición: se montan sobre el contexto de la aplicación.
type ViewHandler struct {
	ctl *stocksync.Controller
	ctx context.Context
}

// NewViewHandler construye el handler. ctx acota la vida de todas las vistas.
func NewViewHandler(ctx context.Context, ctl *stocksync.Controller) *ViewHandler {
	return &ViewHandler{ctl: ctl, ctx: ctx}
}

// Mount godoc
// @Summary      Montar vista
// @Description  Dispara la carga inicial y abre la suscripción de movimientos. Con wait=true responde al terminar la carga.
// @Tags         views
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body   dto.MountViewRequest  true  "kind y parámetros"
// @Param        wait  query  bool                  false "esperar la carga inicial"
// @Success      201   {object}  dto.ViewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/views [post]
func (h *ViewHandler) Mount(c *fiber.Ctx) error {
	var in dto.MountViewRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	v, err := h.ctl.Mount(h.ctx, stocksync.ViewSpec{
		Kind:               stocksync.ViewKind(in.Kind),
		EventID:            in.EventID,
		LocationID:         in.LocationID,
		ExternalLocationID: in.ExternalLocationID,
	})
	if err != nil {
		return respondError(c, err)
	}
	if c.QueryBool("wait") {
		if err := v.WaitReady(c.Context()); err != nil {
			v.Close()
			return respondError(c, err)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(toViewResponse(v))
}

// List godoc
// @Summary      Vistas montadas
// @Tags         views
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ViewResponse
// @Router       /api/views [get]
func (h *ViewHandler) List(c *fiber.Ctx) error {
	views := h.ctl.Views()
	out := make([]dto.ViewResponse, len(views))
	for i, v := range views {
		out[i] = toViewResponse(v)
	}
	return c.JSON(out)
}

// Refresh recarga todas las claves de la vista.
// POST /api/views/:id/refresh
func (h *ViewHandler) Refresh(c *fiber.Ctx) error {
	return h.reload(c, (*stocksync.View).Refresh)
}

// Focus recarga al volver la vista a primer plano.
// POST /api/views/:id/focus
func (h *ViewHandler) Focus(c *fiber.Ctx) error {
	return h.reload(c, (*stocksync.View).Focus)
}

// Close cancela las consultas en vuelo y la suscripción de la vista.
// DELETE /api/views/:id
func (h *ViewHandler) Close(c *fiber.Ctx) error {
	v, ok := h.ctl.View(c.Params("id"))
	if !ok {
		return respondError(c, domain.ErrNotFound)
	}
	v.Close()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ViewHandler) reload(c *fiber.Ctx, fn func(*stocksync.View) error) error {
	v, ok := h.ctl.View(c.Params("id"))
	if !ok {
		return respondError(c, domain.ErrNotFound)
	}
	if err := fn(v); err != nil {
		return respondError(c, err)
	}
	return c.JSON(toViewResponse(v))
}

func toViewResponse(v *stocksync.View) dto.ViewResponse {
	return dto.ViewResponse{ID: v.ID(), Kind: string(v.Spec().Kind), LocationID: v.LocationID()}
}
