package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
	"github.com/jhoicas/Inventario-eventos/internal/application/stocksync"
)

// SyncHandler estado de las cargas en vuelo.
type SyncHandler struct {
	ctl *stocksync.Controller
}

// NewSyncHandler construye el handler.
func NewSyncHandler(ctl *stocksync.Controller) *SyncHandler {
	return &SyncHandler{ctl: ctl}
}

// Loading godoc
// @Summary      Claves con carga en vuelo
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LoadingResponse
// @Router       /api/sync/loading [get]
func (h *SyncHandler) Loading(c *fiber.Ctx) error {
	keys := h.ctl.LoadingKeys()
	out := dto.LoadingResponse{Loading: make([]dto.LoadingKeyDTO, len(keys))}
	for i, k := range keys {
		out.Loading[i] = dto.LoadingKeyDTO{Kind: string(k.Kind), ID: k.ID}
	}
	return c.JSON(out)
}
