package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-eventos/internal/application/overview"
	"github.com/jhoicas/Inventario-eventos/internal/domain/aggregation"
)

// OverviewHandler lecturas agregadas del stock cargado.
type OverviewHandler struct {
	uc *overview.UseCase
}

// NewOverviewHandler construye el handler.
func NewOverviewHandler(uc *overview.UseCase) *OverviewHandler {
	return &OverviewHandler{uc: uc}
}

// StockByItem godoc
// @Summary      Stock del evento por grupo de ítems
// @Tags         overview
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.StockGroupDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/overview/stock-by-item [get]
func (h *OverviewHandler) StockByItem(c *fiber.Ctx) error {
	out, err := h.uc.StockByItem()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// StockByLocation godoc
// @Summary      Stock del evento por ubicación
// @Tags         overview
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.LocationStockDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/overview/stock-by-location [get]
func (h *OverviewHandler) StockByLocation(c *fiber.Ctx) error {
	out, err := h.uc.StockByLocation()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Items godoc
// @Summary      Catálogo de ítems agrupado
// @Tags         overview
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ItemGroupDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/overview/items [get]
func (h *OverviewHandler) Items(c *fiber.Ctx) error {
	out, err := h.uc.Items()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ItemOptions selector "nombre (unidad)" para abastecer.
// GET /api/overview/item-options
func (h *OverviewHandler) ItemOptions(c *fiber.Ctx) error {
	out, err := h.uc.ItemOptions()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Matrix godoc
// @Summary      Matriz ítems × ubicaciones
// @Tags         overview
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MatrixDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/overview/matrix [get]
func (h *OverviewHandler) Matrix(c *fiber.Ctx) error {
	out, err := h.uc.Matrix()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Locations godoc
// @Summary      Jerarquía de ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.LocationGroupDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/locations [get]
func (h *OverviewHandler) Locations(c *fiber.Ctx) error {
	out, err := h.uc.Locations()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LocationStock godoc
// @Summary      Stock de una ubicación
// @Description  Registros por stock ascendente, agrupados, y opciones de traslado (stock > 0).
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "id interno de la ubicación"
// @Success      200  {object}  dto.LocationDetailDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/stock [get]
func (h *OverviewHandler) LocationStock(c *fiber.Ctx) error {
	out, err := h.uc.LocationStock(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Missing godoc
// @Summary      Faltantes del evento
// @Tags         missing
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "filtrar por ubicación"
// @Param        item_id      query  string  false  "filtrar por ítem"
// @Success      200  {object}  dto.MissingListDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/missing [get]
func (h *OverviewHandler) Missing(c *fiber.Ctx) error {
	out, err := h.uc.Missing(missingFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func missingFilter(c *fiber.Ctx) aggregation.MissingFilter {
	return aggregation.MissingFilter{LocationID: c.Query("location_id"), ItemID: c.Query("item_id")}
}
