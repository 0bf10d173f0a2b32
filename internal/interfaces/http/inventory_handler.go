package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
	"github.com/jhoicas/Inventario-eventos/internal/application/inventory"
	"github.com/jhoicas/Inventario-eventos/internal/application/overview"
	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

// InventoryHandler maneja los movimientos de stock (protegido).
type InventoryHandler struct {
	uc       *inventory.RegisterMovementUseCase
	plan     *inventory.SupplyPlanUseCase
	overview *overview.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, plan *inventory.SupplyPlanUseCase, ov *overview.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, plan: plan, overview: ov}
}

// Relocate godoc
// @Summary      Trasladar ítems entre ubicaciones
// @Description  Cada fila se valida y envía por separado; las filas con monto inválido se omiten.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RelocateRequest  true  "origen, destino y filas item_id/amount"
// @Success      200   {object}  dto.BatchResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/inventory/relocate [post]
func (h *InventoryHandler) Relocate(c *fiber.Ctx) error {
	var in dto.RelocateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res := h.uc.RelocateBatch(c.Context(), in.SourceLocationID, in.DestinationLocationID, in.Rows)
	return batchResponse(c, res)
}

// Supply godoc
// @Summary      Abastecer una ubicación
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplyRequest  true  "destino y filas item_id/amount"
// @Success      200   {object}  dto.BatchResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/inventory/supply [post]
func (h *InventoryHandler) Supply(c *fiber.Ctx) error {
	var in dto.SupplyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res := h.uc.SupplyBatch(c.Context(), in.DestinationLocationID, in.Rows)
	return batchResponse(c, res)
}

// Consume godoc
// @Summary      Consumir en sitio
// @Description  amount con signo (negativo devuelve) o target: se consume stock - target.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeRequest  true  "location_id, item_id y amount o target"
// @Success      200   {object}  dto.MovementOutcomeDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/consume [post]
func (h *InventoryHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	var out inventory.Outcome
	if in.Target != "" {
		record, err := h.overview.Record(in.LocationID, in.ItemID)
		if err != nil {
			return respondError(c, err)
		}
		out = h.uc.ConsumeToTarget(c.Context(), record, in.Target)
	} else if amount, ok := inventory.ParseAmount(in.Amount); ok {
		out = h.uc.Consume(c.Context(), in.LocationID, in.ItemID, amount)
	} else {
		out = inventory.Outcome{
			Movement: entity.Movement{Type: entity.MovementTypeConsume, SourceLocationID: in.LocationID, ItemID: in.ItemID},
			Status:   inventory.StatusSkipped,
		}
	}

	if out.Status == inventory.StatusForbidden {
		return respondError(c, domain.ErrForbidden)
	}
	return c.JSON(inventory.ToOutcomeDTO(out))
}

// SupplyPlan godoc
// @Summary      Plan "abastecer todo"
// @Description  Filas prellenadas con el faltante positivo, mayor faltante primero.
// @Tags         missing
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "filtrar por ubicación"
// @Param        item_id      query  string  false  "filtrar por ítem"
// @Success      200  {array}   dto.SupplyPlanRowDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/missing/supply-plan [get]
func (h *InventoryHandler) SupplyPlan(c *fiber.Ctx) error {
	rows, err := h.plan.GeneratePlan(missingFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(rows),
		"rows":  rows,
	})
}

// SupplyAll godoc
// @Summary      Abastecer todos los faltantes de una ubicación
// @Tags         missing
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true  "ubicación destino"
// @Success      200  {object}  dto.BatchResultDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/missing/supply-all [post]
func (h *InventoryHandler) SupplyAll(c *fiber.Ctx) error {
	res, err := h.plan.SupplyAll(c.Context(), c.Query("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	return batchResponse(c, res)
}

// batchResponse 403 si ninguna fila pudo enviarse por permiso; si no, el resumen del lote.
func batchResponse(c *fiber.Ctx, res inventory.BatchResult) error {
	forbidden := 0
	for _, o := range res.Outcomes {
		if o.Status == inventory.StatusForbidden {
			forbidden++
		}
	}
	if forbidden > 0 && forbidden == len(res.Outcomes) {
		return respondError(c, domain.ErrForbidden)
	}
	return c.JSON(inventory.ToBatchDTO(res))
}
