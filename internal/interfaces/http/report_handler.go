package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-eventos/internal/application/reports"
)

// ReportHandler documentos PDF (etiquetas QR y faltantes).
type ReportHandler struct {
	uc *reports.PDFUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.PDFUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// MissingPDF godoc
// @Summary      Reporte de faltantes en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        location_id  query  string  false  "filtrar por ubicación"
// @Param        item_id      query  string  false  "filtrar por ítem"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/missing.pdf [get]
func (h *ReportHandler) MissingPDF(c *fiber.Ctx) error {
	doc, name, err := h.uc.MissingItems(c.Context(), missingFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, doc, name)
}

// LocationLabel godoc
// @Summary      Etiqueta QR de una ubicación
// @Description  El QR contiene la referencia que el escáner reconoce como sesión de ubicación.
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "id de la ubicación"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/label.pdf [get]
func (h *ReportHandler) LocationLabel(c *fiber.Ctx) error {
	doc, name, err := h.uc.LocationLabels(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, doc, name)
}

// AllLabels etiquetas de todas las ubicaciones cargadas.
// GET /api/reports/labels.pdf
func (h *ReportHandler) AllLabels(c *fiber.Ctx) error {
	doc, name, err := h.uc.LocationLabels(c.Context(), "")
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, doc, name)
}

func sendPDF(c *fiber.Ctx, doc []byte, name string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name))
	return c.Send(doc)
}
