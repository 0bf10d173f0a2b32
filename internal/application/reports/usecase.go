// Package reports arma los documentos imprimibles a partir del store: etiquetas QR de
// ubicaciones y el reporte de faltantes.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-eventos/internal/application/store"
	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/aggregation"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
	"github.com/jhoicas/Inventario-eventos/internal/domain/session"
)

// StockSnapshot lectura consistente del store.
type StockSnapshot interface {
	Snapshot() store.State
}

// PDFUseCase genera etiquetas y reportes en PDF. Solo lee del store; no dispara consultas.
type PDFUseCase struct {
	stock    StockSnapshot
	renderer Renderer
	now      func() time.Time
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(stock StockSnapshot, renderer Renderer) *PDFUseCase {
	return &PDFUseCase{stock: stock, renderer: renderer, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *PDFUseCase) WithClock(now func() time.Time) *PDFUseCase {
	uc.now = now
	return uc
}

// LocationLabels etiquetas de una ubicación o, con locationID vacío, de todas las cargadas.
// El QR lleva el id externo, el mismo que resuelve el escáner; las ubicaciones sin id
// externo no tienen etiqueta.
//
// Retorna:
//   - domain.ErrForbidden  si la sesión no administra un evento.
//   - domain.ErrNotFound   si no hay ubicaciones etiquetables o el id no existe.
func (uc *PDFUseCase) LocationLabels(ctx context.Context, locationID string) ([]byte, string, error) {
	st := uc.stock.Snapshot()
	if !session.Allows(st.Session, session.CapEventStock) {
		return nil, "", domain.ErrForbidden
	}

	var labels []LocationLabel
	for _, g := range st.Locations {
		for _, loc := range g.Children {
			if locationID != "" && loc.ID != locationID {
				continue
			}
			if loc.ExternalID == "" {
				continue
			}
			labels = append(labels, LocationLabel{
				LocationID: loc.ID,
				Name:       loc.Name,
				Reference:  session.LocationReference(st.Session.APIHost, loc.ExternalID),
			})
		}
	}
	if len(labels) == 0 {
		return nil, "", domain.ErrNotFound
	}

	doc, err := uc.renderer.RenderLocationLabels(ctx, labels)
	if err != nil {
		return nil, "", fmt.Errorf("reports: etiquetas: %w", err)
	}
	name := "etiquetas-" + st.Session.EventID + ".pdf"
	if locationID != "" {
		name = "etiqueta-" + locationID + ".pdf"
	}
	return doc, name, nil
}

// MissingItems reporte de faltantes del evento con los filtros indicados.
func (uc *PDFUseCase) MissingItems(ctx context.Context, filter aggregation.MissingFilter) ([]byte, string, error) {
	st := uc.stock.Snapshot()
	if !session.Allows(st.Session, session.CapEventStock) {
		return nil, "", domain.ErrForbidden
	}

	missing := aggregation.FilterMissing(st.AllStock, filter)
	report := MissingReport{
		EventID:        st.Session.EventID,
		LocationFilter: filter.LocationID,
		ItemFilter:     filter.ItemID,
		GeneratedAt:    uc.now(),
		Groups:         aggregation.GroupByItemGroup[entity.StockRecord](missing),
	}

	doc, err := uc.renderer.RenderMissingReport(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reports: faltantes: %w", err)
	}
	return doc, fmt.Sprintf("faltantes-%s-%s.pdf", st.Session.EventID, report.GeneratedAt.Format("20060102-1504")), nil
}
