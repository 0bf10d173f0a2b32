package reports

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-eventos/internal/domain/aggregation"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

// LocationLabel etiqueta imprimible: el QR codifica la referencia que lee el escáner.
type LocationLabel struct {
	LocationID string
	Name       string
	Reference  string
}

// MissingReport datos del reporte de faltantes agrupado por grupo de ítems.
type MissingReport struct {
	EventID        string
	LocationFilter string
	ItemFilter     string
	GeneratedAt    time.Time
	Groups         []aggregation.Group[entity.StockRecord]
}

// Total registros del reporte.
func (r MissingReport) Total() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Children)
	}
	return n
}

// Renderer genera los documentos (infraestructura pdf).
type Renderer interface {
	RenderLocationLabels(ctx context.Context, labels []LocationLabel) ([]byte, error)
	RenderMissingReport(ctx context.Context, report MissingReport) ([]byte, error)
}
