// Package pdf genera los documentos imprimibles del evento con Maroto v2.
//
// Etiquetas (A4, dos por fila):
//
//	┌──────────────────────────┬──────────────────────────┐
//	│  QR referencia ubicación │  QR referencia ubicación │
//	│  Nombre de la ubicación  │  Nombre de la ubicación  │
//	└──────────────────────────┴──────────────────────────┘
//
// Reporte de faltantes (A4):
//
//	┌─────────────────────────────────────────────────────┐
//	│  HEADER: Evento + filtros │ Fecha de generación     │
//	│  Por grupo: Ítem | Ubicación | Stock | Faltante | … │
//	│  FOOTER: total de registros                         │
//	└─────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Inventario-eventos/internal/application/reports"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary   = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray      = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarning   = &props.Color{Red: 214, Green: 137, Blue: 16}
	colorImportant = &props.Color{Red: 192, Green: 57, Blue: 43}
)

var _ reports.Renderer = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa reports.Renderer usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. locale (p. ej. "es-CO") define el
// separador de miles de las cantidades; vacío o inválido usa español.
func NewMarotoPDFGenerator(locale string) *MarotoPDFGenerator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	return &MarotoPDFGenerator{printer: message.NewPrinter(tag)}
}

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()
	return maroto.New(cfg)
}

// RenderLocationLabels genera una hoja de etiquetas QR, dos por fila.
func (g *MarotoPDFGenerator) RenderLocationLabels(_ context.Context, labels []reports.LocationLabel) ([]byte, error) {
	m := newDocument("Etiquetas de ubicaciones")

	for i := 0; i < len(labels); i += 2 {
		cols := []core.Col{labelCol(labels[i])}
		if i+1 < len(labels) {
			cols = append(cols, labelCol(labels[i+1]))
		} else {
			cols = append(cols, col.New(6))
		}
		m.AddRows(row.New(80).Add(cols...))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiquetas: %w", err)
	}
	return doc.GetBytes(), nil
}

func labelCol(l reports.LocationLabel) core.Col {
	return col.New(6).Add(
		code.NewQr(l.Reference, props.Rect{Percent: 75, Center: true, Top: 2}),
		text.New(l.Name, props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Center, Color: colorPrimary, Top: 66,
		}),
		text.New(l.Reference, props.Text{
			Size: 6.5, Align: align.Center, Color: colorGray, Top: 73,
		}),
	)
}

// RenderMissingReport genera el reporte de faltantes agrupado por grupo de ítems.
func (g *MarotoPDFGenerator) RenderMissingReport(_ context.Context, report reports.MissingReport) ([]byte, error) {
	m := newDocument("Faltantes " + report.EventID)

	m.AddRows(g.reportHeaderRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(report.Groups) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin faltantes para los filtros indicados.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, grp := range report.Groups {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New(nonEmpty(grp.Name, "Sin grupo"), props.Text{
				Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
			}),
		)))
		m.AddRows(tableHeaderRow())
		for _, r := range grp.Children {
			m.AddRows(g.detailRow(r))
		}
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(g.printer.Sprintf("Total de registros: %d", report.Total()), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte de faltantes: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) reportHeaderRow(report reports.MissingReport) core.Row {
	filters := "Todas las ubicaciones"
	if report.LocationFilter != "" {
		filters = "Ubicación: " + report.LocationFilter
	}
	if report.ItemFilter != "" {
		filters += "   |   Ítem: " + report.ItemFilter
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("FALTANTES DEL EVENTO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(filters, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Evento "+report.EventID, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorGray, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Ítem", 4, align.Left),
		h("Ubicación", 3, align.Left),
		h("Stock", 2, align.Right),
		h("Faltante", 2, align.Right),
		h("Estado", 1, align.Center),
	)
}

func (g *MarotoPDFGenerator) detailRow(r entity.StockRecord) core.Row {
	name := r.DisplayName
	if r.Unit != "" {
		name += " (" + r.Unit + ")"
	}
	return row.New(6).Add(
		col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(3).Add(text.New(nonEmpty(r.LocationName, r.LocationID), props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(g.printer.Sprintf("%d", r.Stock), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(g.printer.Sprintf("%d", r.MissingCount), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
		col.New(1).Add(text.New(string(r.Status), props.Text{
			Size: 6.5, Align: align.Center, Top: 1.5, Color: statusColor(r.Status),
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusColor(s entity.StockStatus) *props.Color {
	switch s {
	case entity.StockStatusImportant:
		return colorImportant
	case entity.StockStatusWarning:
		return colorWarning
	default:
		return colorGray
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
