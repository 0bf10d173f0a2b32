package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-eventos/internal/application/reports"
	"github.com/jhoicas/Inventario-eventos/internal/domain/aggregation"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
	"github.com/jhoicas/Inventario-eventos/internal/infrastructure/pdf"
)

func TestRenderLocationLabels_GeneraPDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("es-CO")
	doc, err := g.RenderLocationLabels(context.Background(), []reports.LocationLabel{
		{LocationID: "1", Name: "Bar", Reference: "https://host/vendor/locations/1"},
		{LocationID: "2", Name: "Caja", Reference: "https://host/vendor/locations/2"},
		{LocationID: "3", Name: "Bodega", Reference: "https://host/vendor/locations/3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestRenderMissingReport_GeneraPDF(t *testing.T) {
	rows := []entity.StockRecord{
		{ItemID: "1", LocationID: "L1", Stock: 1200, MissingCount: 3, Status: entity.StockStatusImportant, DisplayName: "Cola", Unit: "l", ItemGroupName: "Bebidas"},
		{ItemID: "2", LocationID: "L1", Stock: 0, MissingCount: 1, Status: entity.StockStatusWarning, DisplayName: "Vasos"},
	}
	g := pdf.NewMarotoPDFGenerator("no-es-un-locale-!!")
	doc, err := g.RenderMissingReport(context.Background(), reports.MissingReport{
		EventID:        "E1",
		LocationFilter: "L1",
		GeneratedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Groups:         aggregation.GroupByItemGroup(rows),
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestRenderMissingReport_SinFilas(t *testing.T) {
	doc, err := pdf.NewMarotoPDFGenerator("").RenderMissingReport(context.Background(), reports.MissingReport{EventID: "E1"})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}
