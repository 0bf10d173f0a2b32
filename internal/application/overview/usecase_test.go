package overview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-eventos/internal/application/overview"
	"github.com/jhoicas/Inventario-eventos/internal/application/store"
	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/aggregation"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

func eventStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	st.Dispatch(store.SetEventSession("E1", "host"))
	st.Dispatch(store.ReplaceAllItems([]entity.Item{
		{ID: "1", Name: "Cola", Unit: "l", ItemGroup: entity.ItemGroup{ID: "g1", Name: "Bebidas"}},
		{ID: "2", Name: "Vasos", Unit: "pz", ItemGroup: entity.ItemGroup{ID: "g2", Name: "Material"}},
	}))
	st.Dispatch(store.ReplaceAllStock([]entity.StockRecord{
		{ItemID: "1", LocationID: "L1", LocationName: "Bar", Stock: 5, MissingCount: 2, ItemGroupID: "g1", ItemGroupName: "Bebidas"},
		{ItemID: "2", LocationID: "L1", LocationName: "Bar", Stock: 0, ItemGroupID: "g2", ItemGroupName: "Material"},
		{ItemID: "1", LocationID: "L2", LocationName: "Caja", Stock: 1, MissingCount: -1, ItemGroupID: "g1", ItemGroupName: "Bebidas"},
	}))
	st.Dispatch(store.ReplaceLocations(entity.NewLocationHierarchy("Locations", []entity.Location{{ID: "L1", Name: "Bar"}, {ID: "L2", Name: "Caja"}})))
	st.Dispatch(store.SetLocationStock("L1", entity.NewLocationStock([]entity.StockRecord{
		{ItemID: "1", LocationID: "L1", Stock: 5, DisplayName: "Cola", Unit: "l", ItemGroupID: "g1", ItemGroupName: "Bebidas"},
		{ItemID: "2", LocationID: "L1", Stock: 0, DisplayName: "Vasos", Unit: "pz", ItemGroupID: "g2", ItemGroupName: "Material"},
	})))
	return st
}

func TestStockByItem_AgrupaEnOrdenDeAparicion(t *testing.T) {
	uc := overview.NewUseCase(eventStore(t))

	groups, err := uc.StockByItem()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "g1", groups[0].ID)
	assert.Len(t, groups[0].Items, 2)
	assert.Len(t, groups[1].Items, 1)
}

func TestStockByLocation_Agrupa(t *testing.T) {
	uc := overview.NewUseCase(eventStore(t))

	locs, err := uc.StockByLocation()
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "Bar", locs[0].Name)
	assert.Len(t, locs[0].StockItems, 2)
}

func TestItems_EtiquetaNombreUnidad(t *testing.T) {
	uc := overview.NewUseCase(eventStore(t))

	groups, err := uc.Items()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Cola (l)", groups[0].Items[0].Label)
}

func TestMatrix_CeldasPorUbicacion(t *testing.T) {
	uc := overview.NewUseCase(eventStore(t))

	m, err := uc.Matrix()
	require.NoError(t, err)
	require.Len(t, m.Locations, 2)
	require.Len(t, m.Sections, 2)

	cola := m.Sections[0].Rows[0]
	assert.Equal(t, "1", cola.ItemID)
	assert.Equal(t, 5, cola.Cells[0].Stock)
	assert.Equal(t, 1, cola.Cells[1].Stock)

	vasos := m.Sections[1].Rows[0]
	assert.True(t, vasos.Cells[0].Present)
	assert.False(t, vasos.Cells[1].Present)
}

func TestMissing_FiltroPorUbicacion(t *testing.T) {
	uc := overview.NewUseCase(eventStore(t))

	all, err := uc.Missing(aggregation.MissingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total, "faltantes negativos también cuentan")

	l2, err := uc.Missing(aggregation.MissingFilter{LocationID: "L2"})
	require.NoError(t, err)
	assert.Equal(t, 1, l2.Total)
}

func TestLocationStock_OrdenaPorStockYFiltraOpciones(t *testing.T) {
	uc := overview.NewUseCase(eventStore(t))

	d, err := uc.LocationStock("L1")
	require.NoError(t, err)
	require.Len(t, d.Records, 2)
	assert.Equal(t, "2", d.Records[0].ItemID, "stock ascendente")

	require.Len(t, d.RelocationOptions, 1, "solo ítems con stock > 0")
	assert.Equal(t, "Cola (l) [5]", d.RelocationOptions[0].Options[0].Label)

	_, err = uc.LocationStock("L9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecord_BuscaEnUbicacionCargada(t *testing.T) {
	uc := overview.NewUseCase(eventStore(t))

	r, err := uc.Record("L1", "1")
	require.NoError(t, err)
	assert.Equal(t, 5, r.Stock)

	_, err = uc.Record("L2", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLecturasDeEvento_RequierenAdministrador(t *testing.T) {
	st := store.New()
	st.Dispatch(store.SetLocationSession("L1", "host"))
	uc := overview.NewUseCase(st)

	_, err := uc.StockByItem()
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Matrix()
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.LocationStock("L1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "LocationUser sí puede leer stock por ubicación")
}
