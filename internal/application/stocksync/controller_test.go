package stocksync_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-eventos/internal/application/ports/mocks"
	"github.com/jhoicas/Inventario-eventos/internal/application/stocksync"
	"github.com/jhoicas/Inventario-eventos/internal/application/store"
	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

func adminStore(eventID string) *store.Store {
	s := store.New()
	s.Dispatch(store.SetEventSession(eventID, "api.example.org"))
	return s
}

func newController(api *mocks.StockAPI, subs *mocks.Subscriber, s *store.Store) *stocksync.Controller {
	if subs == nil {
		return stocksync.NewController(api, nil, s, stocksync.Config{})
	}
	return stocksync.NewController(api, subs, s, stocksync.Config{})
}

// blockingCall configura una llamada que avisa al entrar y espera release.
func blockingCall(call *mock.Call) (started, release chan struct{}) {
	started = make(chan struct{})
	release = make(chan struct{})
	call.Run(func(mock.Arguments) {
		close(started)
		<-release
	})
	return started, release
}

func TestFetchAllStock_RespuestaViejaSeDescarta(t *testing.T) {
	api := new(mocks.StockAPI)
	s := adminStore("E1")
	ctl := newController(api, nil, s)

	older := []entity.StockRecord{{ItemID: "viejo"}}
	newer := []entity.StockRecord{{ItemID: "nuevo"}}
	started, release := blockingCall(api.On("AllStock", mock.Anything, "E1").Return(older, nil).Once())
	api.On("AllStock", mock.Anything, "E1").Return(newer, nil).Once()

	done := make(chan error, 1)
	go func() { done <- ctl.FetchAllStock(context.Background(), "E1") }()
	<-started

	require.NoError(t, ctl.FetchAllStock(context.Background(), "E1"))
	assert.Equal(t, newer, s.Snapshot().AllStock)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, newer, s.Snapshot().AllStock, "la respuesta más vieja no sobrescribe")
	api.AssertExpectations(t)
}

func TestFetchLocationStock_ConsumidorCanceladoNoEscribe(t *testing.T) {
	api := new(mocks.StockAPI)
	s := adminStore("E1")
	ctl := newController(api, nil, s)

	started, release := blockingCall(api.On("LocationStock", mock.Anything, "L1").
		Return([]entity.StockRecord{{ItemID: "a", LocationID: "L1"}}, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ctl.FetchLocationStock(ctx, "L1") }()
	<-started
	cancel()
	close(release)

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.Snapshot().LocationStock)
}

func TestFetchAllStock_CambioDeSesionDescartaRespuesta(t *testing.T) {
	api := new(mocks.StockAPI)
	s := adminStore("E1")
	ctl := newController(api, nil, s)

	started, release := blockingCall(api.On("AllStock", mock.Anything, "E1").
		Return([]entity.StockRecord{{ItemID: "a"}}, nil))

	done := make(chan error, 1)
	go func() { done <- ctl.FetchAllStock(context.Background(), "E1") }()
	<-started
	s.Dispatch(store.SetEventSession("E2", "api.example.org"))
	close(release)

	require.NoError(t, <-done)
	st := s.Snapshot()
	assert.Empty(t, st.AllStock, "datos del evento anterior no entran en la sesión nueva")
	assert.Equal(t, "E2", st.Session.EventID)
}

func TestLoading_BanderaDuranteLaConsulta(t *testing.T) {
	api := new(mocks.StockAPI)
	s := adminStore("E1")
	ctl := newController(api, nil, s)
	key := stocksync.Key{Kind: stocksync.KindAllItems, ID: "E1"}

	changes, unsubscribe := ctl.SubscribeLoading(4)
	defer unsubscribe()

	started, release := blockingCall(api.On("AllItems", mock.Anything, "E1").Return([]entity.Item{{ID: "1"}}, nil))
	done := make(chan error, 1)
	go func() { done <- ctl.FetchAllItems(context.Background(), "E1") }()
	<-started

	assert.True(t, ctl.Loading(key))
	assert.Equal(t, []stocksync.Key{key}, ctl.LoadingKeys())
	close(release)
	require.NoError(t, <-done)

	assert.False(t, ctl.Loading(key))
	assert.Equal(t, stocksync.LoadingChange{Key: key, Loading: true}, <-changes)
	assert.Equal(t, stocksync.LoadingChange{Key: key, Loading: false}, <-changes)
}

func TestFetch_ErrorDeTransporteNoTocaElStore(t *testing.T) {
	api := new(mocks.StockAPI)
	s := adminStore("E1")
	s.Dispatch(store.ReplaceAllStock([]entity.StockRecord{{ItemID: "previo"}}))
	ctl := newController(api, nil, s)

	api.On("AllStock", mock.Anything, "E1").Return(nil, domain.ErrTransport)

	err := ctl.FetchAllStock(context.Background(), "E1")
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, []entity.StockRecord{{ItemID: "previo"}}, s.Snapshot().AllStock)
	assert.False(t, ctl.Loading(stocksync.Key{Kind: stocksync.KindAllStock, ID: "E1"}))
}

func TestFetch_PermisosFiltranConsultas(t *testing.T) {
	api := new(mocks.StockAPI)

	guest := newController(api, nil, store.New())
	assert.ErrorIs(t, guest.FetchAllStock(context.Background(), "E1"), domain.ErrForbidden)
	assert.ErrorIs(t, guest.FetchLocationStock(context.Background(), "L1"), domain.ErrForbidden)

	s := store.New()
	s.Dispatch(store.SetLocationSession("ext-1", "h"))
	user := newController(api, nil, s)
	assert.ErrorIs(t, user.FetchAllItems(context.Background(), "E1"), domain.ErrForbidden)
	assert.ErrorIs(t, user.FetchLocations(context.Background(), "E1"), domain.ErrForbidden)

	api.On("ResolveInternalLocationID", mock.Anything, "ext-1").Return(entity.EventLocation{ID: "L1"}, nil)
	api.On("LocationStock", mock.Anything, "L1").Return([]entity.StockRecord{{ItemID: "a", LocationID: "L1"}}, nil)
	_, err := user.ResolveLocation(context.Background(), "ext-1")
	require.NoError(t, err)
	require.NoError(t, user.FetchLocationStock(context.Background(), "L1"))
	assert.Contains(t, s.Snapshot().LocationStock, "L1")

	api.AssertNotCalled(t, "AllStock", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "AllItems", mock.Anything, mock.Anything)
}

func TestFetch_EventoAjenoSeRechaza(t *testing.T) {
	api := new(mocks.StockAPI)
	s := adminStore("E1")
	ctl := newController(api, nil, s)

	assert.ErrorIs(t, ctl.FetchAllStock(context.Background(), "E2"), domain.ErrForbidden)
	assert.ErrorIs(t, ctl.FetchAllItems(context.Background(), "E2"), domain.ErrForbidden)
	assert.ErrorIs(t, ctl.FetchLocations(context.Background(), "E2"), domain.ErrForbidden)

	api.AssertNotCalled(t, "AllStock", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "AllItems", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "Locations", mock.Anything, mock.Anything)
	snap := s.Snapshot()
	assert.Empty(t, snap.AllStock)
	assert.Empty(t, snap.AllItems)
	assert.Equal(t, "E1", snap.Session.EventID)
}

func TestFetchLocationStock_UsuarioDeUbicacionSoloLaSuya(t *testing.T) {
	api := new(mocks.StockAPI)
	s := store.New()
	s.Dispatch(store.SetLocationSession("ext-1", "h"))
	ctl := newController(api, nil, s)

	assert.ErrorIs(t, ctl.FetchLocationStock(context.Background(), "L1"), domain.ErrForbidden, "sin resolver no hay alcance")
	assert.False(t, ctl.LocationInScope("L1"))

	api.On("ResolveInternalLocationID", mock.Anything, "ext-1").Return(entity.EventLocation{ID: "L1"}, nil)
	api.On("LocationStock", mock.Anything, "L1").Return([]entity.StockRecord{{ItemID: "a", LocationID: "L1"}}, nil)
	_, err := ctl.ResolveLocation(context.Background(), "ext-1")
	require.NoError(t, err)

	assert.True(t, ctl.LocationInScope("L1"))
	require.NoError(t, ctl.FetchLocationStock(context.Background(), "L1"))
	assert.ErrorIs(t, ctl.FetchLocationStock(context.Background(), "L2"), domain.ErrForbidden)

	api.AssertNotCalled(t, "LocationStock", mock.Anything, "L2")
	assert.NotContains(t, s.Snapshot().LocationStock, "L2")
}

func TestFetch_SinEventoDevuelveErrNoEventScope(t *testing.T) {
	ctl := newController(new(mocks.StockAPI), nil, adminStore("E1"))
	assert.ErrorIs(t, ctl.FetchAllStock(context.Background(), ""), domain.ErrNoEventScope)
}

func TestFetchLocations_ConstruyeGrupoRaiz(t *testing.T) {
	api := new(mocks.StockAPI)
	s := adminStore("E1")
	ctl := newController(api, nil, s)
	api.On("Locations", mock.Anything, "E1").Return([]entity.Location{{ID: "1", Name: "Bar"}, {ID: "2", Name: "Caja"}}, nil)

	require.NoError(t, ctl.FetchLocations(context.Background(), "E1"))

	groups := s.Snapshot().Locations
	require.Len(t, groups, 1)
	assert.Equal(t, entity.RootLocationGroupID, groups[0].ID)
	assert.Equal(t, stocksync.DefaultRootLocationName, groups[0].Name)
	assert.Len(t, groups[0].Children, 2)
}

func TestResolveLocation_CacheaPorIDExterno(t *testing.T) {
	api := new(mocks.StockAPI)
	s := store.New()
	s.Dispatch(store.SetLocationSession("ext-1", "h"))
	ctl := newController(api, nil, s)
	api.On("ResolveInternalLocationID", mock.Anything, "ext-1").
		Return(entity.EventLocation{ID: "L1", Name: "Bar"}, nil).Once()

	for i := 0; i < 2; i++ {
		loc, err := ctl.ResolveLocation(context.Background(), "ext-1")
		require.NoError(t, err)
		assert.Equal(t, "L1", loc.ID)
	}
	api.AssertNumberOfCalls(t, "ResolveInternalLocationID", 1)
}

func TestRefetchAffected_UbicacionesUnicasYStockDelEvento(t *testing.T) {
	api := new(mocks.StockAPI)
	s := adminStore("E1")
	ctl := newController(api, nil, s)
	api.On("LocationStock", mock.Anything, "L1").Return([]entity.StockRecord{}, nil).Once()
	api.On("LocationStock", mock.Anything, "L2").Return([]entity.StockRecord{}, nil).Once()
	api.On("AllStock", mock.Anything, "E1").Return([]entity.StockRecord{}, nil).Once()

	require.NoError(t, ctl.RefetchAffected(context.Background(), "L1", "L2", "L1", ""))
	api.AssertExpectations(t)
}

func TestRefetchAffected_UsuarioDeUbicacionSinStockDelEvento(t *testing.T) {
	api := new(mocks.StockAPI)
	s := store.New()
	s.Dispatch(store.SetLocationSession("ext-1", "h"))
	ctl := newController(api, nil, s)
	api.On("ResolveInternalLocationID", mock.Anything, "ext-1").Return(entity.EventLocation{ID: "L1"}, nil)
	api.On("LocationStock", mock.Anything, "L1").Return([]entity.StockRecord{}, nil).Once()
	_, err := ctl.ResolveLocation(context.Background(), "ext-1")
	require.NoError(t, err)

	require.NoError(t, ctl.RefetchAffected(context.Background(), "L1"))
	api.AssertNotCalled(t, "AllStock", mock.Anything, mock.Anything)
}

// ── Vistas ────────────────────────────────────────────────────────────────────

func TestMount_CargaInicialYRefetchPorMovimiento(t *testing.T) {
	api := new(mocks.StockAPI)
	subs := new(mocks.Subscriber)
	s := adminStore("E1")
	ctl := newController(api, subs, s)

	var calls atomic.Int32
	api.On("LocationStock", mock.Anything, "L1").
		Return([]entity.StockRecord{{ItemID: "a", LocationID: "L1", Stock: 3}}, nil).
		Run(func(mock.Arguments) { calls.Add(1) })
	events := make(chan struct{}, 1)
	subs.On("SubscribeMovements", mock.Anything, "").Return(events, nil)

	v, err := ctl.Mount(context.Background(), stocksync.ViewSpec{Kind: stocksync.ViewLocationDetails, LocationID: "L1"})
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.WaitReady(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, s.Snapshot().LocationStock, "L1")

	events <- struct{}{}
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestMount_LocationDetailsResuelveIDExterno(t *testing.T) {
	api := new(mocks.StockAPI)
	s := store.New()
	s.Dispatch(store.SetLocationSession("ext-1", "h"))
	ctl := newController(api, nil, s)
	api.On("ResolveInternalLocationID", mock.Anything, "ext-1").Return(entity.EventLocation{ID: "L7"}, nil)
	api.On("LocationStock", mock.Anything, "L7").Return([]entity.StockRecord{{ItemID: "a", LocationID: "L7"}}, nil)

	v, err := ctl.Mount(context.Background(), stocksync.ViewSpec{Kind: stocksync.ViewLocationDetails, ExternalLocationID: "ext-1"})
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.WaitReady(context.Background()))
	assert.Equal(t, "L7", v.LocationID())
	assert.Contains(t, s.Snapshot().LocationStock, "L7")
}

func TestMount_MoveFiltraSuscripcionPorOrigen(t *testing.T) {
	api := new(mocks.StockAPI)
	subs := new(mocks.Subscriber)
	ctl := newController(api, subs, adminStore("E1"))
	api.On("Locations", mock.Anything, "E1").Return([]entity.Location{}, nil)
	api.On("LocationStock", mock.Anything, "L1").Return([]entity.StockRecord{}, nil)
	subscribed := make(chan struct{})
	subs.On("SubscribeMovements", mock.Anything, "L1").Return(make(chan struct{}), nil).
		Run(func(mock.Arguments) { close(subscribed) })

	v, err := ctl.Mount(context.Background(), stocksync.ViewSpec{Kind: stocksync.ViewMove, LocationID: "L1"})
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.WaitReady(context.Background()))
	select {
	case <-subscribed:
	case <-time.After(time.Second):
		t.Fatal("la vista no abrió la suscripción")
	}
}

func TestMount_EventoAjenoSeRechaza(t *testing.T) {
	api := new(mocks.StockAPI)
	ctl := newController(api, nil, adminStore("E1"))

	for _, kind := range []stocksync.ViewKind{stocksync.ViewEventOverview, stocksync.ViewMissingItems, stocksync.ViewMove} {
		_, err := ctl.Mount(context.Background(), stocksync.ViewSpec{Kind: kind, EventID: "E2"})
		assert.ErrorIs(t, err, domain.ErrForbidden, "vista %s", kind)
	}
	assert.Empty(t, ctl.Views())
	api.AssertNotCalled(t, "AllStock", mock.Anything, mock.Anything)
}

func TestMount_PermisoInsuficiente(t *testing.T) {
	s := store.New()
	s.Dispatch(store.SetLocationSession("ext-1", "h"))
	ctl := newController(new(mocks.StockAPI), nil, s)

	_, err := ctl.Mount(context.Background(), stocksync.ViewSpec{Kind: stocksync.ViewMove})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = ctl.Mount(context.Background(), stocksync.ViewSpec{Kind: stocksync.ViewEventOverview})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = ctl.Mount(context.Background(), stocksync.ViewSpec{Kind: "desconocida"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestView_CloseCancelaYDesregistra(t *testing.T) {
	api := new(mocks.StockAPI)
	ctl := newController(api, nil, adminStore("E1"))
	api.On("AllStock", mock.Anything, "E1").Return([]entity.StockRecord{}, nil)
	api.On("AllItems", mock.Anything, "E1").Return([]entity.Item{}, nil)

	v, err := ctl.Mount(context.Background(), stocksync.ViewSpec{Kind: stocksync.ViewEventOverview})
	require.NoError(t, err)
	require.NoError(t, v.WaitReady(context.Background()))

	_, ok := ctl.View(v.ID())
	assert.True(t, ok)

	v.Close()
	v.Close()
	<-v.Done()
	_, ok = ctl.View(v.ID())
	assert.False(t, ok)
	assert.True(t, errors.Is(v.Refresh(), domain.ErrViewClosed))
}
