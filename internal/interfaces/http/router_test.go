package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-eventos/internal/application/auth"
	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
	"github.com/jhoicas/Inventario-eventos/internal/application/inventory"
	"github.com/jhoicas/Inventario-eventos/internal/application/overview"
	"github.com/jhoicas/Inventario-eventos/internal/application/ports"
	"github.com/jhoicas/Inventario-eventos/internal/application/ports/mocks"
	"github.com/jhoicas/Inventario-eventos/internal/application/reports"
	"github.com/jhoicas/Inventario-eventos/internal/application/stocksync"
	"github.com/jhoicas/Inventario-eventos/internal/application/store"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
	"github.com/jhoicas/Inventario-eventos/internal/infrastructure/metrics"
	"github.com/jhoicas/Inventario-eventos/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Inventario-eventos/internal/interfaces/http"
	"github.com/jhoicas/Inventario-eventos/pkg/notify"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	eventCode    = "https://api.example.org/logistics/events/E1/overview"
	locationCode = "https://api.example.org/vendor/locations/ext-L1"
)

type testEnv struct {
	app    *fiber.App
	store  *store.Store
	api    *mocks.StockAPI
	ctl    *stocksync.Controller
	toasts *notify.Hub[ports.Toast]
}

// buildTestApp arma el router completo sobre el store real y la API mockeada.
func buildTestApp(t *testing.T) *testEnv {
	t.Helper()
	st := store.New()
	api := new(mocks.StockAPI)
	toasts := notify.NewHub[ports.Toast]()
	notifier := ports.NotifierFunc(toasts.Publish)
	collector := metrics.New(false)

	ctl := stocksync.NewController(api, nil, st, stocksync.Config{Metrics: collector})
	sessions := auth.NewSessionUseCase(st, ctl, notifier, auth.JWTConfig{Secret: "test-secret", ExpMinutes: 5, Issuer: "test"}, nil)
	movements := inventory.NewRegisterMovementUseCase(api, ctl, st, notifier, collector, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Context:          context.Background(),
		Store:            st,
		Sessions:         sessions,
		Sync:             ctl,
		Overview:         overview.NewUseCase(st),
		RegisterMovement: movements,
		SupplyPlan:       inventory.NewSupplyPlanUseCase(st, movements),
		Reports:          reports.NewPDFUseCase(st, pdf.NewMarotoPDFGenerator("es-CO")),
		Toasts:           toasts,
		Metrics:          collector.Handler(),
	})
	return &testEnv{app: app, store: st, api: api, ctl: ctl, toasts: toasts}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// scan escanea el código y devuelve el token de la sesión nueva.
func (e *testEnv) scan(t *testing.T, code string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/session/scan", "", dto.ScanRequest{Code: code})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

// resolveScannedLocation resuelve ext-L1 → L1, como hace la vista de detalle al montarse.
func (e *testEnv) resolveScannedLocation(t *testing.T) {
	t.Helper()
	e.api.On("ResolveInternalLocationID", mock.Anything, "ext-L1").Return(entity.EventLocation{ID: "L1", Name: "Bar"}, nil)
	_, err := e.ctl.ResolveLocation(context.Background(), "ext-L1")
	require.NoError(t, err)
}

func amount(n int64) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(n)) })
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión y autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestScan_CodigoNoReconocidoResponde422YAvisaUnaVez(t *testing.T) {
	env := buildTestApp(t)
	toasts, stop := env.toasts.Subscribe(4)
	defer stop()

	resp := env.do(t, http.MethodPost, "/api/session/scan", "", dto.ScanRequest{Code: "hola"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, auth.ToastScanFailed, (<-toasts).Code)
	assert.Len(t, toasts, 0, "un solo aviso por intento")
	assert.Equal(t, entity.PermissionGuest, env.store.Session().Permission)
}

func TestScan_EventoHabilitaRutasDeAdministrador(t *testing.T) {
	env := buildTestApp(t)
	resp := env.do(t, http.MethodPost, "/api/session/scan", "", dto.ScanRequest{Code: eventCode})
	out := decode[dto.SessionResponse](t, resp)

	assert.Equal(t, string(entity.PermissionEventAdmin), out.Permission)
	assert.Equal(t, "E1", out.EventID)
	assert.Contains(t, out.Routes, "overview.matrix")
	assert.Contains(t, out.Routes, "move")
}

func TestAuth_SinTokenResponde401(t *testing.T) {
	env := buildTestApp(t)
	resp := env.do(t, http.MethodGet, "/api/overview/matrix", "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuth_TokenDeSesionAnteriorResponde401(t *testing.T) {
	env := buildTestApp(t)
	old := env.scan(t, eventCode)

	reset := env.do(t, http.MethodDelete, "/api/session", "", nil)
	reset.Body.Close()

	resp := env.do(t, http.MethodGet, "/api/overview/stock-by-item", old, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_TokenPorQuery(t *testing.T) {
	env := buildTestApp(t)
	token := env.scan(t, eventCode)

	resp := env.do(t, http.MethodGet, "/api/sync/loading?token="+token, "", nil)
	out := decode[dto.LoadingResponse](t, resp)
	assert.Empty(t, out.Loading)
}

func TestRequireRoute_UsuarioDeUbicacionBloqueadoEnMatriz(t *testing.T) {
	env := buildTestApp(t)
	token := env.scan(t, locationCode)

	resp := env.do(t, http.MethodGet, "/api/overview/matrix", token, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRoute_UsuarioDeUbicacionNoTraslada(t *testing.T) {
	env := buildTestApp(t)
	token := env.scan(t, locationCode)

	resp := env.do(t, http.MethodPost, "/api/inventory/relocate", token, dto.RelocateRequest{
		SourceLocationID: "L1", DestinationLocationID: "L2",
		Rows: []dto.AmountRow{{ItemID: "1", Amount: "1"}},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	env.api.AssertNotCalled(t, "Relocate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ──────────────────────────────────────────────────────────────────────────────
// Vistas y lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestMountView_CargaYAgrupa(t *testing.T) {
	env := buildTestApp(t)
	token := env.scan(t, eventCode)

	env.api.On("AllStock", mock.Anything, "E1").Return([]entity.StockRecord{
		{ItemID: "1", LocationID: "L1", LocationName: "Bar", Stock: 3, ItemGroupID: "g1", ItemGroupName: "Bebidas"},
		{ItemID: "2", LocationID: "L1", LocationName: "Bar", Stock: 0, ItemGroupID: "g2", ItemGroupName: "Material"},
	}, nil)
	env.api.On("AllItems", mock.Anything, "E1").Return([]entity.Item{
		{ID: "1", Name: "Cola", Unit: "l", ItemGroup: entity.ItemGroup{ID: "g1", Name: "Bebidas"}},
	}, nil)

	resp := env.do(t, http.MethodPost, "/api/views?wait=true", token, dto.MountViewRequest{Kind: "event_overview"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	view := decode[dto.ViewResponse](t, resp)
	assert.NotEmpty(t, view.ID)

	groups := decode[[]dto.StockGroupDTO](t, env.do(t, http.MethodGet, "/api/overview/stock-by-item", token, nil))
	require.Len(t, groups, 2)
	assert.Equal(t, "Bebidas", groups[0].Name)

	closeResp := env.do(t, http.MethodDelete, "/api/views/"+view.ID, token, nil)
	closeResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, closeResp.StatusCode)

	again := env.do(t, http.MethodPost, "/api/views/"+view.ID+"/refresh", token, nil)
	again.Body.Close()
	assert.Equal(t, http.StatusNotFound, again.StatusCode)
}

func TestMountView_TipoDesconocidoResponde400(t *testing.T) {
	env := buildTestApp(t)
	token := env.scan(t, eventCode)

	resp := env.do(t, http.MethodPost, "/api/views", token, dto.MountViewRequest{Kind: "otra"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLocationStock_NoCargadaResponde404(t *testing.T) {
	env := buildTestApp(t)
	token := env.scan(t, eventCode)

	resp := env.do(t, http.MethodGet, "/api/locations/L7/stock", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestRelocate_OmiteFilasInvalidasYRefetchea(t *testing.T) {
	env := buildTestApp(t)
	token := env.scan(t, eventCode)

	env.api.On("Relocate", mock.Anything, amount(2), "L1", "L2", "1").Return([]entity.ValidationMessage(nil), nil).Once()
	env.api.On("LocationStock", mock.Anything, mock.Anything).Return([]entity.StockRecord{}, nil)
	env.api.On("AllStock", mock.Anything, "E1").Return([]entity.StockRecord{}, nil)

	resp := env.do(t, http.MethodPost, "/api/inventory/relocate", token, dto.RelocateRequest{
		SourceLocationID:      "L1",
		DestinationLocationID: "L2",
		Rows: []dto.AmountRow{
			{ItemID: "1", Amount: "2"},
			{ItemID: "2", Amount: "0"},
			{ItemID: "3", Amount: ""},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.BatchResultDTO](t, resp)

	assert.Equal(t, 1, out.Submitted)
	assert.Equal(t, 2, out.Skipped)
	assert.Equal(t, 1, out.Succeeded)
	env.api.AssertNumberOfCalls(t, "Relocate", 1)
	env.api.AssertCalled(t, "LocationStock", mock.Anything, "L1")
	env.api.AssertCalled(t, "LocationStock", mock.Anything, "L2")
}

func TestConsume_ObjetivoSeConvierteEnDelta(t *testing.T) {
	env := buildTestApp(t)
	token := env.scan(t, locationCode)
	env.resolveScannedLocation(t)
	env.store.Dispatch(store.SetLocationStock("L1", entity.NewLocationStock([]entity.StockRecord{
		{ItemID: "1", LocationID: "L1", Stock: 10},
	})))

	env.api.On("Consume", mock.Anything, amount(3), "L1", "1").Return([]entity.ValidationMessage(nil), nil).Once()
	env.api.On("LocationStock", mock.Anything, "L1").Return([]entity.StockRecord{{ItemID: "1", LocationID: "L1", Stock: 7}}, nil)

	resp := env.do(t, http.MethodPost, "/api/inventory/consume", token, dto.ConsumeRequest{LocationID: "L1", ItemID: "1", Target: "7"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.MovementOutcomeDTO](t, resp)

	assert.Equal(t, inventory.StatusOK, out.Status)
	assert.Equal(t, "3", out.Amount)
	assert.Equal(t, 7, env.store.Snapshot().LocationStock["L1"].ItemByID["1"].Stock, "el store refleja el refetch")
}

func TestConsume_MensajesDeValidacion(t *testing.T) {
	env := buildTestApp(t)
	token := env.scan(t, locationCode)
	env.resolveScannedLocation(t)

	env.api.On("Consume", mock.Anything, amount(5), "L1", "1").
		Return([]entity.ValidationMessage{{Field: "amount", Message: "exceeds stock"}}, nil).Once()
	env.api.On("LocationStock", mock.Anything, "L1").Return([]entity.StockRecord{}, nil)

	out := decode[dto.MovementOutcomeDTO](t, env.do(t, http.MethodPost, "/api/inventory/consume", token,
		dto.ConsumeRequest{LocationID: "L1", ItemID: "1", Amount: "5"}))

	assert.Equal(t, inventory.StatusRejected, out.Status)
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "amount", out.Messages[0].Field)
	env.api.AssertCalled(t, "LocationStock", mock.Anything, "L1")
}

func TestConsume_UsuarioDeUbicacionSobreOtraUbicacionResponde403(t *testing.T) {
	env := buildTestApp(t)
	token := env.scan(t, locationCode)
	env.resolveScannedLocation(t)

	resp := env.do(t, http.MethodPost, "/api/inventory/consume", token, dto.ConsumeRequest{LocationID: "L2", ItemID: "1", Amount: "1"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	env.api.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMountView_EventoAjenoResponde403(t *testing.T) {
	env := buildTestApp(t)
	token := env.scan(t, eventCode)

	resp := env.do(t, http.MethodPost, "/api/views", token, dto.MountViewRequest{Kind: "event_overview", EventID: "E2"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	env.api.AssertNotCalled(t, "AllStock", mock.Anything, mock.Anything)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestMissingPDF_DevuelvePDF(t *testing.T) {
	env := buildTestApp(t)
	token := env.scan(t, eventCode)
	env.store.Dispatch(store.ReplaceAllStock([]entity.StockRecord{
		{ItemID: "1", LocationID: "L1", MissingCount: 4, DisplayName: "Cola", ItemGroupName: "Bebidas"},
	}))

	resp := env.do(t, http.MethodGet, "/api/reports/missing.pdf", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestMetrics_Expuestas(t *testing.T) {
	env := buildTestApp(t)
	resp := env.do(t, http.MethodGet, "/metrics", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
