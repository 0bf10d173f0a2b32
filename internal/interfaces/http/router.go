package http

import (
	"context"
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/Inventario-eventos/internal/application/auth"
	"github.com/jhoicas/Inventario-eventos/internal/application/inventory"
	"github.com/jhoicas/Inventario-eventos/internal/application/overview"
	"github.com/jhoicas/Inventario-eventos/internal/application/reports"
	"github.com/jhoicas/Inventario-eventos/internal/application/stocksync"
	"github.com/jhoicas/Inventario-eventos/internal/application/store"
	"github.com/jhoicas/Inventario-eventos/internal/domain/session"
	"github.com/jhoicas/Inventario-eventos/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	// Context acota la vida de las vistas montadas y de los streams SSE.
	Context          context.Context
	Store            *store.Store
	Sessions         *auth.SessionUseCase
	Sync             *stocksync.Controller
	Overview         *overview.UseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	SupplyPlan       *inventory.SupplyPlanUseCase
	Reports          *reports.PDFUseCase
	Toasts           ToastSource
	// Metrics handler Prometheus; nil = sin /metrics.
	Metrics nethttp.Handler
	Logger  *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Sesión (público: el escáner siempre es alcanzable)
	sessionHandler := NewSessionHandler(deps.Sessions)
	api.Post("/session/scan", sessionHandler.Scan)
	api.Get("/session", sessionHandler.Get)
	api.Delete("/session", sessionHandler.Reset)

	// Rutas protegidas (requieren el token de la sesión vigente)
	protected := api.Group("/", AuthMiddleware(deps.Sessions))

	// Vistas (el permiso se verifica por tipo de vista al montar)
	views := protected.Group("/views")
	viewHandler := NewViewHandler(deps.Context, deps.Sync)
	views.Post("/", viewHandler.Mount)
	views.Get("/", viewHandler.List)
	views.Post("/:id/refresh", viewHandler.Refresh)
	views.Post("/:id/focus", viewHandler.Focus)
	views.Delete("/:id", viewHandler.Close)

	syncHandler := NewSyncHandler(deps.Sync)
	protected.Get("/sync/loading", syncHandler.Loading)

	eventsHandler := NewEventsHandler(deps.Context, deps.Store, deps.Sync, deps.Toasts, deps.Logger)
	protected.Get("/events", eventsHandler.Stream)

	// Resumen del evento
	overviewHandler := NewOverviewHandler(deps.Overview)
	ov := protected.Group("/overview")
	ov.Get("/items", RequireRoute(session.RouteOverviewByItem), overviewHandler.Items)
	ov.Get("/item-options", RequireRoute(session.RouteSupply), overviewHandler.ItemOptions)
	ov.Get("/stock-by-item", RequireRoute(session.RouteOverviewByItem), overviewHandler.StockByItem)
	ov.Get("/stock-by-location", RequireRoute(session.RouteOverviewByLoc), overviewHandler.StockByLocation)
	ov.Get("/matrix", RequireRoute(session.RouteStockMatrix), overviewHandler.Matrix)

	// Ubicaciones
	reportHandler := NewReportHandler(deps.Reports)
	locations := protected.Group("/locations")
	locations.Get("/", RequireRoute(session.RouteOverviewByLoc), overviewHandler.Locations)
	locations.Get("/:id/stock", RequireRoute(session.RouteLocationDetails), overviewHandler.LocationStock)
	locations.Get("/:id/label.pdf", RequireRoute(session.RouteOverviewByLoc), reportHandler.LocationLabel)

	// Faltantes
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.SupplyPlan, deps.Overview)
	missing := protected.Group("/missing", RequireRoute(session.RouteMissingItems))
	missing.Get("/", overviewHandler.Missing)
	missing.Get("/supply-plan", inventoryHandler.SupplyPlan)
	missing.Post("/supply-all", inventoryHandler.SupplyAll)

	// Movimientos
	inv := protected.Group("/inventory")
	inv.Post("/relocate", RequireRoute(session.RouteMove), inventoryHandler.Relocate)
	inv.Post("/supply", RequireRoute(session.RouteSupply), inventoryHandler.Supply)
	inv.Post("/consume", RequireRoute(session.RouteStockItemDetails), inventoryHandler.Consume)

	// Reportes
	rep := protected.Group("/reports")
	rep.Get("/missing.pdf", RequireRoute(session.RouteMissingItems), reportHandler.MissingPDF)
	rep.Get("/labels.pdf", RequireRoute(session.RouteOverviewByLoc), reportHandler.AllLabels)
}
