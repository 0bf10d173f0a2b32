// Package bootstrap arma el núcleo (store, transporte, sincronización y casos de uso)
// compartido por el servidor HTTP y la CLI.
package bootstrap

import (
	"github.com/jhoicas/Inventario-eventos/internal/application/auth"
	"github.com/jhoicas/Inventario-eventos/internal/application/inventory"
	"github.com/jhoicas/Inventario-eventos/internal/application/overview"
	"github.com/jhoicas/Inventario-eventos/internal/application/ports"
	"github.com/jhoicas/Inventario-eventos/internal/application/reports"
	"github.com/jhoicas/Inventario-eventos/internal/application/stocksync"
	"github.com/jhoicas/Inventario-eventos/internal/application/store"
	"github.com/jhoicas/Inventario-eventos/internal/infrastructure/graphql"
	"github.com/jhoicas/Inventario-eventos/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Inventario-eventos/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-eventos/pkg/config"
	"github.com/jhoicas/Inventario-eventos/pkg/logger"
	"github.com/jhoicas/Inventario-eventos/pkg/notify"
)

// Core componentes cableados.
type Core struct {
	Store            *store.Store
	Toasts           *notify.Hub[ports.Toast]
	Metrics          *metrics.Collector
	Sync             *stocksync.Controller
	Sessions         *auth.SessionUseCase
	Overview         *overview.UseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	SupplyPlan       *inventory.SupplyPlanUseCase
	Reports          *reports.PDFUseCase
}

// New construye el núcleo a partir de la configuración.
// withRuntimeMetrics agrega los colectores de proceso y runtime de Go.
func New(cfg *config.Config, log *logger.Logger, withRuntimeMetrics bool) *Core {
	st := store.New()
	toasts := notify.NewHub[ports.Toast]()
	collector := metrics.New(withRuntimeMetrics)

	toastLog := log.Component("toast")
	notifier := ports.NotifierFunc(func(t ports.Toast) {
		toastLog.Debug().Str("kind", t.Kind).Str("code", t.Code).Str("text", t.Text).Msg("aviso")
		toasts.Publish(t)
	})

	client := graphql.NewClient(graphql.Config{
		Scheme:      cfg.API.Scheme,
		DefaultHost: cfg.API.DefaultHost,
		GraphQLPath: cfg.API.GraphQLPath,
		WSPath:      cfg.API.WSPath,
		Token:       cfg.API.Token,
		Timeout:     cfg.API.Timeout,
	}, st, log)
	gateway := graphql.NewStockGateway(client)

	ctl := stocksync.NewController(gateway, graphql.NewSubscriber(client), st, stocksync.Config{
		Logger:  log,
		Metrics: collector,
	})
	sessions := auth.NewSessionUseCase(st, ctl, notifier, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	movements := inventory.NewRegisterMovementUseCase(gateway, ctl, st, notifier, collector, log)

	return &Core{
		Store:            st,
		Toasts:           toasts,
		Metrics:          collector,
		Sync:             ctl,
		Sessions:         sessions,
		Overview:         overview.NewUseCase(st),
		RegisterMovement: movements,
		SupplyPlan:       inventory.NewSupplyPlanUseCase(st, movements),
		Reports:          reports.NewPDFUseCase(st, infrapdf.NewMarotoPDFGenerator(cfg.Report.Locale)),
	}
}
